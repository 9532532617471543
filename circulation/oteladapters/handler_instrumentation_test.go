package oteladapters_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/memengine"
	"github.com/AntonStoeckl/library-circulation-go/features/command/addcopy"
	"github.com/AntonStoeckl/library-circulation-go/shell"
	"github.com/AntonStoeckl/library-circulation-go/shell/observable"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

func Test_ObservableCommandWrapper_WithOtelAdapters(t *testing.T) {
	// arrange
	tracing, exporter := newTracingCollector()
	metrics, reader := newMetricsCollector()
	wrapper, err := observable.NewCommandWrapper[addcopy.Command, core.Copy](
		addcopy.NewCommandHandler(memengine.NewStore()),
		observable.WithCommandTracing[addcopy.Command, core.Copy](tracing),
		observable.WithCommandMetrics[addcopy.Command, core.Copy](metrics),
	)
	require.NoError(t, err)
	command := addcopy.BuildCommand(
		GivenUniqueID(t), GivenUniqueID(t), 1, decimal.NewFromInt(50000), "", GivenUniqueID(t), FakeClock(),
	)

	// act
	_, _, err = wrapper.Handle(context.Background(), command)

	// assert
	assert.NoError(t, err)
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, shell.SpanNameCommandHandle, spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)

	calls, ok := collect(t, reader, shell.CommandHandlerCallsMetric).Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, calls.DataPoints, 1)
}
