package observable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/shell"
	"github.com/AntonStoeckl/library-circulation-go/shell/observable"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

type mockQuery struct{}

func (mockQuery) QueryType() string { return "TestQuery" }

type mockQueryHandler struct {
	result int
	err    error
}

func (h mockQueryHandler) Handle(_ context.Context, _ mockQuery) (int, error) {
	return h.result, h.err
}

func Test_QueryWrapper_Handle_Success(t *testing.T) {
	// arrange
	metricsCollector := NewMetricsCollectorSpy(true)
	logger := NewContextualLoggerSpy(true)
	wrapper, err := observable.NewQueryWrapper[mockQuery, int](
		mockQueryHandler{result: 42},
		observable.WithQueryMetrics[mockQuery, int](metricsCollector),
		observable.WithQueryLogging[mockQuery, int](logger),
	)
	assert.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithLabel("query_type", "TestQuery").
		WithStatus("success").
		Assert())
	assert.True(t, logger.HasInfoLog(shell.LogMsgQueryCompleted))
}

func Test_QueryWrapper_Handle_NotFound(t *testing.T) {
	// arrange
	tracingCollector := NewTracingCollectorSpy(true)
	wrapper, err := observable.NewQueryWrapper[mockQuery, int](
		mockQueryHandler{err: circulation.ErrNotFound},
		observable.WithQueryTracing[mockQuery, int](tracingCollector),
	)
	assert.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.ErrorIs(t, err, circulation.ErrNotFound)
	assert.True(t, tracingCollector.HasSpanRecordForName(shell.SpanNameQueryHandle).WithStatus("rejected").Assert())
}
