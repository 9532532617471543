package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/library-circulation-go/circulation/oteladapters"
)

func newMetricsCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	for _, scope := range resourceMetrics.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	require.Failf(t, "metric not found", "metric %s was not collected", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_RecordDuration_InSeconds(t *testing.T) {
	// arrange
	collector, reader := newMetricsCollector()

	// act
	collector.RecordDuration("commandhandler_handle_duration_seconds", 250*time.Millisecond,
		map[string]string{"command_type": "IssueBorrowRequest", "status": "success"})

	// assert
	histogram, ok := collect(t, reader, "commandhandler_handle_duration_seconds").Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.25, histogram.DataPoints[0].Sum, 0.0001)

	expected := attribute.NewSet(
		attribute.String("command_type", "IssueBorrowRequest"),
		attribute.String("status", "success"),
	)
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expected))
}

func Test_MetricsCollector_IncrementCounter_IsSafeForConcurrentUse(t *testing.T) {
	// arrange
	collector, reader := newMetricsCollector()
	var wg sync.WaitGroup

	// act
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounterContext(context.Background(), "overdue_sweep_transitions_total", nil)
		}()
	}
	wg.Wait()

	// assert
	sum, ok := collect(t, reader, "overdue_sweep_transitions_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(20), sum.DataPoints[0].Value)
}

func Test_MetricsCollector_RecordValue_KeepsLastValue(t *testing.T) {
	// arrange
	collector, reader := newMetricsCollector()

	// act
	collector.RecordValue("circulation_open_requests", 3, nil)
	collector.RecordValueContext(context.Background(), "circulation_open_requests", 5, nil)

	// assert
	gauge, ok := collect(t, reader, "circulation_open_requests").Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 5.0, gauge.DataPoints[0].Value, 0.0001)
}
