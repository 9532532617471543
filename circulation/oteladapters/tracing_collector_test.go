package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/library-circulation-go/circulation/oteladapters"
)

func newTracingCollector() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(provider.Tracer("test")), exporter
}

func spanAttribute(span tracetest.SpanStub, key string) (string, bool) {
	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) {
			return attr.Value.AsString(), true
		}
	}

	return "", false
}

func Test_TracingCollector_RecordsSpanWithStartAndFinishAttributes(t *testing.T) {
	// arrange
	collector, exporter := newTracingCollector()

	// act
	ctx, spanCtx := collector.StartSpan(context.Background(), "circulation.tx", map[string]string{"operation": "issue"})
	spanCtx.AddAttribute("request_id", "r-1")
	collector.FinishSpan(spanCtx, "success", map[string]string{"copies": "2"})

	// assert
	assert.True(t, trace.SpanFromContext(ctx).SpanContext().IsValid())
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "circulation.tx", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)

	for key, want := range map[string]string{"operation": "issue", "request_id": "r-1", "copies": "2"} {
		got, ok := spanAttribute(spans[0], key)
		assert.True(t, ok, "missing attribute %s", key)
		assert.Equal(t, want, got)
	}
}

func Test_TracingCollector_MapsStatuses(t *testing.T) {
	testCases := []struct {
		status      string
		wantCode    codes.Code
		wantOutcome string
	}{
		{status: "success", wantCode: codes.Ok},
		{status: "idempotent", wantCode: codes.Ok, wantOutcome: "idempotent"},
		{status: "rejected", wantCode: codes.Ok, wantOutcome: "rejected"},
		{status: "error", wantCode: codes.Error},
		{status: "canceled", wantCode: codes.Error},
		{status: "timeout", wantCode: codes.Error},
		{status: "concurrency_conflict", wantCode: codes.Error},
		{status: "something_else", wantCode: codes.Unset, wantOutcome: "something_else"},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			// arrange
			collector, exporter := newTracingCollector()

			// act
			_, spanCtx := collector.StartSpan(context.Background(), "op", nil)
			collector.FinishSpan(spanCtx, tc.status, nil)

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.wantCode, spans[0].Status.Code)

			outcome, ok := spanAttribute(spans[0], "outcome")
			if tc.wantOutcome == "" {
				assert.False(t, ok)
				return
			}

			assert.Equal(t, tc.wantOutcome, outcome)
		})
	}
}

func Test_TracingCollector_IgnoresForeignSpanContexts(t *testing.T) {
	// arrange
	collector, exporter := newTracingCollector()

	// act
	collector.FinishSpan(nil, "success", nil)

	// assert
	assert.Empty(t, exporter.GetSpans())
}
