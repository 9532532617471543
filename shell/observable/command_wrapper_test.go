package observable_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/shell"
	"github.com/AntonStoeckl/library-circulation-go/shell/observable"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

type mockCommand struct{}

func (mockCommand) CommandType() string { return "TestCommand" }

type mockHandler struct {
	value  string
	result shell.HandlerResult
	err    error
	calls  []mockCommand
}

func (h *mockHandler) Handle(_ context.Context, command mockCommand) (string, shell.HandlerResult, error) {
	h.calls = append(h.calls, command)
	return h.value, h.result, h.err
}

func newWrapper(t *testing.T, handler *mockHandler) (
	*observable.CommandWrapper[mockCommand, string],
	*MetricsCollectorSpy,
	*TracingCollectorSpy,
	*ContextualLoggerSpy,
) {
	metricsCollector := NewMetricsCollectorSpy(true)
	tracingCollector := NewTracingCollectorSpy(true)
	contextualLogger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewCommandWrapper[mockCommand, string](
		handler,
		observable.WithCommandMetrics[mockCommand, string](metricsCollector),
		observable.WithCommandTracing[mockCommand, string](tracingCollector),
		observable.WithCommandContextualLogging[mockCommand, string](contextualLogger),
	)
	assert.NoError(t, err, "Should create wrapper")

	return wrapper, metricsCollector, tracingCollector, contextualLogger
}

func Test_CommandWrapper_Handle_Success_NonIdempotent(t *testing.T) {
	// arrange
	expectedResult := shell.HandlerResult{RetryAttempts: 1, LastErrorType: "none"}
	handler := &mockHandler{value: "done", result: expectedResult}
	wrapper, metricsCollector, tracingCollector, contextualLogger := newWrapper(t, handler)

	// act
	value, result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "done", value)
	assert.Equal(t, expectedResult, result)
	assert.Len(t, handler.calls, 1)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).
		WithLabel("command_type", "TestCommand").
		WithStatus("success").
		Assert(), "Should record success metric")
	assert.True(t, metricsCollector.HasDurationRecordForMetric(shell.CommandHandlerDurationMetric).
		WithStatus("success").
		Assert(), "Should record duration metric")
	assert.True(t, tracingCollector.HasSpanRecordForName(shell.SpanNameCommandHandle).
		WithStatus("success").
		WithStartAttribute("command_type", "TestCommand").
		Assert(), "Should finish span")
	assert.True(t, contextualLogger.HasInfoLog(shell.LogMsgCommandStarted))
	assert.True(t, contextualLogger.HasInfoLog(shell.LogMsgCommandCompleted))
}

func Test_CommandWrapper_Handle_Success_Idempotent(t *testing.T) {
	// arrange
	handler := &mockHandler{result: shell.HandlerResult{Idempotent: true, RetryAttempts: 1}}
	wrapper, metricsCollector, _, _ := newWrapper(t, handler)

	// act
	_, result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerIdempotentMetric).
		WithLabel("command_type", "TestCommand").
		Assert(), "Should record idempotent metric")
}

func Test_CommandWrapper_Handle_BusinessRejection_IsLoggedAtInfo(t *testing.T) {
	// arrange
	handler := &mockHandler{err: core.ErrMaxBooksReached, result: shell.HandlerResult{RetryAttempts: 1}}
	wrapper, metricsCollector, _, contextualLogger := newWrapper(t, handler)

	// act
	_, _, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.ErrorIs(t, err, core.ErrLimitExceeded)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerRejectedMetric).Assert())
	assert.True(t, contextualLogger.HasInfoLog(shell.LogMsgCommandRejected))
	assert.False(t, contextualLogger.HasErrorLog(shell.LogMsgCommandFailed))
}

func Test_CommandWrapper_Handle_RetriesExhausted_RecordsRetryMetrics(t *testing.T) {
	// arrange
	handler := &mockHandler{
		err: circulation.ErrConcurrencyConflict,
		result: shell.HandlerResult{
			RetryAttempts:    6,
			LastErrorType:    "concurrency_conflict",
			RetriesExhausted: true,
		},
	}
	wrapper, metricsCollector, _, contextualLogger := newWrapper(t, handler)

	// act
	_, _, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.ErrorIs(t, err, circulation.ErrConcurrencyConflict)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerRetriesMetric).
		WithLabel("attempt_number", "5").
		WithLabel("error_type", "concurrency_conflict").
		Assert())
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerMaxRetriesReachedMetric).Assert())
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerConcurrencyConflictMetric).Assert())
	assert.True(t, contextualLogger.HasWarnLog(shell.LogMsgCommandFailed))
}

func Test_CommandWrapper_Handle_InfrastructureError_IsLoggedAtError(t *testing.T) {
	// arrange
	handler := &mockHandler{err: errors.New("connection refused")}
	wrapper, metricsCollector, tracingCollector, contextualLogger := newWrapper(t, handler)

	// act
	_, _, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.Error(t, err)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).WithStatus("error").Assert())
	assert.True(t, tracingCollector.HasSpanRecordForName(shell.SpanNameCommandHandle).WithStatus("error").Assert())
	assert.True(t, contextualLogger.HasErrorLog(shell.LogMsgCommandFailed))
}
