package shell

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Metric names recorded by the command and query wrappers and by the overdue sweep.
const (
	CommandHandlerDurationMetric            = "commandhandler_handle_duration_seconds"
	CommandHandlerCallsMetric               = "commandhandler_handle_calls_total"
	CommandHandlerIdempotentMetric          = "commandhandler_idempotent_operations_total"
	CommandHandlerRejectedMetric            = "commandhandler_rejected_operations_total"
	CommandHandlerConcurrencyConflictMetric = "commandhandler_concurrency_conflicts_total"

	// CommandHandlerRetriesMetric is labelled with command_type, attempt_number and error_type.
	CommandHandlerRetriesMetric           = "commandhandler_retries_total"
	CommandHandlerRetryDelayMetric        = "commandhandler_retry_delay_seconds"
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"

	QueryHandlerDurationMetric = "queryhandler_handle_duration_seconds"
	QueryHandlerCallsMetric    = "queryhandler_handle_calls_total"

	// OverdueSweepTransitionsMetric counts requests the overdue sweep moved to overdue.
	OverdueSweepTransitionsMetric = "overdue_sweep_transitions_total"
)

// Outcome of a handler call, used as the status label, span status and log attribute.
const (
	StatusSuccess    = "success"
	StatusError      = "error"
	StatusRejected   = "rejected"
	StatusIdempotent = "idempotent"
	StatusCanceled   = "canceled"
	StatusTimeout    = "timeout"

	// StatusConcurrencyConflict covers a stale version as well as a lost copy reservation.
	StatusConcurrencyConflict = "concurrency_conflict"
)

const (
	LogMsgCommandStarted   = "command handler started"
	LogMsgCommandCompleted = "command handler completed"
	LogMsgCommandFailed    = "command handler failed"
	LogMsgCommandRejected  = "command handler rejected command"
	LogMsgQueryStarted     = "query handler started"
	LogMsgQueryCompleted   = "query handler completed"
	LogMsgQueryFailed      = "query handler failed"
)

const (
	LogAttrCommandType     = "command_type"
	LogAttrQueryType       = "query_type"
	LogAttrStatus          = "status"
	LogAttrDurationMS      = "duration_ms"
	LogAttrBusinessOutcome = "business_outcome"
	LogAttrError           = "error"
	LogAttrRequestID       = "request_id"
	LogAttrCardID          = "card_id"
	LogAttrDueDate         = "due_date"

	labelAttemptNumber = "attempt_number"
	labelErrorType     = "error_type"
)

const (
	SpanNameCommandHandle = "commandhandler.handle"
	SpanNameQueryHandle   = "queryhandler.handle"
)

// The handler layer observes through the same ports as the store.
type (
	MetricsCollector           = circulation.MetricsCollector
	ContextualMetricsCollector = circulation.ContextualMetricsCollector
	TracingCollector           = circulation.TracingCollector
	SpanContext                = circulation.SpanContext
	ContextualLogger           = circulation.ContextualLogger
	Logger                     = circulation.Logger
)

// BuildCommandLabels returns the metric labels of a command call.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{LogAttrCommandType: commandType, LogAttrStatus: status}
}

// BuildQueryLabels returns the metric labels of a query call.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{LogAttrQueryType: queryType, LogAttrStatus: status}
}

// BuildRetryLabels returns the metric labels of a retried command.
func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		labelAttemptNumber: strconv.Itoa(attemptNumber),
		labelErrorType:     errorType,
	}
}

// ToMilliseconds converts d into fractional milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// ClassifyCommandError maps a handler error onto the status used for metrics, spans and logs.
func ClassifyCommandError(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, core.ErrConflict):
		return StatusConcurrencyConflict
	case IsBusinessRejection(err):
		return StatusRejected
	default:
		return StatusError
	}
}

var businessRejections = []error{
	core.ErrInvalidState,
	core.ErrLimitExceeded,
	core.ErrNoAvailableCopy,
	core.ErrCardInvalid,
	core.ErrInvalidOperation,
	core.ErrNotPermitted,
	circulation.ErrNotFound,
}

// IsBusinessRejection reports whether err is an expected domain outcome rather than a failure.
func IsBusinessRejection(err error) bool {
	for _, target := range businessRejections {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// IncrementCounter increments metric, using the context-aware method when the collector has one.
func IncrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	switch c := collector.(type) {
	case nil:
	case ContextualMetricsCollector:
		c.IncrementCounterContext(ctx, metric, labels)
	default:
		c.IncrementCounter(metric, labels)
	}
}

// RecordDuration records a duration, using the context-aware method when the collector has one.
func RecordDuration(
	ctx context.Context,
	collector MetricsCollector,
	metric string,
	duration time.Duration,
	labels map[string]string,
) {
	switch c := collector.(type) {
	case nil:
	case ContextualMetricsCollector:
		c.RecordDurationContext(ctx, metric, duration, labels)
	default:
		c.RecordDuration(metric, duration, labels)
	}
}

// RecordCommandMetrics records the duration and call count of a command plus one outcome counter.
func RecordCommandMetrics(
	ctx context.Context,
	collector MetricsCollector,
	commandType string,
	status string,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	RecordDuration(ctx, collector, CommandHandlerDurationMetric, duration, BuildCommandLabels(commandType, status))
	IncrementCounter(ctx, collector, CommandHandlerCallsMetric, BuildCommandLabels(commandType, status))

	outcomeCounters := map[string]string{
		StatusIdempotent:          CommandHandlerIdempotentMetric,
		StatusRejected:            CommandHandlerRejectedMetric,
		StatusConcurrencyConflict: CommandHandlerConcurrencyConflictMetric,
	}

	if metric, ok := outcomeCounters[status]; ok {
		IncrementCounter(ctx, collector, metric, BuildCommandLabels(commandType, status))
	}
}

// RecordRetryMetrics records the retry metadata a command handler reported.
func RecordRetryMetrics(ctx context.Context, collector MetricsCollector, commandType string, result HandlerResult) {
	if collector == nil {
		return
	}

	byCommand := map[string]string{LogAttrCommandType: commandType}

	if result.RetryAttempts > 1 {
		IncrementCounter(ctx, collector, CommandHandlerRetriesMetric,
			BuildRetryLabels(commandType, result.RetryAttempts-1, result.LastErrorType))
		RecordDuration(ctx, collector, CommandHandlerRetryDelayMetric, result.TotalRetryDelay, byCommand)
	}

	if result.RetriesExhausted {
		IncrementCounter(ctx, collector, CommandHandlerMaxRetriesReachedMetric, byCommand)
	}
}

// RecordQueryMetrics records the duration and call count of a query.
func RecordQueryMetrics(
	ctx context.Context,
	collector MetricsCollector,
	queryType string,
	status string,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	RecordDuration(ctx, collector, QueryHandlerDurationMetric, duration, BuildQueryLabels(queryType, status))
	IncrementCounter(ctx, collector, QueryHandlerCallsMetric, BuildQueryLabels(queryType, status))
}

// StartCommandSpan opens a span for a command. Without a collector it returns ctx and a nil span.
func StartCommandSpan(ctx context.Context, tracer TracingCollector, commandType string) (context.Context, SpanContext) {
	if tracer == nil {
		return ctx, nil
	}

	return tracer.StartSpan(ctx, SpanNameCommandHandle, map[string]string{LogAttrCommandType: commandType})
}

// StartQuerySpan opens a span for a query.
func StartQuerySpan(ctx context.Context, tracer TracingCollector, queryType string) (context.Context, SpanContext) {
	if tracer == nil {
		return ctx, nil
	}

	return tracer.StartSpan(ctx, SpanNameQueryHandle, map[string]string{LogAttrQueryType: queryType})
}

// FinishSpan closes span with the outcome, the elapsed time and the error text if any.
func FinishSpan(tracer TracingCollector, span SpanContext, status string, duration time.Duration, err error) {
	if tracer == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: strconv.FormatFloat(ToMilliseconds(duration), 'f', 2, 64),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracer.FinishSpan(span, status, attrs)
}

func logAt(
	ctx context.Context,
	level slog.Level,
	logger Logger,
	contextualLogger ContextualLogger,
	msg string,
	args ...any,
) {
	if contextualLogger != nil {
		switch level {
		case slog.LevelWarn:
			contextualLogger.WarnContext(ctx, msg, args...)
		case slog.LevelError:
			contextualLogger.ErrorContext(ctx, msg, args...)
		default:
			contextualLogger.InfoContext(ctx, msg, args...)
		}

		return
	}

	if logger == nil {
		return
	}

	switch level {
	case slog.LevelWarn:
		logger.Warn(msg, args...)
	case slog.LevelError:
		logger.Error(msg, args...)
	default:
		logger.Info(msg, args...)
	}
}

// LogInfo logs through the contextual logger if set, otherwise through logger.
func LogInfo(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	logAt(ctx, slog.LevelInfo, logger, contextualLogger, msg, args...)
}

func LogWarn(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	logAt(ctx, slog.LevelWarn, logger, contextualLogger, msg, args...)
}

func LogError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	logAt(ctx, slog.LevelError, logger, contextualLogger, msg, args...)
}

func LogCommandStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, commandType string) {
	LogInfo(ctx, logger, contextualLogger, LogMsgCommandStarted, LogAttrCommandType, commandType)
}

func LogCommandSuccess(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	businessOutcome string,
	duration time.Duration,
) {
	LogInfo(ctx, logger, contextualLogger, LogMsgCommandCompleted,
		LogAttrCommandType, commandType,
		LogAttrBusinessOutcome, businessOutcome,
		LogAttrDurationMS, ToMilliseconds(duration),
	)
}

// LogCommandError logs a failed command. Rejections are logged at info level and
// concurrency conflicts at warn level, everything else is an error.
func LogCommandError(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	status string,
	err error,
) {
	level, msg := slog.LevelError, LogMsgCommandFailed

	switch status {
	case StatusRejected:
		level, msg = slog.LevelInfo, LogMsgCommandRejected
	case StatusConcurrencyConflict:
		level = slog.LevelWarn
	}

	logAt(ctx, level, logger, contextualLogger, msg,
		LogAttrCommandType, commandType,
		LogAttrStatus, status,
		LogAttrError, err.Error(),
	)
}

func LogQueryStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, queryType string) {
	LogInfo(ctx, logger, contextualLogger, LogMsgQueryStarted, LogAttrQueryType, queryType)
}

func LogQuerySuccess(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	queryType string,
	duration time.Duration,
) {
	LogInfo(ctx, logger, contextualLogger, LogMsgQueryCompleted,
		LogAttrQueryType, queryType,
		LogAttrDurationMS, ToMilliseconds(duration),
	)
}

func LogQueryError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, queryType string, err error) {
	LogError(ctx, logger, contextualLogger, LogMsgQueryFailed,
		LogAttrQueryType, queryType,
		LogAttrError, err.Error(),
	)
}
