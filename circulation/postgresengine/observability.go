package postgresengine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	metricTransactionDuration  = "circulation_store_transaction_duration_seconds"
	metricQueryDuration        = "circulation_store_query_duration_seconds"
	metricConcurrencyConflicts = "circulation_store_concurrency_conflicts_total"
	metricDatabaseErrors       = "circulation_store_database_errors_total"

	spanNameTransaction  = "circulation.store.transaction"
	spanAttrOperation    = "operation"
	spanAttrErrorType    = "error_type"
	spanAttrDurationMS   = "duration_ms"
	operationTransaction = "transaction"

	statusSuccess  = "success"
	statusError    = "error"
	statusConflict = "conflict"

	errorTypeConcurrencyConflict = "concurrency_conflict"
	errorTypeCopyConflict        = "copy_conflict"
	errorTypeDomain              = "domain"
	errorTypeCanceled            = "canceled"
	errorTypeTimeout             = "timeout"
	errorTypeDatabase            = "database"
)

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// classifyErrorType labels errors for metrics and spans.
func classifyErrorType(err error) string {
	switch {
	case errors.Is(err, circulation.ErrConcurrencyConflict):
		return errorTypeConcurrencyConflict
	case errors.Is(err, core.ErrConflict):
		return errorTypeCopyConflict
	case errors.Is(err, context.Canceled):
		return errorTypeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return errorTypeTimeout
	case errors.Is(err, core.ErrInvalidState),
		errors.Is(err, core.ErrInvalidOperation),
		errors.Is(err, core.ErrLimitExceeded),
		errors.Is(err, core.ErrNoAvailableCopy),
		errors.Is(err, core.ErrCardInvalid),
		errors.Is(err, core.ErrNotPermitted),
		errors.Is(err, circulation.ErrNotFound):
		return errorTypeDomain
	default:
		return errorTypeDatabase
	}
}

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (s *Store) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	} else if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	s.recordDuration(ctx, metricQueryDuration, duration, map[string]string{spanAttrOperation: action})
}

// logOperation logs operational information at info level.
func (s *Store) logOperation(ctx context.Context, action string, args ...any) {
	s.logInfo(ctx, logMsgOperation+action, args...)
}

func (s *Store) logInfo(ctx context.Context, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, msg, args...)
	} else if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Store) logWarn(ctx context.Context, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, msg, args...)
	} else if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

// logError logs error information at error level.
func (s *Store) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	} else if s.logger != nil {
		s.logger.Error(msg, allArgs...)
	}
}

func (s *Store) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := s.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
	} else {
		s.metricsCollector.RecordDuration(metric, duration, labels)
	}
}

func (s *Store) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := s.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
	} else {
		s.metricsCollector.IncrementCounter(metric, labels)
	}
}

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (s *Store) startTraceSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, circulation.SpanContext) {
	if s.tracingCollector != nil {
		return s.tracingCollector.StartSpan(ctx, name, attrs)
	}

	return ctx, nil
}

// finishTraceSpan finishes a tracing span if the tracing collector is configured.
func (s *Store) finishTraceSpan(span circulation.SpanContext, status string, attrs map[string]string) {
	if s.tracingCollector != nil && span != nil {
		s.tracingCollector.FinishSpan(span, status, attrs)
	}
}

// finishTransactionObservability records the outcome of one WithinTransaction call.
// Domain errors are expected outcomes and only logged at info level.
func (s *Store) finishTransactionObservability(
	ctx context.Context,
	span circulation.SpanContext,
	duration time.Duration,
	err error,
) {
	status := statusSuccess
	attrs := map[string]string{spanAttrDurationMS: fmt.Sprintf("%.2f", toMilliseconds(duration))}

	if err != nil {
		errorType := classifyErrorType(err)
		attrs[spanAttrErrorType] = errorType

		switch errorType {
		case errorTypeConcurrencyConflict, errorTypeCopyConflict:
			status = statusConflict
			s.logWarn(ctx, logMsgConcurrencyConflict, logAttrError, err.Error())
			s.incrementCounter(ctx, metricConcurrencyConflicts, map[string]string{spanAttrErrorType: errorType})
		case errorTypeDatabase:
			status = statusError
			s.incrementCounter(ctx, metricDatabaseErrors, map[string]string{spanAttrOperation: operationTransaction})
		default:
			status = statusError
		}

		s.logInfo(ctx, logMsgTransactionRolledBack, logAttrDurationMS, toMilliseconds(duration), spanAttrErrorType, errorType)
	} else {
		s.logOperation(ctx, logActionTransaction, logAttrDurationMS, toMilliseconds(duration))
		s.logInfo(ctx, logMsgTransactionCommitted, logAttrDurationMS, toMilliseconds(duration))
	}

	s.recordDuration(ctx, metricTransactionDuration, duration, map[string]string{
		spanAttrOperation: operationTransaction,
		"status":          status,
	})

	s.finishTraceSpan(span, status, attrs)
}
