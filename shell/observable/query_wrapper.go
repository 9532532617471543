package observable

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// QueryWrapper is the read side counterpart of CommandWrapper.
type QueryWrapper[Q shell.Query, R any] struct {
	instruments

	handler   shell.QueryHandler[Q, R]
	queryType string
}

func NewQueryWrapper[Q shell.Query, R any](
	handler shell.QueryHandler[Q, R],
	opts ...QueryOption[Q, R],
) (*QueryWrapper[Q, R], error) {
	var query Q

	w := &QueryWrapper[Q, R]{handler: handler, queryType: query.QueryType()}

	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	return w, nil
}

func (w *QueryWrapper[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	watch := startStopwatch()
	ctx, span := shell.StartQuerySpan(ctx, w.tracing, w.queryType)
	shell.LogQueryStart(ctx, w.logger, w.contextualLogger, w.queryType)

	result, err := w.handler.Handle(ctx, query)
	took := watch.elapsed()

	status := shell.ClassifyCommandError(err)
	shell.RecordQueryMetrics(ctx, w.metrics, w.queryType, status, took)
	shell.FinishSpan(w.tracing, span, status, took, err)

	if err != nil {
		shell.LogQueryError(ctx, w.logger, w.contextualLogger, w.queryType, err)
	} else {
		shell.LogQuerySuccess(ctx, w.logger, w.contextualLogger, w.queryType, took)
	}

	return result, err
}

type QueryOption[Q shell.Query, R any] func(*QueryWrapper[Q, R]) error

func WithQueryMetrics[Q shell.Query, R any](collector shell.MetricsCollector) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.metrics = collector
		return nil
	}
}

func WithQueryTracing[Q shell.Query, R any](collector shell.TracingCollector) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.tracing = collector
		return nil
	}
}

func WithQueryContextualLogging[Q shell.Query, R any](logger shell.ContextualLogger) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.contextualLogger = logger
		return nil
	}
}

func WithQueryLogging[Q shell.Query, R any](logger shell.Logger) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.logger = logger
		return nil
	}
}
