package observable

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// CommandWrapper adds metrics, a span and start/finish log lines around a command handler.
// Retrying stays inside the wrapped handler, the wrapper only reports what the HandlerResult says about it.
type CommandWrapper[C shell.Command, R any] struct {
	instruments

	handler     shell.CommandHandler[C, R]
	commandType string
}

func NewCommandWrapper[C shell.Command, R any](
	handler shell.CommandHandler[C, R],
	opts ...CommandOption[C, R],
) (*CommandWrapper[C, R], error) {
	var command C

	w := &CommandWrapper[C, R]{handler: handler, commandType: command.CommandType()}

	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// Handle runs the wrapped handler. Its return values are passed through unchanged.
func (w *CommandWrapper[C, R]) Handle(ctx context.Context, command C) (R, shell.HandlerResult, error) {
	watch := startStopwatch()
	ctx, span := shell.StartCommandSpan(ctx, w.tracing, w.commandType)
	shell.LogCommandStart(ctx, w.logger, w.contextualLogger, w.commandType)

	value, result, err := w.handler.Handle(ctx, command)
	took := watch.elapsed()

	status := commandStatus(result, err)
	shell.RecordRetryMetrics(ctx, w.metrics, w.commandType, result)
	shell.RecordCommandMetrics(ctx, w.metrics, w.commandType, status, took)
	shell.FinishSpan(w.tracing, span, status, took, err)

	if err != nil {
		shell.LogCommandError(ctx, w.logger, w.contextualLogger, w.commandType, status, err)
	} else {
		shell.LogCommandSuccess(ctx, w.logger, w.contextualLogger, w.commandType, status, took)
	}

	return value, result, err
}

func commandStatus(result shell.HandlerResult, err error) string {
	if err == nil && result.Idempotent {
		return shell.StatusIdempotent
	}

	return shell.ClassifyCommandError(err)
}

type CommandOption[C shell.Command, R any] func(*CommandWrapper[C, R]) error

func WithCommandMetrics[C shell.Command, R any](collector shell.MetricsCollector) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.metrics = collector
		return nil
	}
}

func WithCommandTracing[C shell.Command, R any](collector shell.TracingCollector) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.tracing = collector
		return nil
	}
}

// WithCommandContextualLogging takes precedence over WithCommandLogging when both are given.
func WithCommandContextualLogging[C shell.Command, R any](logger shell.ContextualLogger) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.contextualLogger = logger
		return nil
	}
}

func WithCommandLogging[C shell.Command, R any](logger shell.Logger) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.logger = logger
		return nil
	}
}
