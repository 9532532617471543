package main

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/shell"
	"github.com/AntonStoeckl/library-circulation-go/shell/observable"
)

// runCommand wraps handler with the CLI's observability, executes command and writes the result.
func runCommand[C shell.Command, R any](
	ctx context.Context,
	opts *RootOptions,
	handler shell.CommandHandler[C, R],
	command C,
) error {
	wrapped, err := observable.NewCommandWrapper[C, R](
		handler,
		observable.WithCommandTracing[C, R](opts.tracing),
		observable.WithCommandMetrics[C, R](opts.metrics),
		observable.WithCommandContextualLogging[C, R](opts.contextualLogger),
	)
	if err != nil {
		return err
	}

	value, result, err := wrapped.Handle(ctx, command)
	if err != nil {
		return err
	}

	return opts.output.Success(value, result.Idempotent)
}

// runQuery wraps handler with the CLI's observability, executes query and writes the projection.
func runQuery[Q shell.Query, R any](
	ctx context.Context,
	opts *RootOptions,
	handler shell.QueryHandler[Q, R],
	query Q,
) error {
	wrapped, err := observable.NewQueryWrapper[Q, R](
		handler,
		observable.WithQueryTracing[Q, R](opts.tracing),
		observable.WithQueryMetrics[Q, R](opts.metrics),
		observable.WithQueryContextualLogging[Q, R](opts.contextualLogger),
	)
	if err != nil {
		return err
	}

	value, err := wrapped.Handle(ctx, query)
	if err != nil {
		return err
	}

	return opts.output.Success(value, false)
}
