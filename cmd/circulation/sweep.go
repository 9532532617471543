package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/features/command/markoverdue"
	"github.com/AntonStoeckl/library-circulation-go/shell"
	"github.com/AntonStoeckl/library-circulation-go/shell/observable"
	"github.com/AntonStoeckl/library-circulation-go/shell/schedule"
)

const (
	sweepTimeout        = 5 * time.Minute
	sweepStopTimeout    = 30 * time.Second
	logMsgSweeperStart  = "overdue sweeper started"
	logMsgSweeperStop   = "overdue sweeper stopping"
	logAttrSchedule     = "schedule"
	logAttrSignalOrDone = "reason"
)

func newSweepCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Mark loans past their due date as overdue",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run one overdue sweep now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				sweeper, err := opts.newSweeper(store)
				if err != nil {
					return err
				}

				result, err := sweeper.RunOnce(ctx)
				if err != nil {
					return err
				}

				return opts.output.Success(result, len(result.Transitioned) == 0)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the overdue sweep on the configured schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				sweeper, err := opts.newSweeper(store)
				if err != nil {
					return err
				}

				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				sweeper.Start()
				opts.logger.InfoContext(ctx, logMsgSweeperStart, logAttrSchedule, opts.config.OverdueSweepSchedule)

				<-ctx.Done()
				opts.logger.Info(logMsgSweeperStop, logAttrSignalOrDone, context.Cause(ctx).Error())

				stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sweepStopTimeout)
				defer cancel()

				return sweeper.Stop(stopCtx)
			})
		},
	})

	return cmd
}

func (o *RootOptions) newSweeper(store circulation.Store) (*schedule.Sweeper, error) {
	notifier := shell.NewLoggingNotifier(nil, o.contextualLogger)

	handler, err := observable.NewCommandWrapper[markoverdue.Command, markoverdue.Result](
		markoverdue.NewCommandHandler(store, notifier),
		observable.WithCommandTracing[markoverdue.Command, markoverdue.Result](o.tracing),
		observable.WithCommandMetrics[markoverdue.Command, markoverdue.Result](o.metrics),
		observable.WithCommandContextualLogging[markoverdue.Command, markoverdue.Result](o.contextualLogger),
	)
	if err != nil {
		return nil, err
	}

	return schedule.NewSweeper(
		o.config.OverdueSweepSchedule,
		handler,
		schedule.WithClock(o.clock),
		schedule.WithTimeout(sweepTimeout),
		schedule.WithMetrics(o.metrics),
		schedule.WithContextualLogging(o.contextualLogger),
	)
}
