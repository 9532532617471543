package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/AntonStoeckl/library-circulation-go/features/command/markoverdue"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

const (
	logMsgSweepCompleted = "overdue sweep completed"
	logMsgSweepFailed    = "overdue sweep failed"
	logMsgSweepSkipped   = "overdue sweep skipped, previous run still active"

	logAttrTransitioned = "transitioned"
)

// ErrInvalidSchedule is returned for a cron spec that cannot be parsed.
var ErrInvalidSchedule = errors.New("invalid sweep schedule")

// SweepHandler runs one overdue sweep. markoverdue.CommandHandler and its observable wrapper satisfy it.
type SweepHandler = shell.CommandHandler[markoverdue.Command, markoverdue.Result]

// Sweeper triggers the overdue sweep on a cron schedule.
type Sweeper struct {
	cron             *cron.Cron
	handler          SweepHandler
	clock            func() time.Time
	timeout          time.Duration
	metricsCollector shell.MetricsCollector
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithClock replaces time.Now as the source of the sweep time.
func WithClock(clock func() time.Time) Option {
	return func(s *Sweeper) {
		s.clock = clock
	}
}

// WithTimeout bounds a single sweep run. Zero means no bound.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Sweeper) {
		s.timeout = timeout
	}
}

// WithMetrics sets the collector receiving shell.OverdueSweepTransitionsMetric.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(s *Sweeper) {
		s.metricsCollector = collector
	}
}

// WithLogging sets the basic logger.
func WithLogging(logger shell.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// WithContextualLogging sets the contextual logger.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(s *Sweeper) {
		s.contextualLogger = logger
	}
}

// NewSweeper creates a Sweeper running handler on spec, a standard five field cron spec or a
// descriptor like "@every 15m".
func NewSweeper(spec string, handler SweepHandler, opts ...Option) (*Sweeper, error) {
	s := &Sweeper{
		handler: handler,
		clock:   time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{sweeper: s})))

	if _, err := s.cron.AddFunc(spec, func() { _, _ = s.RunOnce(context.Background()) }); err != nil {
		return nil, errors.Join(ErrInvalidSchedule, fmt.Errorf("%q: %w", spec, err))
	}

	return s, nil
}

// Start begins triggering sweeps in the background.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop stops the schedule and waits until a running sweep finished or ctx is done.
func (s *Sweeper) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce runs a single sweep now, independent of the schedule.
func (s *Sweeper) RunOnce(ctx context.Context) (markoverdue.Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx = shell.WithCorrelationID(ctx, shell.NewID())
	start := time.Now()

	result, _, err := s.handler.Handle(ctx, markoverdue.BuildCommand(uuid.Nil, s.clock()))

	for range result.Transitioned {
		shell.IncrementCounter(ctx, s.metricsCollector, shell.OverdueSweepTransitionsMetric, nil)
	}

	if err != nil {
		shell.LogError(ctx, s.logger, s.contextualLogger, logMsgSweepFailed,
			shell.LogAttrError, err.Error(),
			logAttrTransitioned, len(result.Transitioned),
		)

		return result, err
	}

	shell.LogInfo(ctx, s.logger, s.contextualLogger, logMsgSweepCompleted,
		logAttrTransitioned, len(result.Transitioned),
		shell.LogAttrDurationMS, shell.ToMilliseconds(time.Since(start)),
	)

	return result, nil
}

// cronLogger routes the cron library's log output to the sweeper's loggers.
type cronLogger struct {
	sweeper *Sweeper
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	if msg == "skip" {
		shell.LogWarn(context.Background(), l.sweeper.logger, l.sweeper.contextualLogger, logMsgSweepSkipped)
	}
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	shell.LogError(context.Background(), l.sweeper.logger, l.sweeper.contextualLogger, msg,
		append([]any{shell.LogAttrError, err.Error()}, keysAndValues...)...)
}
