package shell

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3

	errorTypeNone                = "none"
	errorTypeConcurrencyConflict = "concurrency_conflict"
	errorTypeContextCanceled     = "context_canceled"
	errorTypeDeadlineExceeded    = "context_deadline_exceeded"
	errorTypeOther               = "other"
)

var (
	ErrInvalidMaxAttempts  = errors.New("max attempts must be positive")
	ErrNegativeBaseDelay   = errors.New("base delay must not be negative")
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc is one attempt of a unit of work, usually a store transaction.
type RetryableFunc func(ctx context.Context) error

// RetryMetrics is the execution metadata of one RetryWithExponentialBackoff call.
type RetryMetrics struct {
	Attempts         int
	TotalDelay       time.Duration
	LastErrorType    string
	RetriesExhausted bool
}

// RetryOption configures RetryWithExponentialBackoff.
type RetryOption func(*retryPolicy) error

type retryPolicy struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
}

func newRetryPolicy(options []RetryOption) (retryPolicy, error) {
	policy := retryPolicy{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(&policy); err != nil {
			return policy, err
		}
	}

	return policy, nil
}

// delayBefore returns the pause before the given retry (1 for the first retry).
// It doubles with each retry and gets up to jitterFactor added on top.
func (p retryPolicy) delayBefore(retry int) time.Duration {
	delay := p.baseDelay << (retry - 1)
	jitter := time.Duration(rand.Float64() * p.jitterFactor * float64(delay)) //nolint:gosec // jitter only

	return delay + jitter
}

// RetryWithExponentialBackoff runs fn and runs it again while it fails with a stale version.
//
// With the defaults the pauses are 10 ms, 20 ms, 40 ms, 80 ms and 160 ms, each plus up to 30% jitter.
// Anything other than circulation.ErrConcurrencyConflict is returned at once. That includes
// circulation.ErrCopyAlreadyReserved, which the caller may answer by reallocating.
func RetryWithExponentialBackoff(
	ctx context.Context,
	fn RetryableFunc,
	options ...RetryOption,
) (RetryMetrics, error) {
	policy, err := newRetryPolicy(options)
	if err != nil {
		return RetryMetrics{LastErrorType: errorTypeOther}, err
	}

	var metrics RetryMetrics

	for {
		err = fn(ctx)
		metrics.Attempts++
		metrics.LastErrorType = ErrorType(err)

		if err == nil || !IsRetryable(err) {
			return metrics, err
		}

		if metrics.Attempts >= policy.maxAttempts {
			metrics.RetriesExhausted = true

			return metrics, err
		}

		pause := policy.delayBefore(metrics.Attempts)
		timer := time.NewTimer(pause)

		select {
		case <-ctx.Done():
			timer.Stop()
			metrics.LastErrorType = ErrorType(ctx.Err())

			return metrics, ctx.Err()
		case <-timer.C:
			metrics.TotalDelay += pause
		}
	}
}

// IsRetryable reports whether err is a lost optimistic lock.
func IsRetryable(err error) bool {
	return errors.Is(err, circulation.ErrConcurrencyConflict)
}

// ErrorType returns the metric label for err.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return errorTypeNone
	case errors.Is(err, circulation.ErrConcurrencyConflict):
		return errorTypeConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return errorTypeContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return errorTypeDeadlineExceeded
	default:
		return errorTypeOther
	}
}

// WithMaxAttempts sets how often fn is called at most, the first call included.
func WithMaxAttempts(attempts int) RetryOption {
	return func(p *retryPolicy) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		p.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the pause before the first retry.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(p *retryPolicy) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		p.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the maximum jitter as a fraction of the pause, from 0.0 to 1.0.
func WithJitterFactor(factor float64) RetryOption {
	return func(p *retryPolicy) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		p.jitterFactor = factor

		return nil
	}
}
