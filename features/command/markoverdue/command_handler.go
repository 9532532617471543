package markoverdue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// Result lists the requests the sweep moved to overdue, in due date order.
type Result struct {
	Transitioned []uuid.UUID
}

// CommandHandler runs the sweep.
type CommandHandler struct {
	store        circulation.Store
	notifier     circulation.OverdueNotifier
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration, applied per request.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler. notifier may be nil.
func NewCommandHandler(store circulation.Store, notifier circulation.OverdueNotifier, opts ...Option) CommandHandler {
	handler := CommandHandler{store: store, notifier: notifier}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle runs one sweep.
//
// A failing request does not stop the sweep: its error is collected and the remaining requests are
// still processed. The returned error joins all collected errors. The HandlerResult sums the retry
// metadata of all requests and is idempotent when nothing transitioned.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, shell.HandlerResult, error) {
	var candidates []core.BorrowRequest

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		var err error
		candidates, err = tx.BorrowRequestsDueBefore(ctx, []core.RequestStatus{core.StatusBorrowed}, command.OccurredAt)

		return err
	})
	if err != nil {
		return Result{}, shell.NewErrorResult(shell.RetryMetrics{Attempts: 1, LastErrorType: shell.ErrorType(err)}), err
	}

	result := Result{}
	total := shell.RetryMetrics{LastErrorType: shell.ErrorType(nil)}
	var errs []error

	for _, candidate := range candidates {
		var marked core.BorrowRequest
		var transitioned bool

		retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
			var execErr error
			marked, transitioned, execErr = h.markOne(retryCtx, candidate.ID, command)

			return execErr
		}, h.retryOptions...)

		total = addRetryMetrics(total, retryMetrics)

		if err != nil {
			errs = append(errs, err)

			if ctx.Err() != nil {
				break
			}

			continue
		}

		if !transitioned {
			continue
		}

		result.Transitioned = append(result.Transitioned, marked.ID)

		if h.notifier != nil {
			if err = h.notifier.NotifyOverdue(ctx, marked); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if err = errors.Join(errs...); err != nil {
		return result, shell.NewErrorResult(total), err
	}

	if len(result.Transitioned) == 0 {
		return result, shell.NewIdempotentResult(total), nil
	}

	return result, shell.NewSuccessResult(total), nil
}

type journalPayload struct {
	DueDate time.Time `json:"due_date"`
}

func (h CommandHandler) markOne(ctx context.Context, requestID uuid.UUID, command Command) (core.BorrowRequest, bool, error) {
	var marked core.BorrowRequest
	var transitioned bool

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		request, err := tx.BorrowRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		marked, transitioned, err = Decide(request, command.OccurredAt)
		if err != nil || !transitioned {
			return err
		}

		if err = tx.UpdateBorrowRequest(ctx, marked); err != nil {
			return err
		}

		marked.Version++

		return shell.AppendJournalEntry(
			ctx,
			tx,
			core.JournalBorrowRequestOverdue,
			marked.ID,
			command.OccurredAt,
			journalPayload{DueDate: marked.DueDate},
			shell.BuildJournalMetadata(ctx, command.ActorID),
		)
	})

	return marked, transitioned, err
}

func addRetryMetrics(total, next shell.RetryMetrics) shell.RetryMetrics {
	total.Attempts += next.Attempts
	total.TotalDelay += next.TotalDelay
	total.RetriesExhausted = total.RetriesExhausted || next.RetriesExhausted

	if next.LastErrorType != shell.ErrorType(nil) {
		total.LastErrorType = next.LastErrorType
	}

	return total
}
