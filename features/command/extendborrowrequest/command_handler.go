package extendborrowrequest

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// CommandHandler runs Load -> Decide -> Persist inside one transaction, with retry.
type CommandHandler struct {
	store        circulation.Store
	policy       core.Policy
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store circulation.Store, policy core.Policy, opts ...Option) CommandHandler {
	handler := CommandHandler{store: store, policy: policy}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command with retry logic.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.BorrowRequest, shell.HandlerResult, error) {
	var request core.BorrowRequest

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		request, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return core.BorrowRequest{}, shell.NewErrorResult(retryMetrics), err
	}

	return request, shell.NewSuccessResult(retryMetrics), nil
}

type journalPayload struct {
	PreviousDueDate time.Time          `json:"previous_due_date"`
	NewDueDate      time.Time          `json:"new_due_date"`
	Status          core.RequestStatus `json:"status"`
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.BorrowRequest, error) {
	var extended core.BorrowRequest

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		request, err := tx.BorrowRequestForUpdate(ctx, command.RequestID)
		if err != nil {
			return err
		}

		fines, err := tx.FinesByBorrowRequest(ctx, request.ID)
		if err != nil {
			return err
		}

		extended, err = Decide(State{Request: request, Fines: fines}, command, h.policy)
		if err != nil {
			return err
		}

		if err = tx.UpdateBorrowRequest(ctx, extended); err != nil {
			return err
		}
		extended.Version++

		return shell.AppendJournalEntry(
			ctx,
			tx,
			core.JournalBorrowRequestExtended,
			request.ID,
			command.OccurredAt,
			journalPayload{PreviousDueDate: request.DueDate, NewDueDate: extended.DueDate, Status: extended.Status},
			shell.BuildJournalMetadata(ctx, command.StaffID),
		)
	})

	return extended, err
}
