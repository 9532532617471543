package approveborrowrequest

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// CommandHandler runs Load -> Decide -> Persist inside one transaction, with retry.
type CommandHandler struct {
	store        circulation.Store
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
func NewCommandHandler(store circulation.Store, opts ...Option) CommandHandler {
	handler := CommandHandler{store: store}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command with retry logic.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.BorrowRequest, shell.HandlerResult, error) {
	var decision Decision

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return core.BorrowRequest{}, shell.NewErrorResult(retryMetrics), err
	}

	return decision.Request, shell.NewSuccessResult(retryMetrics), nil
}

type journalPayload struct {
	ApproverID string `json:"approver_id"`
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Decision, error) {
	var decision Decision

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		request, err := tx.BorrowRequestForUpdate(ctx, command.RequestID)
		if err != nil {
			return err
		}

		decision, err = Decide(request, command)
		if err != nil {
			return err
		}

		if err = tx.UpdateBorrowRequest(ctx, decision.Request); err != nil {
			return err
		}
		decision.Request.Version++

		return shell.AppendJournalEntry(
			ctx,
			tx,
			core.JournalBorrowRequestApproved,
			request.ID,
			command.OccurredAt,
			journalPayload{ApproverID: command.ApproverID.String()},
			shell.BuildJournalMetadata(ctx, command.ApproverID),
		)
	})

	return decision, err
}
