package correctcopystatus

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
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Copy, shell.HandlerResult, error) {
	var decision Decision

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return core.Copy{}, shell.NewErrorResult(retryMetrics), err
	}

	if decision.Idempotent {
		return decision.Copy, shell.NewIdempotentResult(retryMetrics), nil
	}

	return decision.Copy, shell.NewSuccessResult(retryMetrics), nil
}

type journalPayload struct {
	From           string `json:"from"`
	To             string `json:"to"`
	ConditionNotes string `json:"condition_notes,omitempty"`
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Decision, error) {
	var decision Decision

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		bookCopy, err := tx.CopyForUpdate(ctx, command.CopyID)
		if err != nil {
			return err
		}

		decision, err = Decide(bookCopy, command)
		if err != nil || decision.Idempotent {
			return err
		}

		if err = tx.UpdateCopy(ctx, decision.Copy); err != nil {
			return err
		}

		decision.Copy.Version++

		return shell.AppendJournalEntry(
			ctx,
			tx,
			core.JournalCopyStatusCorrected,
			bookCopy.ID,
			command.OccurredAt,
			journalPayload{
				From:           string(bookCopy.Status),
				To:             string(decision.Copy.Status),
				ConditionNotes: command.ConditionNotes,
			},
			shell.BuildJournalMetadata(ctx, command.StaffID),
		)
	})

	return decision, err
}
