package payfine

import (
	"context"

	"github.com/shopspring/decimal"

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
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Fine, shell.HandlerResult, error) {
	var fine core.Fine

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		fine, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return core.Fine{}, shell.NewErrorResult(retryMetrics), err
	}

	return fine, shell.NewSuccessResult(retryMetrics), nil
}

type journalPayload struct {
	FineID      string          `json:"fine_id"`
	CopyID      string          `json:"copy_id"`
	Amount      decimal.Decimal `json:"amount"`
	CollectedBy string          `json:"collected_by"`
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Fine, error) {
	var paid core.Fine

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		fine, err := tx.FineForUpdate(ctx, command.FineID)
		if err != nil {
			return err
		}

		paid, err = Decide(fine, command)
		if err != nil {
			return err
		}

		if err = tx.UpdateFine(ctx, paid); err != nil {
			return err
		}
		paid.Version++

		return shell.AppendJournalEntry(
			ctx,
			tx,
			core.JournalFinePaid,
			fine.RequestID,
			command.OccurredAt,
			journalPayload{
				FineID:      fine.ID.String(),
				CopyID:      fine.CopyID.String(),
				Amount:      fine.Amount,
				CollectedBy: command.CollectedBy.String(),
			},
			shell.BuildJournalMetadata(ctx, command.CollectedBy),
		)
	})

	return paid, err
}
