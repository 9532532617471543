package changecardstatus

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
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Card, shell.HandlerResult, error) {
	var card core.Card

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		card, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return core.Card{}, shell.NewErrorResult(retryMetrics), err
	}

	return card, shell.NewSuccessResult(retryMetrics), nil
}

type journalPayload struct {
	Action         core.CardAction `json:"action"`
	PreviousStatus core.CardStatus `json:"previous_status"`
	Status         core.CardStatus `json:"status"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Card, error) {
	var changed core.Card

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		card, err := tx.CardForUpdate(ctx, command.CardID)
		if err != nil {
			return err
		}

		changed, err = Decide(card, command)
		if err != nil {
			return err
		}

		if err = tx.UpdateCard(ctx, changed); err != nil {
			return err
		}
		changed.Version++

		return shell.AppendJournalEntry(
			ctx,
			tx,
			core.JournalCardStatusChanged,
			card.ID,
			command.OccurredAt,
			journalPayload{
				Action:         command.Action,
				PreviousStatus: card.Status,
				Status:         changed.Status,
				ExpiresAt:      changed.ExpiresAt,
			},
			shell.BuildJournalMetadata(ctx, command.StaffID),
		)
	})

	return changed, err
}
