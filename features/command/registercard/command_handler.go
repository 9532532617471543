package registercard

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// CommandHandler runs Decide -> Persist inside one transaction, with retry.
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
// Registering the same card for the same reader again is idempotent.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Card, shell.HandlerResult, error) {
	var card core.Card
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		card, isIdempotent, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return core.Card{}, shell.NewErrorResult(retryMetrics), err
	}

	if isIdempotent {
		return card, shell.NewIdempotentResult(retryMetrics), nil
	}

	return card, shell.NewSuccessResult(retryMetrics), nil
}

type journalPayload struct {
	ReaderID       string          `json:"reader_id"`
	MaxBooks       int             `json:"max_books"`
	MaxBorrowDays  int             `json:"max_borrow_days"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Card, bool, error) {
	var card core.Card
	var isIdempotent bool

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		existing, err := tx.CardByID(ctx, command.CardID)
		switch {
		case err == nil && existing.ReaderID == command.ReaderID:
			card, isIdempotent = existing, true
			return nil
		case err == nil:
			return circulation.ErrCardAlreadyExists
		case !errors.Is(err, circulation.ErrNotFound):
			return err
		}

		card, err = Decide(command, h.policy)
		if err != nil {
			return err
		}

		if err = tx.InsertCard(ctx, card); err != nil {
			return err
		}

		if card.DepositAmount.IsPositive() {
			deposit, err := core.NewDeposit(shell.NewID(), card.ID, card.DepositAmount, command.OccurredAt)
			if err != nil {
				return err
			}

			if err = tx.AppendDepositTransaction(ctx, deposit); err != nil {
				return err
			}
		}

		return shell.AppendJournalEntry(
			ctx,
			tx,
			core.JournalCardRegistered,
			card.ID,
			command.OccurredAt,
			journalPayload{
				ReaderID:       card.ReaderID.String(),
				MaxBooks:       card.MaxBooks,
				MaxBorrowDays:  card.MaxBorrowDays,
				InitialDeposit: card.DepositAmount,
			},
			shell.BuildJournalMetadata(ctx, command.StaffID),
		)
	})
	if err != nil {
		return core.Card{}, false, err
	}

	if !isIdempotent {
		card.Version = 1
	}

	return card, isIdempotent, nil
}
