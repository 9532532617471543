package depositfunds

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// Result is the recorded transaction and the card's balance after it.
type Result struct {
	Transaction core.DepositTransaction
	Balance     decimal.Decimal
}

// CommandHandler runs Load -> Decide -> Persist inside one transaction, with retry.
// The card row is locked so concurrent movements on the same deposit are serialized.
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
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, shell.HandlerResult, error) {
	var result Result
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		result, isIdempotent, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{}, shell.NewErrorResult(retryMetrics), err
	}

	if isIdempotent {
		return result, shell.NewIdempotentResult(retryMetrics), nil
	}

	return result, shell.NewSuccessResult(retryMetrics), nil
}

type journalPayload struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Result, bool, error) {
	var result Result
	var isIdempotent bool

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		card, err := tx.CardForUpdate(ctx, command.CardID)
		if err != nil {
			return err
		}

		history, err := tx.DepositTransactions(ctx, card.ID)
		if err != nil {
			return err
		}

		idx := slices.IndexFunc(history, func(t core.DepositTransaction) bool { return t.ID == command.TransactionID })
		if idx >= 0 {
			result = Result{Transaction: history[idx], Balance: core.ComputeDepositBalance(history)}
			isIdempotent = true

			return nil
		}

		decision, err := Decide(card, history, command)
		if err != nil {
			return err
		}

		if err = tx.AppendDepositTransaction(ctx, decision.Transaction); err != nil {
			return err
		}

		if err = tx.UpdateCard(ctx, decision.Card); err != nil {
			return err
		}

		result = Result{Transaction: decision.Transaction, Balance: decision.Card.DepositAmount}

		return shell.AppendJournalEntry(
			ctx,
			tx,
			core.JournalDepositRecorded,
			card.ID,
			command.OccurredAt,
			journalPayload{
				TransactionID: decision.Transaction.ID.String(),
				Amount:        decision.Transaction.Amount,
				Balance:       decision.Card.DepositAmount,
			},
			shell.BuildJournalMetadata(ctx, command.StaffID),
		)
	})

	return result, isIdempotent, err
}
