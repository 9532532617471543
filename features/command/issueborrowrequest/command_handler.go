package issueborrowrequest

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// CommandHandler runs Load -> Decide -> Reserve -> Persist inside one transaction, with retry.
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
// Only version conflicts are retried, a lost copy reservation is returned to the caller.
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
	CardID     string    `json:"card_id"`
	BorrowDate time.Time `json:"borrow_date"`
	DueDate    time.Time `json:"due_date"`
	CopyIDs    []string  `json:"copy_ids"`
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Decision, error) {
	var decision Decision

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		request, err := tx.BorrowRequestForUpdate(ctx, command.RequestID)
		if err != nil {
			return err
		}

		card, err := tx.CardForUpdate(ctx, request.CardID)
		if err != nil {
			return err
		}

		activeLoans, err := tx.CountActiveLoans(ctx, card.ID)
		if err != nil {
			return err
		}

		decision, err = Decide(State{Request: request, Card: card, ActiveLoans: activeLoans}, command)
		if err != nil {
			return err
		}

		payload := journalPayload{
			CardID:     card.ID.String(),
			BorrowDate: command.OccurredAt,
			DueDate:    decision.Request.DueDate,
		}

		for _, d := range decision.Request.Details {
			if err = tx.ReserveCopy(ctx, d.CopyID); err != nil {
				return err
			}

			payload.CopyIDs = append(payload.CopyIDs, d.CopyID.String())
		}

		if err = tx.UpdateBorrowRequest(ctx, decision.Request); err != nil {
			return err
		}
		decision.Request.Version++

		return shell.AppendJournalEntry(
			ctx,
			tx,
			core.JournalBorrowRequestIssued,
			request.ID,
			command.OccurredAt,
			payload,
			shell.BuildJournalMetadata(ctx, command.StaffID),
		)
	})

	return decision, err
}
