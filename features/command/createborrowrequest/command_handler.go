package createborrowrequest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// CommandHandler orchestrates the complete command processing workflow with pure business logic and retry.
// It runs Load -> Allocate -> Decide -> Persist inside one transaction.
// External wrappers handle all observability concerns.
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

// Handle executes the complete command processing workflow with retry logic.
// Returns the pending request and a HandlerResult with execution metadata for observability.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.BorrowRequest, shell.HandlerResult, error) {
	var request core.BorrowRequest
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		request, isIdempotent, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return core.BorrowRequest{}, shell.NewErrorResult(retryMetrics), err
	}

	if isIdempotent {
		return request, shell.NewIdempotentResult(retryMetrics), nil
	}

	return request, shell.NewSuccessResult(retryMetrics), nil
}

type journalPayload struct {
	CardID     string    `json:"card_id"`
	DueDate    time.Time `json:"due_date"`
	EditionIDs []string  `json:"edition_ids"`
	CopyIDs    []string  `json:"copy_ids"`
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.BorrowRequest, bool, error) {
	var request core.BorrowRequest
	var isIdempotent bool

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		existing, err := tx.BorrowRequestByID(ctx, command.RequestID)
		switch {
		case err == nil:
			request, isIdempotent = existing, true
			return nil
		case !errors.Is(err, circulation.ErrNotFound):
			return err
		}

		card, err := tx.CardByID(ctx, command.CardID)
		if err != nil {
			return err
		}

		activeLoans, err := tx.CountActiveLoans(ctx, card.ID)
		if err != nil {
			return err
		}

		if _, err = CheckEligibility(card, activeLoans, command); err != nil {
			return err
		}

		allocated, err := allocate(ctx, tx, command.EditionIDs)
		if err != nil {
			return err
		}

		state := State{Card: card, ActiveLoans: activeLoans, Allocated: allocated}
		request, err = Decide(state, command, shell.NewID)
		if err != nil {
			return err
		}

		if err = tx.InsertBorrowRequest(ctx, request); err != nil {
			return err
		}

		payload := journalPayload{CardID: card.ID.String(), DueDate: request.DueDate}
		for _, d := range request.Details {
			payload.EditionIDs = append(payload.EditionIDs, d.EditionID.String())
			payload.CopyIDs = append(payload.CopyIDs, d.CopyID.String())
		}

		return shell.AppendJournalEntry(
			ctx,
			tx,
			core.JournalBorrowRequestCreated,
			request.ID,
			command.OccurredAt,
			payload,
			shell.BuildJournalMetadata(ctx, command.Actor.ID),
		)
	})
	if err != nil {
		return core.BorrowRequest{}, false, err
	}

	if !isIdempotent {
		request.Version = 1
	}

	return request, isIdempotent, nil
}

// allocate soft allocates one copy per edition. A copy is never chosen twice for the same request.
func allocate(ctx context.Context, tx circulation.InventoryStore, editionIDs []uuid.UUID) ([]core.Copy, error) {
	allocated := make([]core.Copy, 0, len(editionIDs))
	chosen := make([]uuid.UUID, 0, len(editionIDs))

	for _, editionID := range editionIDs {
		bookCopy, err := tx.FindAvailableCopy(ctx, editionID, chosen)
		if err != nil {
			return nil, err
		}

		allocated = append(allocated, bookCopy)
		chosen = append(chosen, bookCopy.ID)
	}

	return allocated, nil
}
