package reallocatecopies

import (
	"context"

	"github.com/google/uuid"

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
func (h CommandHandler) Handle(ctx context.Context, command Command) (Decision, shell.HandlerResult, error) {
	var decision Decision

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Decision{}, shell.NewErrorResult(retryMetrics), err
	}

	if decision.Idempotent {
		return decision, shell.NewIdempotentResult(retryMetrics), nil
	}

	return decision, shell.NewSuccessResult(retryMetrics), nil
}

type journalReplacement struct {
	DetailID string `json:"detail_id"`
	From     string `json:"from_copy_id"`
	To       string `json:"to_copy_id"`
}

type journalPayload struct {
	Replacements []journalReplacement `json:"replacements"`
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Decision, error) {
	var decision Decision

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		request, err := tx.BorrowRequestForUpdate(ctx, command.RequestID)
		if err != nil {
			return err
		}

		copies, err := tx.CopiesByID(ctx, request.CopyIDs())
		if err != nil {
			return err
		}

		stale, err := StaleDetails(request, copies)
		if err != nil {
			return err
		}

		replacements, err := findReplacements(ctx, tx, request, stale)
		if err != nil {
			return err
		}

		decision, err = Decide(request, copies, replacements)
		if err != nil || decision.Idempotent {
			return err
		}

		if err = tx.UpdateBorrowRequest(ctx, decision.Request); err != nil {
			return err
		}

		decision.Request.Version++

		payload := journalPayload{}
		for _, r := range decision.Replacements {
			payload.Replacements = append(payload.Replacements, journalReplacement{
				DetailID: r.DetailID.String(),
				From:     r.From.String(),
				To:       r.To.String(),
			})
		}

		return shell.AppendJournalEntry(
			ctx,
			tx,
			core.JournalCopiesReallocated,
			request.ID,
			command.OccurredAt,
			payload,
			shell.BuildJournalMetadata(ctx, command.StaffID),
		)
	})

	return decision, err
}

// findReplacements picks a distinct available copy for every stale detail.
// Copies already on the request are never picked.
func findReplacements(
	ctx context.Context,
	tx circulation.Tx,
	request core.BorrowRequest,
	stale []int,
) (map[uuid.UUID]core.Copy, error) {
	replacements := make(map[uuid.UUID]core.Copy, len(stale))
	exclude := request.CopyIDs()

	for _, i := range stale {
		detail := request.Details[i]

		bookCopy, err := tx.FindAvailableCopy(ctx, detail.EditionID, exclude)
		if err != nil {
			return nil, err
		}

		replacements[detail.ID] = bookCopy
		exclude = append(exclude, bookCopy.ID)
	}

	return replacements, nil
}
