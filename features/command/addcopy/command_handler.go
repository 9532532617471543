package addcopy

import (
	"context"
	"errors"

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
// Repeating the command with the same CopyID is idempotent as long as edition and copy number match.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Copy, shell.HandlerResult, error) {
	var bookCopy core.Copy
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		bookCopy, isIdempotent, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return core.Copy{}, shell.NewErrorResult(retryMetrics), err
	}

	if isIdempotent {
		return bookCopy, shell.NewIdempotentResult(retryMetrics), nil
	}

	return bookCopy, shell.NewSuccessResult(retryMetrics), nil
}

type journalPayload struct {
	EditionID  string          `json:"edition_id"`
	CopyNumber int             `json:"copy_number"`
	Price      decimal.Decimal `json:"price"`
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Copy, bool, error) {
	var bookCopy core.Copy
	var isIdempotent bool

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		existing, err := tx.CopyByID(ctx, command.CopyID)
		switch {
		case err == nil:
			if existing.EditionID != command.EditionID || existing.CopyNumber != command.CopyNumber {
				return circulation.ErrCopyAlreadyExists
			}

			bookCopy = existing
			isIdempotent = true

			return nil
		case !errors.Is(err, circulation.ErrNotFound):
			return err
		}

		bookCopy, err = Decide(command)
		if err != nil {
			return err
		}

		if err = tx.InsertCopy(ctx, bookCopy); err != nil {
			return err
		}

		bookCopy.Version = 1

		return shell.AppendJournalEntry(
			ctx,
			tx,
			core.JournalCopyAdded,
			bookCopy.ID,
			command.OccurredAt,
			journalPayload{
				EditionID:  bookCopy.EditionID.String(),
				CopyNumber: bookCopy.CopyNumber,
				Price:      bookCopy.Price,
			},
			shell.BuildJournalMetadata(ctx, command.StaffID),
		)
	})

	return bookCopy, isIdempotent, err
}
