package returnbooks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// Result is the request after the return together with the fines assessed by it.
type Result struct {
	Request core.BorrowRequest
	Fines   []core.Fine
}

// CommandHandler runs Load -> Decide -> Release -> Persist inside one transaction, with retry.
type CommandHandler struct {
	store        circulation.Store
	fineEngine   core.FineEngine
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

// NewCommandHandler creates a new CommandHandler computing fines with the policy's rate.
func NewCommandHandler(store circulation.Store, policy core.Policy, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:      store,
		fineEngine: core.NewFineEngine(policy),
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command with retry logic.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, shell.HandlerResult, error) {
	var result Result

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		result, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{}, shell.NewErrorResult(retryMetrics), err
	}

	return result, shell.NewSuccessResult(retryMetrics), nil
}

type returnedCopy struct {
	CopyID    string               `json:"copy_id"`
	Condition core.ReturnCondition `json:"condition"`
}

type assessedFine struct {
	FineID string          `json:"fine_id"`
	CopyID string          `json:"copy_id"`
	Reason core.FineReason `json:"reason"`
	Amount decimal.Decimal `json:"amount"`
}

type journalPayload struct {
	Returned []returnedCopy     `json:"returned"`
	Fines    []assessedFine     `json:"fines"`
	Status   core.RequestStatus `json:"status"`
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Result, error) {
	var result Result

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		request, err := tx.BorrowRequestForUpdate(ctx, command.RequestID)
		if err != nil {
			return err
		}

		copies, err := tx.CopiesByID(ctx, request.CopyIDs())
		if err != nil {
			return err
		}

		decision, err := Decide(State{Request: request, Copies: copies}, command, h.fineEngine)
		if err != nil {
			return err
		}

		for _, release := range decision.Releases {
			if err = tx.ReleaseCopy(ctx, release.CopyID, release.Target); err != nil {
				return err
			}
		}

		if err = tx.UpdateBorrowRequest(ctx, decision.Request); err != nil {
			return err
		}

		result = Result{Request: decision.Request}
		result.Request.Version++

		payload := journalPayload{Status: decision.Request.Status}
		for _, item := range command.Returns {
			payload.Returned = append(payload.Returned, returnedCopy{CopyID: item.CopyID.String(), Condition: item.Condition})
		}

		for _, assessed := range decision.Fines {
			fine, err := core.RecordFine(shell.NewID(), request.ID, assessed.CopyID, assessed.Reason, assessed.Amount, command.OccurredAt)
			if err != nil {
				return err
			}

			if err = tx.InsertFine(ctx, fine); err != nil {
				return err
			}

			fine.Version = 1
			result.Fines = append(result.Fines, fine)
			payload.Fines = append(payload.Fines, assessedFine{
				FineID: fine.ID.String(),
				CopyID: fine.CopyID.String(),
				Reason: fine.Reason,
				Amount: fine.Amount,
			})
		}

		return shell.AppendJournalEntry(
			ctx,
			tx,
			core.JournalBooksReturned,
			request.ID,
			command.OccurredAt,
			payload,
			shell.BuildJournalMetadata(ctx, command.StaffID),
		)
	})
	if err != nil {
		return Result{}, err
	}

	return result, nil
}
