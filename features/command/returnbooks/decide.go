package returnbooks

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// State is the request being returned and the copies of its details.
type State struct {
	Request core.BorrowRequest
	Copies  map[uuid.UUID]core.Copy
}

// Release is the compare-and-swap to perform on one returned copy.
type Release struct {
	CopyID uuid.UUID
	Target core.CopyStatus
}

// AssessedFine is a fine to record for one returned copy.
type AssessedFine struct {
	CopyID uuid.UUID
	Reason core.FineReason
	Amount decimal.Decimal
}

// Decision is the outcome of Decide.
type Decision struct {
	Request  core.BorrowRequest
	Releases []Release
	Fines    []AssessedFine
}

// Decide closes the returned details, decides the copy releases and assesses the fines.
func Decide(state State, command Command, engine core.FineEngine) (Decision, error) {
	request := state.Request.Clone()
	now := command.OccurredAt

	if _, err := request.Status.Apply(core.ActionReturnPartially); err != nil {
		return Decision{}, err
	}

	if len(command.Returns) == 0 {
		return Decision{}, core.ErrNoReturns
	}

	decision := Decision{}
	seen := make(map[uuid.UUID]bool, len(command.Returns))

	for _, item := range command.Returns {
		if seen[item.CopyID] {
			return Decision{}, fmt.Errorf("%w: %s", core.ErrDuplicateCopy, item.CopyID)
		}
		seen[item.CopyID] = true

		idx, ok := request.OpenDetailIndex(item.CopyID)
		if !ok {
			return Decision{}, fmt.Errorf("%w: %s", core.ErrCopyNotOnRequest, item.CopyID)
		}

		target, err := item.Condition.ReleaseTarget()
		if err != nil {
			return Decision{}, err
		}

		bookCopy, ok := state.Copies[item.CopyID]
		if !ok {
			return Decision{}, fmt.Errorf("%w: %s", core.ErrCopyMissing, item.CopyID)
		}

		fines, err := assess(engine, item, bookCopy, request.DueDate, now)
		if err != nil {
			return Decision{}, err
		}

		returnedAt := now
		request.Details[idx].ActualReturnDate = &returnedAt
		request.Details[idx].ReturnCondition = item.Condition

		decision.Releases = append(decision.Releases, Release{CopyID: item.CopyID, Target: target})
		decision.Fines = append(decision.Fines, fines...)
	}

	action := core.ActionReturnPartially
	if request.AllDetailsClosed() {
		action = core.ActionCompleteReturn
	}

	status, err := request.Status.Apply(action)
	if err != nil {
		return Decision{}, err
	}

	request.Status = status
	decision.Request = request

	return decision, nil
}

func assess(
	engine core.FineEngine,
	item ReturnItem,
	bookCopy core.Copy,
	dueDate core.OccurredAt,
	returnedAt core.OccurredAt,
) ([]AssessedFine, error) {
	var fines []AssessedFine

	if !item.DamageFine.IsZero() && item.Condition != core.ReturnDamaged {
		return nil, fmt.Errorf("%w: damage fine given for a %s return", core.ErrInvalidOperation, item.Condition)
	}

	if amount := engine.OverdueFine(bookCopy.Price, dueDate, returnedAt); amount.IsPositive() {
		fines = append(fines, AssessedFine{CopyID: bookCopy.ID, Reason: core.FineReasonOverdue, Amount: amount})
	}

	switch item.Condition {
	case core.ReturnLost:
		if amount := engine.LossFine(bookCopy.Price); amount.IsPositive() {
			fines = append(fines, AssessedFine{CopyID: bookCopy.ID, Reason: core.FineReasonLost, Amount: amount})
		}
	case core.ReturnDamaged:
		amount, err := engine.DamageFine(item.DamageFine)
		if err != nil {
			return nil, err
		}

		if amount.IsPositive() {
			fines = append(fines, AssessedFine{CopyID: bookCopy.ID, Reason: core.FineReasonDamaged, Amount: amount})
		}
	}

	return fines, nil
}
