package createborrowrequest

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// State is everything Decide needs to know about the card and the shelf.
type State struct {
	Card        core.Card
	ActiveLoans int

	// Allocated holds the soft allocated copy per requested edition, in the order of the command.
	Allocated []core.Copy
}

// CheckEligibility verifies the card may borrow and returns the due date of the new request.
// It runs before any copy is allocated.
func CheckEligibility(card core.Card, activeLoans int, command Command) (time.Time, error) {
	if len(command.EditionIDs) == 0 {
		return time.Time{}, core.ErrNoItems
	}

	if command.Actor.Role == core.RoleReader && !card.BelongsTo(command.Actor) {
		return time.Time{}, fmt.Errorf("%w: card %s belongs to another reader", core.ErrNotPermitted, card.ID)
	}

	if err := card.CheckCanBorrow(activeLoans, command.OccurredAt); err != nil {
		return time.Time{}, err
	}

	latest := card.LatestDueDate(command.OccurredAt)
	if command.DesiredDueDate == nil {
		return latest, nil
	}

	dueDate := *command.DesiredDueDate
	if !dueDate.After(command.OccurredAt) {
		return time.Time{}, core.ErrDueDateNotInFuture
	}

	if dueDate.After(latest) {
		return time.Time{}, core.ErrDueDateBeyondLimit
	}

	return dueDate, nil
}

// Decide builds the pending borrow request from the card state and the allocated copies.
func Decide(state State, command Command, newDetailID func() uuid.UUID) (core.BorrowRequest, error) {
	dueDate, err := CheckEligibility(state.Card, state.ActiveLoans, command)
	if err != nil {
		return core.BorrowRequest{}, err
	}

	if len(state.Allocated) != len(command.EditionIDs) {
		return core.BorrowRequest{}, fmt.Errorf("%w: %d editions requested, %d copies allocated",
			core.ErrNoAvailableCopy, len(command.EditionIDs), len(state.Allocated))
	}

	request := core.BorrowRequest{
		ID:          command.RequestID,
		CardID:      state.Card.ID,
		Status:      core.StatusPending,
		RequestDate: command.OccurredAt,
		DueDate:     dueDate,
		Notes:       command.Notes,
	}

	seen := make(map[uuid.UUID]bool, len(state.Allocated))
	for i, bookCopy := range state.Allocated {
		if bookCopy.EditionID != command.EditionIDs[i] {
			return core.BorrowRequest{}, fmt.Errorf("%w: copy %s is not of edition %s",
				core.ErrInvalidOperation, bookCopy.ID, command.EditionIDs[i])
		}

		if seen[bookCopy.ID] {
			return core.BorrowRequest{}, core.ErrDuplicateCopy
		}
		seen[bookCopy.ID] = true

		request.Details = append(request.Details, core.BorrowDetail{
			ID:        newDetailID(),
			RequestID: request.ID,
			EditionID: bookCopy.EditionID,
			CopyID:    bookCopy.ID,
		})
	}

	return request, nil
}
