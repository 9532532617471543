package issueborrowrequest

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// State is the request to issue together with its card.
type State struct {
	Request     core.BorrowRequest
	Card        core.Card
	ActiveLoans int
}

// Decision is the outcome of Decide.
type Decision struct {
	Request core.BorrowRequest
}

// Decide moves the request to borrowed and marks every detail as hard allocated.
// Reserving the copies themselves is left to the caller.
func Decide(state State, command Command) (Decision, error) {
	request := state.Request.Clone()
	now := command.OccurredAt

	status, err := request.Status.Apply(core.ActionIssue)
	if err != nil {
		return Decision{}, err
	}

	if len(request.Details) == 0 {
		return Decision{}, core.ErrNoItems
	}

	if err = state.Card.CheckCanBorrow(state.ActiveLoans, now); err != nil {
		return Decision{}, err
	}

	if !request.DueDate.After(now) {
		return Decision{}, core.ErrDueDatePassed
	}

	request.Status = status
	request.BorrowDate = &now
	for i := range request.Details {
		reservedAt := now
		request.Details[i].ReservedAt = &reservedAt
	}

	return Decision{Request: request}, nil
}
