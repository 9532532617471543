package extendborrowrequest

import (
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// State is the request to extend and its fines.
type State struct {
	Request core.BorrowRequest
	Fines   []core.Fine
}

// Decide advances the due date and resolves the overdue status against it.
func Decide(state State, command Command, policy core.Policy) (core.BorrowRequest, error) {
	request := state.Request.Clone()

	status, err := request.Status.Apply(core.ActionExtend)
	if err != nil {
		return core.BorrowRequest{}, err
	}

	if !command.NewDueDate.After(request.DueDate) {
		return core.BorrowRequest{}, fmt.Errorf("%w: current %s, requested %s",
			core.ErrDueDateNotAfterCurrent, request.DueDate.Format("2006-01-02"), command.NewDueDate.Format("2006-01-02"))
	}

	if policy.BlockExtensionWithUnpaidFines && core.HasUnpaidFines(state.Fines) {
		return core.BorrowRequest{}, core.ErrUnpaidFines
	}

	status, err = core.ResolveOverdue(status, command.NewDueDate, command.OccurredAt)
	if err != nil {
		return core.BorrowRequest{}, err
	}

	request.Status = status
	request.DueDate = command.NewDueDate

	return request, nil
}
