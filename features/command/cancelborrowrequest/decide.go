package cancelborrowrequest

import (
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Decision is the outcome of Decide.
type Decision struct {
	Request core.BorrowRequest
}

// Decide cancels the request if the actor is allowed to.
func Decide(request core.BorrowRequest, card core.Card, command Command) (Decision, error) {
	if !command.Actor.IsStaff() && !card.BelongsTo(command.Actor) {
		return Decision{}, fmt.Errorf("%w: only the requester or staff may cancel", core.ErrNotPermitted)
	}

	status, err := request.Status.Apply(core.ActionCancel)
	if err != nil {
		return Decision{}, err
	}

	request.Status = status

	return Decision{Request: request}, nil
}
