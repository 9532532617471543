package approveborrowrequest

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Decision is the outcome of Decide.
type Decision struct {
	Request core.BorrowRequest
}

// Decide approves the request.
func Decide(request core.BorrowRequest, command Command) (Decision, error) {
	status, err := request.Status.Apply(core.ActionApprove)
	if err != nil {
		return Decision{}, err
	}

	approverID := command.ApproverID
	request.Status = status
	request.ApproverID = &approverID

	return Decision{Request: request}, nil
}
