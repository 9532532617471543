package rejectborrowrequest

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Decision is the outcome of Decide.
type Decision struct {
	Request core.BorrowRequest
}

// Decide rejects the request and appends the reason to its notes.
func Decide(request core.BorrowRequest, command Command) (Decision, error) {
	status, err := request.Status.Apply(core.ActionReject)
	if err != nil {
		return Decision{}, err
	}

	request.Status = status
	request.Notes = appendReason(request.Notes, command.Reason)

	return Decision{Request: request}, nil
}

func appendReason(notes, reason string) string {
	switch {
	case reason == "":
		return notes
	case notes == "":
		return "rejected: " + reason
	default:
		return notes + "\nrejected: " + reason
	}
}
