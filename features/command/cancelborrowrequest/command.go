package cancelborrowrequest

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	commandType = "CancelBorrowRequest"
)

// Command represents the intent of the requester or staff to cancel a borrow request.
type Command struct {
	RequestID  uuid.UUID
	Actor      core.Actor
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(requestID uuid.UUID, actor core.Actor, occurredAt time.Time) Command {
	return Command{
		RequestID:  requestID,
		Actor:      actor,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
