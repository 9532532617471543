package approveborrowrequest

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	commandType = "ApproveBorrowRequest"
)

// Command represents the intent of a staff member to approve a pending borrow request.
type Command struct {
	RequestID  uuid.UUID
	ApproverID uuid.UUID
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(requestID uuid.UUID, approverID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		RequestID:  requestID,
		ApproverID: approverID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
