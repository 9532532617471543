package rejectborrowrequest

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	commandType = "RejectBorrowRequest"
)

// Command represents the intent of a staff member to reject a pending borrow request.
type Command struct {
	RequestID  uuid.UUID
	StaffID    uuid.UUID
	Reason     string
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(requestID uuid.UUID, staffID uuid.UUID, reason string, occurredAt time.Time) Command {
	return Command{
		RequestID:  requestID,
		StaffID:    staffID,
		Reason:     reason,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
