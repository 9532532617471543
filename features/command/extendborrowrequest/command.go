package extendborrowrequest

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	commandType = "ExtendBorrowRequest"
)

// Command represents the intent of a staff member to extend a loan.
type Command struct {
	RequestID  uuid.UUID
	StaffID    uuid.UUID
	NewDueDate time.Time
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(requestID uuid.UUID, staffID uuid.UUID, newDueDate time.Time, occurredAt time.Time) Command {
	return Command{
		RequestID:  requestID,
		StaffID:    staffID,
		NewDueDate: core.ToOccurredAt(newDueDate),
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
