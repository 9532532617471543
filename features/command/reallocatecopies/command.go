package reallocatecopies

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	commandType = "ReallocateCopies"
)

// Command represents a reallocation of a request's stale copies.
type Command struct {
	RequestID  uuid.UUID
	StaffID    uuid.UUID
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(requestID uuid.UUID, staffID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		RequestID:  requestID,
		StaffID:    staffID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
