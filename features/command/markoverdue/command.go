package markoverdue

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	commandType = "MarkOverdue"
)

// Command represents one sweep run. ActorID may be uuid.Nil for the scheduler.
type Command struct {
	ActorID    uuid.UUID
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actorID uuid.UUID, now time.Time) Command {
	return Command{
		ActorID:    actorID,
		OccurredAt: core.ToOccurredAt(now),
	}
}
