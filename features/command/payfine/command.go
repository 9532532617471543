package payfine

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	commandType = "PayFine"
)

// Command represents the recording of a fine payment.
type Command struct {
	FineID      uuid.UUID
	CollectedBy uuid.UUID
	OccurredAt  core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(fineID uuid.UUID, collectedBy uuid.UUID, occurredAt time.Time) Command {
	return Command{
		FineID:      fineID,
		CollectedBy: collectedBy,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}
