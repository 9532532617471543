package correctcopystatus

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	commandType = "CorrectCopyStatus"
)

// Command represents a staff correction of a copy's status.
// ConditionNotes replace the stored notes when not empty.
type Command struct {
	CopyID         uuid.UUID
	Target         core.CopyStatus
	ConditionNotes string
	StaffID        uuid.UUID
	OccurredAt     core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	copyID uuid.UUID,
	target core.CopyStatus,
	conditionNotes string,
	staffID uuid.UUID,
	occurredAt time.Time,
) Command {
	return Command{
		CopyID:         copyID,
		Target:         target,
		ConditionNotes: conditionNotes,
		StaffID:        staffID,
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}
