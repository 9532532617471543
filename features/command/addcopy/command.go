package addcopy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	commandType = "AddCopy"
)

// Command represents adding a copy to the inventory.
type Command struct {
	CopyID         uuid.UUID
	EditionID      uuid.UUID
	CopyNumber     int
	Price          decimal.Decimal
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
	editionID uuid.UUID,
	copyNumber int,
	price decimal.Decimal,
	conditionNotes string,
	staffID uuid.UUID,
	occurredAt time.Time,
) Command {
	return Command{
		CopyID:         copyID,
		EditionID:      editionID,
		CopyNumber:     copyNumber,
		Price:          price,
		ConditionNotes: conditionNotes,
		StaffID:        staffID,
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}
