package createborrowrequest

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	commandType = "CreateBorrowRequest"
)

// Command represents the intent to borrow one copy of each edition in EditionIDs on a card.
// RequestID is chosen by the caller, repeating a command with the same RequestID is idempotent.
type Command struct {
	RequestID      uuid.UUID
	CardID         uuid.UUID
	EditionIDs     []uuid.UUID
	DesiredDueDate *time.Time
	Notes          string
	Actor          core.Actor
	OccurredAt     core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	requestID uuid.UUID,
	cardID uuid.UUID,
	editionIDs []uuid.UUID,
	desiredDueDate *time.Time,
	notes string,
	actor core.Actor,
	occurredAt time.Time,
) Command {
	var dueDate *time.Time
	if desiredDueDate != nil {
		normalized := core.ToOccurredAt(*desiredDueDate)
		dueDate = &normalized
	}

	return Command{
		RequestID:      requestID,
		CardID:         cardID,
		EditionIDs:     editionIDs,
		DesiredDueDate: dueDate,
		Notes:          notes,
		Actor:          actor,
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}
