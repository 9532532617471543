package changecardstatus

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	commandType = "ChangeCardStatus"
)

// Command represents a staff action on a card. ExpiresAt is only used by renew.
type Command struct {
	CardID     uuid.UUID
	Action     core.CardAction
	ExpiresAt  *time.Time
	StaffID    uuid.UUID
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	cardID uuid.UUID,
	action core.CardAction,
	expiresAt *time.Time,
	staffID uuid.UUID,
	occurredAt time.Time,
) Command {
	var expiry *time.Time
	if expiresAt != nil {
		normalized := core.ToOccurredAt(*expiresAt)
		expiry = &normalized
	}

	return Command{
		CardID:     cardID,
		Action:     action,
		ExpiresAt:  expiry,
		StaffID:    staffID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
