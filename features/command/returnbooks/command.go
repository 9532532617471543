package returnbooks

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	commandType = "ReturnBooks"
)

// ReturnItem is one copy coming back. DamageFine is only allowed for damaged returns.
type ReturnItem struct {
	CopyID     uuid.UUID
	Condition  core.ReturnCondition
	DamageFine decimal.Decimal
}

// Command represents the intent of a staff member to take back copies of a request.
type Command struct {
	RequestID  uuid.UUID
	StaffID    uuid.UUID
	Returns    []ReturnItem
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(requestID uuid.UUID, staffID uuid.UUID, returns []ReturnItem, occurredAt time.Time) Command {
	return Command{
		RequestID:  requestID,
		StaffID:    staffID,
		Returns:    returns,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
