package depositfunds

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	commandType = "DepositFunds"
)

// Command represents a payment into a card's deposit.
// TransactionID is chosen by the caller, repeating a command with the same TransactionID is idempotent.
type Command struct {
	TransactionID uuid.UUID
	CardID        uuid.UUID
	Amount        decimal.Decimal
	StaffID       uuid.UUID
	OccurredAt    core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	transactionID uuid.UUID,
	cardID uuid.UUID,
	amount decimal.Decimal,
	staffID uuid.UUID,
	occurredAt time.Time,
) Command {
	return Command{
		TransactionID: transactionID,
		CardID:        cardID,
		Amount:        amount,
		StaffID:       staffID,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
