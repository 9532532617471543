package registercard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	commandType = "RegisterCard"
)

// Command represents the registration of a card for a reader.
// Zero MaxBooks or MaxBorrowDays mean the policy defaults.
type Command struct {
	CardID         uuid.UUID
	ReaderID       uuid.UUID
	MaxBooks       int
	MaxBorrowDays  int
	InitialDeposit decimal.Decimal
	ExpiresAt      *time.Time
	StaffID        uuid.UUID
	OccurredAt     core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	cardID uuid.UUID,
	readerID uuid.UUID,
	maxBooks int,
	maxBorrowDays int,
	initialDeposit decimal.Decimal,
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
		CardID:         cardID,
		ReaderID:       readerID,
		MaxBooks:       maxBooks,
		MaxBorrowDays:  maxBorrowDays,
		InitialDeposit: initialDeposit,
		ExpiresAt:      expiry,
		StaffID:        staffID,
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}
