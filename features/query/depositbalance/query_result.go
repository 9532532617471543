package depositbalance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// DepositBalance represents the query result.
type DepositBalance struct {
	CardID       uuid.UUID
	Balance      decimal.Decimal
	Transactions []core.DepositTransaction
}
