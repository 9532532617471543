package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepositType is the direction of a deposit movement.
type DepositType string

const (
	DepositIn     DepositType = "deposit"
	DepositRefund DepositType = "refund"
)

// DepositTransaction records cash moving into or out of a card's deposit. The ledger is append-only.
type DepositTransaction struct {
	ID         uuid.UUID
	CardID     uuid.UUID
	Amount     decimal.Decimal
	Type       DepositType
	OccurredAt time.Time
}

// Signed returns the amount with the sign of its direction.
func (t DepositTransaction) Signed() decimal.Decimal {
	if t.Type == DepositRefund {
		return t.Amount.Neg()
	}

	return t.Amount
}

// ComputeDepositBalance sums deposits minus refunds.
func ComputeDepositBalance(transactions []DepositTransaction) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range transactions {
		balance = balance.Add(t.Signed())
	}

	return balance
}

// NewDeposit builds a deposit transaction.
func NewDeposit(id, cardID uuid.UUID, amount decimal.Decimal, occurredAt time.Time) (DepositTransaction, error) {
	if !amount.IsPositive() {
		return DepositTransaction{}, ErrNonPositiveAmount
	}

	return DepositTransaction{ID: id, CardID: cardID, Amount: amount, Type: DepositIn, OccurredAt: occurredAt}, nil
}

// NewRefund builds a refund transaction. The balance must cover the amount.
func NewRefund(
	id uuid.UUID,
	cardID uuid.UUID,
	amount decimal.Decimal,
	history []DepositTransaction,
	occurredAt time.Time,
) (DepositTransaction, error) {
	if !amount.IsPositive() {
		return DepositTransaction{}, ErrNonPositiveAmount
	}

	if balance := ComputeDepositBalance(history); amount.GreaterThan(balance) {
		return DepositTransaction{}, fmt.Errorf("%w: balance %s, requested %s", ErrRefundExceedsBalance, balance, amount)
	}

	return DepositTransaction{ID: id, CardID: cardID, Amount: amount, Type: DepositRefund, OccurredAt: occurredAt}, nil
}
