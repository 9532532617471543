package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FineStatus is the payment status of a fine.
type FineStatus string

const (
	FinePending FineStatus = "pending"
	FinePaid    FineStatus = "paid"
)

// FineAction is an operation on a fine.
type FineAction string

const FineActionPay FineAction = "pay"

var fineTransitions = map[FineStatus]map[FineAction]FineStatus{
	FinePending: {FineActionPay: FinePaid},
	FinePaid:    {},
}

// Apply returns the status reached by applying action, or a *TransitionError.
func (s FineStatus) Apply(action FineAction) (FineStatus, error) {
	next, ok := fineTransitions[s][action]
	if !ok {
		return s, &TransitionError{Entity: "fine", From: string(s), Action: string(action)}
	}

	return next, nil
}

// FineReason says why a fine was assessed.
type FineReason string

const (
	FineReasonOverdue FineReason = "overdue"
	FineReasonLost    FineReason = "lost"
	FineReasonDamaged FineReason = "damaged"
)

// Fine is a monetary penalty tied to a borrow request and a copy.
// Once paid only Status, PaidDate and CollectedBy have changed.
type Fine struct {
	ID          uuid.UUID
	RequestID   uuid.UUID
	CopyID      uuid.UUID
	Reason      FineReason
	Amount      decimal.Decimal
	Status      FineStatus
	CreatedAt   time.Time
	PaidDate    *time.Time
	CollectedBy *uuid.UUID
	Version     int
}

// RecordFine creates a pending fine.
func RecordFine(
	fineID uuid.UUID,
	requestID uuid.UUID,
	copyID uuid.UUID,
	reason FineReason,
	amount decimal.Decimal,
	createdAt time.Time,
) (Fine, error) {
	if amount.IsNegative() {
		return Fine{}, ErrNegativeAmount
	}

	return Fine{
		ID:        fineID,
		RequestID: requestID,
		CopyID:    copyID,
		Reason:    reason,
		Amount:    amount,
		Status:    FinePending,
		CreatedAt: createdAt,
	}, nil
}

// Pay marks the fine as paid. It fails with ErrInvalidState if it was paid already.
func (f Fine) Pay(collectedBy uuid.UUID, paidAt time.Time) (Fine, error) {
	status, err := f.Status.Apply(FineActionPay)
	if err != nil {
		return f, err
	}

	f.Status = status
	f.PaidDate = timePtr(paidAt)
	f.CollectedBy = uuidPtr(collectedBy)

	return f, nil
}

// HasUnpaidFines reports whether any of fines is still pending.
func HasUnpaidFines(fines []Fine) bool {
	for _, f := range fines {
		if f.Status == FinePending {
			return true
		}
	}

	return false
}

// OutstandingAmount sums the pending fines.
func OutstandingAmount(fines []Fine) decimal.Decimal {
	total := decimal.Zero
	for _, f := range fines {
		if f.Status == FinePending {
			total = total.Add(f.Amount)
		}
	}

	return total
}

const day = 24 * time.Hour

var hundred = decimal.NewFromInt(100)

// DaysLate is the number of started days between dueDate and returnDate, zero if returned in time.
func DaysLate(dueDate, returnDate time.Time) int64 {
	late := returnDate.Sub(dueDate)
	if late <= 0 {
		return 0
	}

	days := int64(late / day)
	if late%day != 0 {
		days++
	}

	return days
}

// ComputeOverdueFine returns copyPrice × ratePercent/100 × days late.
func ComputeOverdueFine(copyPrice decimal.Decimal, dueDate, returnDate time.Time, ratePercent decimal.Decimal) decimal.Decimal {
	daysLate := DaysLate(dueDate, returnDate)
	if daysLate == 0 {
		return decimal.Zero
	}

	return copyPrice.Mul(ratePercent).Div(hundred).Mul(decimal.NewFromInt(daysLate))
}

// ComputeLossFine charges the full replacement cost.
func ComputeLossFine(copyPrice decimal.Decimal) decimal.Decimal {
	return copyPrice
}

// ComputeDamageFine takes the staff-entered amount as is.
func ComputeDamageFine(assessed decimal.Decimal) (decimal.Decimal, error) {
	if assessed.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}

	return assessed, nil
}

// FineEngine computes fines with the configured rate.
type FineEngine struct {
	ratePercent decimal.Decimal
}

// NewFineEngine creates a FineEngine using the policy's fine rate.
func NewFineEngine(policy Policy) FineEngine {
	return FineEngine{ratePercent: policy.FineRatePercent}
}

// RatePercent returns the configured rate.
func (e FineEngine) RatePercent() decimal.Decimal {
	return e.ratePercent
}

// OverdueFine computes the overdue fine for one copy.
func (e FineEngine) OverdueFine(copyPrice decimal.Decimal, dueDate, returnDate time.Time) decimal.Decimal {
	return ComputeOverdueFine(copyPrice, dueDate, returnDate, e.ratePercent)
}

// LossFine computes the fine for a lost copy.
func (e FineEngine) LossFine(copyPrice decimal.Decimal) decimal.Decimal {
	return ComputeLossFine(copyPrice)
}

// DamageFine validates a staff-entered damage fine.
func (e FineEngine) DamageFine(assessed decimal.Decimal) (decimal.Decimal, error) {
	return ComputeDamageFine(assessed)
}
