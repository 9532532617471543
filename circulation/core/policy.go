package core

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidPolicy is returned by Policy.Validate.
var ErrInvalidPolicy = errors.New("invalid circulation policy")

// Policy carries the configurable business parameters of the circulation.
// It is handed explicitly to the FineEngine and to every command handler constructor.
type Policy struct {
	// FineRatePercent is the share of a copy's price charged per day late, e.g. 5 for 5%.
	FineRatePercent decimal.Decimal

	// DefaultBorrowDays is used as max borrow days for cards registered without an explicit value.
	DefaultBorrowDays int

	// DefaultMaxBooks is used as max books for cards registered without an explicit value.
	DefaultMaxBooks int

	// MinimumDeposit is the smallest initial deposit accepted at card registration.
	MinimumDeposit decimal.Decimal

	// BlockExtensionWithUnpaidFines rejects extensions of requests that still have pending fines.
	BlockExtensionWithUnpaidFines bool
}

// DefaultPolicy returns the policy the library ran with before it became configurable.
func DefaultPolicy() Policy {
	return Policy{
		FineRatePercent:               decimal.NewFromInt(5),
		DefaultBorrowDays:             14,
		DefaultMaxBooks:               5,
		MinimumDeposit:                decimal.NewFromInt(200000),
		BlockExtensionWithUnpaidFines: true,
	}
}

// Validate checks that all parameters are in range.
func (p Policy) Validate() error {
	if p.FineRatePercent.IsNegative() {
		return errors.Join(ErrInvalidPolicy, errors.New("fine rate percent must not be negative"))
	}

	if p.DefaultBorrowDays <= 0 {
		return errors.Join(ErrInvalidPolicy, errors.New("default borrow days must be positive"))
	}

	if p.DefaultMaxBooks <= 0 {
		return errors.Join(ErrInvalidPolicy, errors.New("default max books must be positive"))
	}

	if p.MinimumDeposit.IsNegative() {
		return errors.Join(ErrInvalidPolicy, errors.New("minimum deposit must not be negative"))
	}

	return nil
}
