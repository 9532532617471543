package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

func Test_DepositBalance_DepositThenFullRefund_IsZero(t *testing.T) {
	// arrange
	cardID := uuid.New()
	now := time.Now()
	amount := decimal.NewFromInt(200000)

	deposit, err := core.NewDeposit(uuid.New(), cardID, amount, now)
	assert.NoError(t, err)

	refund, err := core.NewRefund(uuid.New(), cardID, amount, []core.DepositTransaction{deposit}, now)
	assert.NoError(t, err)

	history := []core.DepositTransaction{deposit, refund}

	// act
	balance := core.ComputeDepositBalance(history)
	_, furtherRefundErr := core.NewRefund(uuid.New(), cardID, decimal.NewFromInt(1), history, now)

	// assert
	assert.True(t, balance.IsZero(), "expected zero balance, got %s", balance)
	assert.ErrorIs(t, furtherRefundErr, core.ErrInvalidOperation)
	assert.ErrorIs(t, furtherRefundErr, core.ErrRefundExceedsBalance)
}

func Test_NewDeposit_RejectsNonPositiveAmount(t *testing.T) {
	_, zeroErr := core.NewDeposit(uuid.New(), uuid.New(), decimal.Zero, time.Now())
	_, negativeErr := core.NewDeposit(uuid.New(), uuid.New(), decimal.NewFromInt(-10), time.Now())

	assert.ErrorIs(t, zeroErr, core.ErrNonPositiveAmount)
	assert.ErrorIs(t, negativeErr, core.ErrNonPositiveAmount)
}

func Test_ComputeDepositBalance_PartialRefund(t *testing.T) {
	cardID := uuid.New()
	now := time.Now()
	first, _ := core.NewDeposit(uuid.New(), cardID, decimal.NewFromInt(150000), now)
	second, _ := core.NewDeposit(uuid.New(), cardID, decimal.NewFromInt(50000), now)
	refund, err := core.NewRefund(uuid.New(), cardID, decimal.NewFromInt(120000), []core.DepositTransaction{first, second}, now)
	assert.NoError(t, err)

	balance := core.ComputeDepositBalance([]core.DepositTransaction{first, second, refund})

	assert.True(t, balance.Equal(decimal.NewFromInt(80000)), "got %s", balance)
	assert.True(t, refund.Signed().Equal(decimal.NewFromInt(-120000)))
}
