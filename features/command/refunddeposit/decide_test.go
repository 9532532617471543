package refunddeposit_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/features/command/refunddeposit"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

func Test_Decide_Success_WhenBalanceCoversRefund(t *testing.T) {
	// arrange
	card := core.Card{ID: GivenUniqueID(t), DepositAmount: decimal.NewFromInt(300000)}
	history := []core.DepositTransaction{
		{ID: GivenUniqueID(t), CardID: card.ID, Amount: decimal.NewFromInt(200000), Type: core.DepositIn},
		{ID: GivenUniqueID(t), CardID: card.ID, Amount: decimal.NewFromInt(100000), Type: core.DepositIn},
	}
	command := refunddeposit.BuildCommand(GivenUniqueID(t), card.ID, decimal.NewFromInt(250000), GivenUniqueID(t), FakeClock())

	// act
	decision, err := refunddeposit.Decide(card, history, command)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.DepositRefund, decision.Transaction.Type)
	assert.True(t, decimal.NewFromInt(50000).Equal(decision.Card.DepositAmount))
}

func Test_Decide_Error_WhenRefundExceedsBalance(t *testing.T) {
	// arrange
	card := core.Card{ID: GivenUniqueID(t)}
	history := []core.DepositTransaction{
		{ID: GivenUniqueID(t), CardID: card.ID, Amount: decimal.NewFromInt(200000), Type: core.DepositIn},
		{ID: GivenUniqueID(t), CardID: card.ID, Amount: decimal.NewFromInt(200000), Type: core.DepositRefund},
	}
	command := refunddeposit.BuildCommand(GivenUniqueID(t), card.ID, decimal.NewFromInt(1), GivenUniqueID(t), FakeClock())

	// act
	_, err := refunddeposit.Decide(card, history, command)

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidOperation)
}
