package refunddeposit_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/memengine"
	"github.com/AntonStoeckl/library-circulation-go/features/command/refunddeposit"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/fixtures" //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper"   //nolint:revive
)

func Test_CommandHandler_Handle_FullRefund_ThenFurtherRefundFails(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	handler := refunddeposit.NewCommandHandler(store)
	card := GivenCard(t, store, FakeClock().Add(-Days(30)))
	fullRefund := refunddeposit.BuildCommand(GivenUniqueID(t), card.ID, decimal.NewFromInt(200000), GivenUniqueID(t), FakeClock())
	furtherRefund := refunddeposit.BuildCommand(GivenUniqueID(t), card.ID, decimal.NewFromInt(1), GivenUniqueID(t), FakeClock())

	// act
	result, _, fullErr := handler.Handle(context.Background(), fullRefund)
	_, _, furtherErr := handler.Handle(context.Background(), furtherRefund)

	// assert
	assert.NoError(t, fullErr)
	assert.True(t, decimal.Zero.Equal(result.Balance), "got %s", result.Balance)
	assert.ErrorIs(t, furtherErr, core.ErrRefundExceedsBalance)
	assert.ErrorIs(t, furtherErr, core.ErrInvalidOperation)
	assert.True(t, decimal.Zero.Equal(core.ComputeDepositBalance(DepositsOf(t, store, card.ID))))
	assert.True(t, decimal.Zero.Equal(CardOf(t, store, card.ID).DepositAmount))
	assert.Equal(t, []string{core.JournalDepositRefunded}, JournalEntryTypesOf(t, store, card.ID))
}
