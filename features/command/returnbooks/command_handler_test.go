package returnbooks_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/memengine"
	"github.com/AntonStoeckl/library-circulation-go/features/command/returnbooks"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/fixtures" //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper"   //nolint:revive
)

func Test_CommandHandler_Handle_Success_WhenReturnedLate(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	handler := returnbooks.NewCommandHandler(store, core.DefaultPolicy())
	now := FakeClock()
	card := GivenCard(t, store, now.Add(-Days(60)))
	bookCopy := GivenCopy(t, store, GivenUniqueID(t), 1, 95000)
	request := GivenBorrowRequest(t, store, card, core.StatusOverdue, now.Add(-Days(24)), now.Add(-Days(10)), bookCopy)
	command := returnbooks.BuildCommand(request.ID, GivenUniqueID(t),
		[]returnbooks.ReturnItem{{CopyID: bookCopy.ID, Condition: core.ReturnNormal}}, now)

	// act
	result, handlerResult, err := handler.Handle(context.Background(), command)

	// assert
	assert.NoError(t, err)
	assert.False(t, handlerResult.Idempotent)
	assert.Equal(t, core.StatusReturned, result.Request.Status)
	assert.Len(t, result.Fines, 1)
	assert.True(t, decimal.NewFromInt(47500).Equal(result.Fines[0].Amount))
	assert.Equal(t, core.CopyAvailable, CopyOf(t, store, bookCopy.ID).Status)
	assert.Equal(t, core.StatusReturned, RequestOf(t, store, request.ID).Status)
	stored := FinesOf(t, store, request.ID)
	assert.Len(t, stored, 1)
	assert.Equal(t, core.FinePending, stored[0].Status)
	assert.Equal(t, []string{core.JournalBooksReturned}, JournalEntryTypesOf(t, store, request.ID))
}

func Test_CommandHandler_Handle_PartialReturn_ThenCompleteReturn(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	handler := returnbooks.NewCommandHandler(store, core.DefaultPolicy())
	now := FakeClock()
	card := GivenCard(t, store, now.Add(-Days(60)))
	editionID := GivenUniqueID(t)
	first := GivenCopy(t, store, editionID, 1, 95000)
	second := GivenCopy(t, store, editionID, 2, 95000)
	request := GivenBorrowRequest(t, store, card, core.StatusBorrowed, now.Add(-Days(3)), now.Add(Days(11)), first, second)

	// act
	partial, _, partialErr := handler.Handle(context.Background(), returnbooks.BuildCommand(request.ID, GivenUniqueID(t),
		[]returnbooks.ReturnItem{{CopyID: first.ID, Condition: core.ReturnNormal}}, now))
	complete, _, completeErr := handler.Handle(context.Background(), returnbooks.BuildCommand(request.ID, GivenUniqueID(t),
		[]returnbooks.ReturnItem{{CopyID: second.ID, Condition: core.ReturnDamaged}}, now.Add(Days(1))))

	// assert
	assert.NoError(t, partialErr)
	assert.NoError(t, completeErr)
	assert.Equal(t, core.StatusBorrowed, partial.Request.Status)
	assert.Equal(t, core.StatusReturned, complete.Request.Status)
	assert.Empty(t, complete.Fines)
	assert.Equal(t, core.CopyAvailable, CopyOf(t, store, first.ID).Status)
	assert.Equal(t, core.CopyDamaged, CopyOf(t, store, second.ID).Status)
	assert.Empty(t, FinesOf(t, store, request.ID))
}

func Test_CommandHandler_Handle_Error_WhenCopyAlreadyReturned(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	handler := returnbooks.NewCommandHandler(store, core.DefaultPolicy())
	now := FakeClock()
	card := GivenCard(t, store, now.Add(-Days(60)))
	editionID := GivenUniqueID(t)
	first := GivenCopy(t, store, editionID, 1, 95000)
	second := GivenCopy(t, store, editionID, 2, 95000)
	request := GivenBorrowRequest(t, store, card, core.StatusBorrowed, now.Add(-Days(3)), now.Add(Days(11)), first, second)
	command := returnbooks.BuildCommand(request.ID, GivenUniqueID(t),
		[]returnbooks.ReturnItem{{CopyID: first.ID, Condition: core.ReturnNormal}}, now)
	_, _, err := handler.Handle(context.Background(), command)
	assert.NoError(t, err)

	// act
	_, _, err = handler.Handle(context.Background(), command)

	// assert
	assert.ErrorIs(t, err, core.ErrCopyNotOnRequest)
}

func Test_CommandHandler_Handle_Success_WhenTwoCopiesReturnedLate(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	handler := returnbooks.NewCommandHandler(store, core.DefaultPolicy())
	now := FakeClock()
	card := GivenCard(t, store, now.Add(-Days(60)))
	first := GivenCopy(t, store, GivenUniqueID(t), 1, 95000)
	second := GivenCopy(t, store, GivenUniqueID(t), 1, 60000)
	request := GivenBorrowRequest(t, store, card, core.StatusOverdue, now.Add(-Days(24)), now.Add(-Days(10)), first, second)
	command := returnbooks.BuildCommand(request.ID, GivenUniqueID(t), []returnbooks.ReturnItem{
		{CopyID: first.ID, Condition: core.ReturnNormal},
		{CopyID: second.ID, Condition: core.ReturnNormal},
	}, now)

	// act
	result, _, err := handler.Handle(context.Background(), command)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.StatusReturned, result.Request.Status)
	assert.Len(t, result.Fines, 2)
	amountsByCopy := make(map[string]decimal.Decimal)
	for _, fine := range FinesOf(t, store, request.ID) {
		assert.Equal(t, core.FineReasonOverdue, fine.Reason)
		amountsByCopy[fine.CopyID.String()] = fine.Amount
	}
	assert.Len(t, amountsByCopy, 2)
	assert.True(t, decimal.NewFromInt(47500).Equal(amountsByCopy[first.ID.String()]))
	assert.True(t, decimal.NewFromInt(30000).Equal(amountsByCopy[second.ID.String()]))
	assert.Equal(t, core.CopyAvailable, CopyOf(t, store, first.ID).Status)
	assert.Equal(t, core.CopyAvailable, CopyOf(t, store, second.ID).Status)
}

func Test_CommandHandler_Handle_Success_WhenLostCopyReturnedLate(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	handler := returnbooks.NewCommandHandler(store, core.DefaultPolicy())
	now := FakeClock()
	card := GivenCard(t, store, now.Add(-Days(60)))
	bookCopy := GivenCopy(t, store, GivenUniqueID(t), 1, 95000)
	request := GivenBorrowRequest(t, store, card, core.StatusOverdue, now.Add(-Days(18)), now.Add(-Days(4)), bookCopy)
	command := returnbooks.BuildCommand(request.ID, GivenUniqueID(t),
		[]returnbooks.ReturnItem{{CopyID: bookCopy.ID, Condition: core.ReturnLost}}, now)

	// act
	result, _, err := handler.Handle(context.Background(), command)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.StatusReturned, result.Request.Status)
	amountsByReason := make(map[core.FineReason]decimal.Decimal)
	for _, fine := range FinesOf(t, store, request.ID) {
		assert.Equal(t, bookCopy.ID, fine.CopyID)
		amountsByReason[fine.Reason] = fine.Amount
	}
	assert.Len(t, amountsByReason, 2)
	assert.True(t, decimal.NewFromInt(19000).Equal(amountsByReason[core.FineReasonOverdue]))
	assert.True(t, decimal.NewFromInt(95000).Equal(amountsByReason[core.FineReasonLost]))
	assert.Equal(t, core.CopyDisposed, CopyOf(t, store, bookCopy.ID).Status)
}
