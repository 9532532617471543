package cancelborrowrequest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/memengine"
	"github.com/AntonStoeckl/library-circulation-go/features/command/cancelborrowrequest"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/fixtures" //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper"   //nolint:revive
)

func Test_CommandHandler_Handle_Success_ByRequester(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	handler := cancelborrowrequest.NewCommandHandler(store)
	now := FakeClock()
	card := GivenCard(t, store, now.Add(-Days(30)))
	bookCopy := GivenCopy(t, store, GivenUniqueID(t), 1, 95000)
	request := GivenBorrowRequest(t, store, card, core.StatusPending, now.Add(-Days(1)), now.Add(Days(13)), bookCopy)

	// act
	cancelled, result, err := handler.Handle(
		context.Background(),
		cancelborrowrequest.BuildCommand(request.ID, core.ReaderActor(card.ReaderID), now),
	)

	// assert
	assert.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, core.StatusCancelled, cancelled.Status)
	assert.Equal(t, core.StatusCancelled, RequestOf(t, store, request.ID).Status)
	assert.Equal(t, []string{core.JournalBorrowRequestCanceled}, JournalEntryTypesOf(t, store, request.ID))
}

func Test_CommandHandler_Handle_Error_WhenBorrowed(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	handler := cancelborrowrequest.NewCommandHandler(store)
	now := FakeClock()
	card := GivenCard(t, store, now.Add(-Days(30)))
	bookCopy := GivenCopy(t, store, GivenUniqueID(t), 1, 95000)
	request := GivenBorrowRequest(t, store, card, core.StatusBorrowed, now.Add(-Days(1)), now.Add(Days(13)), bookCopy)

	// act
	_, _, err := handler.Handle(
		context.Background(),
		cancelborrowrequest.BuildCommand(request.ID, core.StaffActor(GivenUniqueID(t)), now),
	)

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidState)
	assert.Equal(t, core.CopyBorrowed, CopyOf(t, store, bookCopy.ID).Status)
}
