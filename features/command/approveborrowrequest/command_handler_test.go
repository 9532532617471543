package approveborrowrequest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/memengine"
	"github.com/AntonStoeckl/library-circulation-go/features/command/approveborrowrequest"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/fixtures" //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper"   //nolint:revive
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewStore()
	handler := approveborrowrequest.NewCommandHandler(store)
	now := FakeClock()
	card := GivenCard(t, store, now.Add(-Days(30)))
	bookCopy := GivenCopy(t, store, GivenUniqueID(t), 1, 95000)
	request := GivenBorrowRequest(t, store, card, core.StatusPending, now.Add(-Days(1)), now.Add(Days(13)), bookCopy)
	approverID := GivenUniqueID(t)

	// act
	approved, result, err := handler.Handle(ctx, approveborrowrequest.BuildCommand(request.ID, approverID, now))

	// assert
	assert.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, core.StatusApproved, approved.Status)
	assert.Equal(t, core.StatusApproved, RequestOf(t, store, request.ID).Status)
	assert.Equal(t, core.CopyAvailable, CopyOf(t, store, bookCopy.ID).Status)
	assert.Equal(t, []string{core.JournalBorrowRequestApproved}, JournalEntryTypesOf(t, store, request.ID))
}

func Test_CommandHandler_Handle_Error_WhenRequestUnknown(t *testing.T) {
	// arrange
	handler := approveborrowrequest.NewCommandHandler(memengine.NewStore())

	// act
	_, _, err := handler.Handle(context.Background(), approveborrowrequest.BuildCommand(GivenUniqueID(t), GivenUniqueID(t), FakeClock()))

	// assert
	assert.ErrorIs(t, err, circulation.ErrNotFound)
}

func Test_CommandHandler_Handle_Error_WhenAlreadyRejected(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	handler := approveborrowrequest.NewCommandHandler(store)
	now := FakeClock()
	card := GivenCard(t, store, now.Add(-Days(30)))
	bookCopy := GivenCopy(t, store, GivenUniqueID(t), 1, 95000)
	request := GivenBorrowRequest(t, store, card, core.StatusRejected, now.Add(-Days(1)), now.Add(Days(13)), bookCopy)

	// act
	_, result, err := handler.Handle(context.Background(), approveborrowrequest.BuildCommand(request.ID, GivenUniqueID(t), now))

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidState)
	assert.Equal(t, 1, result.RetryAttempts, "invalid state must not be retried")
}
