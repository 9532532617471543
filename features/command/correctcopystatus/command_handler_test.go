package correctcopystatus_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/memengine"
	"github.com/AntonStoeckl/library-circulation-go/features/command/correctcopystatus"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/fixtures" //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper"   //nolint:revive
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	handler := correctcopystatus.NewCommandHandler(store)
	bookCopy := GivenCopy(t, store, GivenUniqueID(t), 1, 50000)
	command := correctcopystatus.BuildCommand(bookCopy.ID, core.CopyDamaged, "torn cover", GivenUniqueID(t), FakeClock())

	// act
	corrected, handlerResult, err := handler.Handle(context.Background(), command)

	// assert
	assert.NoError(t, err)
	assert.False(t, handlerResult.Idempotent)
	assert.Equal(t, 2, corrected.Version)
	stored := CopyOf(t, store, bookCopy.ID)
	assert.Equal(t, core.CopyDamaged, stored.Status)
	assert.Equal(t, "torn cover", stored.ConditionNotes)
	assert.Equal(t, []string{core.JournalCopyStatusCorrected}, JournalEntryTypesOf(t, store, bookCopy.ID))
}

func Test_CommandHandler_Handle_Error_WhenCopyOnLoan(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	handler := correctcopystatus.NewCommandHandler(store)
	card := GivenCard(t, store, FakeClock().Add(-Days(30)))
	bookCopy := GivenCopy(t, store, GivenUniqueID(t), 1, 50000)
	GivenBorrowRequest(t, store, card, core.StatusBorrowed, FakeClock().Add(-Days(2)), FakeClock().Add(Days(12)), bookCopy)
	command := correctcopystatus.BuildCommand(bookCopy.ID, core.CopyAvailable, "", GivenUniqueID(t), FakeClock())

	// act
	_, _, err := handler.Handle(context.Background(), command)

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidState)
	assert.Equal(t, core.CopyBorrowed, CopyOf(t, store, bookCopy.ID).Status)
	assert.Empty(t, JournalEntryTypesOf(t, store, bookCopy.ID))
}

func Test_CommandHandler_Handle_Error_WhenCopyUnknown(t *testing.T) {
	// arrange
	handler := correctcopystatus.NewCommandHandler(memengine.NewStore())
	command := correctcopystatus.BuildCommand(GivenUniqueID(t), core.CopyDamaged, "", GivenUniqueID(t), FakeClock())

	// act
	_, _, err := handler.Handle(context.Background(), command)

	// assert
	assert.ErrorIs(t, err, circulation.ErrNotFound)
}
