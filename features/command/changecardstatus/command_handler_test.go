package changecardstatus_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/memengine"
	"github.com/AntonStoeckl/library-circulation-go/features/command/changecardstatus"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/fixtures" //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper"   //nolint:revive
)

func Test_CommandHandler_Handle_LockThenUnlock(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	handler := changecardstatus.NewCommandHandler(store)
	now := FakeClock()
	card := GivenCard(t, store, now.Add(-Days(30)))

	// act
	locked, _, lockErr := handler.Handle(context.Background(),
		changecardstatus.BuildCommand(card.ID, core.CardActionLock, nil, GivenUniqueID(t), now))
	unlocked, _, unlockErr := handler.Handle(context.Background(),
		changecardstatus.BuildCommand(card.ID, core.CardActionUnlock, nil, GivenUniqueID(t), now.Add(Days(1))))

	// assert
	assert.NoError(t, lockErr)
	assert.NoError(t, unlockErr)
	assert.Equal(t, core.CardLocked, locked.Status)
	assert.Equal(t, core.CardActive, unlocked.Status)
	assert.Equal(t, core.CardActive, CardOf(t, store, card.ID).Status)
	assert.Equal(t,
		[]string{core.JournalCardStatusChanged, core.JournalCardStatusChanged},
		JournalEntryTypesOf(t, store, card.ID),
	)
}
