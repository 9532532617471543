package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

func activeCard(maxBooks int) core.Card {
	return core.Card{
		ID:            uuid.New(),
		ReaderID:      uuid.New(),
		Status:        core.CardActive,
		MaxBooks:      maxBooks,
		MaxBorrowDays: 14,
	}
}

func Test_Card_CanBorrow_When_BelowMaxBooks(t *testing.T) {
	card := activeCard(5)

	assert.True(t, card.CanBorrow(4, time.Now()))
	assert.NoError(t, card.CheckCanBorrow(0, time.Now()))
}

func Test_Card_CannotBorrow_When_MaxBooksReached(t *testing.T) {
	card := activeCard(5)

	err := card.CheckCanBorrow(5, time.Now())

	assert.False(t, card.CanBorrow(5, time.Now()))
	assert.ErrorIs(t, err, core.ErrLimitExceeded)
}

func Test_Card_CannotBorrow_When_Locked(t *testing.T) {
	card := activeCard(5)
	card.Status = core.CardLocked

	err := card.CheckCanBorrow(0, time.Now())

	assert.ErrorIs(t, err, core.ErrCardInvalid)
}

func Test_Card_EffectiveStatus_IsExpired_AfterExpiryDate(t *testing.T) {
	// arrange
	now := time.Now()
	card := activeCard(5)
	expiresAt := now.Add(-time.Minute)
	card.ExpiresAt = &expiresAt

	// act
	status := card.EffectiveStatus(now)
	err := card.CheckCanBorrow(0, now)

	// assert
	assert.Equal(t, core.CardExpired, status)
	assert.ErrorIs(t, err, core.ErrCardInvalid)
}

func Test_CardStatus_TransitionTable(t *testing.T) {
	next, err := core.CardActive.Apply(core.CardActionLock)
	assert.NoError(t, err)
	assert.Equal(t, core.CardLocked, next)

	next, err = core.CardLocked.Apply(core.CardActionUnlock)
	assert.NoError(t, err)
	assert.Equal(t, core.CardActive, next)

	next, err = core.CardExpired.Apply(core.CardActionRenew)
	assert.NoError(t, err)
	assert.Equal(t, core.CardActive, next)

	_, err = core.CardLocked.Apply(core.CardActionRenew)
	assert.ErrorIs(t, err, core.ErrInvalidState)

	_, err = core.CardActive.Apply(core.CardActionUnlock)
	assert.ErrorIs(t, err, core.ErrInvalidState)
}

func Test_Card_BelongsTo_OnlyItsReader(t *testing.T) {
	card := activeCard(5)

	assert.True(t, card.BelongsTo(core.ReaderActor(card.ReaderID)))
	assert.False(t, card.BelongsTo(core.ReaderActor(uuid.New())))
	assert.False(t, card.BelongsTo(core.StaffActor(card.ReaderID)))
}
