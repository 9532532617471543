package createborrowrequest_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/features/command/createborrowrequest"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

func givenActiveCard(t *testing.T) core.Card {
	return core.Card{
		ID:            GivenUniqueID(t),
		ReaderID:      GivenUniqueID(t),
		Status:        core.CardActive,
		MaxBooks:      5,
		MaxBorrowDays: 14,
	}
}

func Test_Decide_Success_WithDefaultDueDate(t *testing.T) {
	// arrange
	now := FakeClock()
	card := givenActiveCard(t)
	editionID := GivenUniqueID(t)
	bookCopy := core.Copy{ID: GivenUniqueID(t), EditionID: editionID, CopyNumber: 1, Status: core.CopyAvailable}
	command := createborrowrequest.BuildCommand(
		GivenUniqueID(t), card.ID, []uuid.UUID{editionID}, nil, "", core.ReaderActor(card.ReaderID), now,
	)
	state := createborrowrequest.State{Card: card, ActiveLoans: 0, Allocated: []core.Copy{bookCopy}}

	// act
	request, err := createborrowrequest.Decide(state, command, uuid.New)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.StatusPending, request.Status)
	assert.Equal(t, now.Add(Days(14)), request.DueDate)
	assert.Nil(t, request.BorrowDate)
	assert.Len(t, request.Details, 1)
	assert.Equal(t, bookCopy.ID, request.Details[0].CopyID)
	assert.Nil(t, request.Details[0].ReservedAt, "allocation at creation must stay soft")
}

func Test_Decide_Error_WhenMaxBooksReached(t *testing.T) {
	// arrange
	card := givenActiveCard(t)
	editionID := GivenUniqueID(t)
	command := createborrowrequest.BuildCommand(
		GivenUniqueID(t), card.ID, []uuid.UUID{editionID}, nil, "", core.StaffActor(GivenUniqueID(t)), FakeClock(),
	)

	// act
	_, err := createborrowrequest.CheckEligibility(card, 5, command)

	// assert
	assert.ErrorIs(t, err, core.ErrLimitExceeded)
}

func Test_Decide_Error_WhenCardLocked(t *testing.T) {
	// arrange
	card := givenActiveCard(t)
	card.Status = core.CardLocked
	command := createborrowrequest.BuildCommand(
		GivenUniqueID(t), card.ID, []uuid.UUID{GivenUniqueID(t)}, nil, "", core.StaffActor(GivenUniqueID(t)), FakeClock(),
	)

	// act
	_, err := createborrowrequest.CheckEligibility(card, 0, command)

	// assert
	assert.ErrorIs(t, err, core.ErrCardInvalid)
}

func Test_Decide_Error_WhenCardExpired(t *testing.T) {
	// arrange
	card := givenActiveCard(t)
	expiredAt := FakeClock().Add(-Days(1))
	card.ExpiresAt = &expiredAt
	command := createborrowrequest.BuildCommand(
		GivenUniqueID(t), card.ID, []uuid.UUID{GivenUniqueID(t)}, nil, "", core.StaffActor(GivenUniqueID(t)), FakeClock(),
	)

	// act
	_, err := createborrowrequest.CheckEligibility(card, 0, command)

	// assert
	assert.ErrorIs(t, err, core.ErrCardInvalid)
}

func Test_Decide_Error_WhenDesiredDueDateBeyondMaxBorrowDays(t *testing.T) {
	// arrange
	card := givenActiveCard(t)
	tooLate := FakeClock().Add(Days(15))
	command := createborrowrequest.BuildCommand(
		GivenUniqueID(t), card.ID, []uuid.UUID{GivenUniqueID(t)}, &tooLate, "", core.StaffActor(GivenUniqueID(t)), FakeClock(),
	)

	// act
	_, err := createborrowrequest.CheckEligibility(card, 0, command)

	// assert
	assert.ErrorIs(t, err, core.ErrDueDateBeyondLimit)
}

func Test_Decide_Error_WhenDesiredDueDateNotInFuture(t *testing.T) {
	// arrange
	card := givenActiveCard(t)
	past := FakeClock().Add(-Days(1))
	command := createborrowrequest.BuildCommand(
		GivenUniqueID(t), card.ID, []uuid.UUID{GivenUniqueID(t)}, &past, "", core.StaffActor(GivenUniqueID(t)), FakeClock(),
	)

	// act
	_, err := createborrowrequest.CheckEligibility(card, 0, command)

	// assert
	assert.ErrorIs(t, err, core.ErrDueDateNotInFuture)
}

func Test_Decide_Error_WhenReaderUsesForeignCard(t *testing.T) {
	// arrange
	card := givenActiveCard(t)
	command := createborrowrequest.BuildCommand(
		GivenUniqueID(t), card.ID, []uuid.UUID{GivenUniqueID(t)}, nil, "", core.ReaderActor(GivenUniqueID(t)), FakeClock(),
	)

	// act
	_, err := createborrowrequest.CheckEligibility(card, 0, command)

	// assert
	assert.ErrorIs(t, err, core.ErrNotPermitted)
}

func Test_Decide_Error_WhenNoEditionsRequested(t *testing.T) {
	// arrange
	card := givenActiveCard(t)
	command := createborrowrequest.BuildCommand(
		GivenUniqueID(t), card.ID, nil, nil, "", core.StaffActor(GivenUniqueID(t)), FakeClock(),
	)

	// act
	_, err := createborrowrequest.CheckEligibility(card, 0, command)

	// assert
	assert.ErrorIs(t, err, core.ErrNoItems)
}
