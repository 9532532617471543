package returnbooks_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/features/command/returnbooks"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

func givenLoan(t *testing.T, status core.RequestStatus, copyCount int) returnbooks.State {
	now := FakeClock()
	borrowDate := now.Add(-Days(14))
	request := core.BorrowRequest{
		ID:         GivenUniqueID(t),
		Status:     status,
		BorrowDate: &borrowDate,
		DueDate:    now,
	}
	copies := make(map[uuid.UUID]core.Copy, copyCount)

	for i := 0; i < copyCount; i++ {
		bookCopy := core.Copy{
			ID:         GivenUniqueID(t),
			CopyNumber: i + 1,
			Status:     core.CopyBorrowed,
			Price:      decimal.NewFromInt(95000),
		}
		copies[bookCopy.ID] = bookCopy
		request.Details = append(request.Details, core.BorrowDetail{
			ID:         GivenUniqueID(t),
			RequestID:  request.ID,
			CopyID:     bookCopy.ID,
			ReservedAt: &borrowDate,
		})
	}

	return returnbooks.State{Request: request, Copies: copies}
}

func Test_Decide_Success_WhenReturnedOnTime(t *testing.T) {
	// arrange
	state := givenLoan(t, core.StatusBorrowed, 1)
	copyID := state.Request.Details[0].CopyID
	command := returnbooks.BuildCommand(state.Request.ID, GivenUniqueID(t),
		[]returnbooks.ReturnItem{{CopyID: copyID, Condition: core.ReturnNormal}}, FakeClock())

	// act
	decision, err := returnbooks.Decide(state, command, core.NewFineEngine(core.DefaultPolicy()))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.StatusReturned, decision.Request.Status)
	assert.Empty(t, decision.Fines)
	assert.Equal(t, []returnbooks.Release{{CopyID: copyID, Target: core.CopyAvailable}}, decision.Releases)
	assert.Equal(t, core.ReturnNormal, decision.Request.Details[0].ReturnCondition)
}

func Test_Decide_AssessesOverdueFine_WhenReturnedTenDaysLate(t *testing.T) {
	// arrange
	state := givenLoan(t, core.StatusOverdue, 1)
	copyID := state.Request.Details[0].CopyID
	command := returnbooks.BuildCommand(state.Request.ID, GivenUniqueID(t),
		[]returnbooks.ReturnItem{{CopyID: copyID, Condition: core.ReturnNormal}}, FakeClock().Add(Days(10)))

	// act
	decision, err := returnbooks.Decide(state, command, core.NewFineEngine(core.DefaultPolicy()))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.StatusReturned, decision.Request.Status)
	assert.Len(t, decision.Fines, 1)
	assert.Equal(t, core.FineReasonOverdue, decision.Fines[0].Reason)
	assert.True(t, decimal.NewFromInt(47500).Equal(decision.Fines[0].Amount), "got %s", decision.Fines[0].Amount)
}

func Test_Decide_PartialReturn_KeepsStatus(t *testing.T) {
	// arrange
	state := givenLoan(t, core.StatusBorrowed, 2)
	copyID := state.Request.Details[0].CopyID
	command := returnbooks.BuildCommand(state.Request.ID, GivenUniqueID(t),
		[]returnbooks.ReturnItem{{CopyID: copyID, Condition: core.ReturnNormal}}, FakeClock())

	// act
	decision, err := returnbooks.Decide(state, command, core.NewFineEngine(core.DefaultPolicy()))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.StatusBorrowed, decision.Request.Status)
	assert.True(t, decision.Request.Details[0].IsClosed())
	assert.False(t, decision.Request.Details[1].IsClosed())
}

func Test_Decide_AssessesLossFine_WhenLost(t *testing.T) {
	// arrange
	state := givenLoan(t, core.StatusBorrowed, 1)
	copyID := state.Request.Details[0].CopyID
	command := returnbooks.BuildCommand(state.Request.ID, GivenUniqueID(t),
		[]returnbooks.ReturnItem{{CopyID: copyID, Condition: core.ReturnLost}}, FakeClock())

	// act
	decision, err := returnbooks.Decide(state, command, core.NewFineEngine(core.DefaultPolicy()))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.CopyDisposed, decision.Releases[0].Target)
	assert.Len(t, decision.Fines, 1)
	assert.Equal(t, core.FineReasonLost, decision.Fines[0].Reason)
	assert.True(t, decimal.NewFromInt(95000).Equal(decision.Fines[0].Amount))
}

func Test_Decide_AssessesDamageFine_WhenAmountEntered(t *testing.T) {
	// arrange
	state := givenLoan(t, core.StatusBorrowed, 1)
	copyID := state.Request.Details[0].CopyID
	command := returnbooks.BuildCommand(state.Request.ID, GivenUniqueID(t), []returnbooks.ReturnItem{{
		CopyID:     copyID,
		Condition:  core.ReturnDamaged,
		DamageFine: decimal.NewFromInt(20000),
	}}, FakeClock())

	// act
	decision, err := returnbooks.Decide(state, command, core.NewFineEngine(core.DefaultPolicy()))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.CopyDamaged, decision.Releases[0].Target)
	assert.Len(t, decision.Fines, 1)
	assert.Equal(t, core.FineReasonDamaged, decision.Fines[0].Reason)
}

func Test_Decide_Error_WhenCopyNotOnRequest(t *testing.T) {
	// arrange
	state := givenLoan(t, core.StatusBorrowed, 1)
	command := returnbooks.BuildCommand(state.Request.ID, GivenUniqueID(t),
		[]returnbooks.ReturnItem{{CopyID: GivenUniqueID(t), Condition: core.ReturnNormal}}, FakeClock())

	// act
	_, err := returnbooks.Decide(state, command, core.NewFineEngine(core.DefaultPolicy()))

	// assert
	assert.ErrorIs(t, err, core.ErrCopyNotOnRequest)
}

func Test_Decide_Error_WhenCopyReturnedTwice(t *testing.T) {
	// arrange
	state := givenLoan(t, core.StatusBorrowed, 1)
	copyID := state.Request.Details[0].CopyID
	item := returnbooks.ReturnItem{CopyID: copyID, Condition: core.ReturnNormal}
	command := returnbooks.BuildCommand(state.Request.ID, GivenUniqueID(t), []returnbooks.ReturnItem{item, item}, FakeClock())

	// act
	_, err := returnbooks.Decide(state, command, core.NewFineEngine(core.DefaultPolicy()))

	// assert
	assert.ErrorIs(t, err, core.ErrDuplicateCopy)
}

func Test_Decide_Error_WhenNotOnLoan(t *testing.T) {
	// arrange
	state := givenLoan(t, core.StatusApproved, 1)
	copyID := state.Request.Details[0].CopyID
	command := returnbooks.BuildCommand(state.Request.ID, GivenUniqueID(t),
		[]returnbooks.ReturnItem{{CopyID: copyID, Condition: core.ReturnNormal}}, FakeClock())

	// act
	_, err := returnbooks.Decide(state, command, core.NewFineEngine(core.DefaultPolicy()))

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidState)
}

func Test_Decide_Error_WhenConditionUnknown(t *testing.T) {
	// arrange
	state := givenLoan(t, core.StatusBorrowed, 1)
	copyID := state.Request.Details[0].CopyID
	command := returnbooks.BuildCommand(state.Request.ID, GivenUniqueID(t),
		[]returnbooks.ReturnItem{{CopyID: copyID, Condition: "soaked"}}, FakeClock())

	// act
	_, err := returnbooks.Decide(state, command, core.NewFineEngine(core.DefaultPolicy()))

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidReturnCondition)
}
