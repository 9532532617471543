package extendborrowrequest_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/features/command/extendborrowrequest"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

func Test_Decide_ClearsOverdue_WhenNewDueDateInFuture(t *testing.T) {
	// arrange
	now := FakeClock()
	request := core.BorrowRequest{ID: GivenUniqueID(t), Status: core.StatusOverdue, DueDate: now.Add(-Days(2))}
	command := extendborrowrequest.BuildCommand(request.ID, GivenUniqueID(t), now.Add(Days(7)), now)

	// act
	extended, err := extendborrowrequest.Decide(extendborrowrequest.State{Request: request}, command, core.DefaultPolicy())

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.StatusBorrowed, extended.Status)
	assert.Equal(t, now.Add(Days(7)), extended.DueDate)
}

func Test_Decide_StaysOverdue_WhenNewDueDateStillPassed(t *testing.T) {
	// arrange
	now := FakeClock()
	request := core.BorrowRequest{ID: GivenUniqueID(t), Status: core.StatusOverdue, DueDate: now.Add(-Days(5))}
	command := extendborrowrequest.BuildCommand(request.ID, GivenUniqueID(t), now.Add(-Days(1)), now)

	// act
	extended, err := extendborrowrequest.Decide(extendborrowrequest.State{Request: request}, command, core.DefaultPolicy())

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.StatusOverdue, extended.Status)
}

func Test_Decide_BecomesOverdue_WhenBorrowedAndStillPassed(t *testing.T) {
	// arrange
	now := FakeClock()
	request := core.BorrowRequest{ID: GivenUniqueID(t), Status: core.StatusBorrowed, DueDate: now.Add(-Days(5))}
	command := extendborrowrequest.BuildCommand(request.ID, GivenUniqueID(t), now.Add(-Days(1)), now)

	// act
	extended, err := extendborrowrequest.Decide(extendborrowrequest.State{Request: request}, command, core.DefaultPolicy())

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.StatusOverdue, extended.Status)
}

func Test_Decide_Error_WhenNewDueDateNotLater(t *testing.T) {
	// arrange
	now := FakeClock()
	request := core.BorrowRequest{ID: GivenUniqueID(t), Status: core.StatusBorrowed, DueDate: now.Add(Days(5))}
	command := extendborrowrequest.BuildCommand(request.ID, GivenUniqueID(t), now.Add(Days(5)), now)

	// act
	_, err := extendborrowrequest.Decide(extendborrowrequest.State{Request: request}, command, core.DefaultPolicy())

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidOperation)
}

func Test_Decide_Error_WhenNotOnLoan(t *testing.T) {
	// arrange
	now := FakeClock()
	request := core.BorrowRequest{ID: GivenUniqueID(t), Status: core.StatusApproved, DueDate: now.Add(Days(5))}
	command := extendborrowrequest.BuildCommand(request.ID, GivenUniqueID(t), now.Add(Days(9)), now)

	// act
	_, err := extendborrowrequest.Decide(extendborrowrequest.State{Request: request}, command, core.DefaultPolicy())

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidState)
}

func Test_Decide_UnpaidFines_DependOnPolicy(t *testing.T) {
	// arrange
	now := FakeClock()
	request := core.BorrowRequest{ID: GivenUniqueID(t), Status: core.StatusBorrowed, DueDate: now.Add(Days(1))}
	fines := []core.Fine{{ID: GivenUniqueID(t), Status: core.FinePending, Amount: decimal.NewFromInt(4750)}}
	command := extendborrowrequest.BuildCommand(request.ID, GivenUniqueID(t), now.Add(Days(8)), now)
	state := extendborrowrequest.State{Request: request, Fines: fines}

	blocking := core.DefaultPolicy()
	lenient := core.DefaultPolicy()
	lenient.BlockExtensionWithUnpaidFines = false

	// act
	_, blockedErr := extendborrowrequest.Decide(state, command, blocking)
	extended, lenientErr := extendborrowrequest.Decide(state, command, lenient)

	// assert
	assert.ErrorIs(t, blockedErr, core.ErrUnpaidFines)
	assert.NoError(t, lenientErr)
	assert.Equal(t, now.Add(Days(8)), extended.DueDate)
}
