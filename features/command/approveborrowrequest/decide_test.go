package approveborrowrequest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/features/command/approveborrowrequest"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

func Test_Decide_Success_WhenPending(t *testing.T) {
	// arrange
	request := core.BorrowRequest{ID: GivenUniqueID(t), Status: core.StatusPending}
	approverID := GivenUniqueID(t)

	// act
	decision, err := approveborrowrequest.Decide(request, approveborrowrequest.BuildCommand(request.ID, approverID, FakeClock()))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.StatusApproved, decision.Request.Status)
	assert.Equal(t, approverID, *decision.Request.ApproverID)
}

func Test_Decide_Error_WhenApprovedTwiceBySameApprover(t *testing.T) {
	// arrange
	approverID := GivenUniqueID(t)
	request := core.BorrowRequest{ID: GivenUniqueID(t), Status: core.StatusPending}
	command := approveborrowrequest.BuildCommand(request.ID, approverID, FakeClock())
	first, err := approveborrowrequest.Decide(request, command)
	require.NoError(t, err)

	// act
	_, err = approveborrowrequest.Decide(first.Request, command)

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidState)

	var transitionErr *core.TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, string(core.StatusApproved), transitionErr.From)
}

func Test_Decide_Error_WhenNotPending(t *testing.T) {
	for _, status := range []core.RequestStatus{core.StatusRejected, core.StatusBorrowed, core.StatusReturned, core.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			// arrange
			request := core.BorrowRequest{ID: GivenUniqueID(t), Status: status}

			// act
			_, err := approveborrowrequest.Decide(request, approveborrowrequest.BuildCommand(request.ID, GivenUniqueID(t), FakeClock()))

			// assert
			assert.ErrorIs(t, err, core.ErrInvalidState)
		})
	}
}
