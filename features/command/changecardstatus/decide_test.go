package changecardstatus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/features/command/changecardstatus"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

func Test_Decide_Lock_WhenActive(t *testing.T) {
	// arrange
	card := core.Card{ID: GivenUniqueID(t), Status: core.CardActive}
	command := changecardstatus.BuildCommand(card.ID, core.CardActionLock, nil, GivenUniqueID(t), FakeClock())

	// act
	changed, err := changecardstatus.Decide(card, command)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.CardLocked, changed.Status)
}

func Test_Decide_Renew_WhenExpiredByDate(t *testing.T) {
	// arrange
	expiredAt := FakeClock().Add(-Days(3))
	card := core.Card{ID: GivenUniqueID(t), Status: core.CardActive, ExpiresAt: &expiredAt}
	newExpiry := FakeClock().Add(Days(365))
	command := changecardstatus.BuildCommand(card.ID, core.CardActionRenew, &newExpiry, GivenUniqueID(t), FakeClock())

	// act
	changed, err := changecardstatus.Decide(card, command)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.CardActive, changed.Status)
	assert.Equal(t, newExpiry, *changed.ExpiresAt)
	assert.Equal(t, core.CardActive, changed.EffectiveStatus(FakeClock()))
}

func Test_Decide_Error_WhenRenewingLockedCard(t *testing.T) {
	// arrange
	card := core.Card{ID: GivenUniqueID(t), Status: core.CardLocked}
	command := changecardstatus.BuildCommand(card.ID, core.CardActionRenew, nil, GivenUniqueID(t), FakeClock())

	// act
	_, err := changecardstatus.Decide(card, command)

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidState)
}

func Test_Decide_Error_WhenActionUnknown(t *testing.T) {
	// arrange
	card := core.Card{ID: GivenUniqueID(t), Status: core.CardActive}
	command := changecardstatus.BuildCommand(card.ID, "suspend", nil, GivenUniqueID(t), FakeClock())

	// act
	_, err := changecardstatus.Decide(card, command)

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidCardAction)
}
