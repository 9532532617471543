package changecardstatus

import (
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Decide applies the card action. The effective status decides, so an active card past its
// expiry date is treated as expired.
func Decide(card core.Card, command Command) (core.Card, error) {
	switch command.Action {
	case core.CardActionLock, core.CardActionUnlock, core.CardActionRenew:
	default:
		return core.Card{}, fmt.Errorf("%w: %q", core.ErrInvalidCardAction, command.Action)
	}

	status, err := card.EffectiveStatus(command.OccurredAt).Apply(command.Action)
	if err != nil {
		return core.Card{}, err
	}

	if command.Action == core.CardActionRenew {
		if command.ExpiresAt != nil && !command.ExpiresAt.After(command.OccurredAt) {
			return core.Card{}, core.ErrExpiryNotInFuture
		}

		card.ExpiresAt = command.ExpiresAt
	}

	card.Status = status

	return card, nil
}
