package core

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CopyStatus is the lending status of a physical copy.
type CopyStatus string

const (
	CopyAvailable CopyStatus = "available"
	CopyBorrowed  CopyStatus = "borrowed"
	CopyDamaged   CopyStatus = "damaged"
	CopyDisposed  CopyStatus = "disposed"
)

// CopyAction names the kind of operation moving a copy between statuses.
type CopyAction string

const (
	// CopyActionReserve is the hard allocation at issuance.
	CopyActionReserve CopyAction = "reserve"

	// CopyActionRelease settles a copy on return.
	CopyActionRelease CopyAction = "release"

	// CopyActionCorrect is a staff-initiated status correction.
	CopyActionCorrect CopyAction = "correct"
)

// copyTransitions maps from -> to -> the only action allowed to perform that move.
// borrowed is entered by reserve and left by release only.
var copyTransitions = map[CopyStatus]map[CopyStatus]CopyAction{
	CopyAvailable: {
		CopyBorrowed: CopyActionReserve,
		CopyDamaged:  CopyActionCorrect,
		CopyDisposed: CopyActionCorrect,
	},
	CopyBorrowed: {
		CopyAvailable: CopyActionRelease,
		CopyDamaged:   CopyActionRelease,
		CopyDisposed:  CopyActionRelease,
	},
	CopyDamaged: {
		CopyAvailable: CopyActionCorrect,
		CopyDisposed:  CopyActionCorrect,
	},
	CopyDisposed: {
		CopyAvailable: CopyActionCorrect,
	},
}

// IsValid reports whether s is a known copy status.
func (s CopyStatus) IsValid() bool {
	_, ok := copyTransitions[s]

	return ok
}

// Transition checks that moving from s to target is allowed for action.
func (s CopyStatus) Transition(target CopyStatus, action CopyAction) (CopyStatus, error) {
	allowed, ok := copyTransitions[s][target]
	if !ok || allowed != action {
		return s, &TransitionError{
			Entity: "copy",
			From:   string(s),
			Action: fmt.Sprintf("%s to %s", action, target),
		}
	}

	return target, nil
}

// ReturnCondition is the condition a copy comes back in.
type ReturnCondition string

const (
	ReturnNormal  ReturnCondition = "normal"
	ReturnDamaged ReturnCondition = "damaged"
	ReturnLost    ReturnCondition = "lost"
)

// ReleaseTarget maps a return condition to the copy status the copy is released to.
func (rc ReturnCondition) ReleaseTarget() (CopyStatus, error) {
	switch rc {
	case ReturnNormal:
		return CopyAvailable, nil
	case ReturnDamaged:
		return CopyDamaged, nil
	case ReturnLost:
		return CopyDisposed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReturnCondition, rc)
	}
}

// Copy is one physical instance of an edition and the unit of lending.
type Copy struct {
	ID             uuid.UUID
	EditionID      uuid.UUID
	CopyNumber     int
	Status         CopyStatus
	Price          decimal.Decimal
	ConditionNotes string
	Version        int
}
