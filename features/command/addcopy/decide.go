package addcopy

import (
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Decide builds the new copy.
func Decide(command Command) (core.Copy, error) {
	if command.CopyNumber <= 0 {
		return core.Copy{}, fmt.Errorf("%w: %d", core.ErrInvalidCopyNumber, command.CopyNumber)
	}

	if command.Price.IsNegative() {
		return core.Copy{}, fmt.Errorf("%w: price %s", core.ErrNegativeAmount, command.Price)
	}

	return core.Copy{
		ID:             command.CopyID,
		EditionID:      command.EditionID,
		CopyNumber:     command.CopyNumber,
		Status:         core.CopyAvailable,
		Price:          command.Price,
		ConditionNotes: command.ConditionNotes,
	}, nil
}
