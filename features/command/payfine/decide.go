package payfine

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Decide marks the fine as paid.
func Decide(fine core.Fine, command Command) (core.Fine, error) {
	return fine.Pay(command.CollectedBy, command.OccurredAt)
}
