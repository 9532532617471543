package correctcopystatus

import (
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Decision is the outcome of Decide.
type Decision struct {
	Copy       core.Copy
	Idempotent bool
}

// Decide applies the correction.
func Decide(bookCopy core.Copy, command Command) (Decision, error) {
	if !command.Target.IsValid() {
		return Decision{}, fmt.Errorf("%w: %q", core.ErrInvalidCopyStatus, command.Target)
	}

	if bookCopy.Status == command.Target && bookCopy.Status != core.CopyBorrowed {
		return Decision{Copy: bookCopy, Idempotent: true}, nil
	}

	status, err := bookCopy.Status.Transition(command.Target, core.CopyActionCorrect)
	if err != nil {
		return Decision{}, err
	}

	bookCopy.Status = status
	if command.ConditionNotes != "" {
		bookCopy.ConditionNotes = command.ConditionNotes
	}

	return Decision{Copy: bookCopy}, nil
}
