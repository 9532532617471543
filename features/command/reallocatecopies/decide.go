package reallocatecopies

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Replacement records one detail moved to another copy.
type Replacement struct {
	DetailID uuid.UUID
	From     uuid.UUID
	To       uuid.UUID
}

// Decision is the outcome of Decide.
type Decision struct {
	Request      core.BorrowRequest
	Replacements []Replacement
	Idempotent   bool
}

// StaleDetails returns the indexes of details whose copy is missing or no longer available.
// It fails when the request is not in a status that allows reallocation.
func StaleDetails(request core.BorrowRequest, copies map[uuid.UUID]core.Copy) ([]int, error) {
	if _, err := request.Status.Apply(core.ActionReallocate); err != nil {
		return nil, err
	}

	var stale []int
	for i, detail := range request.Details {
		bookCopy, ok := copies[detail.CopyID]
		if !ok || bookCopy.Status != core.CopyAvailable {
			stale = append(stale, i)
		}
	}

	return stale, nil
}

// Decide swaps the copies of the stale details for the replacements found by the caller,
// keyed by detail ID. Every stale detail needs a replacement of the same edition.
func Decide(request core.BorrowRequest, copies map[uuid.UUID]core.Copy, replacements map[uuid.UUID]core.Copy) (Decision, error) {
	stale, err := StaleDetails(request, copies)
	if err != nil {
		return Decision{}, err
	}

	if len(stale) == 0 {
		return Decision{Request: request, Idempotent: true}, nil
	}

	request = request.Clone()
	status, _ := request.Status.Apply(core.ActionReallocate)
	request.Status = status

	decision := Decision{}
	for _, i := range stale {
		detail := &request.Details[i]

		replacement, ok := replacements[detail.ID]
		if !ok || replacement.EditionID != detail.EditionID || replacement.Status != core.CopyAvailable {
			return Decision{}, fmt.Errorf("%w: edition %s", core.ErrNoAvailableCopy, detail.EditionID)
		}

		decision.Replacements = append(decision.Replacements, Replacement{
			DetailID: detail.ID,
			From:     detail.CopyID,
			To:       replacement.ID,
		})
		detail.CopyID = replacement.ID
	}

	decision.Request = request

	return decision, nil
}
