package markoverdue

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Decide moves a borrowed request past its due date to overdue.
// The second return value is false when there is nothing to do.
func Decide(request core.BorrowRequest, now time.Time) (core.BorrowRequest, bool, error) {
	if request.Status != core.StatusBorrowed || !request.IsOverdueAt(now) {
		return request, false, nil
	}

	status, err := request.Status.Apply(core.ActionMarkOverdue)
	if err != nil {
		return core.BorrowRequest{}, false, err
	}

	request = request.Clone()
	request.Status = status

	return request, true, nil
}
