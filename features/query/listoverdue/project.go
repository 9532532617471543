package listoverdue

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Project builds the overdue listing from the active loans due before query.Now.
// Requests that are not overdue at query.Now are skipped, so the input may be a superset.
func Project(requests []core.BorrowRequest, query Query) OverdueRequests {
	result := OverdueRequests{Requests: make([]OverdueRequest, 0, len(requests))}

	for _, request := range requests {
		if !request.IsOverdueAt(query.Now) {
			continue
		}

		listed := OverdueRequest{
			RequestID:       request.ID,
			CardID:          request.CardID,
			DueDate:         request.DueDate,
			Status:          request.EffectiveStatus(query.Now),
			PersistedStatus: request.Status,
			DaysOverdue:     core.DaysLate(request.DueDate, query.Now),
		}

		for _, detail := range request.Details {
			if !detail.IsClosed() {
				listed.OpenCopyIDs = append(listed.OpenCopyIDs, detail.CopyID)
			}
		}

		result.Requests = append(result.Requests, listed)
	}

	result.Count = len(result.Requests)

	return result
}
