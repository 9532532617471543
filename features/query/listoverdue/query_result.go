package listoverdue

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// OverdueRequest is one listed request.
type OverdueRequest struct {
	RequestID uuid.UUID
	CardID    uuid.UUID
	DueDate   time.Time

	// Status is the effective status, always overdue.
	Status core.RequestStatus

	// PersistedStatus is borrowed while the sweep has not caught up yet.
	PersistedStatus core.RequestStatus

	DaysOverdue int64
	OpenCopyIDs []uuid.UUID
}

// OverdueRequests represents the query result.
type OverdueRequests struct {
	Requests []OverdueRequest
	Count    int
}
