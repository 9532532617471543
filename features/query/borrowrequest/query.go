package borrowrequest

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	queryType = "GetBorrowRequest"
)

// Query asks for one borrow request as seen at Now.
type Query struct {
	RequestID uuid.UUID
	Now       time.Time
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery(requestID uuid.UUID, now time.Time) Query {
	return Query{RequestID: requestID, Now: core.ToOccurredAt(now)}
}
