package listoverdue

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	queryType = "ListOverdue"
)

// Query represents the intent to list the overdue requests at Now.
type Query struct {
	Now time.Time
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery(now time.Time) Query {
	return Query{Now: core.ToOccurredAt(now)}
}
