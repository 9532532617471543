package depositbalance

import (
	"github.com/google/uuid"
)

const (
	queryType = "DepositBalance"
)

// Query asks for the deposit balance of a card.
type Query struct {
	CardID uuid.UUID
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery(cardID uuid.UUID) Query {
	return Query{CardID: cardID}
}
