package depositbalance

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// QueryHandler loads a card's deposit ledger and projects the balance.
type QueryHandler struct {
	store circulation.Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store circulation.Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle executes the query. An unknown card fails with circulation.ErrNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (DepositBalance, error) {
	var transactions []core.DepositTransaction

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		if _, err := tx.CardByID(ctx, query.CardID); err != nil {
			return err
		}

		var err error
		transactions, err = tx.DepositTransactions(ctx, query.CardID)

		return err
	})
	if err != nil {
		return DepositBalance{}, err
	}

	return Project(transactions, query), nil
}
