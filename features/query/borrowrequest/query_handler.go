package borrowrequest

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// QueryHandler loads a request with its fines.
type QueryHandler struct {
	store circulation.Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store circulation.Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle executes the query. An unknown request fails with circulation.ErrNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BorrowRequestView, error) {
	var request core.BorrowRequest
	var fines []core.Fine

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		var err error
		if request, err = tx.BorrowRequestByID(ctx, query.RequestID); err != nil {
			return err
		}

		fines, err = tx.FinesByBorrowRequest(ctx, query.RequestID)

		return err
	})
	if err != nil {
		return BorrowRequestView{}, err
	}

	return Project(request, fines, query), nil
}
