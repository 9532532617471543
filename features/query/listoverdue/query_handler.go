package listoverdue

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// QueryHandler loads the active loans due before now and projects them.
// Instrumentation is added with observable.NewQueryWrapper.
type QueryHandler struct {
	store circulation.Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store circulation.Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle executes the query.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OverdueRequests, error) {
	var requests []core.BorrowRequest

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
		var err error
		requests, err = tx.BorrowRequestsDueBefore(ctx, core.ActiveLoanStatuses(), query.Now)

		return err
	})
	if err != nil {
		return OverdueRequests{}, err
	}

	return Project(requests, query), nil
}
