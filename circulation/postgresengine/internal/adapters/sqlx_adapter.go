package adapters

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// SQLXAdapter runs the store on a sqlx handle. Transactions are plain stdTx values
// because the store builds its SQL with goqu and scans rows itself.
type SQLXAdapter struct {
	db *sqlx.DB
}

func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{db: db}
}

func (a *SQLXAdapter) BeginTx(ctx context.Context) (DBTx, error) {
	tx, err := a.db.BeginTxx(ctx, readCommitted)
	if err != nil {
		return nil, err
	}

	return stdTx{tx}, nil
}

func (a *SQLXAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return a.db.ExecContext(ctx, query)
}
