package adapters

import (
	"context"
	"database/sql"
)

var readCommitted = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

// SQLAdapter runs the store on a database/sql handle opened with the lib/pq driver.
type SQLAdapter struct {
	db *sql.DB
}

func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

func (a *SQLAdapter) BeginTx(ctx context.Context) (DBTx, error) {
	tx, err := a.db.BeginTx(ctx, readCommitted)
	if err != nil {
		return nil, err
	}

	return stdTx{tx}, nil
}

func (a *SQLAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return a.db.ExecContext(ctx, query)
}

// stdTransaction is implemented by *sql.Tx and, through embedding, by *sqlx.Tx.
type stdTransaction interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Commit() error
	Rollback() error
}

// stdTx adapts a database/sql transaction. *sql.Rows and sql.Result already
// satisfy DBRows and DBResult, so they are returned unwrapped.
type stdTx struct {
	tx stdTransaction
}

func (t stdTx) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := t.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (t stdTx) Exec(ctx context.Context, query string) (DBResult, error) {
	return t.tx.ExecContext(ctx, query)
}

func (t stdTx) Commit(context.Context) error {
	return t.tx.Commit()
}

func (t stdTx) Rollback(context.Context) error {
	return t.tx.Rollback()
}
