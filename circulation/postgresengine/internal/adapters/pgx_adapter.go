package adapters

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXAdapter runs the store on a pgx connection pool.
type PGXAdapter struct {
	pool *pgxpool.Pool
}

func NewPGXAdapter(pool *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{pool: pool}
}

func (a *PGXAdapter) BeginTx(ctx context.Context) (DBTx, error) {
	tx, err := a.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}

	return pgxTx{tx}, nil
}

func (a *PGXAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	tag, err := a.pool.Exec(ctx, query)
	if err != nil {
		return nil, err
	}

	return commandTag{tag}, nil
}

type pgxTx struct {
	pgx.Tx
}

func (t pgxTx) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := t.Tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return pgxRows{rows}, nil
}

func (t pgxTx) Exec(ctx context.Context, query string) (DBResult, error) {
	tag, err := t.Tx.Exec(ctx, query)
	if err != nil {
		return nil, err
	}

	return commandTag{tag}, nil
}

// pgxRows gives pgx.Rows the error-returning Close of DBRows.
type pgxRows struct {
	pgx.Rows
}

func (r pgxRows) Close() error {
	r.Rows.Close()

	return nil
}

type commandTag struct {
	tag pgconn.CommandTag
}

func (c commandTag) RowsAffected() (int64, error) {
	return c.tag.RowsAffected(), nil
}
