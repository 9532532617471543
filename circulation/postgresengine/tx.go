package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresengine/internal/adapters"
)

// tx implements circulation.Tx on one open database transaction.
type tx struct {
	store *Store
	db    adapters.DBTx
}

// scanner is the subset of adapters.DBRows a row parser needs.
type scanner interface {
	Scan(dest ...any) error
}

// query runs sqlQuery and hands every row to scanRow.
func (t *tx) query(ctx context.Context, action string, sqlQuery string, scanRow func(row scanner) error) error {
	start := time.Now()

	rows, err := t.db.Query(ctx, sqlQuery)
	if err != nil {
		t.store.logError(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)

		return errors.Join(ErrQueryingFailed, classifyDBError(err))
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			t.store.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}()

	for rows.Next() {
		if scanErr := scanRow(rows); scanErr != nil {
			t.store.logError(ctx, logMsgScanRowFailed, scanErr, logAttrQuery, sqlQuery)

			return errors.Join(ErrScanningDBRowFailed, scanErr)
		}
	}

	if err = rows.Err(); err != nil {
		t.store.logError(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)

		return errors.Join(ErrQueryingFailed, classifyDBError(err))
	}

	t.store.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	return nil
}

// exec runs sqlQuery and returns the number of affected rows.
func (t *tx) exec(ctx context.Context, action string, sqlQuery string) (int64, error) {
	start := time.Now()

	result, err := t.db.Exec(ctx, sqlQuery)
	if err != nil {
		classified := classifyDBError(err)
		t.store.logError(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)

		return 0, errors.Join(ErrExecFailed, classified)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		t.store.logError(ctx, logMsgRowsAffectedFailed, err)

		return 0, errors.Join(ErrGettingRowsAffected, err)
	}

	t.store.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	return rowsAffected, nil
}

// execVersioned runs a version-checked update; no affected row means the version was stale.
func (t *tx) execVersioned(ctx context.Context, action string, sqlQuery string, buildErr error) error {
	if buildErr != nil {
		return t.buildFailed(ctx, buildErr)
	}

	rowsAffected, err := t.exec(ctx, action, sqlQuery)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return circulation.ErrConcurrencyConflict
	}

	return nil
}

// execInsert runs an insert statement.
func (t *tx) execInsert(ctx context.Context, action string, sqlQuery string, buildErr error) error {
	if buildErr != nil {
		return t.buildFailed(ctx, buildErr)
	}

	_, err := t.exec(ctx, action, sqlQuery)

	return err
}

func (t *tx) buildFailed(ctx context.Context, err error) error {
	t.store.logError(ctx, logMsgBuildQueryFailed, err)

	return errors.Join(ErrBuildQueryFailed, err)
}

// rowParser collects conversion errors of one row so scan code stays linear.
type rowParser struct {
	err error
}

func (p *rowParser) uuid(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		p.err = errors.Join(p.err, err)
	}

	return id
}

func (p *rowParser) nullableUUID(s sql.NullString) *uuid.UUID {
	if !s.Valid {
		return nil
	}

	id := p.uuid(s.String)

	return &id
}

func (p *rowParser) decimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.err = errors.Join(p.err, err)
	}

	return d
}

func utc(t time.Time) time.Time {
	return t.UTC()
}

func nullableUTC(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}

	v := t.Time.UTC()

	return &v
}
