package postgresengine

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresengine/internal/adapters"
)

//go:embed schema.sql
var schemaSQL string

const (
	logMsgBuildQueryFailed      = "failed to build sql query"
	logMsgDBQueryFailed         = "database query execution failed"
	logMsgDBExecFailed          = "database statement execution failed"
	logMsgCloseRowsFailed       = "failed to close database rows"
	logMsgScanRowFailed         = "failed to scan database row"
	logMsgRowsAffectedFailed    = "failed to get rows affected count"
	logMsgBeginFailed           = "failed to begin transaction"
	logMsgCommitFailed          = "failed to commit transaction"
	logMsgRollbackFailed        = "failed to roll back transaction"
	logMsgTransactionCommitted  = "transaction committed"
	logMsgTransactionRolledBack = "transaction rolled back"
	logMsgConcurrencyConflict   = "concurrency conflict detected"
	logMsgCopyReservationLost   = "copy status compare-and-swap lost"
	logMsgSchemaApplied         = "schema applied"
	logMsgSQLExecuted           = "executed sql for: "
	logMsgOperation             = "circulation store operation: "
	logAttrError                = "error"
	logAttrQuery                = "query"
	logAttrAction               = "action"
	logAttrDurationMS           = "duration_ms"
	logAttrRowsAffected         = "rows_affected"
	logAttrCopyID               = "copy_id"
	logAttrExpectedStatus       = "expected_status"
	logActionTransaction        = "transaction"
	logActionApplySchema        = "apply schema"
)

// Store is the PostgreSQL implementation of circulation.Store.
type Store struct {
	db               adapters.DBAdapter
	logger           circulation.Logger
	metricsCollector circulation.MetricsCollector
	tracingCollector circulation.TracingCollector
	contextualLogger circulation.ContextualLogger
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewStoreFromSQLDB creates a new Store using a database/sql DB with optional configuration.
// The DB is expected to be opened with the lib/pq driver.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (*Store, error) {
	s := &Store{db: db}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// ApplySchema creates all tables and indexes that do not exist yet.
func (s *Store) ApplySchema(ctx context.Context) error {
	start := time.Now()

	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		s.logError(ctx, ErrApplySchemaFailed.Error(), err)

		return errors.Join(ErrApplySchemaFailed, err)
	}

	s.logOperation(ctx, logActionApplySchema, logAttrDurationMS, toMilliseconds(time.Since(start)))
	s.logInfo(ctx, logMsgSchemaApplied)

	return nil
}

// WithinTransaction runs fn inside one database transaction.
// The transaction is committed when fn returns nil and rolled back otherwise, also when fn panics.
func (s *Store) WithinTransaction(ctx context.Context, fn circulation.TxFunc) (err error) {
	start := time.Now()
	ctx, span := s.startTraceSpan(ctx, spanNameTransaction, map[string]string{spanAttrOperation: operationTransaction})

	defer func() {
		s.finishTransactionObservability(ctx, span, time.Since(start), err)
	}()

	dbTx, beginErr := s.db.BeginTx(ctx)
	if beginErr != nil {
		s.logError(ctx, logMsgBeginFailed, beginErr)

		return errors.Join(ErrBeginTransactionFailed, classifyDBError(beginErr))
	}

	committed := false

	defer func() {
		if committed {
			return
		}

		if rollbackErr := dbTx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
			s.logWarn(ctx, logMsgRollbackFailed, logAttrError, rollbackErr.Error())
		}
	}()

	if err = fn(ctx, &tx{store: s, db: dbTx}); err != nil {
		return err
	}

	if commitErr := dbTx.Commit(ctx); commitErr != nil {
		s.logError(ctx, logMsgCommitFailed, commitErr)

		return errors.Join(ErrCommitFailed, classifyDBError(commitErr))
	}

	committed = true

	return nil
}
