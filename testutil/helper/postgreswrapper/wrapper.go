package postgreswrapper

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresengine"
	"github.com/AntonStoeckl/library-circulation-go/shell/config"
)

const (
	connectTimeout = 3 * time.Second

	truncateAllTables = `TRUNCATE TABLE circulation_journal, deposit_transactions, fines, borrow_details,
		borrow_requests, copies, cards`
)

// Wrapper abstracts over the supported database adapters.
type Wrapper interface {
	Store() *postgresengine.Store
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing.
type PGXPoolWrapper struct {
	pool  *pgxpool.Pool
	store *postgresengine.Store
}

func (w *PGXPoolWrapper) Store() *postgresengine.Store {
	return w.store
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing.
type SQLDBWrapper struct {
	db    *sql.DB
	store *postgresengine.Store
}

func (w *SQLDBWrapper) Store() *postgresengine.Store {
	return w.store
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx-based testing.
type SQLXWrapper struct {
	db    *sqlx.DB
	store *postgresengine.Store
}

func (w *SQLXWrapper) Store() *postgresengine.Store {
	return w.store
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// CreateWrapperWithTestConfig connects to the test database with the adapter named in DATABASE_ADAPTER,
// applies the schema and empties all tables. The test is skipped when the database is unreachable.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	dsn := os.Getenv(config.EnvDatabaseURL)
	if dsn == "" {
		dsn = config.PostgresTestDSN()
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	var wrapper Wrapper

	switch adapter := strings.ToLower(os.Getenv(config.EnvDatabaseAdapter)); adapter {
	case config.AdapterSQL:
		db, err := config.NewSQLDB(ctx, dsn)
		if err != nil {
			t.Skipf("postgres is not reachable: %v", err)
		}

		store, err := postgresengine.NewStoreFromSQLDB(db, options...)
		require.NoError(t, err, "creating the store failed")
		wrapper = &SQLDBWrapper{db: db, store: store}

	case config.AdapterSQLX:
		db, err := config.NewSQLXDB(ctx, dsn)
		if err != nil {
			t.Skipf("postgres is not reachable: %v", err)
		}

		store, err := postgresengine.NewStoreFromSQLX(db, options...)
		require.NoError(t, err, "creating the store failed")
		wrapper = &SQLXWrapper{db: db, store: store}

	case config.AdapterPGX, "":
		pool, err := config.NewPGXPool(ctx, dsn)
		if err != nil {
			t.Skipf("postgres is not reachable: %v", err)
		}

		store, err := postgresengine.NewStoreFromPGXPool(pool, options...)
		require.NoError(t, err, "creating the store failed")
		wrapper = &PGXPoolWrapper{pool: pool, store: store}

	default:
		t.Fatalf("unsupported adapter from env: %s", adapter)
	}

	t.Cleanup(wrapper.Close)

	require.NoError(t, wrapper.Store().ApplySchema(context.Background()), "applying the schema failed")
	CleanUp(t, wrapper)

	return wrapper
}

// CleanUp empties all circulation tables.
func CleanUp(t testing.TB, wrapper Wrapper) {
	t.Helper()

	var err error

	switch w := wrapper.(type) {
	case *PGXPoolWrapper:
		_, err = w.pool.Exec(context.Background(), truncateAllTables)
	case *SQLDBWrapper:
		_, err = w.db.Exec(truncateAllTables)
	case *SQLXWrapper:
		_, err = w.db.Exec(truncateAllTables)
	default:
		t.Fatalf("unsupported wrapper type: %T", w)
	}

	require.NoError(t, err, "error cleaning up the circulation tables")
}
