package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresengine"
)

// ErrDatabaseURLMissing is returned by OpenStore when no DSN is configured.
var ErrDatabaseURLMissing = fmt.Errorf("%w: %s is not set", ErrInvalidConfig, EnvDatabaseURL)

// OpenStore connects with the configured adapter and creates a postgresengine.Store.
// The returned close function releases the connection pool.
func OpenStore(ctx context.Context, cfg Config, options ...postgresengine.Option) (*postgresengine.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, ErrDatabaseURLMissing
	}

	switch cfg.DatabaseAdapter {
	case AdapterSQL:
		db, err := NewSQLDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewStoreFromSQLDB(db, options...)
		if err != nil {
			return nil, nil, errors.Join(err, db.Close())
		}

		return store, func() { _ = db.Close() }, nil

	case AdapterSQLX:
		db, err := NewSQLXDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewStoreFromSQLX(db, options...)
		if err != nil {
			return nil, nil, errors.Join(err, db.Close())
		}

		return store, func() { _ = db.Close() }, nil

	default:
		pool, err := NewPGXPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewStoreFromPGXPool(pool, options...)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return store, pool.Close, nil
	}
}
