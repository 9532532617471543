// Package postgresengine implements circulation.Store on PostgreSQL.
//
// The store can be created from a pgxpool.Pool, a database/sql DB (lib/pq) or a sqlx DB; all three
// behave the same. SQL is built with goqu. Each WithinTransaction call runs in one READ COMMITTED
// transaction:
//   - ...ForUpdate reads take a row lock (SELECT ... FOR UPDATE) until the transaction ends
//   - version-checked updates detect lost updates via rows affected (ErrConcurrencyConflict)
//   - ReserveCopy and ReleaseCopy are compare-and-swap updates on the copy status
//     (ErrCopyAlreadyReserved when the expected status no longer holds)
//   - a partial unique index keeps at most one issued, unreturned detail per copy
//
// Usage:
//
//	store, err := postgresengine.NewStoreFromPGXPool(pool, postgresengine.WithLogger(logger))
//	if err != nil {
//		// handle error
//	}
//
//	if err := store.ApplySchema(ctx); err != nil {
//		// handle error
//	}
//
//	err = store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
//		return tx.ReserveCopy(ctx, copyID)
//	})
package postgresengine
