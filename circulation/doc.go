// Package circulation defines the contracts of the library circulation core.
//
// A Store runs a TxFunc inside one transaction. The Tx handed to the function offers the repository
// operations the borrow workflow needs: row-locking reads, version-checked updates and the two
// compare-and-swap operations on copy status (ReserveCopy, ReleaseCopy) that make hard allocation
// authoritative. Implementations live in the postgresengine and memengine sub-packages.
//
// Errors returned by stores are classified against the taxonomy in circulation/core:
//
//	err := store.WithinTransaction(ctx, func(ctx context.Context, tx circulation.Tx) error {
//		return tx.ReserveCopy(ctx, copyID)
//	})
//	if errors.Is(err, core.ErrConflict) {
//		// another request took the copy, reallocate and retry
//	}
//
// The package also declares the dependency-free observability interfaces (Logger, ContextualLogger,
// MetricsCollector, TracingCollector) used across the module, and the JournalEntry audit record.
package circulation
