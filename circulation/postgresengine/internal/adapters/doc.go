// Package adapters provide database adapter implementations for the PostgreSQL circulation store.
//
// pgxpool.Pool, sql.DB and sqlx.DB are supported behind the common DBAdapter interface. Every
// adapter starts READ COMMITTED transactions: the store relies on row locks (SELECT ... FOR UPDATE)
// and compare-and-swap updates rather than on serializable isolation.
package adapters
