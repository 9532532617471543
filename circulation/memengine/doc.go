// Package memengine provides an in-memory circulation.Store.
//
// Transactions are serialized by a single mutex and work on a copy of the whole state, which is
// swapped in on commit and dropped on rollback. That gives the same all-or-nothing and
// compare-and-swap semantics as the Postgres engine, at a cost that is fine for tests, demos and
// small local runs but not for production data volumes.
package memengine
