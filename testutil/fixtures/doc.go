// Package fixtures seeds a circulation.Store with cards, copies, borrow requests and fines for tests.
//
// All Given... helpers write through the store's transactional API, so they work for the in-memory
// and the Postgres engine alike. They fail the test immediately when seeding fails.
package fixtures
