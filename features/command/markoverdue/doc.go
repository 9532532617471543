// Package markoverdue implements the overdue sweep.
//
// Borrowed requests whose due date passed are moved to overdue, one request per transaction so a
// conflict on one request never blocks the others. Each request that transitioned is handed to the
// circulation.OverdueNotifier after its transaction committed. Requests a concurrent return or
// extension already moved on are skipped.
package markoverdue
