// Package listoverdue implements the List Overdue query use case.
//
// The result is derived at read time: every request in status borrowed or overdue whose due date is
// before now is listed with the effective status overdue, whether or not the sweep already persisted
// that transition. Requests are ordered by due date, the longest overdue first.
package listoverdue
