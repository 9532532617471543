// Package reallocatecopies implements the Reallocate Copies use case.
//
// A pending or approved request only holds soft allocations. When one of its copies was issued to
// someone else, or was marked damaged or disposed, staff reallocate: every stale detail gets another
// available copy of the same edition. Requests whose copies are all still available are left alone.
package reallocatecopies
