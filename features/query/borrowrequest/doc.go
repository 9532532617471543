// Package borrowrequest implements the Get Borrow Request query use case.
//
// It returns a request with its details, the fines recorded against it and the outstanding amount
// still to be paid. The status is reported both as stored and as effective at the query time.
package borrowrequest
