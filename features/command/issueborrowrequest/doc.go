// Package issueborrowrequest implements the Issue Borrow Request use case.
//
// Issuance is the hard allocation: every copy soft allocated at creation is reserved with a
// compare-and-swap from available to borrowed, and the request becomes borrowed with today's
// borrow date. The soft allocation is never trusted. If any copy was taken in the meantime,
// typically by the concurrent issuance of another request that chose the same copy, the whole
// issuance is rolled back and circulation.ErrCopyAlreadyReserved is returned. That error is a
// conflict but it is not retried here, the caller reallocates copies and issues again.
//
// The card is locked and checked again: it must still be active and below max books. An
// approved request whose due date already passed cannot be issued.
package issueborrowrequest
