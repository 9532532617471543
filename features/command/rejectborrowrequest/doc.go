// Package rejectborrowrequest implements the Reject Borrow Request use case.
//
// Staff reject a pending request with a reason. Nothing was reserved yet, so there is no
// inventory effect and the soft allocated copies become free for other requests. The reason is
// appended to the notes the request already has.
package rejectborrowrequest
