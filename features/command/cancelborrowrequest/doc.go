// Package cancelborrowrequest implements the Cancel Borrow Request use case.
//
// The reader owning the card or a staff member may cancel a request while it is pending or
// approved. Once copies are out with the reader the request can no longer be cancelled.
package cancelborrowrequest
