// Package extendborrowrequest implements the Extend Borrow Request use case.
//
// Staff move the due date of a borrowed or overdue request to a strictly later date. The status
// is then resolved against the new due date: an overdue request whose new due date lies in the
// future is borrowed again, a borrowed request that is still past due becomes overdue.
//
// Whether unpaid fines of the request block an extension is decided by
// core.Policy.BlockExtensionWithUnpaidFines.
package extendborrowrequest
