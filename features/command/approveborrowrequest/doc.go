// Package approveborrowrequest implements the Approve Borrow Request use case.
//
// Staff approve a pending request and are recorded as its approver. Approval has no inventory
// side effect, the soft allocated copies stay available until issuance.
// Approving a request that is no longer pending fails with core.ErrInvalidState, also when it
// was approved before.
package approveborrowrequest
