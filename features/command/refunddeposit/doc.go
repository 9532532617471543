// Package refunddeposit implements the Refund Deposit use case.
//
// Cash paid back from a card's deposit is appended to the deposit ledger as a refund. The balance
// never goes negative: a refund above the balance fails with core.ErrRefundExceedsBalance, which
// is an core.ErrInvalidOperation.
package refunddeposit
