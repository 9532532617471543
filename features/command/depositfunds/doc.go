// Package depositfunds implements the Deposit Funds use case.
//
// Cash paid into a card's deposit is appended to the deposit ledger, and the card's deposit
// amount is updated to the new balance in the same transaction.
package depositfunds
