// Package registercard implements the Register Card use case.
//
// A reader gets exactly one library card. Limits not given explicitly are taken from the
// circulation policy, and the initial deposit has to reach the policy's minimum. The initial
// deposit is recorded as the first transaction of the card's deposit ledger.
package registercard
