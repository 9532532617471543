// Package depositbalance implements the Deposit Balance query use case.
package depositbalance
