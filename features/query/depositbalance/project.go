package depositbalance

import (
	"slices"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Project sums the ledger. Transactions are listed oldest first.
func Project(transactions []core.DepositTransaction, query Query) DepositBalance {
	sorted := slices.Clone(transactions)
	slices.SortStableFunc(sorted, func(a, b core.DepositTransaction) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})

	return DepositBalance{
		CardID:       query.CardID,
		Balance:      core.ComputeDepositBalance(sorted),
		Transactions: sorted,
	}
}
