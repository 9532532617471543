package refunddeposit

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Decision is the outcome of Decide.
type Decision struct {
	Card        core.Card
	Transaction core.DepositTransaction
}

// Decide records the refund if the balance covers it and moves the card's deposit amount to the new balance.
func Decide(card core.Card, history []core.DepositTransaction, command Command) (Decision, error) {
	transaction, err := core.NewRefund(command.TransactionID, card.ID, command.Amount, history, command.OccurredAt)
	if err != nil {
		return Decision{}, err
	}

	card.DepositAmount = core.ComputeDepositBalance(append(history, transaction))

	return Decision{Card: card, Transaction: transaction}, nil
}
