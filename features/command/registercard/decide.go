package registercard

import (
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Decide builds the new active card.
func Decide(command Command, policy core.Policy) (core.Card, error) {
	if command.MaxBooks < 0 || command.MaxBorrowDays < 0 {
		return core.Card{}, core.ErrInvalidLimits
	}

	maxBooks := command.MaxBooks
	if maxBooks == 0 {
		maxBooks = policy.DefaultMaxBooks
	}

	maxBorrowDays := command.MaxBorrowDays
	if maxBorrowDays == 0 {
		maxBorrowDays = policy.DefaultBorrowDays
	}

	if command.InitialDeposit.LessThan(policy.MinimumDeposit) {
		return core.Card{}, fmt.Errorf("%w: minimum %s, given %s",
			core.ErrDepositBelowMinimum, policy.MinimumDeposit, command.InitialDeposit)
	}

	if command.ExpiresAt != nil && !command.ExpiresAt.After(command.OccurredAt) {
		return core.Card{}, core.ErrExpiryNotInFuture
	}

	return core.Card{
		ID:            command.CardID,
		ReaderID:      command.ReaderID,
		Status:        core.CardActive,
		MaxBooks:      maxBooks,
		MaxBorrowDays: maxBorrowDays,
		DepositAmount: command.InitialDeposit,
		ExpiresAt:     command.ExpiresAt,
		CreatedAt:     command.OccurredAt,
	}, nil
}
