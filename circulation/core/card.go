package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CardStatus is the lifecycle status of a library card.
type CardStatus string

const (
	CardActive  CardStatus = "active"
	CardExpired CardStatus = "expired"
	CardLocked  CardStatus = "locked"
)

// CardAction is a staff action changing a card's status.
type CardAction string

const (
	CardActionLock   CardAction = "lock"
	CardActionUnlock CardAction = "unlock"
	CardActionRenew  CardAction = "renew"
)

var cardTransitions = map[CardStatus]map[CardAction]CardStatus{
	CardActive: {
		CardActionLock:  CardLocked,
		CardActionRenew: CardActive,
	},
	CardExpired: {
		CardActionLock:  CardLocked,
		CardActionRenew: CardActive,
	},
	CardLocked: {
		CardActionUnlock: CardActive,
	},
}

// IsValid reports whether s is a known card status.
func (s CardStatus) IsValid() bool {
	_, ok := cardTransitions[s]

	return ok
}

// Apply returns the status reached by applying action, or a *TransitionError.
func (s CardStatus) Apply(action CardAction) (CardStatus, error) {
	next, ok := cardTransitions[s][action]
	if !ok {
		return s, &TransitionError{Entity: "card", From: string(s), Action: string(action)}
	}

	return next, nil
}

// Card is a reader's borrowing credential. A reader has at most one card.
type Card struct {
	ID            uuid.UUID
	ReaderID      uuid.UUID
	Status        CardStatus
	MaxBooks      int
	MaxBorrowDays int
	DepositAmount decimal.Decimal
	ExpiresAt     *time.Time
	CreatedAt     time.Time
	Version       int
}

// EffectiveStatus is the stored status, except that an active card past its expiry date counts as expired.
func (c Card) EffectiveStatus(now time.Time) CardStatus {
	if c.Status == CardActive && c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return CardExpired
	}

	return c.Status
}

// CanBorrow reports whether the card is active and its active loans are below MaxBooks.
func (c Card) CanBorrow(activeLoans int, now time.Time) bool {
	return c.CheckCanBorrow(activeLoans, now) == nil
}

// CheckCanBorrow is CanBorrow with the reason for a refusal.
// activeLoans is the number of the card's requests in status borrowed or overdue.
func (c Card) CheckCanBorrow(activeLoans int, now time.Time) error {
	if status := c.EffectiveStatus(now); status != CardActive {
		return fmt.Errorf("%w: card status is %s", ErrCardInvalid, status)
	}

	if activeLoans >= c.MaxBooks {
		return ErrMaxBooksReached
	}

	return nil
}

// LatestDueDate is the latest due date the card allows for a loan starting at from.
func (c Card) LatestDueDate(from time.Time) time.Time {
	return from.AddDate(0, 0, c.MaxBorrowDays)
}

// BelongsTo reports whether the actor is the card's reader.
func (c Card) BelongsTo(actor Actor) bool {
	return actor.Role == RoleReader && actor.ID == c.ReaderID
}
