package core

import (
	"errors"
	"fmt"
)

// The error taxonomy. Callers classify failures with errors.Is against these roots.
var (
	// ErrInvalidState is returned when a transition is not legal from the current status. Not retried.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict is returned when a concurrency race was lost. Safe to retry with fresh data.
	ErrConflict = errors.New("conflict")

	// ErrLimitExceeded is returned when a card limit would be exceeded.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrNoAvailableCopy is returned when no copy of a requested edition is free.
	ErrNoAvailableCopy = errors.New("no available copy")

	// ErrCardInvalid is returned when the card is not active.
	ErrCardInvalid = errors.New("card is not valid")

	// ErrInvalidOperation is returned for requests that are well-formed but not allowed, e.g. an oversized refund.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNotPermitted is returned when the actor may not perform the operation.
	ErrNotPermitted = errors.New("not permitted")
)

// Specific failure reasons, each classified under one of the taxonomy roots.
var (
	ErrMaxBooksReached        = fmt.Errorf("%w: card has reached its maximum number of active loans", ErrLimitExceeded)
	ErrDueDateBeyondLimit     = fmt.Errorf("%w: due date exceeds the card's maximum borrow period", ErrLimitExceeded)
	ErrDueDateNotInFuture     = fmt.Errorf("%w: due date must be in the future", ErrInvalidOperation)
	ErrDueDateNotAfterCurrent = fmt.Errorf("%w: new due date must be later than the current due date", ErrInvalidOperation)
	ErrDueDatePassed          = fmt.Errorf("%w: due date has already passed", ErrInvalidOperation)
	ErrUnpaidFines            = fmt.Errorf("%w: request has unpaid fines", ErrInvalidOperation)
	ErrNoItems                = fmt.Errorf("%w: at least one item is required", ErrInvalidOperation)
	ErrNoReturns              = fmt.Errorf("%w: at least one returned copy is required", ErrInvalidOperation)
	ErrCopyNotOnRequest       = fmt.Errorf("%w: copy is not an open line of this request", ErrInvalidOperation)
	ErrDuplicateCopy          = fmt.Errorf("%w: copy is listed more than once", ErrInvalidOperation)
	ErrInvalidReturnCondition = fmt.Errorf("%w: unknown return condition", ErrInvalidOperation)
	ErrNonPositiveAmount      = fmt.Errorf("%w: amount must be greater than zero", ErrInvalidOperation)
	ErrNegativeAmount         = fmt.Errorf("%w: amount must not be negative", ErrInvalidOperation)
	ErrRefundExceedsBalance   = fmt.Errorf("%w: refund exceeds deposit balance", ErrInvalidOperation)
	ErrDepositBelowMinimum    = fmt.Errorf("%w: initial deposit is below the required minimum", ErrInvalidOperation)
	ErrInvalidLimits          = fmt.Errorf("%w: max books and max borrow days must be positive", ErrInvalidOperation)
	ErrCopyMissing            = fmt.Errorf("%w: copy referenced by the request does not exist", ErrInvalidOperation)
	ErrExpiryNotInFuture      = fmt.Errorf("%w: card expiry must be in the future", ErrInvalidOperation)
	ErrInvalidCopyNumber      = fmt.Errorf("%w: copy number must be positive", ErrInvalidOperation)
	ErrInvalidCopyStatus      = fmt.Errorf("%w: unknown copy status", ErrInvalidOperation)
	ErrInvalidCardAction      = fmt.Errorf("%w: unknown card action", ErrInvalidOperation)
)

// TransitionError describes an illegal status transition. It unwraps to ErrInvalidState.
type TransitionError struct {
	Entity string
	From   string
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s %s in status %q", ErrInvalidState, e.Action, e.Entity, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidState
}
