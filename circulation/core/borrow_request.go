package core

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle status of a borrow request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
	StatusBorrowed  RequestStatus = "borrowed"
	StatusOverdue   RequestStatus = "overdue"
	StatusReturned  RequestStatus = "returned"
)

// RequestAction is an operation on a borrow request.
type RequestAction string

const (
	ActionApprove    RequestAction = "approve"
	ActionReject     RequestAction = "reject"
	ActionCancel     RequestAction = "cancel"
	ActionReallocate RequestAction = "reallocate"
	ActionIssue      RequestAction = "issue"
	ActionExtend     RequestAction = "extend"

	// ActionReturnPartially closes some but not all details.
	ActionReturnPartially RequestAction = "return part of"

	// ActionCompleteReturn closes the last open details.
	ActionCompleteReturn RequestAction = "complete return of"

	// ActionMarkOverdue and ActionClearOverdue are applied by the sweep and by extensions, never by staff directly.
	ActionMarkOverdue  RequestAction = "mark overdue"
	ActionClearOverdue RequestAction = "clear overdue"
)

var requestTransitions = map[RequestStatus]map[RequestAction]RequestStatus{
	StatusPending: {
		ActionApprove:    StatusApproved,
		ActionReject:     StatusRejected,
		ActionCancel:     StatusCancelled,
		ActionReallocate: StatusPending,
	},
	StatusApproved: {
		ActionIssue:      StatusBorrowed,
		ActionCancel:     StatusCancelled,
		ActionReallocate: StatusApproved,
	},
	StatusBorrowed: {
		ActionExtend:          StatusBorrowed,
		ActionReturnPartially: StatusBorrowed,
		ActionCompleteReturn:  StatusReturned,
		ActionMarkOverdue:     StatusOverdue,
	},
	StatusOverdue: {
		ActionExtend:          StatusOverdue,
		ActionReturnPartially: StatusOverdue,
		ActionCompleteReturn:  StatusReturned,
		ActionClearOverdue:    StatusBorrowed,
	},
	StatusRejected:  {},
	StatusCancelled: {},
	StatusReturned:  {},
}

// IsValid reports whether s is a known request status.
func (s RequestStatus) IsValid() bool {
	_, ok := requestTransitions[s]

	return ok
}

// Apply returns the status reached by applying action, or a *TransitionError.
func (s RequestStatus) Apply(action RequestAction) (RequestStatus, error) {
	next, ok := requestTransitions[s][action]
	if !ok {
		return s, &TransitionError{Entity: "borrow request", From: string(s), Action: string(action)}
	}

	return next, nil
}

// IsTerminal reports whether no further transition is possible.
func (s RequestStatus) IsTerminal() bool {
	return len(requestTransitions[s]) == 0
}

// IsActiveLoan reports whether copies are out with the reader.
func (s RequestStatus) IsActiveLoan() bool {
	return s == StatusBorrowed || s == StatusOverdue
}

// IsOpen reports whether the request still only holds soft allocations.
func (s RequestStatus) IsOpen() bool {
	return s == StatusPending || s == StatusApproved
}

// ActiveLoanStatuses are the statuses counted against a card's max books.
func ActiveLoanStatuses() []RequestStatus {
	return []RequestStatus{StatusBorrowed, StatusOverdue}
}

// OpenStatuses are the statuses of requests holding soft allocations.
func OpenStatuses() []RequestStatus {
	return []RequestStatus{StatusPending, StatusApproved}
}

// BorrowDetail links a borrow request to one specific copy.
type BorrowDetail struct {
	ID        uuid.UUID
	RequestID uuid.UUID
	EditionID uuid.UUID
	CopyID    uuid.UUID

	// ReservedAt is set when the copy was hard allocated at issuance.
	ReservedAt       *time.Time
	ActualReturnDate *time.Time

	// ReturnCondition is empty while the detail is open.
	ReturnCondition ReturnCondition
}

// IsClosed reports whether the copy of this line came back.
func (d BorrowDetail) IsClosed() bool {
	return d.ActualReturnDate != nil
}

// BorrowRequest is one loan transaction through its full lifecycle, tied to exactly one card.
type BorrowRequest struct {
	ID          uuid.UUID
	CardID      uuid.UUID
	Status      RequestStatus
	RequestDate time.Time
	BorrowDate  *time.Time
	DueDate     time.Time
	ApproverID  *uuid.UUID
	Notes       string
	Details     []BorrowDetail
	Version     int
}

// Clone returns a copy that shares no mutable state with r.
func (r BorrowRequest) Clone() BorrowRequest {
	clone := r
	clone.Details = make([]BorrowDetail, len(r.Details))
	copy(clone.Details, r.Details)

	return clone
}

// IsOverdueAt reports whether copies are out and the due date has passed.
func (r BorrowRequest) IsOverdueAt(now time.Time) bool {
	return r.Status.IsActiveLoan() && r.DueDate.Before(now)
}

// EffectiveStatus is the stored status with overdue derived from the due date.
// It bridges the window until the sweep persists the transition.
func (r BorrowRequest) EffectiveStatus(now time.Time) RequestStatus {
	if r.Status == StatusBorrowed && r.DueDate.Before(now) {
		return StatusOverdue
	}

	return r.Status
}

// AllDetailsClosed reports whether every line has an actual return date.
func (r BorrowRequest) AllDetailsClosed() bool {
	for _, d := range r.Details {
		if !d.IsClosed() {
			return false
		}
	}

	return true
}

// OpenDetailIndex returns the index of the open line referencing copyID.
func (r BorrowRequest) OpenDetailIndex(copyID uuid.UUID) (int, bool) {
	for i, d := range r.Details {
		if d.CopyID == copyID && !d.IsClosed() {
			return i, true
		}
	}

	return -1, false
}

// CopyIDs returns the copies of all lines in detail order.
func (r BorrowRequest) CopyIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Details))
	for _, d := range r.Details {
		ids = append(ids, d.CopyID)
	}

	return ids
}

// ResolveOverdue applies mark/clear overdue so the status matches the due date at now.
// Statuses other than borrowed and overdue are returned unchanged.
func ResolveOverdue(status RequestStatus, dueDate time.Time, now time.Time) (RequestStatus, error) {
	switch {
	case status == StatusBorrowed && dueDate.Before(now):
		return status.Apply(ActionMarkOverdue)
	case status == StatusOverdue && !dueDate.Before(now):
		return status.Apply(ActionClearOverdue)
	default:
		return status, nil
	}
}
