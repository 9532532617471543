package circulation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// TxFunc is the unit of work run inside one transaction.
type TxFunc func(ctx context.Context, tx Tx) error

// Store runs units of work transactionally. fn's changes are committed when it returns nil and
// rolled back completely otherwise.
type Store interface {
	WithinTransaction(ctx context.Context, fn TxFunc) error
}

// Tx is the repository surface available inside a transaction.
//
// Methods ending in ForUpdate lock the row until the transaction ends. Update methods check the
// entity's Version and fail with ErrConcurrencyConflict when it is stale; on success the stored
// version is incremented.
type Tx interface {
	CardStore
	DepositStore
	InventoryStore
	BorrowRequestStore
	FineStore
	JournalStore
}

// CardStore covers the membership ledger.
type CardStore interface {
	// InsertCard fails with ErrCardAlreadyExists when the reader already has a card.
	InsertCard(ctx context.Context, card core.Card) error
	CardByID(ctx context.Context, cardID uuid.UUID) (core.Card, error)
	CardForUpdate(ctx context.Context, cardID uuid.UUID) (core.Card, error)
	UpdateCard(ctx context.Context, card core.Card) error

	// CountActiveLoans counts the card's requests in status borrowed or overdue.
	CountActiveLoans(ctx context.Context, cardID uuid.UUID) (int, error)
}

// DepositStore covers the append-only deposit ledger.
type DepositStore interface {
	AppendDepositTransaction(ctx context.Context, transaction core.DepositTransaction) error
	DepositTransactions(ctx context.Context, cardID uuid.UUID) ([]core.DepositTransaction, error)
}

// InventoryStore covers the inventory ledger.
type InventoryStore interface {
	// InsertCopy fails with ErrCopyAlreadyExists for a duplicate copy number within an edition.
	InsertCopy(ctx context.Context, copy core.Copy) error
	CopyByID(ctx context.Context, copyID uuid.UUID) (core.Copy, error)
	CopyForUpdate(ctx context.Context, copyID uuid.UUID) (core.Copy, error)
	CopiesByID(ctx context.Context, copyIDs []uuid.UUID) (map[uuid.UUID]core.Copy, error)

	// FindAvailableCopy returns the available copy of the edition with the lowest copy number,
	// preferring copies that no other pending or approved request has soft allocated.
	// Copies in exclude are skipped. Fails with core.ErrNoAvailableCopy.
	FindAvailableCopy(ctx context.Context, editionID uuid.UUID, exclude []uuid.UUID) (core.Copy, error)

	// ReserveCopy is the compare-and-swap available -> borrowed.
	// It fails with ErrCopyAlreadyReserved when the copy is not available.
	ReserveCopy(ctx context.Context, copyID uuid.UUID) error

	// ReleaseCopy is the compare-and-swap borrowed -> outcome.
	// It fails with ErrCopyNotBorrowed when the copy is not borrowed.
	ReleaseCopy(ctx context.Context, copyID uuid.UUID, outcome core.CopyStatus) error

	// UpdateCopy persists status and condition notes of a copy loaded with CopyForUpdate.
	UpdateCopy(ctx context.Context, copy core.Copy) error
}

// BorrowRequestStore covers borrow requests and their details.
type BorrowRequestStore interface {
	InsertBorrowRequest(ctx context.Context, request core.BorrowRequest) error
	BorrowRequestByID(ctx context.Context, requestID uuid.UUID) (core.BorrowRequest, error)
	BorrowRequestForUpdate(ctx context.Context, requestID uuid.UUID) (core.BorrowRequest, error)

	// UpdateBorrowRequest persists the request header and all of its details.
	UpdateBorrowRequest(ctx context.Context, request core.BorrowRequest) error

	// BorrowRequestsDueBefore lists requests in one of statuses with a due date before dueBefore,
	// ordered by due date.
	BorrowRequestsDueBefore(ctx context.Context, statuses []core.RequestStatus, dueBefore time.Time) ([]core.BorrowRequest, error)
}

// FineStore covers fines.
type FineStore interface {
	InsertFine(ctx context.Context, fine core.Fine) error
	FineForUpdate(ctx context.Context, fineID uuid.UUID) (core.Fine, error)
	UpdateFine(ctx context.Context, fine core.Fine) error
	FinesByBorrowRequest(ctx context.Context, requestID uuid.UUID) ([]core.Fine, error)
}

// JournalStore covers the audit journal.
type JournalStore interface {
	AppendJournalEntry(ctx context.Context, entry JournalEntry) error

	// JournalEntries lists the entries of one subject in the order they were appended.
	JournalEntries(ctx context.Context, subjectID uuid.UUID) ([]JournalEntry, error)
}

// OverdueNotifier is told about requests that just became overdue.
// Delivery (email, push) happens outside the circulation core.
type OverdueNotifier interface {
	NotifyOverdue(ctx context.Context, request core.BorrowRequest) error
}
