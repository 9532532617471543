package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// CardOption adjusts a card before GivenCard stores it.
type CardOption func(*core.Card)

// WithMaxBooks sets the card's max books.
func WithMaxBooks(maxBooks int) CardOption {
	return func(c *core.Card) {
		c.MaxBooks = maxBooks
	}
}

// WithMaxBorrowDays sets the card's max borrow days.
func WithMaxBorrowDays(days int) CardOption {
	return func(c *core.Card) {
		c.MaxBorrowDays = days
	}
}

// WithCardStatus sets the stored card status.
func WithCardStatus(status core.CardStatus) CardOption {
	return func(c *core.Card) {
		c.Status = status
	}
}

// WithExpiresAt sets the card's expiry.
func WithExpiresAt(expiresAt time.Time) CardOption {
	return func(c *core.Card) {
		c.ExpiresAt = &expiresAt
	}
}

// GivenCard stores an active card with the default policy limits and the minimum deposit.
func GivenCard(t testing.TB, store circulation.Store, createdAt time.Time, opts ...CardOption) core.Card {
	t.Helper()

	policy := core.DefaultPolicy()
	card := core.Card{
		ID:            uuid.Must(uuid.NewV7()),
		ReaderID:      uuid.Must(uuid.NewV7()),
		Status:        core.CardActive,
		MaxBooks:      policy.DefaultMaxBooks,
		MaxBorrowDays: policy.DefaultBorrowDays,
		DepositAmount: policy.MinimumDeposit,
		CreatedAt:     core.ToOccurredAt(createdAt),
	}

	for _, opt := range opts {
		opt(&card)
	}

	deposit, err := core.NewDeposit(uuid.Must(uuid.NewV7()), card.ID, card.DepositAmount, card.CreatedAt)
	require.NoError(t, err, "building the initial deposit failed")

	err = store.WithinTransaction(context.Background(), func(ctx context.Context, tx circulation.Tx) error {
		if err := tx.InsertCard(ctx, card); err != nil {
			return err
		}

		return tx.AppendDepositTransaction(ctx, deposit)
	})
	require.NoError(t, err, "seeding a card failed")

	card.Version = 1

	return card
}

// GivenCopy stores an available copy of editionID.
func GivenCopy(t testing.TB, store circulation.Store, editionID uuid.UUID, copyNumber int, price int64) core.Copy {
	t.Helper()

	bookCopy := core.Copy{
		ID:         uuid.Must(uuid.NewV7()),
		EditionID:  editionID,
		CopyNumber: copyNumber,
		Status:     core.CopyAvailable,
		Price:      decimal.NewFromInt(price),
	}

	err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx circulation.Tx) error {
		return tx.InsertCopy(ctx, bookCopy)
	})
	require.NoError(t, err, "seeding a copy failed")

	bookCopy.Version = 1

	return bookCopy
}

// GivenBorrowRequest stores a request of card in status with one detail per copy.
// For borrowed and overdue requests the copies are reserved and the details hard allocated.
func GivenBorrowRequest(
	t testing.TB,
	store circulation.Store,
	card core.Card,
	status core.RequestStatus,
	requestDate time.Time,
	dueDate time.Time,
	copies ...core.Copy,
) core.BorrowRequest {
	t.Helper()

	requestDate = core.ToOccurredAt(requestDate)
	request := core.BorrowRequest{
		ID:          uuid.Must(uuid.NewV7()),
		CardID:      card.ID,
		Status:      status,
		RequestDate: requestDate,
		DueDate:     core.ToOccurredAt(dueDate),
	}

	for _, bookCopy := range copies {
		detail := core.BorrowDetail{
			ID:        uuid.Must(uuid.NewV7()),
			RequestID: request.ID,
			EditionID: bookCopy.EditionID,
			CopyID:    bookCopy.ID,
		}

		if status.IsActiveLoan() {
			detail.ReservedAt = &requestDate
		}

		request.Details = append(request.Details, detail)
	}

	if status.IsActiveLoan() {
		request.BorrowDate = &requestDate
	}

	err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx circulation.Tx) error {
		if status.IsActiveLoan() {
			for _, bookCopy := range copies {
				if err := tx.ReserveCopy(ctx, bookCopy.ID); err != nil {
					return err
				}
			}
		}

		return tx.InsertBorrowRequest(ctx, request)
	})
	require.NoError(t, err, "seeding a borrow request failed")

	request.Version = 1

	return request
}

// GivenFine stores a pending overdue fine for one copy of request.
func GivenFine(
	t testing.TB,
	store circulation.Store,
	request core.BorrowRequest,
	copyID uuid.UUID,
	amount int64,
	createdAt time.Time,
) core.Fine {
	t.Helper()

	fine, err := core.RecordFine(
		uuid.Must(uuid.NewV7()),
		request.ID,
		copyID,
		core.FineReasonOverdue,
		decimal.NewFromInt(amount),
		core.ToOccurredAt(createdAt),
	)
	require.NoError(t, err, "building a fine failed")

	err = store.WithinTransaction(context.Background(), func(ctx context.Context, tx circulation.Tx) error {
		return tx.InsertFine(ctx, fine)
	})
	require.NoError(t, err, "seeding a fine failed")

	fine.Version = 1

	return fine
}

// CopyOf reads the current state of a copy.
func CopyOf(t testing.TB, store circulation.Store, copyID uuid.UUID) core.Copy {
	t.Helper()

	var bookCopy core.Copy
	err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx circulation.Tx) error {
		var err error
		bookCopy, err = tx.CopyByID(ctx, copyID)

		return err
	})
	require.NoError(t, err, "reading a copy failed")

	return bookCopy
}

// CardOf reads the current state of a card.
func CardOf(t testing.TB, store circulation.Store, cardID uuid.UUID) core.Card {
	t.Helper()

	var card core.Card
	err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx circulation.Tx) error {
		var err error
		card, err = tx.CardByID(ctx, cardID)

		return err
	})
	require.NoError(t, err, "reading a card failed")

	return card
}

// RequestOf reads the current state of a borrow request.
func RequestOf(t testing.TB, store circulation.Store, requestID uuid.UUID) core.BorrowRequest {
	t.Helper()

	var request core.BorrowRequest
	err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx circulation.Tx) error {
		var err error
		request, err = tx.BorrowRequestByID(ctx, requestID)

		return err
	})
	require.NoError(t, err, "reading a borrow request failed")

	return request
}

// FinesOf reads the fines of a borrow request.
func FinesOf(t testing.TB, store circulation.Store, requestID uuid.UUID) []core.Fine {
	t.Helper()

	var fines []core.Fine
	err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx circulation.Tx) error {
		var err error
		fines, err = tx.FinesByBorrowRequest(ctx, requestID)

		return err
	})
	require.NoError(t, err, "reading fines failed")

	return fines
}

// DepositsOf reads the deposit ledger of a card.
func DepositsOf(t testing.TB, store circulation.Store, cardID uuid.UUID) []core.DepositTransaction {
	t.Helper()

	var transactions []core.DepositTransaction
	err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx circulation.Tx) error {
		var err error
		transactions, err = tx.DepositTransactions(ctx, cardID)

		return err
	})
	require.NoError(t, err, "reading deposits failed")

	return transactions
}

// JournalEntryTypesOf lists the journal entry types recorded for subjectID, oldest first.
func JournalEntryTypesOf(t testing.TB, store circulation.Store, subjectID uuid.UUID) []string {
	t.Helper()

	var types []string
	err := store.WithinTransaction(context.Background(), func(ctx context.Context, tx circulation.Tx) error {
		entries, err := tx.JournalEntries(ctx, subjectID)
		for _, entry := range entries {
			types = append(types, entry.EntryType)
		}

		return err
	})
	require.NoError(t, err, "reading the journal failed")

	return types
}
