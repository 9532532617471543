package memengine

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	logMsgCommitted  = "memengine: transaction committed"
	logMsgRolledBack = "memengine: transaction rolled back"
	logAttrError     = "error"
)

// Store is an in-memory implementation of circulation.Store.
type Store struct {
	mu     sync.Mutex
	state  *state
	logger circulation.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a logger for transaction outcomes.
func WithLogger(logger circulation.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates an empty Store.
func NewStore(options ...Option) *Store {
	s := &Store{state: newState()}

	for _, option := range options {
		option(s)
	}

	return s
}

// WithinTransaction runs fn against a private copy of the state and publishes it only when fn succeeds.
func (s *Store) WithinTransaction(ctx context.Context, fn circulation.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()

	if err := fn(ctx, &tx{state: working}); err != nil {
		if s.logger != nil {
			s.logger.Debug(logMsgRolledBack, logAttrError, err.Error())
		}

		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.state = working

	if s.logger != nil {
		s.logger.Debug(logMsgCommitted)
	}

	return nil
}

type state struct {
	cards    map[uuid.UUID]core.Card
	deposits []core.DepositTransaction
	copies   map[uuid.UUID]core.Copy
	requests map[uuid.UUID]core.BorrowRequest
	fines    map[uuid.UUID]core.Fine
	journal  []circulation.JournalEntry
}

func newState() *state {
	return &state{
		cards:    make(map[uuid.UUID]core.Card),
		copies:   make(map[uuid.UUID]core.Copy),
		requests: make(map[uuid.UUID]core.BorrowRequest),
		fines:    make(map[uuid.UUID]core.Fine),
	}
}

func (st *state) clone() *state {
	c := newState()

	for id, card := range st.cards {
		c.cards[id] = card
	}

	for id, bookCopy := range st.copies {
		c.copies[id] = bookCopy
	}

	for id, request := range st.requests {
		c.requests[id] = request.Clone()
	}

	for id, fine := range st.fines {
		c.fines[id] = fine
	}

	c.deposits = slices.Clone(st.deposits)
	c.journal = slices.Clone(st.journal)

	return c
}

type tx struct {
	state *state
}

func notFound(kind string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", kind, id, circulation.ErrNotFound)
}

// cards

func (t *tx) InsertCard(_ context.Context, card core.Card) error {
	for _, existing := range t.state.cards {
		if existing.ReaderID == card.ReaderID {
			return circulation.ErrCardAlreadyExists
		}
	}

	card.Version = 1
	t.state.cards[card.ID] = card

	return nil
}

func (t *tx) CardByID(_ context.Context, cardID uuid.UUID) (core.Card, error) {
	card, ok := t.state.cards[cardID]
	if !ok {
		return core.Card{}, notFound("card", cardID)
	}

	return card, nil
}

func (t *tx) CardForUpdate(ctx context.Context, cardID uuid.UUID) (core.Card, error) {
	return t.CardByID(ctx, cardID)
}

func (t *tx) UpdateCard(_ context.Context, card core.Card) error {
	stored, ok := t.state.cards[card.ID]
	if !ok {
		return notFound("card", card.ID)
	}

	if stored.Version != card.Version {
		return circulation.ErrConcurrencyConflict
	}

	card.Version++
	t.state.cards[card.ID] = card

	return nil
}

func (t *tx) CountActiveLoans(_ context.Context, cardID uuid.UUID) (int, error) {
	count := 0
	for _, request := range t.state.requests {
		if request.CardID == cardID && request.Status.IsActiveLoan() {
			count++
		}
	}

	return count, nil
}

// deposits

func (t *tx) AppendDepositTransaction(_ context.Context, transaction core.DepositTransaction) error {
	if _, ok := t.state.cards[transaction.CardID]; !ok {
		return notFound("card", transaction.CardID)
	}

	t.state.deposits = append(t.state.deposits, transaction)

	return nil
}

func (t *tx) DepositTransactions(_ context.Context, cardID uuid.UUID) ([]core.DepositTransaction, error) {
	var transactions []core.DepositTransaction
	for _, transaction := range t.state.deposits {
		if transaction.CardID == cardID {
			transactions = append(transactions, transaction)
		}
	}

	return transactions, nil
}

// inventory

func (t *tx) InsertCopy(_ context.Context, bookCopy core.Copy) error {
	for _, existing := range t.state.copies {
		if existing.EditionID == bookCopy.EditionID && existing.CopyNumber == bookCopy.CopyNumber {
			return circulation.ErrCopyAlreadyExists
		}
	}

	bookCopy.Version = 1
	t.state.copies[bookCopy.ID] = bookCopy

	return nil
}

func (t *tx) CopyByID(_ context.Context, copyID uuid.UUID) (core.Copy, error) {
	bookCopy, ok := t.state.copies[copyID]
	if !ok {
		return core.Copy{}, notFound("copy", copyID)
	}

	return bookCopy, nil
}

func (t *tx) CopyForUpdate(ctx context.Context, copyID uuid.UUID) (core.Copy, error) {
	return t.CopyByID(ctx, copyID)
}

func (t *tx) CopiesByID(_ context.Context, copyIDs []uuid.UUID) (map[uuid.UUID]core.Copy, error) {
	copies := make(map[uuid.UUID]core.Copy, len(copyIDs))
	for _, id := range copyIDs {
		if bookCopy, ok := t.state.copies[id]; ok {
			copies[id] = bookCopy
		}
	}

	return copies, nil
}

func (t *tx) FindAvailableCopy(_ context.Context, editionID uuid.UUID, exclude []uuid.UUID) (core.Copy, error) {
	softAllocated := make(map[uuid.UUID]bool)
	for _, request := range t.state.requests {
		if !request.Status.IsOpen() {
			continue
		}

		for _, d := range request.Details {
			softAllocated[d.CopyID] = true
		}
	}

	var candidates []core.Copy
	for _, bookCopy := range t.state.copies {
		if bookCopy.EditionID != editionID || bookCopy.Status != core.CopyAvailable {
			continue
		}

		if slices.Contains(exclude, bookCopy.ID) {
			continue
		}

		candidates = append(candidates, bookCopy)
	}

	if len(candidates) == 0 {
		return core.Copy{}, fmt.Errorf("%w: edition %s", core.ErrNoAvailableCopy, editionID)
	}

	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := softAllocated[candidates[i].ID], softAllocated[candidates[j].ID]
		if ai != aj {
			return !ai
		}

		return candidates[i].CopyNumber < candidates[j].CopyNumber
	})

	return candidates[0], nil
}

func (t *tx) ReserveCopy(_ context.Context, copyID uuid.UUID) error {
	return t.swapCopyStatus(copyID, core.CopyAvailable, core.CopyBorrowed, circulation.ErrCopyAlreadyReserved)
}

func (t *tx) ReleaseCopy(_ context.Context, copyID uuid.UUID, outcome core.CopyStatus) error {
	return t.swapCopyStatus(copyID, core.CopyBorrowed, outcome, circulation.ErrCopyNotBorrowed)
}

func (t *tx) swapCopyStatus(copyID uuid.UUID, expected, target core.CopyStatus, mismatch error) error {
	bookCopy, ok := t.state.copies[copyID]
	if !ok {
		return notFound("copy", copyID)
	}

	if bookCopy.Status != expected {
		return fmt.Errorf("copy %s is %s: %w", copyID, bookCopy.Status, mismatch)
	}

	bookCopy.Status = target
	bookCopy.Version++
	t.state.copies[copyID] = bookCopy

	return nil
}

func (t *tx) UpdateCopy(_ context.Context, bookCopy core.Copy) error {
	stored, ok := t.state.copies[bookCopy.ID]
	if !ok {
		return notFound("copy", bookCopy.ID)
	}

	if stored.Version != bookCopy.Version {
		return circulation.ErrConcurrencyConflict
	}

	bookCopy.Version++
	t.state.copies[bookCopy.ID] = bookCopy

	return nil
}

// borrow requests

func (t *tx) InsertBorrowRequest(_ context.Context, request core.BorrowRequest) error {
	if _, ok := t.state.cards[request.CardID]; !ok {
		return notFound("card", request.CardID)
	}

	request = request.Clone()
	request.Version = 1
	t.state.requests[request.ID] = request

	return nil
}

func (t *tx) BorrowRequestByID(_ context.Context, requestID uuid.UUID) (core.BorrowRequest, error) {
	request, ok := t.state.requests[requestID]
	if !ok {
		return core.BorrowRequest{}, notFound("borrow request", requestID)
	}

	return request.Clone(), nil
}

func (t *tx) BorrowRequestForUpdate(ctx context.Context, requestID uuid.UUID) (core.BorrowRequest, error) {
	return t.BorrowRequestByID(ctx, requestID)
}

func (t *tx) UpdateBorrowRequest(_ context.Context, request core.BorrowRequest) error {
	stored, ok := t.state.requests[request.ID]
	if !ok {
		return notFound("borrow request", request.ID)
	}

	if stored.Version != request.Version {
		return circulation.ErrConcurrencyConflict
	}

	if err := t.checkSingleActiveDetailPerCopy(request); err != nil {
		return err
	}

	request = request.Clone()
	request.Version++
	t.state.requests[request.ID] = request

	return nil
}

// checkSingleActiveDetailPerCopy mirrors the partial unique index of the Postgres schema.
func (t *tx) checkSingleActiveDetailPerCopy(request core.BorrowRequest) error {
	for _, d := range request.Details {
		if d.ReservedAt == nil || d.IsClosed() {
			continue
		}

		for _, other := range t.state.requests {
			if other.ID == request.ID {
				continue
			}

			for _, od := range other.Details {
				if od.CopyID == d.CopyID && od.ReservedAt != nil && !od.IsClosed() {
					return fmt.Errorf("copy %s: %w", d.CopyID, circulation.ErrCopyAlreadyReserved)
				}
			}
		}
	}

	return nil
}

func (t *tx) BorrowRequestsDueBefore(
	_ context.Context,
	statuses []core.RequestStatus,
	dueBefore time.Time,
) ([]core.BorrowRequest, error) {
	var requests []core.BorrowRequest
	for _, request := range t.state.requests {
		if slices.Contains(statuses, request.Status) && request.DueDate.Before(dueBefore) {
			requests = append(requests, request.Clone())
		}
	}

	sort.Slice(requests, func(i, j int) bool {
		if !requests[i].DueDate.Equal(requests[j].DueDate) {
			return requests[i].DueDate.Before(requests[j].DueDate)
		}

		return requests[i].ID.String() < requests[j].ID.String()
	})

	return requests, nil
}

// fines

func (t *tx) InsertFine(_ context.Context, fine core.Fine) error {
	if _, ok := t.state.requests[fine.RequestID]; !ok {
		return notFound("borrow request", fine.RequestID)
	}

	fine.Version = 1
	t.state.fines[fine.ID] = fine

	return nil
}

func (t *tx) FineForUpdate(_ context.Context, fineID uuid.UUID) (core.Fine, error) {
	fine, ok := t.state.fines[fineID]
	if !ok {
		return core.Fine{}, notFound("fine", fineID)
	}

	return fine, nil
}

func (t *tx) UpdateFine(_ context.Context, fine core.Fine) error {
	stored, ok := t.state.fines[fine.ID]
	if !ok {
		return notFound("fine", fine.ID)
	}

	if stored.Version != fine.Version {
		return circulation.ErrConcurrencyConflict
	}

	fine.Version++
	t.state.fines[fine.ID] = fine

	return nil
}

func (t *tx) FinesByBorrowRequest(_ context.Context, requestID uuid.UUID) ([]core.Fine, error) {
	var fines []core.Fine
	for _, fine := range t.state.fines {
		if fine.RequestID == requestID {
			fines = append(fines, fine)
		}
	}

	sort.Slice(fines, func(i, j int) bool {
		if !fines[i].CreatedAt.Equal(fines[j].CreatedAt) {
			return fines[i].CreatedAt.Before(fines[j].CreatedAt)
		}

		return fines[i].ID.String() < fines[j].ID.String()
	})

	return fines, nil
}

// journal

func (t *tx) AppendJournalEntry(_ context.Context, entry circulation.JournalEntry) error {
	t.state.journal = append(t.state.journal, entry)

	return nil
}

func (t *tx) JournalEntries(_ context.Context, subjectID uuid.UUID) ([]circulation.JournalEntry, error) {
	var entries []circulation.JournalEntry
	for _, entry := range t.state.journal {
		if entry.SubjectID == subjectID {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
