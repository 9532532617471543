package postgresengine

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const (
	dialectPostgres = "postgres"

	tableCards    = "cards"
	tableCopies   = "copies"
	tableRequests = "borrow_requests"
	tableDetails  = "borrow_details"
	tableFines    = "fines"
	tableDeposits = "deposit_transactions"
	tableJournal  = "circulation_journal"

	colID               = "id"
	colReaderID         = "reader_id"
	colCardID           = "card_id"
	colStatus           = "status"
	colMaxBooks         = "max_books"
	colMaxBorrowDays    = "max_borrow_days"
	colDepositAmount    = "deposit_amount"
	colExpiresAt        = "expires_at"
	colCreatedAt        = "created_at"
	colVersion          = "version"
	colEditionID        = "edition_id"
	colCopyNumber       = "copy_number"
	colPrice            = "price"
	colConditionNotes   = "condition_notes"
	colRequestDate      = "request_date"
	colBorrowDate       = "borrow_date"
	colDueDate          = "due_date"
	colApproverID       = "approver_id"
	colNotes            = "notes"
	colRequestID        = "request_id"
	colPosition         = "position"
	colCopyID           = "copy_id"
	colReservedAt       = "reserved_at"
	colActualReturnDate = "actual_return_date"
	colReturnCondition  = "return_condition"
	colReason           = "reason"
	colAmount           = "amount"
	colPaidDate         = "paid_date"
	colCollectedBy      = "collected_by"
	colType             = "type"
	colOccurredAt       = "occurred_at"
	colSequenceNumber   = "sequence_number"
	colEntryType        = "entry_type"
	colSubjectID        = "subject_id"
	colPayload          = "payload"
	colMetadata         = "metadata"

	castTypeText = "TEXT"
)

type sqlQueryString = string

var dialect = goqu.Dialect(dialectPostgres)

// incrementVersion is the SET expression bumping the optimistic lock version.
var incrementVersion = goqu.L(`"version" + 1`)

func text(column string) exp.CastExpression {
	return goqu.Cast(goqu.C(column), castTypeText)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}

	return *t
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}

	return id.String()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func money(amount decimal.Decimal) string {
	return amount.String()
}

func uuidStrings(ids []uuid.UUID) []string {
	strs := make([]string, 0, len(ids))
	for _, id := range ids {
		strs = append(strs, id.String())
	}

	return strs
}

func statusStrings(statuses []core.RequestStatus) []string {
	strs := make([]string, 0, len(statuses))
	for _, s := range statuses {
		strs = append(strs, string(s))
	}

	return strs
}

func lockIf(ds *goqu.SelectDataset, forUpdate bool) *goqu.SelectDataset {
	if forUpdate {
		return ds.ForUpdate(exp.Wait)
	}

	return ds
}

// cards

func cardColumns() []any {
	return []any{
		text(colID),
		text(colReaderID),
		goqu.C(colStatus),
		goqu.C(colMaxBooks),
		goqu.C(colMaxBorrowDays),
		text(colDepositAmount),
		goqu.C(colExpiresAt),
		goqu.C(colCreatedAt),
		goqu.C(colVersion),
	}
}

func buildInsertCardQuery(card core.Card) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.Insert(tableCards).Rows(goqu.Record{
		colID:            card.ID.String(),
		colReaderID:      card.ReaderID.String(),
		colStatus:        string(card.Status),
		colMaxBooks:      card.MaxBooks,
		colMaxBorrowDays: card.MaxBorrowDays,
		colDepositAmount: money(card.DepositAmount),
		colExpiresAt:     nullableTime(card.ExpiresAt),
		colCreatedAt:     card.CreatedAt,
		colVersion:       1,
	}).ToSQL()

	return sqlQuery, err
}

func buildSelectCardQuery(cardID uuid.UUID, forUpdate bool) (sqlQueryString, error) {
	ds := dialect.From(tableCards).
		Select(cardColumns()...).
		Where(goqu.C(colID).Eq(cardID.String()))

	sqlQuery, _, err := lockIf(ds, forUpdate).ToSQL()

	return sqlQuery, err
}

func buildUpdateCardQuery(card core.Card) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.Update(tableCards).
		Set(goqu.Record{
			colStatus:        string(card.Status),
			colMaxBooks:      card.MaxBooks,
			colMaxBorrowDays: card.MaxBorrowDays,
			colDepositAmount: money(card.DepositAmount),
			colExpiresAt:     nullableTime(card.ExpiresAt),
			colVersion:       incrementVersion,
		}).
		Where(
			goqu.C(colID).Eq(card.ID.String()),
			goqu.C(colVersion).Eq(card.Version),
		).ToSQL()

	return sqlQuery, err
}

func buildCountActiveLoansQuery(cardID uuid.UUID) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.From(tableRequests).
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.C(colCardID).Eq(cardID.String()),
			goqu.C(colStatus).In(statusStrings(core.ActiveLoanStatuses())),
		).ToSQL()

	return sqlQuery, err
}

// deposits

func buildInsertDepositQuery(transaction core.DepositTransaction) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.Insert(tableDeposits).Rows(goqu.Record{
		colID:         transaction.ID.String(),
		colCardID:     transaction.CardID.String(),
		colAmount:     money(transaction.Amount),
		colType:       string(transaction.Type),
		colOccurredAt: transaction.OccurredAt,
	}).ToSQL()

	return sqlQuery, err
}

func buildSelectDepositsQuery(cardID uuid.UUID) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.From(tableDeposits).
		Select(text(colID), text(colCardID), text(colAmount), goqu.C(colType), goqu.C(colOccurredAt)).
		Where(goqu.C(colCardID).Eq(cardID.String())).
		Order(goqu.C(colSequenceNumber).Asc()).
		ToSQL()

	return sqlQuery, err
}

// inventory

func copyColumns() []any {
	return []any{
		text(colID),
		text(colEditionID),
		goqu.C(colCopyNumber),
		goqu.C(colStatus),
		text(colPrice),
		goqu.C(colConditionNotes),
		goqu.C(colVersion),
	}
}

func buildInsertCopyQuery(bookCopy core.Copy) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.Insert(tableCopies).Rows(goqu.Record{
		colID:             bookCopy.ID.String(),
		colEditionID:      bookCopy.EditionID.String(),
		colCopyNumber:     bookCopy.CopyNumber,
		colStatus:         string(bookCopy.Status),
		colPrice:          money(bookCopy.Price),
		colConditionNotes: bookCopy.ConditionNotes,
		colVersion:        1,
	}).ToSQL()

	return sqlQuery, err
}

func buildSelectCopyQuery(copyID uuid.UUID, forUpdate bool) (sqlQueryString, error) {
	ds := dialect.From(tableCopies).
		Select(copyColumns()...).
		Where(goqu.C(colID).Eq(copyID.String()))

	sqlQuery, _, err := lockIf(ds, forUpdate).ToSQL()

	return sqlQuery, err
}

func buildSelectCopiesQuery(copyIDs []uuid.UUID) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.From(tableCopies).
		Select(copyColumns()...).
		Where(goqu.C(colID).In(uuidStrings(copyIDs))).
		ToSQL()

	return sqlQuery, err
}

// buildSelectAvailableCopyQuery orders copies that are soft allocated by an open request last,
// then by copy number, so the choice is deterministic.
func buildSelectAvailableCopyQuery(editionID uuid.UUID, exclude []uuid.UUID) (sqlQueryString, error) {
	softAllocated := dialect.From(goqu.T(tableDetails).As("d")).
		Join(goqu.T(tableRequests).As("r"), goqu.On(goqu.I("r.id").Eq(goqu.I("d.request_id")))).
		Select(goqu.L("1")).
		Where(
			goqu.I("d.copy_id").Eq(goqu.I(tableCopies+".id")),
			goqu.I("r.status").In(statusStrings(core.OpenStatuses())),
		)

	where := []exp.Expression{
		goqu.C(colEditionID).Eq(editionID.String()),
		goqu.C(colStatus).Eq(string(core.CopyAvailable)),
	}

	if len(exclude) > 0 {
		where = append(where, goqu.C(colID).NotIn(uuidStrings(exclude)))
	}

	sqlQuery, _, err := dialect.From(tableCopies).
		Select(copyColumns()...).
		Where(where...).
		Order(goqu.L("EXISTS ?", softAllocated).Asc(), goqu.C(colCopyNumber).Asc()).
		Limit(1).
		ToSQL()

	return sqlQuery, err
}

// buildSwapCopyStatusQuery is the compare-and-swap on copy status; zero affected rows means the swap lost.
func buildSwapCopyStatusQuery(copyID uuid.UUID, expected, target core.CopyStatus) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.Update(tableCopies).
		Set(goqu.Record{
			colStatus:  string(target),
			colVersion: incrementVersion,
		}).
		Where(
			goqu.C(colID).Eq(copyID.String()),
			goqu.C(colStatus).Eq(string(expected)),
		).ToSQL()

	return sqlQuery, err
}

func buildUpdateCopyQuery(bookCopy core.Copy) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.Update(tableCopies).
		Set(goqu.Record{
			colStatus:         string(bookCopy.Status),
			colPrice:          money(bookCopy.Price),
			colConditionNotes: bookCopy.ConditionNotes,
			colVersion:        incrementVersion,
		}).
		Where(
			goqu.C(colID).Eq(bookCopy.ID.String()),
			goqu.C(colVersion).Eq(bookCopy.Version),
		).ToSQL()

	return sqlQuery, err
}

// borrow requests

func requestColumns() []any {
	return []any{
		text(colID),
		text(colCardID),
		goqu.C(colStatus),
		goqu.C(colRequestDate),
		goqu.C(colBorrowDate),
		goqu.C(colDueDate),
		text(colApproverID),
		goqu.C(colNotes),
		goqu.C(colVersion),
	}
}

func detailColumns() []any {
	return []any{
		text(colID),
		text(colRequestID),
		text(colEditionID),
		text(colCopyID),
		goqu.C(colReservedAt),
		goqu.C(colActualReturnDate),
		goqu.C(colReturnCondition),
	}
}

func buildInsertRequestQuery(request core.BorrowRequest) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.Insert(tableRequests).Rows(goqu.Record{
		colID:          request.ID.String(),
		colCardID:      request.CardID.String(),
		colStatus:      string(request.Status),
		colRequestDate: request.RequestDate,
		colBorrowDate:  nullableTime(request.BorrowDate),
		colDueDate:     request.DueDate,
		colApproverID:  nullableUUID(request.ApproverID),
		colNotes:       request.Notes,
		colVersion:     1,
	}).ToSQL()

	return sqlQuery, err
}

func buildInsertDetailsQuery(request core.BorrowRequest) (sqlQueryString, error) {
	rows := make([]any, 0, len(request.Details))
	for i, d := range request.Details {
		rows = append(rows, goqu.Record{
			colID:               d.ID.String(),
			colRequestID:        request.ID.String(),
			colPosition:         i,
			colEditionID:        d.EditionID.String(),
			colCopyID:           d.CopyID.String(),
			colReservedAt:       nullableTime(d.ReservedAt),
			colActualReturnDate: nullableTime(d.ActualReturnDate),
			colReturnCondition:  nullableString(string(d.ReturnCondition)),
		})
	}

	sqlQuery, _, err := dialect.Insert(tableDetails).Rows(rows...).ToSQL()

	return sqlQuery, err
}

func buildSelectRequestQuery(requestID uuid.UUID, forUpdate bool) (sqlQueryString, error) {
	ds := dialect.From(tableRequests).
		Select(requestColumns()...).
		Where(goqu.C(colID).Eq(requestID.String()))

	sqlQuery, _, err := lockIf(ds, forUpdate).ToSQL()

	return sqlQuery, err
}

func buildSelectRequestsDueBeforeQuery(statuses []core.RequestStatus, dueBefore time.Time) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.From(tableRequests).
		Select(requestColumns()...).
		Where(
			goqu.C(colStatus).In(statusStrings(statuses)),
			goqu.C(colDueDate).Lt(dueBefore),
		).
		Order(goqu.C(colDueDate).Asc(), goqu.C(colID).Asc()).
		ToSQL()

	return sqlQuery, err
}

func buildSelectDetailsQuery(requestIDs []uuid.UUID) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.From(tableDetails).
		Select(detailColumns()...).
		Where(goqu.C(colRequestID).In(uuidStrings(requestIDs))).
		Order(goqu.C(colRequestID).Asc(), goqu.C(colPosition).Asc()).
		ToSQL()

	return sqlQuery, err
}

func buildUpdateRequestQuery(request core.BorrowRequest) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.Update(tableRequests).
		Set(goqu.Record{
			colStatus:     string(request.Status),
			colBorrowDate: nullableTime(request.BorrowDate),
			colDueDate:    request.DueDate,
			colApproverID: nullableUUID(request.ApproverID),
			colNotes:      request.Notes,
			colVersion:    incrementVersion,
		}).
		Where(
			goqu.C(colID).Eq(request.ID.String()),
			goqu.C(colVersion).Eq(request.Version),
		).ToSQL()

	return sqlQuery, err
}

func buildUpdateDetailQuery(d core.BorrowDetail) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.Update(tableDetails).
		Set(goqu.Record{
			colCopyID:           d.CopyID.String(),
			colReservedAt:       nullableTime(d.ReservedAt),
			colActualReturnDate: nullableTime(d.ActualReturnDate),
			colReturnCondition:  nullableString(string(d.ReturnCondition)),
		}).
		Where(goqu.C(colID).Eq(d.ID.String())).
		ToSQL()

	return sqlQuery, err
}

// fines

func fineColumns() []any {
	return []any{
		text(colID),
		text(colRequestID),
		text(colCopyID),
		goqu.C(colReason),
		text(colAmount),
		goqu.C(colStatus),
		goqu.C(colCreatedAt),
		goqu.C(colPaidDate),
		text(colCollectedBy),
		goqu.C(colVersion),
	}
}

func buildInsertFineQuery(fine core.Fine) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.Insert(tableFines).Rows(goqu.Record{
		colID:          fine.ID.String(),
		colRequestID:   fine.RequestID.String(),
		colCopyID:      fine.CopyID.String(),
		colReason:      string(fine.Reason),
		colAmount:      money(fine.Amount),
		colStatus:      string(fine.Status),
		colCreatedAt:   fine.CreatedAt,
		colPaidDate:    nullableTime(fine.PaidDate),
		colCollectedBy: nullableUUID(fine.CollectedBy),
		colVersion:     1,
	}).ToSQL()

	return sqlQuery, err
}

func buildSelectFineQuery(fineID uuid.UUID, forUpdate bool) (sqlQueryString, error) {
	ds := dialect.From(tableFines).
		Select(fineColumns()...).
		Where(goqu.C(colID).Eq(fineID.String()))

	sqlQuery, _, err := lockIf(ds, forUpdate).ToSQL()

	return sqlQuery, err
}

func buildSelectFinesByRequestQuery(requestID uuid.UUID) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.From(tableFines).
		Select(fineColumns()...).
		Where(goqu.C(colRequestID).Eq(requestID.String())).
		Order(goqu.C(colCreatedAt).Asc(), goqu.C(colID).Asc()).
		ToSQL()

	return sqlQuery, err
}

func buildUpdateFineQuery(fine core.Fine) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.Update(tableFines).
		Set(goqu.Record{
			colStatus:      string(fine.Status),
			colPaidDate:    nullableTime(fine.PaidDate),
			colCollectedBy: nullableUUID(fine.CollectedBy),
			colVersion:     incrementVersion,
		}).
		Where(
			goqu.C(colID).Eq(fine.ID.String()),
			goqu.C(colVersion).Eq(fine.Version),
		).ToSQL()

	return sqlQuery, err
}

// journal

func buildInsertJournalEntryQuery(entry circulation.JournalEntry) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.Insert(tableJournal).Rows(goqu.Record{
		colID:         entry.ID.String(),
		colEntryType:  entry.EntryType,
		colSubjectID:  entry.SubjectID.String(),
		colOccurredAt: entry.OccurredAt,
		colPayload:    string(entry.PayloadJSON),
		colMetadata:   string(entry.MetadataJSON),
	}).ToSQL()

	return sqlQuery, err
}

func buildSelectJournalEntriesQuery(subjectID uuid.UUID) (sqlQueryString, error) {
	sqlQuery, _, err := dialect.From(tableJournal).
		Select(
			text(colID),
			goqu.C(colEntryType),
			text(colSubjectID),
			goqu.C(colOccurredAt),
			text(colPayload),
			text(colMetadata),
		).
		Where(goqu.C(colSubjectID).Eq(subjectID.String())).
		Order(goqu.C(colSequenceNumber).Asc()).
		ToSQL()

	return sqlQuery, err
}
