package postgresengine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

func (t *tx) InsertFine(ctx context.Context, fine core.Fine) error {
	sqlQuery, err := buildInsertFineQuery(fine)

	return t.execInsert(ctx, "insert fine", sqlQuery, err)
}

func (t *tx) FineForUpdate(ctx context.Context, fineID uuid.UUID) (core.Fine, error) {
	sqlQuery, err := buildSelectFineQuery(fineID, true)
	if err != nil {
		return core.Fine{}, t.buildFailed(ctx, err)
	}

	fines, err := t.queryFines(ctx, "select fine", sqlQuery)
	if err != nil {
		return core.Fine{}, err
	}

	if len(fines) == 0 {
		return core.Fine{}, fmt.Errorf("fine %s: %w", fineID, circulation.ErrNotFound)
	}

	return fines[0], nil
}

func (t *tx) UpdateFine(ctx context.Context, fine core.Fine) error {
	sqlQuery, err := buildUpdateFineQuery(fine)

	return t.execVersioned(ctx, "update fine", sqlQuery, err)
}

func (t *tx) FinesByBorrowRequest(ctx context.Context, requestID uuid.UUID) ([]core.Fine, error) {
	sqlQuery, err := buildSelectFinesByRequestQuery(requestID)
	if err != nil {
		return nil, t.buildFailed(ctx, err)
	}

	return t.queryFines(ctx, "select fines by borrow request", sqlQuery)
}

func (t *tx) queryFines(ctx context.Context, action string, sqlQuery string) ([]core.Fine, error) {
	var fines []core.Fine

	err := t.query(ctx, action, sqlQuery, func(row scanner) error {
		var (
			fine                          core.Fine
			id, requestID, copyID, amount string
			reason, status                string
			paidDate                      sql.NullTime
			collectedBy                   sql.NullString
			parser                        rowParser
		)

		if err := row.Scan(
			&id,
			&requestID,
			&copyID,
			&reason,
			&amount,
			&status,
			&fine.CreatedAt,
			&paidDate,
			&collectedBy,
			&fine.Version,
		); err != nil {
			return err
		}

		fine.ID = parser.uuid(id)
		fine.RequestID = parser.uuid(requestID)
		fine.CopyID = parser.uuid(copyID)
		fine.Reason = core.FineReason(reason)
		fine.Amount = parser.decimal(amount)
		fine.Status = core.FineStatus(status)
		fine.CreatedAt = utc(fine.CreatedAt)
		fine.PaidDate = nullableUTC(paidDate)
		fine.CollectedBy = parser.nullableUUID(collectedBy)
		fines = append(fines, fine)

		return parser.err
	})

	return fines, err
}
