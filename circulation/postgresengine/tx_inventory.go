package postgresengine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

func (t *tx) InsertCopy(ctx context.Context, bookCopy core.Copy) error {
	sqlQuery, err := buildInsertCopyQuery(bookCopy)

	return t.execInsert(ctx, "insert copy", sqlQuery, err)
}

func (t *tx) CopyByID(ctx context.Context, copyID uuid.UUID) (core.Copy, error) {
	return t.selectCopy(ctx, copyID, false)
}

func (t *tx) CopyForUpdate(ctx context.Context, copyID uuid.UUID) (core.Copy, error) {
	return t.selectCopy(ctx, copyID, true)
}

func (t *tx) selectCopy(ctx context.Context, copyID uuid.UUID, forUpdate bool) (core.Copy, error) {
	sqlQuery, err := buildSelectCopyQuery(copyID, forUpdate)
	if err != nil {
		return core.Copy{}, t.buildFailed(ctx, err)
	}

	copies, err := t.queryCopies(ctx, "select copy", sqlQuery)
	if err != nil {
		return core.Copy{}, err
	}

	if len(copies) == 0 {
		return core.Copy{}, fmt.Errorf("copy %s: %w", copyID, circulation.ErrNotFound)
	}

	return copies[0], nil
}

func (t *tx) CopiesByID(ctx context.Context, copyIDs []uuid.UUID) (map[uuid.UUID]core.Copy, error) {
	result := make(map[uuid.UUID]core.Copy, len(copyIDs))
	if len(copyIDs) == 0 {
		return result, nil
	}

	sqlQuery, err := buildSelectCopiesQuery(copyIDs)
	if err != nil {
		return nil, t.buildFailed(ctx, err)
	}

	copies, err := t.queryCopies(ctx, "select copies", sqlQuery)
	if err != nil {
		return nil, err
	}

	for _, bookCopy := range copies {
		result[bookCopy.ID] = bookCopy
	}

	return result, nil
}

func (t *tx) FindAvailableCopy(ctx context.Context, editionID uuid.UUID, exclude []uuid.UUID) (core.Copy, error) {
	sqlQuery, err := buildSelectAvailableCopyQuery(editionID, exclude)
	if err != nil {
		return core.Copy{}, t.buildFailed(ctx, err)
	}

	copies, err := t.queryCopies(ctx, "find available copy", sqlQuery)
	if err != nil {
		return core.Copy{}, err
	}

	if len(copies) == 0 {
		return core.Copy{}, fmt.Errorf("edition %s: %w", editionID, core.ErrNoAvailableCopy)
	}

	return copies[0], nil
}

func (t *tx) queryCopies(ctx context.Context, action string, sqlQuery string) ([]core.Copy, error) {
	var copies []core.Copy

	err := t.query(ctx, action, sqlQuery, func(row scanner) error {
		var (
			bookCopy             core.Copy
			id, editionID, price string
			status               string
			parser               rowParser
		)

		if err := row.Scan(
			&id,
			&editionID,
			&bookCopy.CopyNumber,
			&status,
			&price,
			&bookCopy.ConditionNotes,
			&bookCopy.Version,
		); err != nil {
			return err
		}

		bookCopy.ID = parser.uuid(id)
		bookCopy.EditionID = parser.uuid(editionID)
		bookCopy.Status = core.CopyStatus(status)
		bookCopy.Price = parser.decimal(price)
		copies = append(copies, bookCopy)

		return parser.err
	})

	return copies, err
}

func (t *tx) ReserveCopy(ctx context.Context, copyID uuid.UUID) error {
	return t.swapCopyStatus(ctx, copyID, core.CopyAvailable, core.CopyBorrowed, circulation.ErrCopyAlreadyReserved)
}

func (t *tx) ReleaseCopy(ctx context.Context, copyID uuid.UUID, outcome core.CopyStatus) error {
	return t.swapCopyStatus(ctx, copyID, core.CopyBorrowed, outcome, circulation.ErrCopyNotBorrowed)
}

// swapCopyStatus updates the copy only while it still has the expected status, otherwise it fails with mismatch.
// Under READ COMMITTED a concurrent winner's commit is re-checked, so exactly one of two racing swaps succeeds.
func (t *tx) swapCopyStatus(
	ctx context.Context,
	copyID uuid.UUID,
	expected, target core.CopyStatus,
	mismatch error,
) error {
	sqlQuery, err := buildSwapCopyStatusQuery(copyID, expected, target)
	if err != nil {
		return t.buildFailed(ctx, err)
	}

	rowsAffected, err := t.exec(ctx, "swap copy status", sqlQuery)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		t.store.logWarn(ctx, logMsgCopyReservationLost, logAttrCopyID, copyID.String(), logAttrExpectedStatus, string(expected))

		return fmt.Errorf("copy %s is not %s: %w", copyID, expected, mismatch)
	}

	return nil
}

func (t *tx) UpdateCopy(ctx context.Context, bookCopy core.Copy) error {
	sqlQuery, err := buildUpdateCopyQuery(bookCopy)

	return t.execVersioned(ctx, "update copy", sqlQuery, err)
}
