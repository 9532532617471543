package postgresengine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

func (t *tx) InsertBorrowRequest(ctx context.Context, request core.BorrowRequest) error {
	sqlQuery, err := buildInsertRequestQuery(request)
	if err = t.execInsert(ctx, "insert borrow request", sqlQuery, err); err != nil {
		return err
	}

	if len(request.Details) == 0 {
		return nil
	}

	sqlQuery, err = buildInsertDetailsQuery(request)

	return t.execInsert(ctx, "insert borrow details", sqlQuery, err)
}

func (t *tx) BorrowRequestByID(ctx context.Context, requestID uuid.UUID) (core.BorrowRequest, error) {
	return t.selectRequest(ctx, requestID, false)
}

// BorrowRequestForUpdate locks the request header. Details are only ever written together with
// their header, so the header lock serializes them too.
func (t *tx) BorrowRequestForUpdate(ctx context.Context, requestID uuid.UUID) (core.BorrowRequest, error) {
	return t.selectRequest(ctx, requestID, true)
}

func (t *tx) selectRequest(ctx context.Context, requestID uuid.UUID, forUpdate bool) (core.BorrowRequest, error) {
	sqlQuery, err := buildSelectRequestQuery(requestID, forUpdate)
	if err != nil {
		return core.BorrowRequest{}, t.buildFailed(ctx, err)
	}

	requests, err := t.queryRequests(ctx, "select borrow request", sqlQuery)
	if err != nil {
		return core.BorrowRequest{}, err
	}

	if len(requests) == 0 {
		return core.BorrowRequest{}, fmt.Errorf("borrow request %s: %w", requestID, circulation.ErrNotFound)
	}

	return requests[0], nil
}

func (t *tx) BorrowRequestsDueBefore(
	ctx context.Context,
	statuses []core.RequestStatus,
	dueBefore time.Time,
) ([]core.BorrowRequest, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	sqlQuery, err := buildSelectRequestsDueBeforeQuery(statuses, dueBefore)
	if err != nil {
		return nil, t.buildFailed(ctx, err)
	}

	return t.queryRequests(ctx, "select borrow requests due before", sqlQuery)
}

// queryRequests loads request headers and attaches their details in position order.
func (t *tx) queryRequests(ctx context.Context, action string, sqlQuery string) ([]core.BorrowRequest, error) {
	var requests []core.BorrowRequest

	if err := t.query(ctx, action, sqlQuery, func(row scanner) error {
		request, err := scanRequest(row)
		requests = append(requests, request)

		return err
	}); err != nil {
		return nil, err
	}

	if len(requests) == 0 {
		return requests, nil
	}

	requestIDs := make([]uuid.UUID, 0, len(requests))
	for _, request := range requests {
		requestIDs = append(requestIDs, request.ID)
	}

	detailsQuery, err := buildSelectDetailsQuery(requestIDs)
	if err != nil {
		return nil, t.buildFailed(ctx, err)
	}

	detailsByRequest := make(map[uuid.UUID][]core.BorrowDetail, len(requests))
	if err = t.query(ctx, "select borrow details", detailsQuery, func(row scanner) error {
		detail, scanErr := scanDetail(row)
		detailsByRequest[detail.RequestID] = append(detailsByRequest[detail.RequestID], detail)

		return scanErr
	}); err != nil {
		return nil, err
	}

	for i := range requests {
		requests[i].Details = detailsByRequest[requests[i].ID]
	}

	return requests, nil
}

func scanRequest(row scanner) (core.BorrowRequest, error) {
	var (
		request    core.BorrowRequest
		id, cardID string
		status     string
		borrowDate sql.NullTime
		approverID sql.NullString
		parser     rowParser
	)

	if err := row.Scan(
		&id,
		&cardID,
		&status,
		&request.RequestDate,
		&borrowDate,
		&request.DueDate,
		&approverID,
		&request.Notes,
		&request.Version,
	); err != nil {
		return core.BorrowRequest{}, err
	}

	request.ID = parser.uuid(id)
	request.CardID = parser.uuid(cardID)
	request.Status = core.RequestStatus(status)
	request.RequestDate = utc(request.RequestDate)
	request.BorrowDate = nullableUTC(borrowDate)
	request.DueDate = utc(request.DueDate)
	request.ApproverID = parser.nullableUUID(approverID)

	return request, parser.err
}

func scanDetail(row scanner) (core.BorrowDetail, error) {
	var (
		detail                           core.BorrowDetail
		id, requestID, editionID, copyID string
		reservedAt, actualReturnDate     sql.NullTime
		returnCondition                  sql.NullString
		parser                           rowParser
	)

	if err := row.Scan(
		&id,
		&requestID,
		&editionID,
		&copyID,
		&reservedAt,
		&actualReturnDate,
		&returnCondition,
	); err != nil {
		return core.BorrowDetail{}, err
	}

	detail.ID = parser.uuid(id)
	detail.RequestID = parser.uuid(requestID)
	detail.EditionID = parser.uuid(editionID)
	detail.CopyID = parser.uuid(copyID)
	detail.ReservedAt = nullableUTC(reservedAt)
	detail.ActualReturnDate = nullableUTC(actualReturnDate)
	detail.ReturnCondition = core.ReturnCondition(returnCondition.String)

	return detail, parser.err
}

// UpdateBorrowRequest writes the version-checked header first, then every detail.
// A detail that would hand out a copy already held by another open loan violates the active copy index.
func (t *tx) UpdateBorrowRequest(ctx context.Context, request core.BorrowRequest) error {
	sqlQuery, err := buildUpdateRequestQuery(request)
	if err = t.execVersioned(ctx, "update borrow request", sqlQuery, err); err != nil {
		return err
	}

	for _, detail := range request.Details {
		detailQuery, buildErr := buildUpdateDetailQuery(detail)
		if buildErr != nil {
			return t.buildFailed(ctx, buildErr)
		}

		if _, err = t.exec(ctx, "update borrow detail", detailQuery); err != nil {
			return err
		}
	}

	return nil
}
