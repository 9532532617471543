package postgresengine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

func (t *tx) InsertCard(ctx context.Context, card core.Card) error {
	sqlQuery, err := buildInsertCardQuery(card)

	return t.execInsert(ctx, "insert card", sqlQuery, err)
}

func (t *tx) CardByID(ctx context.Context, cardID uuid.UUID) (core.Card, error) {
	return t.selectCard(ctx, cardID, false)
}

func (t *tx) CardForUpdate(ctx context.Context, cardID uuid.UUID) (core.Card, error) {
	return t.selectCard(ctx, cardID, true)
}

func (t *tx) selectCard(ctx context.Context, cardID uuid.UUID, forUpdate bool) (core.Card, error) {
	sqlQuery, err := buildSelectCardQuery(cardID, forUpdate)
	if err != nil {
		return core.Card{}, t.buildFailed(ctx, err)
	}

	var cards []core.Card
	if err = t.query(ctx, "select card", sqlQuery, func(row scanner) error {
		card, scanErr := scanCard(row)
		cards = append(cards, card)

		return scanErr
	}); err != nil {
		return core.Card{}, err
	}

	if len(cards) == 0 {
		return core.Card{}, fmt.Errorf("card %s: %w", cardID, circulation.ErrNotFound)
	}

	return cards[0], nil
}

func scanCard(row scanner) (core.Card, error) {
	var (
		card                  core.Card
		id, readerID, deposit string
		status                string
		expiresAt             sql.NullTime
		parser                rowParser
	)

	if err := row.Scan(
		&id,
		&readerID,
		&status,
		&card.MaxBooks,
		&card.MaxBorrowDays,
		&deposit,
		&expiresAt,
		&card.CreatedAt,
		&card.Version,
	); err != nil {
		return core.Card{}, err
	}

	card.ID = parser.uuid(id)
	card.ReaderID = parser.uuid(readerID)
	card.Status = core.CardStatus(status)
	card.DepositAmount = parser.decimal(deposit)
	card.ExpiresAt = nullableUTC(expiresAt)
	card.CreatedAt = utc(card.CreatedAt)

	return card, parser.err
}

func (t *tx) UpdateCard(ctx context.Context, card core.Card) error {
	sqlQuery, err := buildUpdateCardQuery(card)

	return t.execVersioned(ctx, "update card", sqlQuery, err)
}

func (t *tx) CountActiveLoans(ctx context.Context, cardID uuid.UUID) (int, error) {
	sqlQuery, err := buildCountActiveLoansQuery(cardID)
	if err != nil {
		return 0, t.buildFailed(ctx, err)
	}

	var count int64
	if err = t.query(ctx, "count active loans", sqlQuery, func(row scanner) error {
		return row.Scan(&count)
	}); err != nil {
		return 0, err
	}

	return int(count), nil
}

// deposits

func (t *tx) AppendDepositTransaction(ctx context.Context, transaction core.DepositTransaction) error {
	sqlQuery, err := buildInsertDepositQuery(transaction)

	return t.execInsert(ctx, "append deposit transaction", sqlQuery, err)
}

func (t *tx) DepositTransactions(ctx context.Context, cardID uuid.UUID) ([]core.DepositTransaction, error) {
	sqlQuery, err := buildSelectDepositsQuery(cardID)
	if err != nil {
		return nil, t.buildFailed(ctx, err)
	}

	var transactions []core.DepositTransaction
	err = t.query(ctx, "select deposit transactions", sqlQuery, func(row scanner) error {
		var (
			transaction                core.DepositTransaction
			id, transactionCardID, amt string
			transactionType            string
			parser                     rowParser
		)

		if scanErr := row.Scan(&id, &transactionCardID, &amt, &transactionType, &transaction.OccurredAt); scanErr != nil {
			return scanErr
		}

		transaction.ID = parser.uuid(id)
		transaction.CardID = parser.uuid(transactionCardID)
		transaction.Amount = parser.decimal(amt)
		transaction.Type = core.DepositType(transactionType)
		transaction.OccurredAt = utc(transaction.OccurredAt)
		transactions = append(transactions, transaction)

		return parser.err
	})

	return transactions, err
}
