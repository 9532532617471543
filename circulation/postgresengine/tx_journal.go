package postgresengine

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

func (t *tx) AppendJournalEntry(ctx context.Context, entry circulation.JournalEntry) error {
	sqlQuery, err := buildInsertJournalEntryQuery(entry)

	return t.execInsert(ctx, "append journal entry", sqlQuery, err)
}

func (t *tx) JournalEntries(ctx context.Context, subjectID uuid.UUID) ([]circulation.JournalEntry, error) {
	sqlQuery, err := buildSelectJournalEntriesQuery(subjectID)
	if err != nil {
		return nil, t.buildFailed(ctx, err)
	}

	var entries []circulation.JournalEntry
	err = t.query(ctx, "select journal entries", sqlQuery, func(row scanner) error {
		var (
			entry              circulation.JournalEntry
			id, entrySubjectID string
			payload, metadata  string
			parser             rowParser
		)

		if scanErr := row.Scan(&id, &entry.EntryType, &entrySubjectID, &entry.OccurredAt, &payload, &metadata); scanErr != nil {
			return scanErr
		}

		entry.ID = parser.uuid(id)
		entry.SubjectID = parser.uuid(entrySubjectID)
		entry.OccurredAt = utc(entry.OccurredAt)
		entry.PayloadJSON = []byte(payload)
		entry.MetadataJSON = []byte(metadata)
		entries = append(entries, entry)

		return parser.err
	})

	return entries, err
}

var _ circulation.Tx = (*tx)(nil)
var _ circulation.Store = (*Store)(nil)
