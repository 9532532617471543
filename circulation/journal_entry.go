package circulation

import (
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// JournalEntry is one audit record, appended in the same transaction as the change it describes.
//
// While its properties are exported, it should only be constructed with BuildJournalEntry.
type JournalEntry struct {
	ID           uuid.UUID
	EntryType    string
	SubjectID    uuid.UUID
	OccurredAt   time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
}

// BuildJournalEntry is a factory method for JournalEntry.
// Returns an error if payloadJSON or metadataJSON are not valid JSON.
func BuildJournalEntry(
	id uuid.UUID,
	entryType string,
	subjectID uuid.UUID,
	occurredAt time.Time,
	payloadJSON []byte,
	metadataJSON []byte,
) (JournalEntry, error) {
	if !jsoniter.Valid(payloadJSON) {
		return JournalEntry{}, ErrInvalidPayloadJSON
	}

	if !jsoniter.Valid(metadataJSON) {
		return JournalEntry{}, ErrInvalidMetadataJSON
	}

	return JournalEntry{
		ID:           id,
		EntryType:    entryType,
		SubjectID:    subjectID,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildJournalEntryWithEmptyMetadata is BuildJournalEntry with "{}" as metadata.
func BuildJournalEntryWithEmptyMetadata(
	id uuid.UUID,
	entryType string,
	subjectID uuid.UUID,
	occurredAt time.Time,
	payloadJSON []byte,
) (JournalEntry, error) {
	return BuildJournalEntry(id, entryType, subjectID, occurredAt, payloadJSON, []byte("{}"))
}
