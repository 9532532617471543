package circulation_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

func Test_BuildJournalEntry_WithValidJSON(t *testing.T) {
	// arrange
	id := uuid.New()
	subjectID := uuid.New()
	now := time.Now()

	// act
	entry, err := circulation.BuildJournalEntry(id, "BorrowRequestIssued", subjectID, now, []byte(`{"a":1}`), []byte(`{"actor_id":"x"}`))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, subjectID, entry.SubjectID)
	assert.Equal(t, "BorrowRequestIssued", entry.EntryType)
	assert.JSONEq(t, `{"a":1}`, string(entry.PayloadJSON))
}

func Test_BuildJournalEntry_RejectsInvalidPayload(t *testing.T) {
	_, err := circulation.BuildJournalEntry(uuid.New(), "X", uuid.New(), time.Now(), []byte(`{"a":`), []byte(`{}`))

	assert.ErrorIs(t, err, circulation.ErrInvalidPayloadJSON)
}

func Test_BuildJournalEntry_RejectsInvalidMetadata(t *testing.T) {
	_, err := circulation.BuildJournalEntry(uuid.New(), "X", uuid.New(), time.Now(), []byte(`{}`), []byte(`nope`))

	assert.ErrorIs(t, err, circulation.ErrInvalidMetadataJSON)
}

func Test_BuildJournalEntryWithEmptyMetadata(t *testing.T) {
	entry, err := circulation.BuildJournalEntryWithEmptyMetadata(uuid.New(), "X", uuid.New(), time.Now(), []byte(`{}`))

	assert.NoError(t, err)
	assert.Equal(t, []byte("{}"), entry.MetadataJSON)
}
