package shell

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// ErrMarshalingJournalPayloadFailed is returned when a journal payload cannot be encoded.
var ErrMarshalingJournalPayloadFailed = errors.New("marshaling journal payload failed")

// CorrelationID correlates all journal entries written on behalf of one inbound request.
type CorrelationID = string

// JournalMetadata is stored next to every journal payload.
type JournalMetadata struct {
	ActorID       string        `json:"actor_id,omitempty"`
	CorrelationID CorrelationID `json:"correlation_id"`
}

type correlationIDKey struct{}

// WithCorrelationID stores a correlation id in ctx.
func WithCorrelationID(ctx context.Context, correlationID uuid.UUID) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID.String())
}

// CorrelationIDFrom returns the correlation id stored in ctx, or an empty string.
func CorrelationIDFrom(ctx context.Context) CorrelationID {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}

	return ""
}

// NewID returns a time-ordered (version 7) UUID.
func NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// BuildJournalMetadata creates JournalMetadata for actorID, taking the correlation id from ctx.
// A fresh correlation id is generated when ctx has none.
func BuildJournalMetadata(ctx context.Context, actorID uuid.UUID) JournalMetadata {
	metadata := JournalMetadata{CorrelationID: CorrelationIDFrom(ctx)}
	if metadata.CorrelationID == "" {
		metadata.CorrelationID = NewID().String()
	}

	if actorID != uuid.Nil {
		metadata.ActorID = actorID.String()
	}

	return metadata
}

// AppendJournalEntry encodes payload and metadata and appends one entry in the running transaction.
func AppendJournalEntry(
	ctx context.Context,
	journal circulation.JournalStore,
	entryType string,
	subjectID uuid.UUID,
	occurredAt time.Time,
	payload any,
	metadata JournalMetadata,
) error {
	payloadJSON, err := jsoniter.ConfigFastest.Marshal(payload)
	if err != nil {
		return errors.Join(ErrMarshalingJournalPayloadFailed, err)
	}

	metadataJSON, err := jsoniter.ConfigFastest.Marshal(metadata)
	if err != nil {
		return errors.Join(ErrMarshalingJournalPayloadFailed, err)
	}

	entry, err := circulation.BuildJournalEntry(NewID(), entryType, subjectID, occurredAt, payloadJSON, metadataJSON)
	if err != nil {
		return err
	}

	return journal.AppendJournalEntry(ctx, entry)
}

// JournalMetadataFrom decodes the metadata of a stored entry.
func JournalMetadataFrom(entry circulation.JournalEntry) (JournalMetadata, error) {
	metadata := JournalMetadata{}
	if err := jsoniter.ConfigFastest.Unmarshal(entry.MetadataJSON, &metadata); err != nil {
		return JournalMetadata{}, errors.Join(circulation.ErrInvalidMetadataJSON, err)
	}

	return metadata, nil
}
