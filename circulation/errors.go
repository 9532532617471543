package circulation

import (
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// ErrNotFound is returned when a card, copy, request or fine does not exist.
var ErrNotFound = errors.New("not found")

// ErrConcurrencyConflict is returned when a version-checked update affected no rows because another
// transaction changed the same row first. Command handlers retry it.
var ErrConcurrencyConflict = fmt.Errorf("concurrency error, no rows were affected: %w", core.ErrConflict)

// ErrCopyAlreadyReserved is returned when the compare-and-swap on a copy's status lost.
// It is a conflict but not retried automatically, the caller has to reallocate.
var ErrCopyAlreadyReserved = fmt.Errorf("copy is not in the expected status: %w", core.ErrConflict)

// ErrCopyNotBorrowed is returned when a copy is released but is no longer borrowed,
// usually because a concurrent return released it first.
var ErrCopyNotBorrowed = fmt.Errorf("copy is not borrowed: %w", core.ErrConflict)

// ErrCardAlreadyExists is returned when a reader who already has a card registers again.
var ErrCardAlreadyExists = fmt.Errorf("%w: reader already has a card", core.ErrInvalidOperation)

// ErrCopyAlreadyExists is returned when an edition already has a copy with the same number.
var ErrCopyAlreadyExists = fmt.Errorf("%w: copy number already exists for edition", core.ErrInvalidOperation)

var ErrInvalidPayloadJSON = errors.New("payload json is not valid")
var ErrInvalidMetadataJSON = errors.New("metadata json is not valid")
