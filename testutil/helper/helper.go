package helper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// GivenUniqueID returns a new time-ordered UUID.
func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id
}

// FakeClock returns a fixed point in time tests can move forward explicitly.
func FakeClock() time.Time {
	return time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
}

// Days returns n days as a duration.
func Days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
