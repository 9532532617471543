package core

import (
	"time"

	"github.com/google/uuid"
)

// OccurredAt represents when something happened in the circulation.
type OccurredAt = time.Time

// ToOccurredAt converts a time to OccurredAt with UTC normalization and microsecond precision.
// Postgres stores timestamps with microsecond precision, so truncating here keeps values stable across a round trip.
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}

// ActorRole tells whether an operation was triggered by a reader or by library staff.
type ActorRole string

const (
	// RoleReader is a library member acting on their own card.
	RoleReader ActorRole = "reader"

	// RoleStaff is a librarian or admin.
	RoleStaff ActorRole = "staff"
)

// Actor is an already authenticated identity supplied by the request layer.
type Actor struct {
	ID   uuid.UUID
	Role ActorRole
}

// StaffActor builds an Actor with the staff role.
func StaffActor(id uuid.UUID) Actor {
	return Actor{ID: id, Role: RoleStaff}
}

// ReaderActor builds an Actor with the reader role.
func ReaderActor(id uuid.UUID) Actor {
	return Actor{ID: id, Role: RoleReader}
}

// IsStaff reports whether the actor has the staff role.
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
