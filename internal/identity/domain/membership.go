package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/errors"
)

// GroupMembership ties exactly one role to a (user, group) pair.
// At most one membership row exists per pair; role changes mutate in place.
type GroupMembership struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	GroupID   uuid.UUID
	RoleID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain-specific errors for membership operations.
var (
	// ErrAlreadyMember indicates the user already has a role in the group.
	// Memberships are never silently upserted; use ChangeRole instead.
	ErrAlreadyMember = errors.Wrap(errors.ErrConflict, "user already in group")

	// ErrNotAMember indicates the user has no membership in the group.
	ErrNotAMember = errors.Wrap(errors.ErrInvalidInput, "user not a member of group")

	// ErrMembershipNotFound indicates no membership row exists for the pair.
	ErrMembershipNotFound = errors.Wrap(errors.ErrNotFound, "membership not found")
)
