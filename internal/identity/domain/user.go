// Package domain defines the identity domain entities: users, groups, the role
// catalog, and per-(user, group) role assignments.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/errors"
)

// User represents an account managed by the administrative operations.
// Credential verification happens upstream; only the hash is stored here.
type User struct {
	ID        uuid.UUID
	Username  string
	Password  string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same username already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "username already exists")

	// ErrUserHasResources indicates the user still personally owns resources
	// and cannot be deleted; every owner reference must resolve to a live
	// account.
	ErrUserHasResources = errors.Wrap(errors.ErrConflict, "user still owns resources")
)
