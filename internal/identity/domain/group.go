package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/errors"
)

// UserGroup represents a named group that can own resources and hold members.
type UserGroup struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// Domain-specific errors for group operations.
var (
	// ErrGroupNotFound indicates the requested group does not exist.
	ErrGroupNotFound = errors.Wrap(errors.ErrNotFound, "group not found")

	// ErrGroupNameExists indicates a group with the same name already exists.
	ErrGroupNameExists = errors.Wrap(errors.ErrConflict, "group name already exists")

	// ErrGroupHasResources indicates the group still owns resources and
	// cannot be deleted until they are removed.
	ErrGroupHasResources = errors.Wrap(errors.ErrConflict, "group still owns resources")
)
