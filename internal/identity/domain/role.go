package domain

import (
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/errors"
)

// RoleName identifies an entry in the closed role catalog. The catalog is
// immutable at runtime; rows are seeded by migration.
type RoleName string

const (
	// RoleOwner grants every operation on group resources and the right to
	// resolve approval requests.
	RoleOwner RoleName = "OWNER"

	// RoleDeveloper grants view and update; delete and publish require an
	// approval from a group owner.
	RoleDeveloper RoleName = "DEVELOPER"

	// RoleViewer grants read-only access to group resources.
	RoleViewer RoleName = "VIEWER"
)

// IsValid reports whether the role name is part of the catalog.
func (r RoleName) IsValid() bool {
	switch r {
	case RoleOwner, RoleDeveloper, RoleViewer:
		return true
	}
	return false
}

// String returns the role name as a string.
func (r RoleName) String() string {
	return string(r)
}

// ParseRoleName converts external text into a RoleName, case-insensitively.
// Returns ErrRoleNotFound for anything outside the catalog.
func ParseRoleName(value string) (RoleName, error) {
	name := RoleName(strings.ToUpper(strings.TrimSpace(value)))
	if !name.IsValid() {
		return "", ErrRoleNotFound
	}
	return name, nil
}

// Role is a catalog entry tying a stable identifier to a role name.
type Role struct {
	ID   uuid.UUID
	Name RoleName
}

// ErrRoleNotFound indicates the requested role does not exist in the catalog.
var ErrRoleNotFound = errors.Wrap(errors.ErrNotFound, "role not found")
