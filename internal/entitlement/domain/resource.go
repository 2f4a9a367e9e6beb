package domain

import (
	"time"

	"github.com/google/uuid"
)

// Resource is an entitlement record binding a domain object (identified by a
// kind tag plus the external id of the protected object) to exactly one owner,
// either a user or a group.
type Resource struct {
	ID uuid.UUID
	// Kind is an opaque discriminator for the protected object type, e.g. "pipeline".
	Kind string
	// ExternalID is the id of the domain object this record protects.
	ExternalID uuid.UUID
	// OwnerKind tells whether OwnerID references a user or a group.
	OwnerKind OwnerKind
	OwnerID   uuid.UUID
	CreatedAt time.Time
}
