package domain

import (
	"time"

	"github.com/google/uuid"
)

// OperationApproval is a pending authorization exception: a request for an
// operation a developer cannot perform unilaterally on a group resource,
// awaiting resolution by a group owner.
type OperationApproval struct {
	ID          uuid.UUID
	ResourceID  uuid.UUID
	Operation   Operation
	RequestedBy uuid.UUID
	// ApprovedBy is set only when the request reaches a terminal state.
	ApprovedBy  *uuid.UUID
	Status      ApprovalStatus
	RequestedAt time.Time
	// ResolvedAt is set together with ApprovedBy on the terminal transition.
	ResolvedAt *time.Time
}
