// Package usecase implements the entitlement business logic: the resource
// ownership registry, the access decision engine, and the approval workflow.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/entitlement/domain"
	identityDomain "github.com/allisson/entitlements/internal/identity/domain"
)

// ResourceRepository defines persistence operations for entitlement resources.
// Implementations must support transaction-aware operations via context propagation.
type ResourceRepository interface {
	// Create stores a new resource record.
	Create(ctx context.Context, resource *domain.Resource) error

	// Get retrieves a resource by ID. Returns ErrResourceNotFound if absent.
	Get(ctx context.Context, resourceID uuid.UUID) (*domain.Resource, error)

	// GetByExternalID retrieves the entitlement record for a registered domain
	// object. Returns ErrResourceNotFound if the object was never registered.
	GetByExternalID(ctx context.Context, kind string, externalID uuid.UUID) (*domain.Resource, error)

	// ListByOwner returns resources bound to the given owner.
	ListByOwner(ctx context.Context, ownerKind domain.OwnerKind, ownerID uuid.UUID, offset, limit int) ([]*domain.Resource, error)

	// ListByKind returns resources with the given kind tag.
	ListByKind(ctx context.Context, kind string, offset, limit int) ([]*domain.Resource, error)

	// CountByOwner returns the number of resources bound to the given owner.
	CountByOwner(ctx context.Context, ownerKind domain.OwnerKind, ownerID uuid.UUID) (int64, error)

	// Delete removes a resource record. Returns ErrResourceNotFound if absent.
	Delete(ctx context.Context, resourceID uuid.UUID) error
}

// ApprovalRepository defines persistence operations for operation approvals.
// Implementations must support transaction-aware operations via context propagation.
type ApprovalRepository interface {
	// Create stores a new approval request.
	Create(ctx context.Context, approval *domain.OperationApproval) error

	// Get retrieves an approval by ID. Returns ErrApprovalNotFound if absent.
	Get(ctx context.Context, approvalID uuid.UUID) (*domain.OperationApproval, error)

	// Resolve transitions a pending approval to the given terminal status,
	// recording the approver and resolution time. The update is conditional on
	// the row still being pending; if another resolver got there first,
	// ErrApprovalAlreadyProcessed is returned and nothing changes.
	Resolve(ctx context.Context, approvalID uuid.UUID, status domain.ApprovalStatus, approverID uuid.UUID) error

	// ListPendingByResource returns pending approvals targeting the resource.
	ListPendingByResource(ctx context.Context, resourceID uuid.UUID) ([]*domain.OperationApproval, error)

	// ListByRequester returns approvals filed by the user, all statuses.
	ListByRequester(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.OperationApproval, error)
}

// UserReader resolves users from the identity context.
type UserReader interface {
	// Get retrieves a user by ID. Returns ErrUserNotFound if absent.
	Get(ctx context.Context, userID uuid.UUID) (*identityDomain.User, error)
}

// GroupReader resolves groups from the identity context.
type GroupReader interface {
	// Get retrieves a group by ID. Returns ErrGroupNotFound if absent.
	Get(ctx context.Context, groupID uuid.UUID) (*identityDomain.UserGroup, error)
}

// MembershipReader resolves (user, group) role assignments from the identity context.
type MembershipReader interface {
	// GetByUserAndGroup retrieves the membership row for the pair.
	// Returns ErrMembershipNotFound if the user is not in the group.
	GetByUserAndGroup(ctx context.Context, userID, groupID uuid.UUID) (*identityDomain.GroupMembership, error)
}

// RoleReader resolves role catalog entries from the identity context.
type RoleReader interface {
	// Get retrieves a role by ID. Returns ErrRoleNotFound if absent.
	Get(ctx context.Context, roleID uuid.UUID) (*identityDomain.Role, error)
}

// RegisterResourceInput contains the input data for resource registration.
type RegisterResourceInput struct {
	Kind       string           `json:"kind"`
	ExternalID uuid.UUID        `json:"external_id"`
	OwnerKind  domain.OwnerKind `json:"owner_kind"`
	OwnerID    uuid.UUID        `json:"owner_id"`
}

// ResourceUseCase is the resource ownership registry. Ownership transfer is
// deliberately not exposed.
type ResourceUseCase interface {
	// Register binds a domain object to an owner. Registering a group-owned
	// resource requires the caller to hold the OWNER role in that group.
	Register(ctx context.Context, input RegisterResourceInput, callerID uuid.UUID) (*domain.Resource, error)

	// Get retrieves a resource by ID.
	Get(ctx context.Context, resourceID uuid.UUID) (*domain.Resource, error)

	// GetByExternalID retrieves the entitlement record for a registered domain object.
	GetByExternalID(ctx context.Context, kind string, externalID uuid.UUID) (*domain.Resource, error)

	// ListByOwner returns resources bound to the given owner.
	ListByOwner(ctx context.Context, ownerKind domain.OwnerKind, ownerID uuid.UUID, offset, limit int) ([]*domain.Resource, error)

	// ListByKind returns resources with the given kind tag.
	ListByKind(ctx context.Context, kind string, offset, limit int) ([]*domain.Resource, error)

	// Unregister removes the entitlement record for a deleted domain object.
	Unregister(ctx context.Context, resourceID uuid.UUID) error
}

// AccessUseCase is the access decision engine.
type AccessUseCase interface {
	// Authorize computes the decision for (user, resource, operation).
	// Infrastructure failures and a missing resource surface as errors; every
	// business outcome, including denial, is expressed in the Decision value.
	Authorize(ctx context.Context, userID, resourceID uuid.UUID, operation domain.Operation) (domain.Decision, error)
}

// CreateApprovalInput contains the input data for filing an approval request.
type CreateApprovalInput struct {
	ResourceID  uuid.UUID        `json:"resource_id"`
	Operation   domain.Operation `json:"operation"`
	RequesterID uuid.UUID        `json:"requester_id"`
}

// ApprovalUseCase is the approval workflow state machine.
type ApprovalUseCase interface {
	// Create files a pending approval request. Fails with ErrApprovalNotNeeded
	// unless the access engine evaluates the combination to needs-approval.
	Create(ctx context.Context, input CreateApprovalInput) (*domain.OperationApproval, error)

	// Resolve transitions a pending approval to approved or rejected. Only an
	// OWNER of the group owning the target resource may resolve, regardless of
	// who requested. Re-resolving a terminal approval fails with
	// ErrApprovalAlreadyProcessed.
	Resolve(ctx context.Context, approvalID, approverID uuid.UUID, outcome domain.ApprovalStatus) (*domain.OperationApproval, error)

	// ListPending returns pending approvals targeting the resource.
	ListPending(ctx context.Context, resourceID uuid.UUID) ([]*domain.OperationApproval, error)

	// ListRequestedBy returns approvals filed by the user, all statuses.
	ListRequestedBy(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.OperationApproval, error)
}
