package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/entitlement/domain"
	apperrors "github.com/allisson/entitlements/internal/errors"
	identityDomain "github.com/allisson/entitlements/internal/identity/domain"
)

// accessUseCase implements the access decision engine.
//
// The evaluation order is ownership before role: a user-owned resource has no
// role concept, so group roles never apply outside their group. Denials are
// decision values, not errors, so callers can enumerate every outcome.
type accessUseCase struct {
	resourceRepo   ResourceRepository
	membershipRepo MembershipReader
	roleRepo       RoleReader
}

// NewAccessUseCase creates the access decision engine.
func NewAccessUseCase(
	resourceRepo ResourceRepository,
	membershipRepo MembershipReader,
	roleRepo RoleReader,
) AccessUseCase {
	return &accessUseCase{
		resourceRepo:   resourceRepo,
		membershipRepo: membershipRepo,
		roleRepo:       roleRepo,
	}
}

// Authorize computes the decision for (user, resource, operation).
func (uc *accessUseCase) Authorize(
	ctx context.Context,
	userID, resourceID uuid.UUID,
	operation domain.Operation,
) (domain.Decision, error) {
	// Operations are parsed at the boundary; an invalid value reaching the
	// engine through another call path is denied, not erred.
	if !operation.IsValid() {
		return domain.Denied(domain.ErrUnknownOperation), nil
	}

	resource, err := uc.resourceRepo.Get(ctx, resourceID)
	if err != nil {
		return domain.Decision{}, err
	}

	switch resource.OwnerKind {
	case domain.OwnerKindUser:
		// Owner-only; no role lookup for individually-owned resources.
		if resource.OwnerID != userID {
			return domain.Denied(domain.ErrNotOwner), nil
		}
		return domain.Allowed(), nil

	case domain.OwnerKindGroup:
		return uc.authorizeGroupResource(ctx, userID, resource, operation)

	default:
		return domain.Decision{}, apperrors.Wrap(apperrors.ErrInvalidInput, "resource has unknown owner kind")
	}
}

// authorizeGroupResource resolves the caller's membership in the owning group
// and branches on the role.
func (uc *accessUseCase) authorizeGroupResource(
	ctx context.Context,
	userID uuid.UUID,
	resource *domain.Resource,
	operation domain.Operation,
) (domain.Decision, error) {
	membership, err := uc.membershipRepo.GetByUserAndGroup(ctx, userID, resource.OwnerID)
	if err != nil {
		if apperrors.Is(err, identityDomain.ErrMembershipNotFound) {
			return domain.Denied(domain.ErrNotInGroup), nil
		}
		return domain.Decision{}, err
	}

	role, err := uc.roleRepo.Get(ctx, membership.RoleID)
	if err != nil {
		return domain.Decision{}, err
	}

	switch role.Name {
	case identityDomain.RoleOwner:
		// Owners are allowed every operation, unconditionally.
		return domain.Allowed(), nil

	case identityDomain.RoleDeveloper:
		switch operation {
		case domain.OperationView, domain.OperationUpdate:
			return domain.Allowed(), nil
		case domain.OperationDelete, domain.OperationPublish:
			// Not a denial: the caller can route through the approval workflow.
			return domain.NeedsApproval(), nil
		}
		return domain.Denied(domain.ErrInsufficientRole), nil

	default:
		// VIEWER and any future role: read-only.
		if operation == domain.OperationView {
			return domain.Allowed(), nil
		}
		return domain.Denied(domain.ErrInsufficientRole), nil
	}
}
