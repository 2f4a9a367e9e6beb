package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/database"
	"github.com/allisson/entitlements/internal/entitlement/domain"
	apperrors "github.com/allisson/entitlements/internal/errors"
	identityDomain "github.com/allisson/entitlements/internal/identity/domain"
)

// approvalUseCase implements the approval workflow state machine.
//
// Every mutating path validates all preconditions before any write and runs
// inside a single transaction: either the full transition commits or nothing
// changes.
type approvalUseCase struct {
	txManager      database.TxManager
	approvalRepo   ApprovalRepository
	resourceRepo   ResourceRepository
	userRepo       UserReader
	membershipRepo MembershipReader
	roleRepo       RoleReader
	access         AccessUseCase
}

// NewApprovalUseCase creates the approval workflow.
func NewApprovalUseCase(
	txManager database.TxManager,
	approvalRepo ApprovalRepository,
	resourceRepo ResourceRepository,
	userRepo UserReader,
	membershipRepo MembershipReader,
	roleRepo RoleReader,
	access AccessUseCase,
) ApprovalUseCase {
	return &approvalUseCase{
		txManager:      txManager,
		approvalRepo:   approvalRepo,
		resourceRepo:   resourceRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		roleRepo:       roleRepo,
		access:         access,
	}
}

// Create files a pending approval request for an operation the access engine
// gates behind owner approval.
func (uc *approvalUseCase) Create(
	ctx context.Context,
	input CreateApprovalInput,
) (*domain.OperationApproval, error) {
	if !input.Operation.IsValid() {
		return nil, domain.ErrUnknownOperation
	}

	approval := &domain.OperationApproval{
		ID:          uuid.Must(uuid.NewV7()),
		ResourceID:  input.ResourceID,
		Operation:   input.Operation,
		RequestedBy: input.RequesterID,
		Status:      domain.ApprovalStatusPending,
		RequestedAt: time.Now().UTC(),
	}

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.userRepo.Get(ctx, input.RequesterID); err != nil {
			return err
		}

		// Authorize resolves the resource, so a missing resource surfaces
		// here as ErrResourceNotFound.
		decision, err := uc.access.Authorize(ctx, input.RequesterID, input.ResourceID, input.Operation)
		if err != nil {
			return err
		}

		// It is invalid to request approval for something already decided,
		// whether the decision was an allow or a hard deny.
		if !decision.NeedsApproval() {
			return domain.ErrApprovalNotNeeded
		}

		return uc.approvalRepo.Create(ctx, approval)
	})
	if err != nil {
		return nil, err
	}

	return approval, nil
}

// Resolve transitions a pending approval to the given terminal outcome.
func (uc *approvalUseCase) Resolve(
	ctx context.Context,
	approvalID, approverID uuid.UUID,
	outcome domain.ApprovalStatus,
) (*domain.OperationApproval, error) {
	if !outcome.IsTerminal() {
		return nil, domain.ErrUnknownApprovalStatus
	}

	var resolved *domain.OperationApproval

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		approval, err := uc.approvalRepo.Get(ctx, approvalID)
		if err != nil {
			return err
		}

		if approval.Status != domain.ApprovalStatusPending {
			return domain.ErrApprovalAlreadyProcessed
		}

		if _, err := uc.userRepo.Get(ctx, approverID); err != nil {
			return err
		}

		resource, err := uc.resourceRepo.Get(ctx, approval.ResourceID)
		if err != nil {
			return err
		}

		// Unreachable through Create, which only files requests for
		// group-owned resources; kept so a maintenance edit to the resource
		// row cannot turn a stale request into an authorization.
		if resource.OwnerKind != domain.OwnerKindGroup {
			return domain.ErrApprovalNotNeeded
		}

		if err := uc.requireGroupOwner(ctx, approverID, resource.OwnerID); err != nil {
			return err
		}

		// Conditional on the row still being pending; a concurrent resolver
		// loses here with ErrApprovalAlreadyProcessed.
		if err := uc.approvalRepo.Resolve(ctx, approvalID, outcome, approverID); err != nil {
			return err
		}

		resolved, err = uc.approvalRepo.Get(ctx, approvalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return resolved, nil
}

// requireGroupOwner fails unless the approver holds the OWNER role in the group.
func (uc *approvalUseCase) requireGroupOwner(ctx context.Context, approverID, groupID uuid.UUID) error {
	membership, err := uc.membershipRepo.GetByUserAndGroup(ctx, approverID, groupID)
	if err != nil {
		if apperrors.Is(err, identityDomain.ErrMembershipNotFound) {
			return domain.ErrApproverNotInGroup
		}
		return err
	}

	role, err := uc.roleRepo.Get(ctx, membership.RoleID)
	if err != nil {
		return err
	}

	if role.Name != identityDomain.RoleOwner {
		return domain.ErrInsufficientRole
	}
	return nil
}

// ListPending returns pending approvals targeting the resource.
func (uc *approvalUseCase) ListPending(ctx context.Context, resourceID uuid.UUID) ([]*domain.OperationApproval, error) {
	if _, err := uc.resourceRepo.Get(ctx, resourceID); err != nil {
		return nil, err
	}
	return uc.approvalRepo.ListPendingByResource(ctx, resourceID)
}

// ListRequestedBy returns approvals filed by the user, all statuses.
func (uc *approvalUseCase) ListRequestedBy(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.OperationApproval, error) {
	return uc.approvalRepo.ListByRequester(ctx, userID, offset, limit)
}
