package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/database"
	"github.com/allisson/entitlements/internal/entitlement/domain"
	apperrors "github.com/allisson/entitlements/internal/errors"
	identityDomain "github.com/allisson/entitlements/internal/identity/domain"
	appValidation "github.com/allisson/entitlements/internal/validation"
)

// resourceUseCase implements the resource ownership registry.
type resourceUseCase struct {
	txManager      database.TxManager
	resourceRepo   ResourceRepository
	userRepo       UserReader
	groupRepo      GroupReader
	membershipRepo MembershipReader
	roleRepo       RoleReader
}

// NewResourceUseCase creates the resource ownership registry.
func NewResourceUseCase(
	txManager database.TxManager,
	resourceRepo ResourceRepository,
	userRepo UserReader,
	groupRepo GroupReader,
	membershipRepo MembershipReader,
	roleRepo RoleReader,
) ResourceUseCase {
	return &resourceUseCase{
		txManager:      txManager,
		resourceRepo:   resourceRepo,
		userRepo:       userRepo,
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		roleRepo:       roleRepo,
	}
}

// validateRegisterResourceInput validates registration input.
func (uc *resourceUseCase) validateRegisterResourceInput(input RegisterResourceInput) error {
	err := validation.Errors{
		"kind": validation.Validate(input.Kind,
			validation.Required.Error("kind is required"),
			appValidation.NotBlank,
			validation.Length(1, 64).Error("kind must be between 1 and 64 characters"),
		),
		"external_id": validation.Validate(input.ExternalID,
			validation.By(func(value interface{}) error {
				if input.ExternalID == uuid.Nil {
					return validation.NewError("validation_required", "external_id is required")
				}
				return nil
			}),
		),
		"owner_id": validation.Validate(input.OwnerID,
			validation.By(func(value interface{}) error {
				if input.OwnerID == uuid.Nil {
					return validation.NewError("validation_required", "owner_id is required")
				}
				return nil
			}),
		),
	}.Filter()
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	if !input.OwnerKind.IsValid() {
		return domain.ErrUnknownOwnerKind
	}
	return nil
}

// Register binds a domain object to an owner and persists the entitlement record.
func (uc *resourceUseCase) Register(
	ctx context.Context,
	input RegisterResourceInput,
	callerID uuid.UUID,
) (*domain.Resource, error) {
	if err := uc.validateRegisterResourceInput(input); err != nil {
		return nil, err
	}

	resource := &domain.Resource{
		ID:         uuid.Must(uuid.NewV7()),
		Kind:       strings.TrimSpace(input.Kind),
		ExternalID: input.ExternalID,
		OwnerKind:  input.OwnerKind,
		OwnerID:    input.OwnerID,
		CreatedAt:  time.Now().UTC(),
	}

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		switch input.OwnerKind {
		case domain.OwnerKindUser:
			// A user may only register resources under their own identity.
			if input.OwnerID != callerID {
				return domain.ErrNotOwner
			}
			if _, err := uc.userRepo.Get(ctx, input.OwnerID); err != nil {
				if apperrors.Is(err, identityDomain.ErrUserNotFound) {
					return domain.ErrResourceOwnerNotFound
				}
				return err
			}

		case domain.OwnerKindGroup:
			if _, err := uc.groupRepo.Get(ctx, input.OwnerID); err != nil {
				if apperrors.Is(err, identityDomain.ErrGroupNotFound) {
					return domain.ErrResourceOwnerNotFound
				}
				return err
			}
			if err := uc.requireGroupOwner(ctx, callerID, input.OwnerID); err != nil {
				return err
			}
		}

		return uc.resourceRepo.Create(ctx, resource)
	})
	if err != nil {
		return nil, err
	}

	return resource, nil
}

// requireGroupOwner fails unless the caller holds the OWNER role in the group.
func (uc *resourceUseCase) requireGroupOwner(ctx context.Context, callerID, groupID uuid.UUID) error {
	membership, err := uc.membershipRepo.GetByUserAndGroup(ctx, callerID, groupID)
	if err != nil {
		if apperrors.Is(err, identityDomain.ErrMembershipNotFound) {
			return domain.ErrNotInGroup
		}
		return err
	}

	role, err := uc.roleRepo.Get(ctx, membership.RoleID)
	if err != nil {
		return err
	}

	if role.Name != identityDomain.RoleOwner {
		return domain.ErrOwnerRoleRequired
	}
	return nil
}

// Get retrieves a resource by ID.
func (uc *resourceUseCase) Get(ctx context.Context, resourceID uuid.UUID) (*domain.Resource, error) {
	return uc.resourceRepo.Get(ctx, resourceID)
}

// GetByExternalID retrieves the entitlement record for a registered domain object.
func (uc *resourceUseCase) GetByExternalID(
	ctx context.Context,
	kind string,
	externalID uuid.UUID,
) (*domain.Resource, error) {
	return uc.resourceRepo.GetByExternalID(ctx, kind, externalID)
}

// Unregister removes the entitlement record for a deleted domain object.
func (uc *resourceUseCase) Unregister(ctx context.Context, resourceID uuid.UUID) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.resourceRepo.Delete(ctx, resourceID)
	})
}

// ListByOwner returns resources bound to the given owner.
func (uc *resourceUseCase) ListByOwner(
	ctx context.Context,
	ownerKind domain.OwnerKind,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.Resource, error) {
	if !ownerKind.IsValid() {
		return nil, domain.ErrUnknownOwnerKind
	}
	return uc.resourceRepo.ListByOwner(ctx, ownerKind, ownerID, offset, limit)
}

// ListByKind returns resources with the given kind tag.
func (uc *resourceUseCase) ListByKind(ctx context.Context, kind string, offset, limit int) ([]*domain.Resource, error) {
	return uc.resourceRepo.ListByKind(ctx, kind, offset, limit)
}
