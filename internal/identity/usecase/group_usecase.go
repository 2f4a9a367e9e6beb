package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/database"
	apperrors "github.com/allisson/entitlements/internal/errors"
	"github.com/allisson/entitlements/internal/identity/domain"
	appValidation "github.com/allisson/entitlements/internal/validation"
)

// groupUseCase handles group and membership administration.
type groupUseCase struct {
	txManager       database.TxManager
	groupRepo       GroupRepository
	membershipRepo  MembershipRepository
	userRepo        UserRepository
	roleRepo        RoleRepository
	resourceCounter ResourceCounter
}

// NewGroupUseCase creates a new group use case.
func NewGroupUseCase(
	txManager database.TxManager,
	groupRepo GroupRepository,
	membershipRepo MembershipRepository,
	userRepo UserRepository,
	roleRepo RoleRepository,
	resourceCounter ResourceCounter,
) GroupUseCase {
	return &groupUseCase{
		txManager:       txManager,
		groupRepo:       groupRepo,
		membershipRepo:  membershipRepo,
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		resourceCounter: resourceCounter,
	}
}

// validateCreateGroupInput validates the creation input.
func (uc *groupUseCase) validateCreateGroupInput(input CreateGroupInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(3, 128).Error("name must be between 3 and 128 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create creates a group and enrolls the creator as its OWNER, in one
// transaction: a group never exists without at least one owner.
func (uc *groupUseCase) Create(
	ctx context.Context,
	input CreateGroupInput,
	creatorID uuid.UUID,
) (*domain.UserGroup, error) {
	if err := uc.validateCreateGroupInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	group := &domain.UserGroup{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      strings.TrimSpace(input.Name),
		CreatedAt: now,
	}

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.userRepo.Get(ctx, creatorID); err != nil {
			return err
		}

		ownerRole, err := uc.roleRepo.GetByName(ctx, domain.RoleOwner)
		if err != nil {
			return err
		}

		if err := uc.groupRepo.Create(ctx, group); err != nil {
			return err
		}

		membership := &domain.GroupMembership{
			ID:        uuid.Must(uuid.NewV7()),
			UserID:    creatorID,
			GroupID:   group.ID,
			RoleID:    ownerRole.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return uc.membershipRepo.Create(ctx, membership)
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// Delete removes a group and its memberships. A group that still owns
// resources is not deletable; the resources must be removed or re-owned first,
// otherwise their entitlement records would dangle.
func (uc *groupUseCase) Delete(ctx context.Context, groupID uuid.UUID) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.groupRepo.Get(ctx, groupID); err != nil {
			return err
		}

		count, err := uc.resourceCounter.CountGroupResources(ctx, groupID)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrGroupHasResources
		}

		if err := uc.membershipRepo.DeleteByGroup(ctx, groupID); err != nil {
			return err
		}
		return uc.groupRepo.Delete(ctx, groupID)
	})
}

// AddMember enrolls a user in a group with a role.
func (uc *groupUseCase) AddMember(
	ctx context.Context,
	groupID uuid.UUID,
	input AddMemberInput,
) (*domain.GroupMembership, error) {
	roleName, err := domain.ParseRoleName(input.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	membership := &domain.GroupMembership{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    input.UserID,
		GroupID:   groupID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.groupRepo.Get(ctx, groupID); err != nil {
			return err
		}
		if _, err := uc.userRepo.Get(ctx, input.UserID); err != nil {
			return err
		}

		role, err := uc.roleRepo.GetByName(ctx, roleName)
		if err != nil {
			return err
		}
		membership.RoleID = role.ID

		return uc.membershipRepo.Create(ctx, membership)
	})
	if err != nil {
		return nil, err
	}

	return membership, nil
}

// RemoveMember removes a user from a group. Removing a user who is not a
// member succeeds without touching anything, so the call is idempotent.
func (uc *groupUseCase) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		err := uc.membershipRepo.Delete(ctx, userID, groupID)
		if apperrors.Is(err, domain.ErrMembershipNotFound) {
			return nil
		}
		return err
	})
}

// ChangeRole replaces the role of an existing member. There is never more
// than one role per (user, group); the membership row mutates in place.
func (uc *groupUseCase) ChangeRole(
	ctx context.Context,
	groupID, userID uuid.UUID,
	role string,
) (*domain.GroupMembership, error) {
	roleName, err := domain.ParseRoleName(role)
	if err != nil {
		return nil, err
	}

	var membership *domain.GroupMembership

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		catalogRole, err := uc.roleRepo.GetByName(ctx, roleName)
		if err != nil {
			return err
		}

		if err := uc.membershipRepo.UpdateRole(ctx, userID, groupID, catalogRole.ID); err != nil {
			if apperrors.Is(err, domain.ErrMembershipNotFound) {
				return domain.ErrNotAMember
			}
			return err
		}

		membership, err = uc.membershipRepo.GetByUserAndGroup(ctx, userID, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return membership, nil
}

// GetMemberRole returns the role a user holds in a group.
func (uc *groupUseCase) GetMemberRole(ctx context.Context, groupID, userID uuid.UUID) (domain.RoleName, error) {
	membership, err := uc.membershipRepo.GetByUserAndGroup(ctx, userID, groupID)
	if err != nil {
		return "", err
	}

	role, err := uc.roleRepo.Get(ctx, membership.RoleID)
	if err != nil {
		return "", err
	}

	return role.Name, nil
}

// ListGroupsByUser returns the groups a user belongs to.
func (uc *groupUseCase) ListGroupsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.UserGroup, error) {
	memberships, err := uc.membershipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	groups := make([]*domain.UserGroup, 0, len(memberships))
	for _, membership := range memberships {
		group, err := uc.groupRepo.Get(ctx, membership.GroupID)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// ListMembers returns the group's members with their roles.
func (uc *groupUseCase) ListMembers(ctx context.Context, groupID uuid.UUID) ([]*GroupMember, error) {
	if _, err := uc.groupRepo.Get(ctx, groupID); err != nil {
		return nil, err
	}

	memberships, err := uc.membershipRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	members := make([]*GroupMember, 0, len(memberships))
	for _, membership := range memberships {
		role, err := uc.roleRepo.Get(ctx, membership.RoleID)
		if err != nil {
			return nil, err
		}
		members = append(members, &GroupMember{Membership: membership, Role: role.Name})
	}
	return members, nil
}

// Get retrieves a group by ID.
func (uc *groupUseCase) Get(ctx context.Context, groupID uuid.UUID) (*domain.UserGroup, error) {
	return uc.groupRepo.Get(ctx, groupID)
}

// List returns groups ordered by creation time.
func (uc *groupUseCase) List(ctx context.Context, offset, limit int) ([]*domain.UserGroup, error) {
	return uc.groupRepo.List(ctx, offset, limit)
}
