package usecase

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/entitlements/internal/errors"
	"github.com/allisson/entitlements/internal/identity/domain"
)

type groupTestDeps struct {
	groupRepo       *MockGroupRepository
	membershipRepo  *MockMembershipRepository
	userRepo        *MockUserRepository
	roleRepo        *MockRoleRepository
	resourceCounter *MockResourceCounter
	useCase         GroupUseCase
}

func newGroupTestDeps() *groupTestDeps {
	deps := &groupTestDeps{
		groupRepo:       new(MockGroupRepository),
		membershipRepo:  new(MockMembershipRepository),
		userRepo:        new(MockUserRepository),
		roleRepo:        new(MockRoleRepository),
		resourceCounter: new(MockResourceCounter),
	}
	deps.useCase = NewGroupUseCase(
		fakeTxManager{},
		deps.groupRepo,
		deps.membershipRepo,
		deps.userRepo,
		deps.roleRepo,
		deps.resourceCounter,
	)
	return deps
}

func ownerRole() *domain.Role {
	return &domain.Role{ID: uuid.Must(uuid.NewV7()), Name: domain.RoleOwner}
}

func TestGroupUseCase_Create(t *testing.T) {
	creatorID := uuid.Must(uuid.NewV7())

	t.Run("creates the group and enrolls the creator as owner", func(t *testing.T) {
		deps := newGroupTestDeps()
		role := ownerRole()

		deps.userRepo.On("Get", t.Context(), creatorID).Return(&domain.User{ID: creatorID}, nil)
		deps.roleRepo.On("GetByName", t.Context(), domain.RoleOwner).Return(role, nil)
		deps.groupRepo.On("Create", t.Context(), mock.MatchedBy(func(g *domain.UserGroup) bool {
			return g.Name == "data-platform"
		})).Return(nil)
		deps.membershipRepo.On("Create", t.Context(), mock.MatchedBy(func(m *domain.GroupMembership) bool {
			return m.UserID == creatorID && m.RoleID == role.ID
		})).Return(nil)

		group, err := deps.useCase.Create(t.Context(), CreateGroupInput{Name: " data-platform "}, creatorID)

		require.NoError(t, err)
		assert.Equal(t, "data-platform", group.Name)
		// The returned timestamp is the one persisted.
		assert.False(t, group.CreatedAt.IsZero())
		deps.membershipRepo.AssertExpectations(t)
	})

	t.Run("duplicate name surfaces as conflict", func(t *testing.T) {
		deps := newGroupTestDeps()

		deps.userRepo.On("Get", t.Context(), creatorID).Return(&domain.User{ID: creatorID}, nil)
		deps.roleRepo.On("GetByName", t.Context(), domain.RoleOwner).Return(ownerRole(), nil)
		deps.groupRepo.On("Create", t.Context(), mock.AnythingOfType("*domain.UserGroup")).
			Return(domain.ErrGroupNameExists)

		_, err := deps.useCase.Create(t.Context(), CreateGroupInput{Name: "data-platform"}, creatorID)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrGroupNameExists)
		deps.membershipRepo.AssertNotCalled(t, "Create")
	})

	t.Run("unknown creator", func(t *testing.T) {
		deps := newGroupTestDeps()

		deps.userRepo.On("Get", t.Context(), creatorID).Return(nil, domain.ErrUserNotFound)

		_, err := deps.useCase.Create(t.Context(), CreateGroupInput{Name: "data-platform"}, creatorID)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		deps.groupRepo.AssertNotCalled(t, "Create")
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		deps := newGroupTestDeps()

		_, err := deps.useCase.Create(t.Context(), CreateGroupInput{Name: "  "}, creatorID)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestGroupUseCase_Delete(t *testing.T) {
	groupID := uuid.Must(uuid.NewV7())
	group := &domain.UserGroup{ID: groupID, Name: "data-platform"}

	t.Run("deletes an empty group with its memberships", func(t *testing.T) {
		deps := newGroupTestDeps()

		deps.groupRepo.On("Get", t.Context(), groupID).Return(group, nil)
		deps.resourceCounter.On("CountGroupResources", t.Context(), groupID).Return(int64(0), nil)
		deps.membershipRepo.On("DeleteByGroup", t.Context(), groupID).Return(nil)
		deps.groupRepo.On("Delete", t.Context(), groupID).Return(nil)

		require.NoError(t, deps.useCase.Delete(t.Context(), groupID))
		deps.groupRepo.AssertExpectations(t)
	})

	t.Run("a group that still owns resources is not deletable", func(t *testing.T) {
		deps := newGroupTestDeps()

		deps.groupRepo.On("Get", t.Context(), groupID).Return(group, nil)
		deps.resourceCounter.On("CountGroupResources", t.Context(), groupID).Return(int64(3), nil)

		err := deps.useCase.Delete(t.Context(), groupID)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrGroupHasResources)
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
		deps.groupRepo.AssertNotCalled(t, "Delete")
		deps.membershipRepo.AssertNotCalled(t, "DeleteByGroup")
	})

	t.Run("unknown group", func(t *testing.T) {
		deps := newGroupTestDeps()

		deps.groupRepo.On("Get", t.Context(), groupID).Return(nil, domain.ErrGroupNotFound)

		err := deps.useCase.Delete(t.Context(), groupID)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrGroupNotFound)
	})
}

func TestGroupUseCase_Membership(t *testing.T) {
	groupID := uuid.Must(uuid.NewV7())
	userID := uuid.Must(uuid.NewV7())
	group := &domain.UserGroup{ID: groupID, Name: "data-platform"}
	developerRole := &domain.Role{ID: uuid.Must(uuid.NewV7()), Name: domain.RoleDeveloper}

	t.Run("adds a member with a parsed role", func(t *testing.T) {
		deps := newGroupTestDeps()

		deps.groupRepo.On("Get", t.Context(), groupID).Return(group, nil)
		deps.userRepo.On("Get", t.Context(), userID).Return(&domain.User{ID: userID}, nil)
		deps.roleRepo.On("GetByName", t.Context(), domain.RoleDeveloper).Return(developerRole, nil)
		deps.membershipRepo.On("Create", t.Context(), mock.MatchedBy(func(m *domain.GroupMembership) bool {
			return m.UserID == userID && m.GroupID == groupID && m.RoleID == developerRole.ID
		})).Return(nil)

		membership, err := deps.useCase.AddMember(t.Context(), groupID, AddMemberInput{
			UserID: userID,
			Role:   "developer",
		})

		require.NoError(t, err)
		assert.Equal(t, developerRole.ID, membership.RoleID)
	})

	t.Run("adding an existing member is a conflict", func(t *testing.T) {
		deps := newGroupTestDeps()

		deps.groupRepo.On("Get", t.Context(), groupID).Return(group, nil)
		deps.userRepo.On("Get", t.Context(), userID).Return(&domain.User{ID: userID}, nil)
		deps.roleRepo.On("GetByName", t.Context(), domain.RoleDeveloper).Return(developerRole, nil)
		deps.membershipRepo.On("Create", t.Context(), mock.AnythingOfType("*domain.GroupMembership")).
			Return(domain.ErrAlreadyMember)

		_, err := deps.useCase.AddMember(t.Context(), groupID, AddMemberInput{UserID: userID, Role: "DEVELOPER"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAlreadyMember)
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	})

	t.Run("unknown role name is rejected before any lookup", func(t *testing.T) {
		deps := newGroupTestDeps()

		_, err := deps.useCase.AddMember(t.Context(), groupID, AddMemberInput{UserID: userID, Role: "ADMIN"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrRoleNotFound)
		deps.groupRepo.AssertNotCalled(t, "Get")
	})

	t.Run("changes the role of an existing member", func(t *testing.T) {
		deps := newGroupTestDeps()
		updated := &domain.GroupMembership{
			ID:      uuid.Must(uuid.NewV7()),
			UserID:  userID,
			GroupID: groupID,
			RoleID:  developerRole.ID,
		}

		deps.roleRepo.On("GetByName", t.Context(), domain.RoleDeveloper).Return(developerRole, nil)
		deps.membershipRepo.On("UpdateRole", t.Context(), userID, groupID, developerRole.ID).Return(nil)
		deps.membershipRepo.On("GetByUserAndGroup", t.Context(), userID, groupID).Return(updated, nil)

		membership, err := deps.useCase.ChangeRole(t.Context(), groupID, userID, "developer")

		require.NoError(t, err)
		assert.Equal(t, developerRole.ID, membership.RoleID)
	})

	t.Run("changing the role of a non-member fails", func(t *testing.T) {
		deps := newGroupTestDeps()

		deps.roleRepo.On("GetByName", t.Context(), domain.RoleDeveloper).Return(developerRole, nil)
		deps.membershipRepo.On("UpdateRole", t.Context(), userID, groupID, developerRole.ID).
			Return(domain.ErrMembershipNotFound)

		_, err := deps.useCase.ChangeRole(t.Context(), groupID, userID, "developer")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotAMember)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("remove member delegates", func(t *testing.T) {
		deps := newGroupTestDeps()

		deps.membershipRepo.On("Delete", t.Context(), userID, groupID).Return(nil)

		require.NoError(t, deps.useCase.RemoveMember(t.Context(), groupID, userID))
	})

	t.Run("removing a non-member is a no-op", func(t *testing.T) {
		deps := newGroupTestDeps()

		deps.membershipRepo.On("Delete", t.Context(), userID, groupID).
			Return(domain.ErrMembershipNotFound)

		require.NoError(t, deps.useCase.RemoveMember(t.Context(), groupID, userID))
	})

	t.Run("get member role resolves the catalog entry", func(t *testing.T) {
		deps := newGroupTestDeps()
		membership := &domain.GroupMembership{
			ID:      uuid.Must(uuid.NewV7()),
			UserID:  userID,
			GroupID: groupID,
			RoleID:  developerRole.ID,
		}

		deps.membershipRepo.On("GetByUserAndGroup", t.Context(), userID, groupID).Return(membership, nil)
		deps.roleRepo.On("Get", t.Context(), developerRole.ID).Return(developerRole, nil)

		role, err := deps.useCase.GetMemberRole(t.Context(), groupID, userID)

		require.NoError(t, err)
		assert.Equal(t, domain.RoleDeveloper, role)
	})

	t.Run("list groups by user resolves each group", func(t *testing.T) {
		deps := newGroupTestDeps()
		memberships := []*domain.GroupMembership{
			{ID: uuid.Must(uuid.NewV7()), UserID: userID, GroupID: groupID, RoleID: developerRole.ID},
		}

		deps.membershipRepo.On("ListByUser", t.Context(), userID).Return(memberships, nil)
		deps.groupRepo.On("Get", t.Context(), groupID).Return(group, nil)

		groups, err := deps.useCase.ListGroupsByUser(t.Context(), userID)

		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, group, groups[0])
	})

	t.Run("list members resolves role names", func(t *testing.T) {
		deps := newGroupTestDeps()
		memberships := []*domain.GroupMembership{
			{ID: uuid.Must(uuid.NewV7()), UserID: userID, GroupID: groupID, RoleID: developerRole.ID},
		}

		deps.groupRepo.On("Get", t.Context(), groupID).Return(group, nil)
		deps.membershipRepo.On("ListByGroup", t.Context(), groupID).Return(memberships, nil)
		deps.roleRepo.On("Get", t.Context(), developerRole.ID).Return(developerRole, nil)

		members, err := deps.useCase.ListMembers(t.Context(), groupID)

		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, domain.RoleDeveloper, members[0].Role)
	})
}
