package usecase

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/entitlements/internal/entitlement/domain"
	apperrors "github.com/allisson/entitlements/internal/errors"
	identityDomain "github.com/allisson/entitlements/internal/identity/domain"
)

type resourceTestDeps struct {
	resourceRepo   *MockResourceRepository
	userRepo       *MockUserReader
	groupRepo      *MockGroupReader
	membershipRepo *MockMembershipReader
	roleRepo       *MockRoleReader
	useCase        ResourceUseCase
}

func newResourceTestDeps() *resourceTestDeps {
	deps := &resourceTestDeps{
		resourceRepo:   new(MockResourceRepository),
		userRepo:       new(MockUserReader),
		groupRepo:      new(MockGroupReader),
		membershipRepo: new(MockMembershipReader),
		roleRepo:       new(MockRoleReader),
	}
	deps.useCase = NewResourceUseCase(
		fakeTxManager{},
		deps.resourceRepo,
		deps.userRepo,
		deps.groupRepo,
		deps.membershipRepo,
		deps.roleRepo,
	)
	return deps
}

func TestResourceUseCase_Register(t *testing.T) {
	callerID := uuid.Must(uuid.NewV7())
	externalID := uuid.Must(uuid.NewV7())

	t.Run("registers a user-owned resource for the caller", func(t *testing.T) {
		deps := newResourceTestDeps()
		deps.userRepo.On("Get", t.Context(), callerID).Return(&identityDomain.User{ID: callerID}, nil)
		deps.resourceRepo.On("Create", t.Context(), mock.MatchedBy(func(r *domain.Resource) bool {
			return r.Kind == "pipeline" &&
				r.ExternalID == externalID &&
				r.OwnerKind == domain.OwnerKindUser &&
				r.OwnerID == callerID
		})).Return(nil)

		resource, err := deps.useCase.Register(t.Context(), RegisterResourceInput{
			Kind:       "pipeline",
			ExternalID: externalID,
			OwnerKind:  domain.OwnerKindUser,
			OwnerID:    callerID,
		}, callerID)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, resource.ID)
		assert.False(t, resource.CreatedAt.IsZero())
		deps.resourceRepo.AssertExpectations(t)
	})

	t.Run("caller cannot register a resource under another user", func(t *testing.T) {
		deps := newResourceTestDeps()
		otherID := uuid.Must(uuid.NewV7())

		_, err := deps.useCase.Register(t.Context(), RegisterResourceInput{
			Kind:       "pipeline",
			ExternalID: externalID,
			OwnerKind:  domain.OwnerKindUser,
			OwnerID:    otherID,
		}, callerID)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotOwner)
		deps.resourceRepo.AssertNotCalled(t, "Create")
	})

	t.Run("group owner registers a group-owned resource", func(t *testing.T) {
		deps := newResourceTestDeps()
		groupID := uuid.Must(uuid.NewV7())
		roleID := uuid.Must(uuid.NewV7())

		deps.groupRepo.On("Get", t.Context(), groupID).Return(&identityDomain.UserGroup{ID: groupID}, nil)
		deps.membershipRepo.On("GetByUserAndGroup", t.Context(), callerID, groupID).
			Return(membershipWithRole(callerID, groupID, roleID), nil)
		deps.roleRepo.On("Get", t.Context(), roleID).
			Return(&identityDomain.Role{ID: roleID, Name: identityDomain.RoleOwner}, nil)
		deps.resourceRepo.On("Create", t.Context(), mock.AnythingOfType("*domain.Resource")).Return(nil)

		resource, err := deps.useCase.Register(t.Context(), RegisterResourceInput{
			Kind:       "pipeline",
			ExternalID: externalID,
			OwnerKind:  domain.OwnerKindGroup,
			OwnerID:    groupID,
		}, callerID)

		require.NoError(t, err)
		assert.Equal(t, domain.OwnerKindGroup, resource.OwnerKind)
		assert.Equal(t, groupID, resource.OwnerID)
	})

	t.Run("non-owner roles cannot register group resources", func(t *testing.T) {
		for _, roleName := range []identityDomain.RoleName{
			identityDomain.RoleDeveloper,
			identityDomain.RoleViewer,
		} {
			deps := newResourceTestDeps()
			groupID := uuid.Must(uuid.NewV7())
			roleID := uuid.Must(uuid.NewV7())

			deps.groupRepo.On("Get", t.Context(), groupID).Return(&identityDomain.UserGroup{ID: groupID}, nil)
			deps.membershipRepo.On("GetByUserAndGroup", t.Context(), callerID, groupID).
				Return(membershipWithRole(callerID, groupID, roleID), nil)
			deps.roleRepo.On("Get", t.Context(), roleID).
				Return(&identityDomain.Role{ID: roleID, Name: roleName}, nil)

			_, err := deps.useCase.Register(t.Context(), RegisterResourceInput{
				Kind:       "pipeline",
				ExternalID: externalID,
				OwnerKind:  domain.OwnerKindGroup,
				OwnerID:    groupID,
			}, callerID)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrOwnerRoleRequired)
			deps.resourceRepo.AssertNotCalled(t, "Create")
		}
	})

	t.Run("non-member cannot register group resources", func(t *testing.T) {
		deps := newResourceTestDeps()
		groupID := uuid.Must(uuid.NewV7())

		deps.groupRepo.On("Get", t.Context(), groupID).Return(&identityDomain.UserGroup{ID: groupID}, nil)
		deps.membershipRepo.On("GetByUserAndGroup", t.Context(), callerID, groupID).
			Return(nil, identityDomain.ErrMembershipNotFound)

		_, err := deps.useCase.Register(t.Context(), RegisterResourceInput{
			Kind:       "pipeline",
			ExternalID: externalID,
			OwnerKind:  domain.OwnerKindGroup,
			OwnerID:    groupID,
		}, callerID)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotInGroup)
	})

	t.Run("missing owner maps to resource owner not found", func(t *testing.T) {
		deps := newResourceTestDeps()
		groupID := uuid.Must(uuid.NewV7())

		deps.groupRepo.On("Get", t.Context(), groupID).Return(nil, identityDomain.ErrGroupNotFound)

		_, err := deps.useCase.Register(t.Context(), RegisterResourceInput{
			Kind:       "pipeline",
			ExternalID: externalID,
			OwnerKind:  domain.OwnerKindGroup,
			OwnerID:    groupID,
		}, callerID)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrResourceOwnerNotFound)
	})

	t.Run("input validation", func(t *testing.T) {
		deps := newResourceTestDeps()

		tests := []struct {
			name  string
			input RegisterResourceInput
		}{
			{
				name: "blank kind",
				input: RegisterResourceInput{
					Kind:       "   ",
					ExternalID: externalID,
					OwnerKind:  domain.OwnerKindUser,
					OwnerID:    callerID,
				},
			},
			{
				name: "missing external id",
				input: RegisterResourceInput{
					Kind:      "pipeline",
					OwnerKind: domain.OwnerKindUser,
					OwnerID:   callerID,
				},
			},
			{
				name: "missing owner id",
				input: RegisterResourceInput{
					Kind:       "pipeline",
					ExternalID: externalID,
					OwnerKind:  domain.OwnerKindUser,
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := deps.useCase.Register(t.Context(), tt.input, callerID)
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
			})
		}
	})

	t.Run("unknown owner kind", func(t *testing.T) {
		deps := newResourceTestDeps()

		_, err := deps.useCase.Register(t.Context(), RegisterResourceInput{
			Kind:       "pipeline",
			ExternalID: externalID,
			OwnerKind:  domain.OwnerKind("TEAM"),
			OwnerID:    callerID,
		}, callerID)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownOwnerKind)
	})
}

func TestResourceUseCase_Listings(t *testing.T) {
	t.Run("list by owner rejects unknown owner kind", func(t *testing.T) {
		deps := newResourceTestDeps()

		_, err := deps.useCase.ListByOwner(t.Context(), domain.OwnerKind("TEAM"), uuid.Must(uuid.NewV7()), 0, 50)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownOwnerKind)
	})

	t.Run("list by owner delegates", func(t *testing.T) {
		deps := newResourceTestDeps()
		ownerID := uuid.Must(uuid.NewV7())
		resources := []*domain.Resource{groupOwnedResource(ownerID)}

		deps.resourceRepo.On("ListByOwner", t.Context(), domain.OwnerKindGroup, ownerID, 0, 50).
			Return(resources, nil)

		got, err := deps.useCase.ListByOwner(t.Context(), domain.OwnerKindGroup, ownerID, 0, 50)

		require.NoError(t, err)
		assert.Equal(t, resources, got)
	})

	t.Run("list by kind delegates", func(t *testing.T) {
		deps := newResourceTestDeps()
		resources := []*domain.Resource{userOwnedResource(uuid.Must(uuid.NewV7()))}

		deps.resourceRepo.On("ListByKind", t.Context(), "pipeline", 0, 50).Return(resources, nil)

		got, err := deps.useCase.ListByKind(t.Context(), "pipeline", 0, 50)

		require.NoError(t, err)
		assert.Equal(t, resources, got)
	})

	t.Run("get delegates", func(t *testing.T) {
		deps := newResourceTestDeps()
		resource := userOwnedResource(uuid.Must(uuid.NewV7()))

		deps.resourceRepo.On("Get", t.Context(), resource.ID).Return(resource, nil)

		got, err := deps.useCase.Get(t.Context(), resource.ID)

		require.NoError(t, err)
		assert.Equal(t, resource, got)
	})
}
