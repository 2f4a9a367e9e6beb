package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/entitlements/internal/entitlement/domain"
	identityDomain "github.com/allisson/entitlements/internal/identity/domain"
)

// fakeTxManager runs the function directly without a real transaction.
type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockResourceRepository is a mock implementation of ResourceRepository.
type MockResourceRepository struct {
	mock.Mock
}

func (m *MockResourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	args := m.Called(ctx, resource)
	return args.Error(0)
}

func (m *MockResourceRepository) Get(ctx context.Context, resourceID uuid.UUID) (*domain.Resource, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resource), args.Error(1)
}

func (m *MockResourceRepository) GetByExternalID(
	ctx context.Context,
	kind string,
	externalID uuid.UUID,
) (*domain.Resource, error) {
	args := m.Called(ctx, kind, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resource), args.Error(1)
}

func (m *MockResourceRepository) ListByOwner(
	ctx context.Context,
	ownerKind domain.OwnerKind,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.Resource, error) {
	args := m.Called(ctx, ownerKind, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Resource), args.Error(1)
}

func (m *MockResourceRepository) ListByKind(
	ctx context.Context,
	kind string,
	offset, limit int,
) ([]*domain.Resource, error) {
	args := m.Called(ctx, kind, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Resource), args.Error(1)
}

func (m *MockResourceRepository) CountByOwner(
	ctx context.Context,
	ownerKind domain.OwnerKind,
	ownerID uuid.UUID,
) (int64, error) {
	args := m.Called(ctx, ownerKind, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResourceRepository) Delete(ctx context.Context, resourceID uuid.UUID) error {
	args := m.Called(ctx, resourceID)
	return args.Error(0)
}

// MockApprovalRepository is a mock implementation of ApprovalRepository.
type MockApprovalRepository struct {
	mock.Mock
}

func (m *MockApprovalRepository) Create(ctx context.Context, approval *domain.OperationApproval) error {
	args := m.Called(ctx, approval)
	return args.Error(0)
}

func (m *MockApprovalRepository) Get(ctx context.Context, approvalID uuid.UUID) (*domain.OperationApproval, error) {
	args := m.Called(ctx, approvalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationApproval), args.Error(1)
}

func (m *MockApprovalRepository) Resolve(
	ctx context.Context,
	approvalID uuid.UUID,
	status domain.ApprovalStatus,
	approverID uuid.UUID,
) error {
	args := m.Called(ctx, approvalID, status, approverID)
	return args.Error(0)
}

func (m *MockApprovalRepository) ListPendingByResource(
	ctx context.Context,
	resourceID uuid.UUID,
) ([]*domain.OperationApproval, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OperationApproval), args.Error(1)
}

func (m *MockApprovalRepository) ListByRequester(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.OperationApproval, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OperationApproval), args.Error(1)
}

// MockUserReader is a mock implementation of UserReader.
type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) Get(ctx context.Context, userID uuid.UUID) (*identityDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

// MockGroupReader is a mock implementation of GroupReader.
type MockGroupReader struct {
	mock.Mock
}

func (m *MockGroupReader) Get(ctx context.Context, groupID uuid.UUID) (*identityDomain.UserGroup, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.UserGroup), args.Error(1)
}

// MockMembershipReader is a mock implementation of MembershipReader.
type MockMembershipReader struct {
	mock.Mock
}

func (m *MockMembershipReader) GetByUserAndGroup(
	ctx context.Context,
	userID, groupID uuid.UUID,
) (*identityDomain.GroupMembership, error) {
	args := m.Called(ctx, userID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.GroupMembership), args.Error(1)
}

// MockRoleReader is a mock implementation of RoleReader.
type MockRoleReader struct {
	mock.Mock
}

func (m *MockRoleReader) Get(ctx context.Context, roleID uuid.UUID) (*identityDomain.Role, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Role), args.Error(1)
}

// MockAccessUseCase is a mock implementation of AccessUseCase.
type MockAccessUseCase struct {
	mock.Mock
}

func (m *MockAccessUseCase) Authorize(
	ctx context.Context,
	userID, resourceID uuid.UUID,
	operation domain.Operation,
) (domain.Decision, error) {
	args := m.Called(ctx, userID, resourceID, operation)
	return args.Get(0).(domain.Decision), args.Error(1)
}
