package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	entitlementDomain "github.com/allisson/entitlements/internal/entitlement/domain"
	entitlement "github.com/allisson/entitlements/internal/entitlement/usecase"
	"github.com/allisson/entitlements/internal/pipeline/domain"
)

// fakeTxManager runs the function directly without a real transaction.
type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockPipelineRepository is a mock implementation of PipelineRepository.
type MockPipelineRepository struct {
	mock.Mock
}

func (m *MockPipelineRepository) Create(ctx context.Context, pipeline *domain.Pipeline) error {
	args := m.Called(ctx, pipeline)
	return args.Error(0)
}

func (m *MockPipelineRepository) Get(ctx context.Context, pipelineID uuid.UUID) (*domain.Pipeline, error) {
	args := m.Called(ctx, pipelineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pipeline), args.Error(1)
}

func (m *MockPipelineRepository) Update(ctx context.Context, pipeline *domain.Pipeline) error {
	args := m.Called(ctx, pipeline)
	return args.Error(0)
}

func (m *MockPipelineRepository) Delete(ctx context.Context, pipelineID uuid.UUID) error {
	args := m.Called(ctx, pipelineID)
	return args.Error(0)
}

func (m *MockPipelineRepository) List(ctx context.Context, offset, limit int) ([]*domain.Pipeline, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Pipeline), args.Error(1)
}

// MockResourceUseCase is a mock implementation of the resource ownership registry.
type MockResourceUseCase struct {
	mock.Mock
}

func (m *MockResourceUseCase) Register(
	ctx context.Context,
	input entitlement.RegisterResourceInput,
	callerID uuid.UUID,
) (*entitlementDomain.Resource, error) {
	args := m.Called(ctx, input, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entitlementDomain.Resource), args.Error(1)
}

func (m *MockResourceUseCase) Get(ctx context.Context, resourceID uuid.UUID) (*entitlementDomain.Resource, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entitlementDomain.Resource), args.Error(1)
}

func (m *MockResourceUseCase) GetByExternalID(
	ctx context.Context,
	kind string,
	externalID uuid.UUID,
) (*entitlementDomain.Resource, error) {
	args := m.Called(ctx, kind, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entitlementDomain.Resource), args.Error(1)
}

func (m *MockResourceUseCase) ListByOwner(
	ctx context.Context,
	ownerKind entitlementDomain.OwnerKind,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*entitlementDomain.Resource, error) {
	args := m.Called(ctx, ownerKind, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entitlementDomain.Resource), args.Error(1)
}

func (m *MockResourceUseCase) ListByKind(
	ctx context.Context,
	kind string,
	offset, limit int,
) ([]*entitlementDomain.Resource, error) {
	args := m.Called(ctx, kind, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entitlementDomain.Resource), args.Error(1)
}

func (m *MockResourceUseCase) Unregister(ctx context.Context, resourceID uuid.UUID) error {
	args := m.Called(ctx, resourceID)
	return args.Error(0)
}

// MockAccessUseCase is a mock implementation of the access decision engine.
type MockAccessUseCase struct {
	mock.Mock
}

func (m *MockAccessUseCase) Authorize(
	ctx context.Context,
	userID, resourceID uuid.UUID,
	operation entitlementDomain.Operation,
) (entitlementDomain.Decision, error) {
	args := m.Called(ctx, userID, resourceID, operation)
	return args.Get(0).(entitlementDomain.Decision), args.Error(1)
}

// MockApprovalUseCase is a mock implementation of the approval workflow.
type MockApprovalUseCase struct {
	mock.Mock
}

func (m *MockApprovalUseCase) Create(
	ctx context.Context,
	input entitlement.CreateApprovalInput,
) (*entitlementDomain.OperationApproval, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entitlementDomain.OperationApproval), args.Error(1)
}

func (m *MockApprovalUseCase) Resolve(
	ctx context.Context,
	approvalID, approverID uuid.UUID,
	outcome entitlementDomain.ApprovalStatus,
) (*entitlementDomain.OperationApproval, error) {
	args := m.Called(ctx, approvalID, approverID, outcome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entitlementDomain.OperationApproval), args.Error(1)
}

func (m *MockApprovalUseCase) ListPending(
	ctx context.Context,
	resourceID uuid.UUID,
) ([]*entitlementDomain.OperationApproval, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entitlementDomain.OperationApproval), args.Error(1)
}

func (m *MockApprovalUseCase) ListRequestedBy(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*entitlementDomain.OperationApproval, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entitlementDomain.OperationApproval), args.Error(1)
}
