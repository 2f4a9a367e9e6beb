package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/entitlement/domain"
	"github.com/allisson/entitlements/internal/metrics"
)

// accessUseCaseWithMetrics decorates AccessUseCase with metrics instrumentation.
type accessUseCaseWithMetrics struct {
	next    AccessUseCase
	metrics metrics.BusinessMetrics
}

// NewAccessUseCaseWithMetrics wraps an AccessUseCase with metrics recording.
// The decision effect is recorded as the operation status so dashboards can
// distinguish allows, denies, and approval routings.
func NewAccessUseCaseWithMetrics(useCase AccessUseCase, m metrics.BusinessMetrics) AccessUseCase {
	return &accessUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Authorize records metrics for access decisions.
func (a *accessUseCaseWithMetrics) Authorize(
	ctx context.Context,
	userID, resourceID uuid.UUID,
	operation domain.Operation,
) (domain.Decision, error) {
	start := time.Now()
	decision, err := a.next.Authorize(ctx, userID, resourceID, operation)

	status := "error"
	if err == nil {
		status = string(decision.Effect)
	}

	a.metrics.RecordOperation(ctx, "entitlement", "authorize", status)
	a.metrics.RecordDuration(ctx, "entitlement", "authorize", time.Since(start), status)

	return decision, err
}

// approvalUseCaseWithMetrics decorates ApprovalUseCase with metrics instrumentation.
type approvalUseCaseWithMetrics struct {
	next    ApprovalUseCase
	metrics metrics.BusinessMetrics
}

// NewApprovalUseCaseWithMetrics wraps an ApprovalUseCase with metrics recording.
func NewApprovalUseCaseWithMetrics(useCase ApprovalUseCase, m metrics.BusinessMetrics) ApprovalUseCase {
	return &approvalUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for approval request creation.
func (a *approvalUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateApprovalInput,
) (*domain.OperationApproval, error) {
	start := time.Now()
	approval, err := a.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "entitlement", "approval_create", status)
	a.metrics.RecordDuration(ctx, "entitlement", "approval_create", time.Since(start), status)

	return approval, err
}

// Resolve records metrics for approval resolution.
func (a *approvalUseCaseWithMetrics) Resolve(
	ctx context.Context,
	approvalID, approverID uuid.UUID,
	outcome domain.ApprovalStatus,
) (*domain.OperationApproval, error) {
	start := time.Now()
	approval, err := a.next.Resolve(ctx, approvalID, approverID, outcome)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "entitlement", "approval_resolve", status)
	a.metrics.RecordDuration(ctx, "entitlement", "approval_resolve", time.Since(start), status)

	return approval, err
}

// ListPending records metrics for pending approval listings.
func (a *approvalUseCaseWithMetrics) ListPending(
	ctx context.Context,
	resourceID uuid.UUID,
) ([]*domain.OperationApproval, error) {
	start := time.Now()
	approvals, err := a.next.ListPending(ctx, resourceID)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "entitlement", "approval_list_pending", status)
	a.metrics.RecordDuration(ctx, "entitlement", "approval_list_pending", time.Since(start), status)

	return approvals, err
}

// ListRequestedBy records metrics for requester approval listings.
func (a *approvalUseCaseWithMetrics) ListRequestedBy(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.OperationApproval, error) {
	start := time.Now()
	approvals, err := a.next.ListRequestedBy(ctx, userID, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "entitlement", "approval_list_requested", status)
	a.metrics.RecordDuration(ctx, "entitlement", "approval_list_requested", time.Since(start), status)

	return approvals, err
}
