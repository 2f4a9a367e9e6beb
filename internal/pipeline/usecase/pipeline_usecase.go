package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/entitlements/internal/database"
	entitlementDomain "github.com/allisson/entitlements/internal/entitlement/domain"
	entitlement "github.com/allisson/entitlements/internal/entitlement/usecase"
	apperrors "github.com/allisson/entitlements/internal/errors"
	"github.com/allisson/entitlements/internal/pipeline/domain"
	appValidation "github.com/allisson/entitlements/internal/validation"
)

// approvalScanLimit bounds how far back the gate looks through the caller's
// approval requests when checking for an existing grant.
const approvalScanLimit = 100

// listAuthorizeConcurrency caps the per-entry authorization fan-out in List.
const listAuthorizeConcurrency = 8

// pipelineUseCase implements the pipeline lifecycle on top of the entitlement
// engine.
type pipelineUseCase struct {
	txManager    database.TxManager
	pipelineRepo PipelineRepository
	resources    entitlement.ResourceUseCase
	access       entitlement.AccessUseCase
	approvals    entitlement.ApprovalUseCase
}

// NewPipelineUseCase creates the pipeline lifecycle use case.
func NewPipelineUseCase(
	txManager database.TxManager,
	pipelineRepo PipelineRepository,
	resources entitlement.ResourceUseCase,
	access entitlement.AccessUseCase,
	approvals entitlement.ApprovalUseCase,
) PipelineUseCase {
	return &pipelineUseCase{
		txManager:    txManager,
		pipelineRepo: pipelineRepo,
		resources:    resources,
		access:       access,
		approvals:    approvals,
	}
}

// validateCreatePipelineInput validates creation input.
func (uc *pipelineUseCase) validateCreatePipelineInput(input CreatePipelineInput) error {
	err := validation.Errors{
		"name": validation.Validate(input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(3, 128).Error("name must be between 3 and 128 characters"),
		),
	}.Filter()
	if err != nil {
		return appValidation.WrapValidationError(err)
	}
	return nil
}

// validateUpdatePipelineInput validates update input.
func (uc *pipelineUseCase) validateUpdatePipelineInput(input UpdatePipelineInput) error {
	err := validation.Errors{
		"name": validation.Validate(input.Name,
			validation.When(input.Name != "",
				appValidation.NotBlank,
				validation.Length(3, 128).Error("name must be between 3 and 128 characters"),
			),
		),
	}.Filter()
	if err != nil {
		return appValidation.WrapValidationError(err)
	}
	return nil
}

// Create stores a pipeline and registers its entitlement resource in the same
// transaction.
func (uc *pipelineUseCase) Create(
	ctx context.Context,
	input CreatePipelineInput,
	callerID uuid.UUID,
) (*domain.Pipeline, error) {
	if err := uc.validateCreatePipelineInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pipeline := &domain.Pipeline{
		ID:            uuid.Must(uuid.NewV7()),
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Configuration: input.Configuration,
		Status:        domain.PipelineStatusDraft,
		CreatedBy:     callerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	owner := entitlement.RegisterResourceInput{
		Kind:       domain.ResourceKind,
		ExternalID: pipeline.ID,
		OwnerKind:  entitlementDomain.OwnerKindUser,
		OwnerID:    callerID,
	}
	if input.GroupID != nil {
		owner.OwnerKind = entitlementDomain.OwnerKindGroup
		owner.OwnerID = *input.GroupID
	}

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.pipelineRepo.Create(ctx, pipeline); err != nil {
			return err
		}
		// Registration enforces the ownership rules: a caller can only bind
		// the pipeline to themselves or to a group they own.
		_, err := uc.resources.Register(ctx, owner, callerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return pipeline, nil
}

// Get retrieves a pipeline, view-gated.
func (uc *pipelineUseCase) Get(ctx context.Context, pipelineID, callerID uuid.UUID) (*domain.Pipeline, error) {
	resource, err := uc.entitlement(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	if err := uc.requireAllowed(ctx, callerID, resource.ID, entitlementDomain.OperationView); err != nil {
		return nil, err
	}

	return uc.pipelineRepo.Get(ctx, pipelineID)
}

// Update mutates a pipeline, update-gated. Empty input fields keep their
// current values.
func (uc *pipelineUseCase) Update(
	ctx context.Context,
	pipelineID uuid.UUID,
	input UpdatePipelineInput,
	callerID uuid.UUID,
) (*domain.Pipeline, error) {
	if err := uc.validateUpdatePipelineInput(input); err != nil {
		return nil, err
	}

	resource, err := uc.entitlement(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	if err := uc.requireAllowed(ctx, callerID, resource.ID, entitlementDomain.OperationUpdate); err != nil {
		return nil, err
	}

	var pipeline *domain.Pipeline
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		pipeline, err = uc.pipelineRepo.Get(ctx, pipelineID)
		if err != nil {
			return err
		}

		if input.Name != "" {
			pipeline.Name = strings.TrimSpace(input.Name)
		}
		if input.Description != "" {
			pipeline.Description = input.Description
		}
		if input.Configuration != "" {
			pipeline.Configuration = input.Configuration
		}
		pipeline.UpdatedAt = time.Now().UTC()

		return uc.pipelineRepo.Update(ctx, pipeline)
	})
	if err != nil {
		return nil, err
	}

	return pipeline, nil
}

// List returns a page of pipelines filtered down to what the caller may view.
// Authorization for each entry runs concurrently since the checks are
// independent reads.
func (uc *pipelineUseCase) List(
	ctx context.Context,
	callerID uuid.UUID,
	offset, limit int,
) ([]*domain.Pipeline, error) {
	pipelines, err := uc.pipelineRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	allowed := make([]bool, len(pipelines))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(listAuthorizeConcurrency)

	for i, pipeline := range pipelines {
		group.Go(func() error {
			resource, err := uc.entitlement(groupCtx, pipeline.ID)
			if err != nil {
				if apperrors.Is(err, domain.ErrPipelineNotFound) {
					return nil
				}
				return err
			}

			decision, err := uc.access.Authorize(groupCtx, callerID, resource.ID, entitlementDomain.OperationView)
			if err != nil {
				return err
			}
			allowed[i] = decision.IsAllowed()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	visible := make([]*domain.Pipeline, 0, len(pipelines))
	for i, pipeline := range pipelines {
		if allowed[i] {
			visible = append(visible, pipeline)
		}
	}

	return visible, nil
}

// Delete removes a pipeline and its entitlement resource, delete-gated.
func (uc *pipelineUseCase) Delete(
	ctx context.Context,
	pipelineID, callerID uuid.UUID,
) (*entitlementDomain.OperationApproval, error) {
	resource, err := uc.entitlement(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	pending, err := uc.gate(ctx, callerID, resource, entitlementDomain.OperationDelete)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return pending, nil
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.pipelineRepo.Delete(ctx, pipelineID); err != nil {
			return err
		}
		// Dropping the resource row cascades to any approvals filed against it.
		return uc.resources.Unregister(ctx, resource.ID)
	})
	if err != nil {
		return nil, err
	}

	return nil, nil
}

// Publish promotes a draft pipeline to published, publish-gated.
func (uc *pipelineUseCase) Publish(
	ctx context.Context,
	pipelineID, callerID uuid.UUID,
) (*domain.Pipeline, *entitlementDomain.OperationApproval, error) {
	resource, err := uc.entitlement(ctx, pipelineID)
	if err != nil {
		return nil, nil, err
	}

	pending, err := uc.gate(ctx, callerID, resource, entitlementDomain.OperationPublish)
	if err != nil {
		return nil, nil, err
	}
	if pending != nil {
		return nil, pending, nil
	}

	var pipeline *domain.Pipeline
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		pipeline, err = uc.pipelineRepo.Get(ctx, pipelineID)
		if err != nil {
			return err
		}

		if pipeline.Status == domain.PipelineStatusPublished {
			return domain.ErrPipelineAlreadyPublished
		}

		pipeline.Status = domain.PipelineStatusPublished
		pipeline.UpdatedAt = time.Now().UTC()

		return uc.pipelineRepo.Update(ctx, pipeline)
	})
	if err != nil {
		return nil, nil, err
	}

	return pipeline, nil, nil
}

// entitlement resolves the resource record protecting the pipeline. A pipeline
// without a registration does not exist as far as callers are concerned.
func (uc *pipelineUseCase) entitlement(
	ctx context.Context,
	pipelineID uuid.UUID,
) (*entitlementDomain.Resource, error) {
	resource, err := uc.resources.GetByExternalID(ctx, domain.ResourceKind, pipelineID)
	if err != nil {
		if apperrors.Is(err, entitlementDomain.ErrResourceNotFound) {
			return nil, domain.ErrPipelineNotFound
		}
		return nil, err
	}
	return resource, nil
}

// requireAllowed fails unless the engine allows the operation outright.
func (uc *pipelineUseCase) requireAllowed(
	ctx context.Context,
	callerID, resourceID uuid.UUID,
	operation entitlementDomain.Operation,
) error {
	decision, err := uc.access.Authorize(ctx, callerID, resourceID, operation)
	if err != nil {
		return err
	}
	if decision.IsDenied() {
		return decision.Reason
	}
	if decision.NeedsApproval() {
		// Unreachable for view/update under the current role matrix.
		return apperrors.Wrap(apperrors.ErrForbidden, "operation requires owner approval")
	}
	return nil
}

// gate evaluates an approval-eligible operation. A nil, nil return means the
// operation may proceed now; a non-nil approval means it is parked pending a
// group owner's decision.
func (uc *pipelineUseCase) gate(
	ctx context.Context,
	callerID uuid.UUID,
	resource *entitlementDomain.Resource,
	operation entitlementDomain.Operation,
) (*entitlementDomain.OperationApproval, error) {
	decision, err := uc.access.Authorize(ctx, callerID, resource.ID, operation)
	if err != nil {
		return nil, err
	}

	switch {
	case decision.IsAllowed():
		return nil, nil

	case decision.IsDenied():
		return nil, decision.Reason

	default:
		granted, pending, err := uc.existingApproval(ctx, callerID, resource.ID, operation)
		if err != nil {
			return nil, err
		}
		if granted {
			return nil, nil
		}
		if pending != nil {
			// A request for this exact operation is already in flight; hand it
			// back instead of filing a duplicate.
			return pending, nil
		}

		return uc.approvals.Create(ctx, entitlement.CreateApprovalInput{
			ResourceID:  resource.ID,
			Operation:   operation,
			RequesterID: callerID,
		})
	}
}

// existingApproval scans the caller's recent approval requests for one
// matching the resource and operation. An approved request grants the
// operation; a pending one means the caller must keep waiting.
func (uc *pipelineUseCase) existingApproval(
	ctx context.Context,
	callerID, resourceID uuid.UUID,
	operation entitlementDomain.Operation,
) (granted bool, pending *entitlementDomain.OperationApproval, err error) {
	approvals, err := uc.approvals.ListRequestedBy(ctx, callerID, 0, approvalScanLimit)
	if err != nil {
		return false, nil, err
	}

	for _, approval := range approvals {
		if approval.ResourceID != resourceID || approval.Operation != operation {
			continue
		}
		switch approval.Status {
		case entitlementDomain.ApprovalStatusApproved:
			return true, nil, nil
		case entitlementDomain.ApprovalStatusPending:
			if pending == nil {
				pending = approval
			}
		}
	}

	return false, pending, nil
}
