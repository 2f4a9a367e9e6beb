// Package usecase implements the pipeline business logic. Every operation on a
// pipeline routes through the entitlement engine: reads and updates must be
// allowed outright, while deletes and publishes may be parked behind the
// approval workflow and retried once a group owner approves.
package usecase

import (
	"context"

	"github.com/google/uuid"

	entitlementDomain "github.com/allisson/entitlements/internal/entitlement/domain"
	"github.com/allisson/entitlements/internal/pipeline/domain"
)

// PipelineRepository defines persistence operations for pipelines.
// Implementations must support transaction-aware operations via context propagation.
type PipelineRepository interface {
	// Create stores a new pipeline. Returns ErrPipelineNameExists on a
	// duplicate name.
	Create(ctx context.Context, pipeline *domain.Pipeline) error

	// Get retrieves a pipeline by ID. Returns ErrPipelineNotFound if absent.
	Get(ctx context.Context, pipelineID uuid.UUID) (*domain.Pipeline, error)

	// Update persists the pipeline's mutable fields. Returns
	// ErrPipelineNotFound if absent and ErrPipelineNameExists on a duplicate
	// name.
	Update(ctx context.Context, pipeline *domain.Pipeline) error

	// Delete removes a pipeline. Returns ErrPipelineNotFound if absent.
	Delete(ctx context.Context, pipelineID uuid.UUID) error

	// List returns pipelines ordered by creation time.
	List(ctx context.Context, offset, limit int) ([]*domain.Pipeline, error)
}

// CreatePipelineInput contains the input data for pipeline creation.
type CreatePipelineInput struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Configuration string `json:"configuration"`
	// GroupID, when set, makes the group the owner of the pipeline's
	// entitlement resource. Unset means the caller owns it individually.
	GroupID *uuid.UUID `json:"group_id"`
}

// UpdatePipelineInput contains the input data for pipeline updates.
// Empty fields keep their current values.
type UpdatePipelineInput struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Configuration string `json:"configuration"`
}

// PipelineUseCase defines the pipeline lifecycle, gated through the
// entitlement engine.
type PipelineUseCase interface {
	// Create stores a pipeline and registers its entitlement resource in the
	// same transaction, owned by the caller or by the given group.
	Create(ctx context.Context, input CreatePipelineInput, callerID uuid.UUID) (*domain.Pipeline, error)

	// Get retrieves a pipeline, view-gated.
	Get(ctx context.Context, pipelineID, callerID uuid.UUID) (*domain.Pipeline, error)

	// Update mutates a pipeline, update-gated.
	Update(ctx context.Context, pipelineID uuid.UUID, input UpdatePipelineInput, callerID uuid.UUID) (*domain.Pipeline, error)

	// List returns a page of pipelines, keeping only the entries the caller is
	// allowed to view.
	List(ctx context.Context, callerID uuid.UUID, offset, limit int) ([]*domain.Pipeline, error)

	// Delete removes a pipeline and its entitlement resource, delete-gated.
	// When the engine routes the operation through the approval workflow the
	// pending request is returned instead; the caller retries after a group
	// owner approves it.
	Delete(ctx context.Context, pipelineID, callerID uuid.UUID) (*entitlementDomain.OperationApproval, error)

	// Publish promotes a draft pipeline to published, publish-gated with the
	// same approval routing as Delete.
	Publish(ctx context.Context, pipelineID, callerID uuid.UUID) (*domain.Pipeline, *entitlementDomain.OperationApproval, error)
}
