package dto

import (
	"time"

	"github.com/google/uuid"

	entitlementDomain "github.com/allisson/entitlements/internal/entitlement/domain"
	entitlementDto "github.com/allisson/entitlements/internal/entitlement/http/dto"
	"github.com/allisson/entitlements/internal/pipeline/domain"
)

// PipelineResponse represents the API response for a pipeline.
type PipelineResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Configuration string    `json:"configuration"`
	Status        string    `json:"status"`
	CreatedBy     uuid.UUID `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PendingApprovalResponse is returned with 202 Accepted when an operation is
// parked behind the approval workflow instead of executing.
type PendingApprovalResponse struct {
	Status   string                          `json:"status"`
	Approval entitlementDto.ApprovalResponse `json:"approval"`
}

// ToPipelineResponse converts a pipeline domain model into its API representation.
func ToPipelineResponse(pipeline *domain.Pipeline) PipelineResponse {
	return PipelineResponse{
		ID:            pipeline.ID,
		Name:          pipeline.Name,
		Description:   pipeline.Description,
		Configuration: pipeline.Configuration,
		Status:        pipeline.Status.String(),
		CreatedBy:     pipeline.CreatedBy,
		CreatedAt:     pipeline.CreatedAt,
		UpdatedAt:     pipeline.UpdatedAt,
	}
}

// ToPipelineResponses converts a list of pipelines.
func ToPipelineResponses(pipelines []*domain.Pipeline) []PipelineResponse {
	responses := make([]PipelineResponse, 0, len(pipelines))
	for _, pipeline := range pipelines {
		responses = append(responses, ToPipelineResponse(pipeline))
	}
	return responses
}

// ToPendingApprovalResponse wraps a parked operation's approval request.
func ToPendingApprovalResponse(approval *entitlementDomain.OperationApproval) PendingApprovalResponse {
	return PendingApprovalResponse{
		Status:   "PENDING_APPROVAL",
		Approval: entitlementDto.ToApprovalResponse(approval),
	}
}
