package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/entitlement/domain"
)

// ResourceResponse represents the API response for an entitlement record.
type ResourceResponse struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	ExternalID uuid.UUID `json:"external_id"`
	OwnerKind  string    `json:"owner_kind"`
	OwnerID    uuid.UUID `json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// DecisionResponse represents the API response for an access decision.
// The reason is only present on denials.
type DecisionResponse struct {
	Effect string `json:"effect"`
	Reason string `json:"reason,omitempty"`
}

// ApprovalResponse represents the API response for an operation approval.
type ApprovalResponse struct {
	ID          uuid.UUID  `json:"id"`
	ResourceID  uuid.UUID  `json:"resource_id"`
	Operation   string     `json:"operation"`
	RequestedBy uuid.UUID  `json:"requested_by"`
	ApprovedBy  *uuid.UUID `json:"approved_by,omitempty"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// ToResourceResponse converts a resource domain model into its API representation.
func ToResourceResponse(resource *domain.Resource) ResourceResponse {
	return ResourceResponse{
		ID:         resource.ID,
		Kind:       resource.Kind,
		ExternalID: resource.ExternalID,
		OwnerKind:  resource.OwnerKind.String(),
		OwnerID:    resource.OwnerID,
		CreatedAt:  resource.CreatedAt,
	}
}

// ToResourceResponses converts a list of resources.
func ToResourceResponses(resources []*domain.Resource) []ResourceResponse {
	responses := make([]ResourceResponse, 0, len(resources))
	for _, resource := range resources {
		responses = append(responses, ToResourceResponse(resource))
	}
	return responses
}

// ToDecisionResponse converts an access decision into its API representation.
func ToDecisionResponse(decision domain.Decision) DecisionResponse {
	response := DecisionResponse{Effect: string(decision.Effect)}
	if decision.Reason != nil {
		response.Reason = decision.Reason.Error()
	}
	return response
}

// ToApprovalResponse converts an approval domain model into its API representation.
func ToApprovalResponse(approval *domain.OperationApproval) ApprovalResponse {
	return ApprovalResponse{
		ID:          approval.ID,
		ResourceID:  approval.ResourceID,
		Operation:   approval.Operation.String(),
		RequestedBy: approval.RequestedBy,
		ApprovedBy:  approval.ApprovedBy,
		Status:      approval.Status.String(),
		RequestedAt: approval.RequestedAt,
		ResolvedAt:  approval.ResolvedAt,
	}
}

// ToApprovalResponses converts a list of approvals.
func ToApprovalResponses(approvals []*domain.OperationApproval) []ApprovalResponse {
	responses := make([]ApprovalResponse, 0, len(approvals))
	for _, approval := range approvals {
		responses = append(responses, ToApprovalResponse(approval))
	}
	return responses
}
