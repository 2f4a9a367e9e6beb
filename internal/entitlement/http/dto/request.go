// Package dto provides data transfer objects for the entitlement HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/entitlements/internal/validation"
)

// RegisterResourceRequest represents the API request for resource registration.
type RegisterResourceRequest struct {
	Kind       string `json:"kind"`
	ExternalID string `json:"external_id"`
	OwnerKind  string `json:"owner_kind"`
	OwnerID    string `json:"owner_id"`
}

// Validate checks the request shape.
func (r *RegisterResourceRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Kind,
			validation.Required.Error("kind is required"),
			appValidation.NotBlank,
			validation.Length(1, 64).Error("kind must be between 1 and 64 characters"),
		),
		validation.Field(&r.ExternalID,
			validation.Required.Error("external_id is required"),
			appValidation.UUID,
		),
		validation.Field(&r.OwnerKind,
			validation.Required.Error("owner_kind is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.OwnerID,
			validation.Required.Error("owner_id is required"),
			appValidation.UUID,
		),
	)
}

// CheckAccessRequest represents the API request for an access decision.
type CheckAccessRequest struct {
	UserID     string `json:"user_id"`
	ResourceID string `json:"resource_id"`
	Operation  string `json:"operation"`
}

// Validate checks the request shape.
func (r *CheckAccessRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID,
			validation.Required.Error("user_id is required"),
			appValidation.UUID,
		),
		validation.Field(&r.ResourceID,
			validation.Required.Error("resource_id is required"),
			appValidation.UUID,
		),
		validation.Field(&r.Operation,
			validation.Required.Error("operation is required"),
			appValidation.NotBlank,
		),
	)
}

// CreateApprovalRequest represents the API request for filing an approval.
// The requester is the authenticated caller.
type CreateApprovalRequest struct {
	ResourceID string `json:"resource_id"`
	Operation  string `json:"operation"`
}

// Validate checks the request shape.
func (r *CreateApprovalRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ResourceID,
			validation.Required.Error("resource_id is required"),
			appValidation.UUID,
		),
		validation.Field(&r.Operation,
			validation.Required.Error("operation is required"),
			appValidation.NotBlank,
		),
	)
}
