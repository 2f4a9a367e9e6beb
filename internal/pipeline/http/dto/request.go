// Package dto provides data transfer objects for the pipeline HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/entitlements/internal/validation"
)

// CreatePipelineRequest represents the API request for pipeline creation.
// GroupID, when set, makes the group the owner of the pipeline; otherwise the
// caller owns it individually.
type CreatePipelineRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Configuration string `json:"configuration"`
	GroupID       string `json:"group_id"`
}

// Validate checks the request shape.
func (r *CreatePipelineRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(3, 128).Error("name must be between 3 and 128 characters"),
		),
		validation.Field(&r.GroupID,
			validation.When(r.GroupID != "", appValidation.UUID),
		),
	)
}

// UpdatePipelineRequest represents the API request for pipeline updates.
// Empty fields keep their current values.
type UpdatePipelineRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Configuration string `json:"configuration"`
}

// Validate checks the request shape.
func (r *UpdatePipelineRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.When(r.Name != "",
				appValidation.NotBlank,
				validation.Length(3, 128).Error("name must be between 3 and 128 characters"),
			),
		),
	)
}
