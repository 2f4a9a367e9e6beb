// Package dto provides data transfer objects for the identity HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/entitlements/internal/identity/usecase"
	appValidation "github.com/allisson/entitlements/internal/validation"
)

// CreateUserRequest represents the API request for user creation.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Validate checks the request shape. The use case re-validates after
// normalization; this pass rejects obviously malformed payloads early.
func (r *CreateUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			validation.Length(3, 64).Error("username must be between 3 and 64 characters"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
		),
	)
}

// ToCreateUserInput converts the request into the use case input.
func ToCreateUserInput(r CreateUserRequest) usecase.CreateUserInput {
	return usecase.CreateUserInput{
		Username: r.Username,
		Email:    r.Email,
		Phone:    r.Phone,
		Password: r.Password,
	}
}

// UpdateUserRequest represents the API request for user updates.
// Empty fields keep their current values; the username is immutable.
type UpdateUserRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Validate checks the request shape.
func (r *UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.When(r.Email != "", appValidation.Email),
		),
		validation.Field(&r.Password,
			validation.When(r.Password != "",
				validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			),
		),
	)
}

// ToUpdateUserInput converts the request into the use case input.
func ToUpdateUserInput(r UpdateUserRequest) usecase.UpdateUserInput {
	return usecase.UpdateUserInput{
		Email:    r.Email,
		Phone:    r.Phone,
		Password: r.Password,
	}
}

// CreateGroupRequest represents the API request for group creation.
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// Validate checks the request shape.
func (r *CreateGroupRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(3, 128).Error("name must be between 3 and 128 characters"),
		),
	)
}

// AddMemberRequest represents the API request for enrolling a group member.
type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Validate checks the request shape.
func (r *AddMemberRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID,
			validation.Required.Error("user_id is required"),
			appValidation.UUID,
		),
		validation.Field(&r.Role,
			validation.Required.Error("role is required"),
			appValidation.NotBlank,
		),
	)
}

// ChangeRoleRequest represents the API request for changing a member's role.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// Validate checks the request shape.
func (r *ChangeRoleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Role,
			validation.Required.Error("role is required"),
			appValidation.NotBlank,
		),
	)
}
