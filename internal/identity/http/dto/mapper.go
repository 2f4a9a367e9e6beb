package dto

import (
	"github.com/allisson/entitlements/internal/identity/domain"
	"github.com/allisson/entitlements/internal/identity/usecase"
)

// ToUserResponse converts a user domain model into its API representation.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserResponses converts a list of users.
func ToUserResponses(users []*domain.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, ToUserResponse(user))
	}
	return responses
}

// ToGroupResponse converts a group domain model into its API representation.
func ToGroupResponse(group *domain.UserGroup) GroupResponse {
	return GroupResponse{
		ID:        group.ID,
		Name:      group.Name,
		CreatedAt: group.CreatedAt,
	}
}

// ToGroupResponses converts a list of groups.
func ToGroupResponses(groups []*domain.UserGroup) []GroupResponse {
	responses := make([]GroupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, ToGroupResponse(group))
	}
	return responses
}

// ToMembershipResponse converts a membership with an optional resolved role name.
func ToMembershipResponse(membership *domain.GroupMembership, role domain.RoleName) MembershipResponse {
	return MembershipResponse{
		UserID:    membership.UserID,
		GroupID:   membership.GroupID,
		Role:      role.String(),
		CreatedAt: membership.CreatedAt,
		UpdatedAt: membership.UpdatedAt,
	}
}

// ToMemberResponses converts the group member listing.
func ToMemberResponses(members []*usecase.GroupMember) []MembershipResponse {
	responses := make([]MembershipResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, ToMembershipResponse(member.Membership, member.Role))
	}
	return responses
}

// ToRoleResponse converts a role catalog entry into its API representation.
func ToRoleResponse(role *domain.Role) RoleResponse {
	return RoleResponse{
		ID:   role.ID,
		Name: role.Name.String(),
	}
}

// ToRoleResponses converts the role catalog.
func ToRoleResponses(roles []*domain.Role) []RoleResponse {
	responses := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		responses = append(responses, ToRoleResponse(role))
	}
	return responses
}
