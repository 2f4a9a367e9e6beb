// Package usecase implements the identity business logic: user accounts,
// groups, the role catalog, and role assignments.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/identity/domain"
)

// UserRepository defines persistence operations for users.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	// Create inserts a new user. Returns ErrUserAlreadyExists on a username clash.
	Create(ctx context.Context, user *domain.User) error

	// Get retrieves a user by ID. Returns ErrUserNotFound if absent.
	Get(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by username. Returns ErrUserNotFound if absent.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update persists changes to an existing user. Returns ErrUserNotFound if absent.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user. Returns ErrUserNotFound if absent.
	Delete(ctx context.Context, userID uuid.UUID) error

	// List returns users ordered by creation time.
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
}

// GroupRepository defines persistence operations for groups.
type GroupRepository interface {
	// Create inserts a new group. Returns ErrGroupNameExists on a name clash.
	Create(ctx context.Context, group *domain.UserGroup) error

	// Get retrieves a group by ID. Returns ErrGroupNotFound if absent.
	Get(ctx context.Context, groupID uuid.UUID) (*domain.UserGroup, error)

	// GetByName retrieves a group by name. Returns ErrGroupNotFound if absent.
	GetByName(ctx context.Context, name string) (*domain.UserGroup, error)

	// Delete removes a group. Returns ErrGroupNotFound if absent.
	Delete(ctx context.Context, groupID uuid.UUID) error

	// List returns groups ordered by creation time.
	List(ctx context.Context, offset, limit int) ([]*domain.UserGroup, error)
}

// MembershipRepository defines persistence operations for role assignments.
type MembershipRepository interface {
	// Create inserts a membership row. Returns ErrAlreadyMember if the
	// (user, group) pair already has one.
	Create(ctx context.Context, membership *domain.GroupMembership) error

	// GetByUserAndGroup retrieves the membership row for the pair.
	// Returns ErrMembershipNotFound if the user is not in the group.
	GetByUserAndGroup(ctx context.Context, userID, groupID uuid.UUID) (*domain.GroupMembership, error)

	// UpdateRole changes the role on an existing membership.
	// Returns ErrMembershipNotFound if the pair has no row.
	UpdateRole(ctx context.Context, userID, groupID, roleID uuid.UUID) error

	// Delete removes the membership row for the pair. Deleting an absent row
	// returns ErrMembershipNotFound.
	Delete(ctx context.Context, userID, groupID uuid.UUID) error

	// DeleteByGroup removes every membership row of the group.
	DeleteByGroup(ctx context.Context, groupID uuid.UUID) error

	// ListByUser returns the user's memberships across all groups.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.GroupMembership, error)

	// ListByGroup returns the group's memberships across all users.
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*domain.GroupMembership, error)
}

// RoleRepository defines read access to the immutable role catalog.
type RoleRepository interface {
	// Get retrieves a role by ID. Returns ErrRoleNotFound if absent.
	Get(ctx context.Context, roleID uuid.UUID) (*domain.Role, error)

	// GetByName retrieves a role by catalog name. Returns ErrRoleNotFound if absent.
	GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)

	// List returns the full catalog.
	List(ctx context.Context) ([]*domain.Role, error)
}

// ResourceCounter reports how many resources a user or group owns.
// Implemented by the entitlement context; identity only needs the counts to
// enforce the deletion policy.
type ResourceCounter interface {
	CountUserResources(ctx context.Context, userID uuid.UUID) (int64, error)
	CountGroupResources(ctx context.Context, groupID uuid.UUID) (int64, error)
}

// CreateUserInput contains the input data for user creation.
type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// UpdateUserInput contains the input data for user updates. The username is
// immutable; empty fields keep their current value.
type UpdateUserInput struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// UserUseCase defines user account administration.
type UserUseCase interface {
	// Create registers a new user account.
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)

	// Get retrieves a user by ID.
	Get(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update changes a user's contact details or password.
	Update(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)

	// Delete removes a user account and their memberships. Fails with
	// ErrUserHasResources while the user still personally owns resources.
	Delete(ctx context.Context, userID uuid.UUID) error

	// List returns users ordered by creation time.
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
}

// CreateGroupInput contains the input data for group creation.
type CreateGroupInput struct {
	Name string `json:"name"`
}

// AddMemberInput contains the input data for adding a group member.
type AddMemberInput struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// GroupMember pairs a membership with its resolved role name for listings.
type GroupMember struct {
	Membership *domain.GroupMembership `json:"membership"`
	Role       domain.RoleName         `json:"role"`
}

// GroupUseCase defines group and membership administration.
type GroupUseCase interface {
	// Create creates a group and enrolls the creator as its OWNER.
	Create(ctx context.Context, input CreateGroupInput, creatorID uuid.UUID) (*domain.UserGroup, error)

	// Get retrieves a group by ID.
	Get(ctx context.Context, groupID uuid.UUID) (*domain.UserGroup, error)

	// Delete removes a group and its memberships. Fails with
	// ErrGroupHasResources while the group still owns resources.
	Delete(ctx context.Context, groupID uuid.UUID) error

	// List returns groups ordered by creation time.
	List(ctx context.Context, offset, limit int) ([]*domain.UserGroup, error)

	// AddMember enrolls a user in a group with a role. Fails with
	// ErrAlreadyMember if the user is already enrolled.
	AddMember(ctx context.Context, groupID uuid.UUID, input AddMemberInput) (*domain.GroupMembership, error)

	// RemoveMember removes a user from a group. Removing an absent
	// membership is a no-op.
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error

	// ChangeRole replaces the role of an existing member. Fails with
	// ErrNotAMember if the user is not enrolled.
	ChangeRole(ctx context.Context, groupID, userID uuid.UUID, role string) (*domain.GroupMembership, error)

	// GetMemberRole returns the role a user holds in a group.
	GetMemberRole(ctx context.Context, groupID, userID uuid.UUID) (domain.RoleName, error)

	// ListGroupsByUser returns the groups a user belongs to.
	ListGroupsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.UserGroup, error)

	// ListMembers returns the group's members with their roles.
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]*GroupMember, error)
}

// RoleUseCase exposes the read-only role catalog.
type RoleUseCase interface {
	// List returns the full catalog.
	List(ctx context.Context) ([]*domain.Role, error)

	// GetByName retrieves a role by catalog name.
	GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
}
