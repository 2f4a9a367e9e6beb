package usecase

import (
	"context"

	"github.com/allisson/entitlements/internal/identity/domain"
)

// roleUseCase exposes the read-only role catalog.
type roleUseCase struct {
	roleRepo RoleRepository
}

// NewRoleUseCase creates a new role use case.
func NewRoleUseCase(roleRepo RoleRepository) RoleUseCase {
	return &roleUseCase{roleRepo: roleRepo}
}

// List returns the full catalog.
func (uc *roleUseCase) List(ctx context.Context) ([]*domain.Role, error) {
	return uc.roleRepo.List(ctx)
}

// GetByName retrieves a role by catalog name.
func (uc *roleUseCase) GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	return uc.roleRepo.GetByName(ctx, name)
}
