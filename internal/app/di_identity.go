package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	entitlementDomain "github.com/allisson/entitlements/internal/entitlement/domain"
	entitlementUseCase "github.com/allisson/entitlements/internal/entitlement/usecase"
	identityHTTP "github.com/allisson/entitlements/internal/identity/http"
	identityRepository "github.com/allisson/entitlements/internal/identity/repository"
	identityUseCase "github.com/allisson/entitlements/internal/identity/usecase"
)

// UserRepository returns the user repository based on database driver.
func (c *Container) UserRepository() (identityUseCase.UserRepository, error) {
	c.userRepoInit.Do(func() {
		repo, err := c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
			return
		}
		c.userRepo = repo
	})
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// GroupRepository returns the group repository based on database driver.
func (c *Container) GroupRepository() (identityUseCase.GroupRepository, error) {
	c.groupRepoInit.Do(func() {
		repo, err := c.initGroupRepository()
		if err != nil {
			c.initErrors["groupRepo"] = err
			return
		}
		c.groupRepo = repo
	})
	if storedErr, exists := c.initErrors["groupRepo"]; exists {
		return nil, storedErr
	}
	return c.groupRepo, nil
}

// MembershipRepository returns the membership repository based on database driver.
func (c *Container) MembershipRepository() (identityUseCase.MembershipRepository, error) {
	c.membershipRepoInit.Do(func() {
		repo, err := c.initMembershipRepository()
		if err != nil {
			c.initErrors["membershipRepo"] = err
			return
		}
		c.membershipRepo = repo
	})
	if storedErr, exists := c.initErrors["membershipRepo"]; exists {
		return nil, storedErr
	}
	return c.membershipRepo, nil
}

// RoleRepository returns the role repository based on database driver.
func (c *Container) RoleRepository() (identityUseCase.RoleRepository, error) {
	c.roleRepoInit.Do(func() {
		repo, err := c.initRoleRepository()
		if err != nil {
			c.initErrors["roleRepo"] = err
			return
		}
		c.roleRepo = repo
	})
	if storedErr, exists := c.initErrors["roleRepo"]; exists {
		return nil, storedErr
	}
	return c.roleRepo, nil
}

// UserUseCase returns the user use case.
func (c *Container) UserUseCase() (identityUseCase.UserUseCase, error) {
	c.userUseCaseInit.Do(func() {
		useCase, err := c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
			return
		}
		c.userUseCase = useCase
	})
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// GroupUseCase returns the group use case.
func (c *Container) GroupUseCase() (identityUseCase.GroupUseCase, error) {
	c.groupUseCaseInit.Do(func() {
		useCase, err := c.initGroupUseCase()
		if err != nil {
			c.initErrors["groupUseCase"] = err
			return
		}
		c.groupUseCase = useCase
	})
	if storedErr, exists := c.initErrors["groupUseCase"]; exists {
		return nil, storedErr
	}
	return c.groupUseCase, nil
}

// RoleUseCase returns the role use case.
func (c *Container) RoleUseCase() (identityUseCase.RoleUseCase, error) {
	c.roleUseCaseInit.Do(func() {
		roleRepo, err := c.RoleRepository()
		if err != nil {
			c.initErrors["roleUseCase"] = fmt.Errorf("failed to get role repository for role use case: %w", err)
			return
		}
		c.roleUseCase = identityUseCase.NewRoleUseCase(roleRepo)
	})
	if storedErr, exists := c.initErrors["roleUseCase"]; exists {
		return nil, storedErr
	}
	return c.roleUseCase, nil
}

// UserHandler returns the HTTP handler for user operations.
func (c *Container) UserHandler() (*identityHTTP.UserHandler, error) {
	c.userHandlerInit.Do(func() {
		handler, err := c.initUserHandler()
		if err != nil {
			c.initErrors["userHandler"] = err
			return
		}
		c.userHandler = handler
	})
	if storedErr, exists := c.initErrors["userHandler"]; exists {
		return nil, storedErr
	}
	return c.userHandler, nil
}

// GroupHandler returns the HTTP handler for group operations.
func (c *Container) GroupHandler() (*identityHTTP.GroupHandler, error) {
	c.groupHandlerInit.Do(func() {
		groupUseCase, err := c.GroupUseCase()
		if err != nil {
			c.initErrors["groupHandler"] = fmt.Errorf("failed to get group use case for group handler: %w", err)
			return
		}
		c.groupHandler = identityHTTP.NewGroupHandler(groupUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["groupHandler"]; exists {
		return nil, storedErr
	}
	return c.groupHandler, nil
}

// RoleHandler returns the HTTP handler for the role catalog.
func (c *Container) RoleHandler() (*identityHTTP.RoleHandler, error) {
	c.roleHandlerInit.Do(func() {
		roleUseCase, err := c.RoleUseCase()
		if err != nil {
			c.initErrors["roleHandler"] = fmt.Errorf("failed to get role use case for role handler: %w", err)
			return
		}
		c.roleHandler = identityHTTP.NewRoleHandler(roleUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["roleHandler"]; exists {
		return nil, storedErr
	}
	return c.roleHandler, nil
}

// initUserRepository creates the user repository based on the database driver.
func (c *Container) initUserRepository() (identityUseCase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return identityRepository.NewPostgreSQLUserRepository(db), nil
	case "mysql":
		return identityRepository.NewMySQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initGroupRepository creates the group repository based on the database driver.
func (c *Container) initGroupRepository() (identityUseCase.GroupRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for group repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return identityRepository.NewPostgreSQLGroupRepository(db), nil
	case "mysql":
		return identityRepository.NewMySQLGroupRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initMembershipRepository creates the membership repository based on the database driver.
func (c *Container) initMembershipRepository() (identityUseCase.MembershipRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for membership repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return identityRepository.NewPostgreSQLMembershipRepository(db), nil
	case "mysql":
		return identityRepository.NewMySQLMembershipRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRoleRepository creates the role repository based on the database driver.
func (c *Container) initRoleRepository() (identityUseCase.RoleRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for role repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return identityRepository.NewPostgreSQLRoleRepository(db), nil
	case "mysql":
		return identityRepository.NewMySQLRoleRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initUserUseCase creates the user use case with all its dependencies.
func (c *Container) initUserUseCase() (identityUseCase.UserUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	resourceRepo, err := c.ResourceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource repository for user use case: %w", err)
	}

	resourceCounter := &ownedResourceCounter{resourceRepo: resourceRepo}

	useCase, err := identityUseCase.NewUserUseCase(txManager, userRepo, resourceCounter)
	if err != nil {
		return nil, fmt.Errorf("failed to create user use case: %w", err)
	}

	return useCase, nil
}

// initGroupUseCase creates the group use case with all its dependencies.
func (c *Container) initGroupUseCase() (identityUseCase.GroupUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for group use case: %w", err)
	}

	groupRepo, err := c.GroupRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get group repository for group use case: %w", err)
	}

	membershipRepo, err := c.MembershipRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get membership repository for group use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for group use case: %w", err)
	}

	roleRepo, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for group use case: %w", err)
	}

	resourceRepo, err := c.ResourceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource repository for group use case: %w", err)
	}

	resourceCounter := &ownedResourceCounter{resourceRepo: resourceRepo}

	return identityUseCase.NewGroupUseCase(txManager, groupRepo, membershipRepo, userRepo, roleRepo, resourceCounter), nil
}

// initUserHandler creates the user HTTP handler with all its dependencies.
func (c *Container) initUserHandler() (*identityHTTP.UserHandler, error) {
	userUseCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for user handler: %w", err)
	}

	groupUseCase, err := c.GroupUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get group use case for user handler: %w", err)
	}

	return identityHTTP.NewUserHandler(userUseCase, groupUseCase, c.Logger()), nil
}

// ownedResourceCounter adapts the entitlement resource repository to the
// identity context's resource counter, so user and group deletion can refuse
// to orphan owned resources.
type ownedResourceCounter struct {
	resourceRepo entitlementUseCase.ResourceRepository
}

func (o *ownedResourceCounter) CountUserResources(ctx context.Context, userID uuid.UUID) (int64, error) {
	return o.resourceRepo.CountByOwner(ctx, entitlementDomain.OwnerKindUser, userID)
}

func (o *ownedResourceCounter) CountGroupResources(ctx context.Context, groupID uuid.UUID) (int64, error) {
	return o.resourceRepo.CountByOwner(ctx, entitlementDomain.OwnerKindGroup, groupID)
}
