package app

import (
	"fmt"

	entitlementHTTP "github.com/allisson/entitlements/internal/entitlement/http"
	entitlementRepository "github.com/allisson/entitlements/internal/entitlement/repository"
	entitlementUseCase "github.com/allisson/entitlements/internal/entitlement/usecase"
)

// ResourceRepository returns the resource repository based on database driver.
func (c *Container) ResourceRepository() (entitlementUseCase.ResourceRepository, error) {
	c.resourceRepoInit.Do(func() {
		repo, err := c.initResourceRepository()
		if err != nil {
			c.initErrors["resourceRepo"] = err
			return
		}
		c.resourceRepo = repo
	})
	if storedErr, exists := c.initErrors["resourceRepo"]; exists {
		return nil, storedErr
	}
	return c.resourceRepo, nil
}

// ApprovalRepository returns the approval repository based on database driver.
func (c *Container) ApprovalRepository() (entitlementUseCase.ApprovalRepository, error) {
	c.approvalRepoInit.Do(func() {
		repo, err := c.initApprovalRepository()
		if err != nil {
			c.initErrors["approvalRepo"] = err
			return
		}
		c.approvalRepo = repo
	})
	if storedErr, exists := c.initErrors["approvalRepo"]; exists {
		return nil, storedErr
	}
	return c.approvalRepo, nil
}

// ResourceUseCase returns the resource registry use case.
func (c *Container) ResourceUseCase() (entitlementUseCase.ResourceUseCase, error) {
	c.resourceUseCaseInit.Do(func() {
		useCase, err := c.initResourceUseCase()
		if err != nil {
			c.initErrors["resourceUseCase"] = err
			return
		}
		c.resourceUseCase = useCase
	})
	if storedErr, exists := c.initErrors["resourceUseCase"]; exists {
		return nil, storedErr
	}
	return c.resourceUseCase, nil
}

// AccessUseCase returns the access decision engine.
func (c *Container) AccessUseCase() (entitlementUseCase.AccessUseCase, error) {
	c.accessUseCaseInit.Do(func() {
		useCase, err := c.initAccessUseCase()
		if err != nil {
			c.initErrors["accessUseCase"] = err
			return
		}
		c.accessUseCase = useCase
	})
	if storedErr, exists := c.initErrors["accessUseCase"]; exists {
		return nil, storedErr
	}
	return c.accessUseCase, nil
}

// ApprovalUseCase returns the approval workflow use case.
func (c *Container) ApprovalUseCase() (entitlementUseCase.ApprovalUseCase, error) {
	c.approvalUseCaseInit.Do(func() {
		useCase, err := c.initApprovalUseCase()
		if err != nil {
			c.initErrors["approvalUseCase"] = err
			return
		}
		c.approvalUseCase = useCase
	})
	if storedErr, exists := c.initErrors["approvalUseCase"]; exists {
		return nil, storedErr
	}
	return c.approvalUseCase, nil
}

// ResourceHandler returns the HTTP handler for the resource registry.
func (c *Container) ResourceHandler() (*entitlementHTTP.ResourceHandler, error) {
	c.resourceHandlerInit.Do(func() {
		resourceUseCase, err := c.ResourceUseCase()
		if err != nil {
			c.initErrors["resourceHandler"] = fmt.Errorf("failed to get resource use case for resource handler: %w", err)
			return
		}
		c.resourceHandler = entitlementHTTP.NewResourceHandler(resourceUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["resourceHandler"]; exists {
		return nil, storedErr
	}
	return c.resourceHandler, nil
}

// AccessHandler returns the HTTP handler for access checks.
func (c *Container) AccessHandler() (*entitlementHTTP.AccessHandler, error) {
	c.accessHandlerInit.Do(func() {
		accessUseCase, err := c.AccessUseCase()
		if err != nil {
			c.initErrors["accessHandler"] = fmt.Errorf("failed to get access use case for access handler: %w", err)
			return
		}
		c.accessHandler = entitlementHTTP.NewAccessHandler(accessUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["accessHandler"]; exists {
		return nil, storedErr
	}
	return c.accessHandler, nil
}

// ApprovalHandler returns the HTTP handler for the approval workflow.
func (c *Container) ApprovalHandler() (*entitlementHTTP.ApprovalHandler, error) {
	c.approvalHandlerInit.Do(func() {
		approvalUseCase, err := c.ApprovalUseCase()
		if err != nil {
			c.initErrors["approvalHandler"] = fmt.Errorf("failed to get approval use case for approval handler: %w", err)
			return
		}
		c.approvalHandler = entitlementHTTP.NewApprovalHandler(approvalUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["approvalHandler"]; exists {
		return nil, storedErr
	}
	return c.approvalHandler, nil
}

// initResourceRepository creates the resource repository based on the database driver.
func (c *Container) initResourceRepository() (entitlementUseCase.ResourceRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for resource repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return entitlementRepository.NewPostgreSQLResourceRepository(db), nil
	case "mysql":
		return entitlementRepository.NewMySQLResourceRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initApprovalRepository creates the approval repository based on the database driver.
func (c *Container) initApprovalRepository() (entitlementUseCase.ApprovalRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for approval repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return entitlementRepository.NewPostgreSQLApprovalRepository(db), nil
	case "mysql":
		return entitlementRepository.NewMySQLApprovalRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initResourceUseCase creates the resource registry use case with all its dependencies.
func (c *Container) initResourceUseCase() (entitlementUseCase.ResourceUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for resource use case: %w", err)
	}

	resourceRepo, err := c.ResourceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource repository for resource use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for resource use case: %w", err)
	}

	groupRepo, err := c.GroupRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get group repository for resource use case: %w", err)
	}

	membershipRepo, err := c.MembershipRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get membership repository for resource use case: %w", err)
	}

	roleRepo, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for resource use case: %w", err)
	}

	return entitlementUseCase.NewResourceUseCase(txManager, resourceRepo, userRepo, groupRepo, membershipRepo, roleRepo), nil
}

// initAccessUseCase creates the access decision engine with all its dependencies.
func (c *Container) initAccessUseCase() (entitlementUseCase.AccessUseCase, error) {
	resourceRepo, err := c.ResourceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource repository for access use case: %w", err)
	}

	membershipRepo, err := c.MembershipRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get membership repository for access use case: %w", err)
	}

	roleRepo, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for access use case: %w", err)
	}

	baseUseCase := entitlementUseCase.NewAccessUseCase(resourceRepo, membershipRepo, roleRepo)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for access use case: %w", err)
		}
		return entitlementUseCase.NewAccessUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initApprovalUseCase creates the approval workflow use case with all its dependencies.
func (c *Container) initApprovalUseCase() (entitlementUseCase.ApprovalUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for approval use case: %w", err)
	}

	approvalRepo, err := c.ApprovalRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get approval repository for approval use case: %w", err)
	}

	resourceRepo, err := c.ResourceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource repository for approval use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for approval use case: %w", err)
	}

	membershipRepo, err := c.MembershipRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get membership repository for approval use case: %w", err)
	}

	roleRepo, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for approval use case: %w", err)
	}

	accessUseCase, err := c.AccessUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get access use case for approval use case: %w", err)
	}

	baseUseCase := entitlementUseCase.NewApprovalUseCase(
		txManager,
		approvalRepo,
		resourceRepo,
		userRepo,
		membershipRepo,
		roleRepo,
		accessUseCase,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for approval use case: %w", err)
		}
		return entitlementUseCase.NewApprovalUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
