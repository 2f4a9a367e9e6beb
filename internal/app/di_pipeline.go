package app

import (
	"fmt"

	pipelineHTTP "github.com/allisson/entitlements/internal/pipeline/http"
	pipelineRepository "github.com/allisson/entitlements/internal/pipeline/repository"
	pipelineUseCase "github.com/allisson/entitlements/internal/pipeline/usecase"
)

// PipelineRepository returns the pipeline repository based on database driver.
func (c *Container) PipelineRepository() (pipelineUseCase.PipelineRepository, error) {
	c.pipelineRepoInit.Do(func() {
		repo, err := c.initPipelineRepository()
		if err != nil {
			c.initErrors["pipelineRepo"] = err
			return
		}
		c.pipelineRepo = repo
	})
	if storedErr, exists := c.initErrors["pipelineRepo"]; exists {
		return nil, storedErr
	}
	return c.pipelineRepo, nil
}

// PipelineUseCase returns the pipeline lifecycle use case.
func (c *Container) PipelineUseCase() (pipelineUseCase.PipelineUseCase, error) {
	c.pipelineUseCaseInit.Do(func() {
		useCase, err := c.initPipelineUseCase()
		if err != nil {
			c.initErrors["pipelineUseCase"] = err
			return
		}
		c.pipelineUseCase = useCase
	})
	if storedErr, exists := c.initErrors["pipelineUseCase"]; exists {
		return nil, storedErr
	}
	return c.pipelineUseCase, nil
}

// PipelineHandler returns the HTTP handler for pipeline operations.
func (c *Container) PipelineHandler() (*pipelineHTTP.PipelineHandler, error) {
	c.pipelineHandlerInit.Do(func() {
		useCase, err := c.PipelineUseCase()
		if err != nil {
			c.initErrors["pipelineHandler"] = fmt.Errorf("failed to get pipeline use case for pipeline handler: %w", err)
			return
		}
		c.pipelineHandler = pipelineHTTP.NewPipelineHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["pipelineHandler"]; exists {
		return nil, storedErr
	}
	return c.pipelineHandler, nil
}

// initPipelineRepository creates the pipeline repository based on the database driver.
func (c *Container) initPipelineRepository() (pipelineUseCase.PipelineRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for pipeline repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return pipelineRepository.NewPostgreSQLPipelineRepository(db), nil
	case "mysql":
		return pipelineRepository.NewMySQLPipelineRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPipelineUseCase creates the pipeline use case with all its dependencies.
func (c *Container) initPipelineUseCase() (pipelineUseCase.PipelineUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for pipeline use case: %w", err)
	}

	pipelineRepo, err := c.PipelineRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get pipeline repository for pipeline use case: %w", err)
	}

	resourceUseCase, err := c.ResourceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource use case for pipeline use case: %w", err)
	}

	accessUseCase, err := c.AccessUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get access use case for pipeline use case: %w", err)
	}

	approvalUseCase, err := c.ApprovalUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get approval use case for pipeline use case: %w", err)
	}

	return pipelineUseCase.NewPipelineUseCase(txManager, pipelineRepo, resourceUseCase, accessUseCase, approvalUseCase), nil
}
