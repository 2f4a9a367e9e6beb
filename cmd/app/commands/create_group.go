package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/allisson/entitlements/internal/app"
	"github.com/allisson/entitlements/internal/config"
	identityUseCase "github.com/allisson/entitlements/internal/identity/usecase"
)

// RunCreateGroup creates a group from the command line, enrolling the given
// user as its OWNER.
func RunCreateGroup(ctx context.Context, name, ownerUsername string) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	userUseCase, err := container.UserUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize user use case: %w", err)
	}

	groupUseCase, err := container.GroupUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize group use case: %w", err)
	}

	owner, err := userUseCase.GetByUsername(ctx, ownerUsername)
	if err != nil {
		return fmt.Errorf("failed to look up owner %q: %w", ownerUsername, err)
	}

	group, err := groupUseCase.Create(ctx, identityUseCase.CreateGroupInput{Name: name}, owner.ID)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	logger.Info("group created",
		slog.String("group_id", group.ID.String()),
		slog.String("name", group.Name),
		slog.String("owner", owner.Username),
	)

	fmt.Fprintf(os.Stdout, "Group created\n")
	fmt.Fprintf(os.Stdout, "  ID:    %s\n", group.ID)
	fmt.Fprintf(os.Stdout, "  Name:  %s\n", group.Name)
	fmt.Fprintf(os.Stdout, "  Owner: %s\n", owner.Username)
	return nil
}
