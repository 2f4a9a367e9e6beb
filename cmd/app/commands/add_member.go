package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/app"
	"github.com/allisson/entitlements/internal/config"
	identityUseCase "github.com/allisson/entitlements/internal/identity/usecase"
)

// RunAddMember enrolls a user in a group with a role from the command line.
func RunAddMember(ctx context.Context, groupID, username, role string) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	parsedGroupID, err := uuid.Parse(groupID)
	if err != nil {
		return fmt.Errorf("invalid group id %q: %w", groupID, err)
	}

	userUseCase, err := container.UserUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize user use case: %w", err)
	}

	groupUseCase, err := container.GroupUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize group use case: %w", err)
	}

	user, err := userUseCase.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to look up user %q: %w", username, err)
	}

	membership, err := groupUseCase.AddMember(ctx, parsedGroupID, identityUseCase.AddMemberInput{
		UserID: user.ID,
		Role:   role,
	})
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	logger.Info("member added",
		slog.String("group_id", membership.GroupID.String()),
		slog.String("user_id", membership.UserID.String()),
		slog.String("role", role),
	)

	fmt.Fprintf(os.Stdout, "Member added\n")
	fmt.Fprintf(os.Stdout, "  Group: %s\n", membership.GroupID)
	fmt.Fprintf(os.Stdout, "  User:  %s\n", user.Username)
	fmt.Fprintf(os.Stdout, "  Role:  %s\n", role)
	return nil
}
