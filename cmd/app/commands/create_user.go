package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/allisson/entitlements/internal/app"
	"github.com/allisson/entitlements/internal/config"
	identityUseCase "github.com/allisson/entitlements/internal/identity/usecase"
)

// RunCreateUser creates a user account from the command line. Useful for
// bootstrapping: every API call needs an existing caller, so the first user
// has to come from somewhere other than the API.
func RunCreateUser(ctx context.Context, username, email, phone, password, format string) error {
	return runCreateUser(ctx, username, email, phone, password, format, os.Stdout)
}

func runCreateUser(
	ctx context.Context,
	username, email, phone, password, format string,
	out io.Writer,
) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	userUseCase, err := container.UserUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize user use case: %w", err)
	}

	user, err := userUseCase.Create(ctx, identityUseCase.CreateUserInput{
		Username: username,
		Email:    email,
		Phone:    phone,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username),
	)

	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]string{
			"id":       user.ID.String(),
			"username": user.Username,
			"email":    user.Email,
		})
	default:
		fmt.Fprintf(out, "User created\n")
		fmt.Fprintf(out, "  ID:       %s\n", user.ID)
		fmt.Fprintf(out, "  Username: %s\n", user.Username)
		fmt.Fprintf(out, "  Email:    %s\n", user.Email)
		return nil
	}
}
