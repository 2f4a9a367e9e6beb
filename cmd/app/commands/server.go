package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/entitlements/internal/app"
	"github.com/allisson/entitlements/internal/config"
)

// shutdownTimeout bounds how long in-flight requests get to finish once a
// stop signal arrives.
const shutdownTimeout = 30 * time.Second

// stoppable is satisfied by both the API server and the metrics server.
type stoppable interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// RunServer runs the API server, and the metrics server when enabled, until
// SIGINT/SIGTERM or a fatal server error. Either way both servers are drained
// before returning.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))
	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	servers := []stoppable{server}
	if cfg.MetricsEnabled {
		ms, err := container.MetricsServer()
		if err != nil {
			return fmt.Errorf("failed to initialize metrics server: %w", err)
		}
		servers = append(servers, ms)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverErr := make(chan error, len(servers))
	for _, s := range servers {
		go func() {
			if err := s.Start(ctx); err != nil {
				serverErr <- err
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-serverErr:
		logger.Error("server error, initiating shutdown", slog.Any("error", runErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	errs := []error{runErr}
	for _, s := range servers {
		if err := s.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}
