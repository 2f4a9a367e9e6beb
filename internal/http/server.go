// Package http provides the HTTP server, router, and middleware for the
// entitlement API.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	entitlementHTTP "github.com/allisson/entitlements/internal/entitlement/http"
	identityHTTP "github.com/allisson/entitlements/internal/identity/http"
	"github.com/allisson/entitlements/internal/metrics"
	pipelineHTTP "github.com/allisson/entitlements/internal/pipeline/http"
)

// RouterConfig holds the handlers and options needed to build the API router.
type RouterConfig struct {
	UserHandler     *identityHTTP.UserHandler
	GroupHandler    *identityHTTP.GroupHandler
	RoleHandler     *identityHTTP.RoleHandler
	ResourceHandler *entitlementHTTP.ResourceHandler
	AccessHandler   *entitlementHTTP.AccessHandler
	ApprovalHandler *entitlementHTTP.ApprovalHandler
	PipelineHandler *pipelineHTTP.PipelineHandler

	Logger *slog.Logger
	// DB is pinged by the readiness endpoint.
	DB *sql.DB

	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int

	CORSEnabled      bool
	CORSAllowOrigins string

	MetricsProvider  *metrics.Provider
	MetricsNamespace string
}

// NewRouter builds the gin engine with all API routes and middleware.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(CustomLoggerMiddleware(cfg.Logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, cfg.Logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	// Health and readiness stay outside caller identification so probes do not
	// need a user header.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if cfg.DB != nil {
			if err := cfg.DB.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	v1 := router.Group("/v1")
	v1.Use(CallerIdentityMiddleware(cfg.Logger))
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, cfg.Logger))
	}

	// Identity: users, groups, and the role catalog.
	v1.POST("/users", cfg.UserHandler.CreateHandler)
	v1.GET("/users", cfg.UserHandler.ListHandler)
	v1.GET("/users/:id", cfg.UserHandler.GetHandler)
	v1.PUT("/users/:id", cfg.UserHandler.UpdateHandler)
	v1.DELETE("/users/:id", cfg.UserHandler.DeleteHandler)
	v1.GET("/users/:id/groups", cfg.UserHandler.ListGroupsHandler)
	v1.GET("/users/:id/approvals", cfg.ApprovalHandler.ListRequestedByHandler)

	v1.POST("/groups", cfg.GroupHandler.CreateHandler)
	v1.GET("/groups", cfg.GroupHandler.ListHandler)
	v1.GET("/groups/:id", cfg.GroupHandler.GetHandler)
	v1.DELETE("/groups/:id", cfg.GroupHandler.DeleteHandler)
	v1.POST("/groups/:id/members", cfg.GroupHandler.AddMemberHandler)
	v1.GET("/groups/:id/members", cfg.GroupHandler.ListMembersHandler)
	v1.DELETE("/groups/:id/members/:userId", cfg.GroupHandler.RemoveMemberHandler)
	v1.PUT("/groups/:id/members/:userId/role", cfg.GroupHandler.ChangeRoleHandler)
	v1.GET("/groups/:id/members/:userId/role", cfg.GroupHandler.GetMemberRoleHandler)

	v1.GET("/roles", cfg.RoleHandler.ListHandler)

	// Entitlements: the resource registry, access checks, and approvals.
	v1.POST("/resources", cfg.ResourceHandler.RegisterHandler)
	v1.GET("/resources", cfg.ResourceHandler.ListHandler)
	v1.GET("/resources/:id", cfg.ResourceHandler.GetHandler)
	v1.GET("/resources/:id/approvals/pending", cfg.ApprovalHandler.ListPendingByResourceHandler)

	v1.POST("/access/check", cfg.AccessHandler.CheckHandler)

	v1.POST("/approvals", cfg.ApprovalHandler.CreateHandler)
	v1.POST("/approvals/:id/approve", cfg.ApprovalHandler.ApproveHandler)
	v1.POST("/approvals/:id/reject", cfg.ApprovalHandler.RejectHandler)

	// Pipelines: the protected domain surface.
	v1.POST("/pipelines", cfg.PipelineHandler.CreateHandler)
	v1.GET("/pipelines", cfg.PipelineHandler.ListHandler)
	v1.GET("/pipelines/:id", cfg.PipelineHandler.GetHandler)
	v1.PUT("/pipelines/:id", cfg.PipelineHandler.UpdateHandler)
	v1.DELETE("/pipelines/:id", cfg.PipelineHandler.DeleteHandler)
	v1.POST("/pipelines/:id/publish", cfg.PipelineHandler.PublishHandler)

	return router
}

// Server represents the HTTP server for the entitlement API.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server around the given router.
func NewServer(host string, port int, router *gin.Engine, logger *slog.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
