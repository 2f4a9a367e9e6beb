package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/entitlements/internal/httputil"
	"github.com/allisson/entitlements/internal/identity/http/dto"
	"github.com/allisson/entitlements/internal/identity/usecase"
)

// RoleHandler handles HTTP requests for the read-only role catalog.
type RoleHandler struct {
	roleUseCase usecase.RoleUseCase
	logger      *slog.Logger
}

// NewRoleHandler creates a new role handler.
func NewRoleHandler(roleUseCase usecase.RoleUseCase, logger *slog.Logger) *RoleHandler {
	return &RoleHandler{
		roleUseCase: roleUseCase,
		logger:      logger,
	}
}

// ListHandler lists the role catalog.
// GET /v1/roles - Returns 200 OK with the catalog.
func (h *RoleHandler) ListHandler(c *gin.Context) {
	roles, err := h.roleUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": dto.ToRoleResponses(roles)})
}
