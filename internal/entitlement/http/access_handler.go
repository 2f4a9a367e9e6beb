package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/entitlement/domain"
	"github.com/allisson/entitlements/internal/entitlement/http/dto"
	"github.com/allisson/entitlements/internal/entitlement/usecase"
	"github.com/allisson/entitlements/internal/httputil"
	customValidation "github.com/allisson/entitlements/internal/validation"
)

// AccessHandler handles HTTP requests for access decisions.
type AccessHandler struct {
	accessUseCase usecase.AccessUseCase
	logger        *slog.Logger
}

// NewAccessHandler creates a new access handler.
func NewAccessHandler(accessUseCase usecase.AccessUseCase, logger *slog.Logger) *AccessHandler {
	return &AccessHandler{
		accessUseCase: accessUseCase,
		logger:        logger,
	}
}

// CheckHandler evaluates (user, resource, operation) and returns the decision.
// Denials are part of the response body, not HTTP errors, so adapters can
// pre-flight operations and branch on the effect.
// POST /v1/access/check - Returns 200 OK with the decision.
func (h *AccessHandler) CheckHandler(c *gin.Context) {
	var req dto.CheckAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	operation, err := domain.ParseOperation(req.Operation)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	decision, err := h.accessUseCase.Authorize(
		c.Request.Context(),
		uuid.MustParse(req.UserID),
		uuid.MustParse(req.ResourceID),
		operation,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToDecisionResponse(decision))
}
