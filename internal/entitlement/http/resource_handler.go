// Package http provides HTTP handlers for the entitlement API: the resource
// registry, the access check endpoint, and the approval workflow.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/entitlement/domain"
	"github.com/allisson/entitlements/internal/entitlement/http/dto"
	"github.com/allisson/entitlements/internal/entitlement/usecase"
	apperrors "github.com/allisson/entitlements/internal/errors"
	"github.com/allisson/entitlements/internal/httputil"
	customValidation "github.com/allisson/entitlements/internal/validation"
)

// ResourceHandler handles HTTP requests for the resource ownership registry.
type ResourceHandler struct {
	resourceUseCase usecase.ResourceUseCase
	logger          *slog.Logger
}

// NewResourceHandler creates a new resource handler.
func NewResourceHandler(resourceUseCase usecase.ResourceUseCase, logger *slog.Logger) *ResourceHandler {
	return &ResourceHandler{
		resourceUseCase: resourceUseCase,
		logger:          logger,
	}
}

// RegisterHandler registers a domain object under an owner.
// POST /v1/resources - Returns 201 Created with the entitlement record.
func (h *ResourceHandler) RegisterHandler(c *gin.Context) {
	callerID, ok := httputil.GetCallerID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.RegisterResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ownerKind, err := domain.ParseOwnerKind(req.OwnerKind)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	resource, err := h.resourceUseCase.Register(c.Request.Context(), usecase.RegisterResourceInput{
		Kind:       req.Kind,
		ExternalID: uuid.MustParse(req.ExternalID),
		OwnerKind:  ownerKind,
		OwnerID:    uuid.MustParse(req.OwnerID),
	}, callerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToResourceResponse(resource))
}

// GetHandler retrieves an entitlement record by ID.
// GET /v1/resources/:id - Returns 200 OK with the record.
func (h *ResourceHandler) GetHandler(c *gin.Context) {
	resourceID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	resource, err := h.resourceUseCase.Get(c.Request.Context(), resourceID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToResourceResponse(resource))
}

// ListHandler lists entitlement records filtered by owner or by kind.
// GET /v1/resources?owner_kind=GROUP&owner_id=<uuid> filters by owner;
// GET /v1/resources?kind=pipeline filters by kind. One filter is required.
func (h *ResourceHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	ownerKindStr := c.Query("owner_kind")
	ownerIDStr := c.Query("owner_id")
	kind := c.Query("kind")

	switch {
	case ownerKindStr != "" || ownerIDStr != "":
		ownerKind, err := domain.ParseOwnerKind(ownerKindStr)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		ownerID, err := uuid.Parse(ownerIDStr)
		if err != nil {
			httputil.HandleValidationErrorGin(c,
				fmt.Errorf("invalid owner_id format: must be a valid UUID"), h.logger)
			return
		}

		resources, err := h.resourceUseCase.ListByOwner(c.Request.Context(), ownerKind, ownerID, offset, limit)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, gin.H{"resources": dto.ToResourceResponses(resources)})

	case kind != "":
		resources, err := h.resourceUseCase.ListByKind(c.Request.Context(), kind, offset, limit)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, gin.H{"resources": dto.ToResourceResponses(resources)})

	default:
		httputil.HandleBadRequestGin(c,
			fmt.Errorf("either kind or owner_kind/owner_id query parameters are required"), h.logger)
	}
}

// parseIDParam parses a UUID path parameter.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s format: must be a valid UUID", name)
	}
	return id, nil
}
