// Package http provides HTTP handlers for the pipeline API, the domain
// surface protected by the entitlement engine.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/entitlements/internal/errors"
	"github.com/allisson/entitlements/internal/httputil"
	"github.com/allisson/entitlements/internal/pipeline/http/dto"
	"github.com/allisson/entitlements/internal/pipeline/usecase"
	customValidation "github.com/allisson/entitlements/internal/validation"
)

// PipelineHandler handles HTTP requests for pipelines.
type PipelineHandler struct {
	pipelineUseCase usecase.PipelineUseCase
	logger          *slog.Logger
}

// NewPipelineHandler creates a new pipeline handler.
func NewPipelineHandler(pipelineUseCase usecase.PipelineUseCase, logger *slog.Logger) *PipelineHandler {
	return &PipelineHandler{
		pipelineUseCase: pipelineUseCase,
		logger:          logger,
	}
}

// CreateHandler creates a pipeline owned by the caller or by a group.
// POST /v1/pipelines - Returns 201 Created with the pipeline.
func (h *PipelineHandler) CreateHandler(c *gin.Context) {
	callerID, ok := httputil.GetCallerID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreatePipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := usecase.CreatePipelineInput{
		Name:          req.Name,
		Description:   req.Description,
		Configuration: req.Configuration,
	}
	if req.GroupID != "" {
		groupID := uuid.MustParse(req.GroupID)
		input.GroupID = &groupID
	}

	pipeline, err := h.pipelineUseCase.Create(c.Request.Context(), input, callerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPipelineResponse(pipeline))
}

// GetHandler retrieves a pipeline, view-gated on the caller.
// GET /v1/pipelines/:id - Returns 200 OK with the pipeline.
func (h *PipelineHandler) GetHandler(c *gin.Context) {
	callerID, ok := httputil.GetCallerID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	pipelineID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	pipeline, err := h.pipelineUseCase.Get(c.Request.Context(), pipelineID, callerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPipelineResponse(pipeline))
}

// ListHandler lists the pipelines the caller may view.
// GET /v1/pipelines - Returns 200 OK with the list.
func (h *PipelineHandler) ListHandler(c *gin.Context) {
	callerID, ok := httputil.GetCallerID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	pipelines, err := h.pipelineUseCase.List(c.Request.Context(), callerID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pipelines": dto.ToPipelineResponses(pipelines)})
}

// UpdateHandler mutates a pipeline, update-gated on the caller.
// PUT /v1/pipelines/:id - Returns 200 OK with the updated pipeline.
func (h *PipelineHandler) UpdateHandler(c *gin.Context) {
	callerID, ok := httputil.GetCallerID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	pipelineID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdatePipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	pipeline, err := h.pipelineUseCase.Update(c.Request.Context(), pipelineID, usecase.UpdatePipelineInput{
		Name:          req.Name,
		Description:   req.Description,
		Configuration: req.Configuration,
	}, callerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPipelineResponse(pipeline))
}

// DeleteHandler removes a pipeline, delete-gated on the caller.
// DELETE /v1/pipelines/:id - Returns 204 No Content when deleted, or
// 202 Accepted with the pending approval when the operation is parked.
func (h *PipelineHandler) DeleteHandler(c *gin.Context) {
	callerID, ok := httputil.GetCallerID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	pipelineID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	pending, err := h.pipelineUseCase.Delete(c.Request.Context(), pipelineID, callerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if pending != nil {
		c.JSON(http.StatusAccepted, dto.ToPendingApprovalResponse(pending))
		return
	}

	c.Status(http.StatusNoContent)
}

// PublishHandler promotes a draft pipeline to published, publish-gated.
// POST /v1/pipelines/:id/publish - Returns 200 OK with the published pipeline,
// or 202 Accepted with the pending approval when the operation is parked.
func (h *PipelineHandler) PublishHandler(c *gin.Context) {
	callerID, ok := httputil.GetCallerID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	pipelineID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	pipeline, pending, err := h.pipelineUseCase.Publish(c.Request.Context(), pipelineID, callerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if pending != nil {
		c.JSON(http.StatusAccepted, dto.ToPendingApprovalResponse(pending))
		return
	}

	c.JSON(http.StatusOK, dto.ToPipelineResponse(pipeline))
}

// parseIDParam parses a UUID path parameter.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s format: must be a valid UUID", name)
	}
	return id, nil
}
