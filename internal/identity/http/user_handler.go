// Package http provides HTTP handlers for identity administration.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/httputil"
	"github.com/allisson/entitlements/internal/identity/http/dto"
	"github.com/allisson/entitlements/internal/identity/usecase"
	customValidation "github.com/allisson/entitlements/internal/validation"
)

// UserHandler handles HTTP requests for user administration.
type UserHandler struct {
	userUseCase  usecase.UserUseCase
	groupUseCase usecase.GroupUseCase
	logger       *slog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(
	userUseCase usecase.UserUseCase,
	groupUseCase usecase.GroupUseCase,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		userUseCase:  userUseCase,
		groupUseCase: groupUseCase,
		logger:       logger,
	}
}

// CreateHandler creates a new user account.
// POST /v1/users - Returns 201 Created with the user data.
func (h *UserHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.userUseCase.Create(c.Request.Context(), dto.ToCreateUserInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// GetHandler retrieves a user by ID.
// GET /v1/users/:id - Returns 200 OK with the user data.
func (h *UserHandler) GetHandler(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Get(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// UpdateHandler updates a user's contact details or password.
// PUT /v1/users/:id - Returns 200 OK with the updated user data.
func (h *UserHandler) UpdateHandler(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.userUseCase.Update(c.Request.Context(), userID, dto.ToUpdateUserInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// DeleteHandler removes a user account.
// DELETE /v1/users/:id - Returns 204 No Content.
func (h *UserHandler) DeleteHandler(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.userUseCase.Delete(c.Request.Context(), userID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListHandler lists users with pagination.
// GET /v1/users - Returns 200 OK with the user list.
func (h *UserHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	users, err := h.userUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserResponses(users)})
}

// ListGroupsHandler lists the groups a user belongs to.
// GET /v1/users/:id/groups - Returns 200 OK with the group list.
func (h *UserHandler) ListGroupsHandler(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	groups, err := h.groupUseCase.ListGroupsByUser(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": dto.ToGroupResponses(groups)})
}

// parseIDParam parses a UUID path parameter.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s format: must be a valid UUID", name)
	}
	return id, nil
}
