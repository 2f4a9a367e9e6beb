package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/entitlements/internal/errors"
	"github.com/allisson/entitlements/internal/httputil"
	"github.com/allisson/entitlements/internal/identity/domain"
	"github.com/allisson/entitlements/internal/identity/http/dto"
	"github.com/allisson/entitlements/internal/identity/usecase"
	customValidation "github.com/allisson/entitlements/internal/validation"
)

// GroupHandler handles HTTP requests for group and membership administration.
type GroupHandler struct {
	groupUseCase usecase.GroupUseCase
	logger       *slog.Logger
}

// NewGroupHandler creates a new group handler.
func NewGroupHandler(groupUseCase usecase.GroupUseCase, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{
		groupUseCase: groupUseCase,
		logger:       logger,
	}
}

// CreateHandler creates a group with the caller enrolled as its OWNER.
// POST /v1/groups - Returns 201 Created with the group data.
func (h *GroupHandler) CreateHandler(c *gin.Context) {
	callerID, ok := httputil.GetCallerID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	group, err := h.groupUseCase.Create(c.Request.Context(), usecase.CreateGroupInput{Name: req.Name}, callerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGroupResponse(group))
}

// GetHandler retrieves a group by ID.
// GET /v1/groups/:id - Returns 200 OK with the group data.
func (h *GroupHandler) GetHandler(c *gin.Context) {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	group, err := h.groupUseCase.Get(c.Request.Context(), groupID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// ListHandler lists groups with pagination.
// GET /v1/groups - Returns 200 OK with the group list.
func (h *GroupHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	groups, err := h.groupUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": dto.ToGroupResponses(groups)})
}

// DeleteHandler removes a group. Fails with 409 while the group still owns
// resources.
// DELETE /v1/groups/:id - Returns 204 No Content.
func (h *GroupHandler) DeleteHandler(c *gin.Context) {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.groupUseCase.Delete(c.Request.Context(), groupID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddMemberHandler enrolls a user in a group with a role.
// POST /v1/groups/:id/members - Returns 201 Created with the membership data.
func (h *GroupHandler) AddMemberHandler(c *gin.Context) {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	membership, err := h.groupUseCase.AddMember(c.Request.Context(), groupID, usecase.AddMemberInput{
		UserID: userID,
		Role:   req.Role,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	roleName, _ := domain.ParseRoleName(req.Role)
	c.JSON(http.StatusCreated, dto.ToMembershipResponse(membership, roleName))
}

// RemoveMemberHandler removes a user from a group.
// DELETE /v1/groups/:id/members/:userId - Returns 204 No Content.
func (h *GroupHandler) RemoveMemberHandler(c *gin.Context) {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	userID, err := parseIDParam(c, "userId")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.groupUseCase.RemoveMember(c.Request.Context(), groupID, userID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ChangeRoleHandler replaces the role of an existing member.
// PUT /v1/groups/:id/members/:userId - Returns 200 OK with the membership data.
func (h *GroupHandler) ChangeRoleHandler(c *gin.Context) {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	userID, err := parseIDParam(c, "userId")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	membership, err := h.groupUseCase.ChangeRole(c.Request.Context(), groupID, userID, req.Role)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	roleName, _ := domain.ParseRoleName(req.Role)
	c.JSON(http.StatusOK, dto.ToMembershipResponse(membership, roleName))
}

// ListMembersHandler lists the group's members with their roles.
// GET /v1/groups/:id/members - Returns 200 OK with the member list.
func (h *GroupHandler) ListMembersHandler(c *gin.Context) {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	members, err := h.groupUseCase.ListMembers(c.Request.Context(), groupID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToMemberResponses(members)})
}

// GetMemberRoleHandler returns the role a user holds in a group.
// GET /v1/groups/:id/members/:userId/role - Returns 200 OK with the role.
func (h *GroupHandler) GetMemberRoleHandler(c *gin.Context) {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	userID, err := parseIDParam(c, "userId")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	role, err := h.groupUseCase.GetMemberRole(c.Request.Context(), groupID, userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MemberRoleResponse{
		UserID:  userID,
		GroupID: groupID,
		Role:    role.String(),
	})
}
