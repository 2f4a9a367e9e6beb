package http

import (
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

// ApprovalHandler handles HTTP requests for the approval workflow.
type ApprovalHandler struct {
	approvalUseCase usecase.ApprovalUseCase
	logger          *slog.Logger
}

// NewApprovalHandler creates a new approval handler.
func NewApprovalHandler(approvalUseCase usecase.ApprovalUseCase, logger *slog.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		approvalUseCase: approvalUseCase,
		logger:          logger,
	}
}

// CreateHandler files a pending approval request with the caller as requester.
// POST /v1/approvals - Returns 201 Created with the pending approval.
func (h *ApprovalHandler) CreateHandler(c *gin.Context) {
	callerID, ok := httputil.GetCallerID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateApprovalRequest
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

	approval, err := h.approvalUseCase.Create(c.Request.Context(), usecase.CreateApprovalInput{
		ResourceID:  uuid.MustParse(req.ResourceID),
		Operation:   operation,
		RequesterID: callerID,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToApprovalResponse(approval))
}

// ApproveHandler resolves a pending approval as approved, with the caller as
// approver.
// POST /v1/approvals/:id/approve - Returns 200 OK with the resolved approval.
func (h *ApprovalHandler) ApproveHandler(c *gin.Context) {
	h.resolve(c, domain.ApprovalStatusApproved)
}

// RejectHandler resolves a pending approval as rejected, with the caller as
// approver.
// POST /v1/approvals/:id/reject - Returns 200 OK with the resolved approval.
func (h *ApprovalHandler) RejectHandler(c *gin.Context) {
	h.resolve(c, domain.ApprovalStatusRejected)
}

// resolve transitions the approval to the given terminal outcome.
func (h *ApprovalHandler) resolve(c *gin.Context, outcome domain.ApprovalStatus) {
	callerID, ok := httputil.GetCallerID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	approvalID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	approval, err := h.approvalUseCase.Resolve(c.Request.Context(), approvalID, callerID, outcome)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToApprovalResponse(approval))
}

// ListPendingByResourceHandler lists pending approvals targeting a resource.
// GET /v1/resources/:id/approvals/pending - Returns 200 OK with the list.
func (h *ApprovalHandler) ListPendingByResourceHandler(c *gin.Context) {
	resourceID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	approvals, err := h.approvalUseCase.ListPending(c.Request.Context(), resourceID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"approvals": dto.ToApprovalResponses(approvals)})
}

// ListRequestedByHandler lists approvals filed by a user, all statuses.
// GET /v1/users/:id/approvals - Returns 200 OK with the list.
func (h *ApprovalHandler) ListRequestedByHandler(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	approvals, err := h.approvalUseCase.ListRequestedBy(c.Request.Context(), userID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"approvals": dto.ToApprovalResponses(approvals)})
}
