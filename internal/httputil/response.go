// Package httputil holds the request/response helpers shared by every HTTP
// handler: error-to-status mapping, pagination parsing, and caller identity
// plumbing.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/entitlements/internal/errors"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// statusMappings orders the sentinel checks; first match wins.
var statusMappings = []struct {
	sentinel error
	status   int
	code     string
}{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
	{apperrors.ErrConflict, http.StatusConflict, "conflict"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
}

// HandleErrorGin maps a use case error onto an HTTP status and JSON body.
// Errors wrapping a known sentinel surface their message to the client;
// anything else becomes an opaque 500 so internals never leak.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	status := http.StatusInternalServerError
	body := ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}

	for _, m := range statusMappings {
		if apperrors.Is(err, m.sentinel) {
			status = m.status
			body = ErrorResponse{Error: m.code, Message: err.Error()}
			break
		}
	}

	if status == http.StatusUnauthorized {
		body.Message = "A valid caller identity is required"
	}

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", status),
			slog.String("error_code", body.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(status, body)
}

// HandleBadRequestGin responds 400 for malformed JSON bodies or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin responds 422 for input validation failures.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "invalid_input",
		Message: err.Error(),
	})
}
