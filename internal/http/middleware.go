package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/entitlements/internal/errors"
	"github.com/allisson/entitlements/internal/httputil"
)

// callerIDHeader carries the caller identity. Authentication happens upstream;
// the API trusts the header the gateway injects.
const callerIDHeader = "X-User-Id"

// RequestIDMiddleware assigns each request a UUIDv7 id, echoed back in the
// X-Request-Id header.
func RequestIDMiddleware() gin.HandlerFunc {
	return requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	}))
}

// CustomLoggerMiddleware logs HTTP requests with method, path, status, and duration.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", c.ClientIP()),
		}
		if requestID := requestid.Get(c); requestID != "" {
			attrs = append(attrs, slog.String("request_id", requestID))
		}

		logger.Info("http request", attrs...)
	}
}

// CallerIdentityMiddleware resolves the caller from the X-User-Id header and
// stores it in the request context for handlers to read via GetCallerID.
//
// Returns 401 Unauthorized when the header is missing or not a valid UUID.
func CallerIdentityMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(callerIDHeader)
		if header == "" {
			logger.Debug("caller identity missing")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		callerID, err := uuid.Parse(header)
		if err != nil || callerID == uuid.Nil {
			logger.Debug("caller identity malformed", slog.String("header", header))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := httputil.WithCallerID(c.Request.Context(), callerID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
