package httputil

import (
	"context"

	"github.com/google/uuid"
)

// callerKey is a context key type for storing the caller identity.
type callerKey struct{}

// WithCallerID stores the caller identity in the context.
// Called by the caller identity middleware after parsing the X-User-Id header.
func WithCallerID(ctx context.Context, callerID uuid.UUID) context.Context {
	return context.WithValue(ctx, callerKey{}, callerID)
}

// GetCallerID retrieves the caller identity from the context.
// Returns (id, true) if present, or (uuid.Nil, false) if no caller was set.
func GetCallerID(ctx context.Context) (uuid.UUID, bool) {
	callerID, ok := ctx.Value(callerKey{}).(uuid.UUID)
	return callerID, ok
}
