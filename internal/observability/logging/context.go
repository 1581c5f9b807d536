package logging

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	moduleKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func WithModule(ctx context.Context, module Module) context.Context {
	return context.WithValue(ctx, moduleKey, module)
}

func ModuleFromContext(ctx context.Context) Module {
	if v, ok := ctx.Value(moduleKey).(Module); ok {
		return v
	}
	return ""
}

// NewRequestID returns a time-ordered UUID, falling back to a random one.
func NewRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ValidateAndExtractRequestID returns id when it is a UUID and a fresh ID
// otherwise.
func ValidateAndExtractRequestID(id string) string {
	if id == "" {
		return NewRequestID()
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return NewRequestID()
	}
	return parsed.String()
}
