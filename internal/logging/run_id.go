package logging

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type runIDKey struct{}

// NewRunID returns a fresh, time-sortable identifier for one CLI invocation.
func NewRunID() string {
	return ulid.Make().String()
}

// ContextWithRunID stores id in ctx.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run ID stored in ctx, or "".
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// GetOrGenerateRunID returns the run ID in ctx, generating one when absent.
func GetOrGenerateRunID(ctx context.Context) string {
	if id := RunIDFromContext(ctx); id != "" {
		return id
	}
	return NewRunID()
}
