package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// contextKey is a type for context keys
type contextKey string

// runIDContextKey is the key for storing the run ID in context.
const runIDContextKey contextKey = "run_id"

// NewRunID generates a fresh run identifier for a pipeline invocation.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDContextKey, runID)
}

// RunID retrieves the run ID from context, or "" if absent.
func RunID(ctx context.Context) string {
	if runID, ok := ctx.Value(runIDContextKey).(string); ok {
		return runID
	}
	return ""
}

// LoggerFromContext returns the global logger enriched with the context's
// run ID, for components that log outside a *Context slog call.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := GetLogger()
	if runID := RunID(ctx); runID != "" {
		return logger.With("run_id", runID)
	}
	return logger
}
