// Package logctx carries a structured logger through a context.Context.
package logctx

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// With returns a new context carrying the provided logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// From retrieves the logger from the context.
// It returns the default logger if none was attached.
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
