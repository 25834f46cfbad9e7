// Package logging is the structured logger every authkeeper component takes
// as a dependency. The only production implementation writes JSON via slog.
package logging

import "context"

// Logger logs with the request context so handlers can carry request-scoped
// attributes. Args are alternating keys and values:
//
//	l.Info(ctx, "user registered", "user_id", id)
//
// Components derive their own logger once, e.g. l.With("module", "mailer").
type Logger interface {
	// Debug is for per-call traces such as gRPC health probes.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn marks a degraded but working setup, e.g. a fallback backend.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}
