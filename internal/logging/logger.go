// Package logging is the structured-logging seam for the server and the admin
// tool. The app wires an slog-backed implementation; tests swap in a logger
// that writes to io.Discard.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// alternating key and value pairs:
//
//	log.Info(ctx, "starting server", "addr", addr)
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	// The HTTP layer uses it to tag every line with its module name.
	With(args ...any) Logger
}
