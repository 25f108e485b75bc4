// Package logger provides structured logging for the dashboard service.
package logger

import "context"

// Logger is the structured logging interface used throughout the service.
// All log methods accept a message followed by key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a child logger whose entries always carry the given
	// key-value pairs.
	With(args ...any) Logger

	// WithContext returns a child logger carrying the request ID from ctx,
	// when one is present.
	WithContext(ctx context.Context) Logger
}
