package fleet

import "log/slog"

// Logger is the subset of *slog.Logger the store writes to.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewNopLogger returns a logger that drops every record.
func NewNopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
