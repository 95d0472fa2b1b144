// Package logger provides structured logging with configurable levels on top
// of log/slog, plus helpers to carry a request-scoped logger in a context.
package logger
