// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured
// JSON or text logging with configurable log levels, and carries request
// scoped loggers through a context.Context.
package logger
