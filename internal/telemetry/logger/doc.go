// Package logger provides structured logging for ws.
//
// This package wraps log/slog:
//
//   - logger.go: Logger interface, configuration and global default
//   - context.go: Context-aware logging with connection IDs
//   - redact.go: Sensitive data redaction
//
// Diagnostics are written to stderr and kept apart from the transcript the
// user sees on stdout. The default level is warn so that an interactive
// session stays quiet unless --verbose is given.
//
// @design DS-0402
package logger
