// Package output renders what ws shows to the user.
//
// This package implements the OutputSink used by every command:
//
//   - sink.go: Sink interface and the serialised Console implementation
//   - style.go: lipgloss styles applied when stdout is a terminal
//   - record.go: transcript recording saved as text, HTML or SVG
//   - formatter.go: payload formatters for received messages
//   - json.go: JSON pretty printing
//   - size.go: human readable byte counts
//
// Everything written to a Console is appended line by line under a mutex,
// so output from concurrent activities never interleaves mid-line.
// Diagnostics go through the logger on stderr, never through a Sink.
//
// @design DS-0601
package output
