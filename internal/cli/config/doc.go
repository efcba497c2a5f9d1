// Package config provides the settings of the ws command.
//
// This package defines the typed, validated configuration:
//
//   - settings.go: Settings struct, defaults and validation
//   - loader.go: loading from ws.yaml, WS_* environment variables and flags
//
// Settings are loaded once at startup; a validation failure is fatal.
//
// @design DS-0601
package config
