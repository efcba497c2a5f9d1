// Package buildinfo provides build information for ws.
//
// This package exposes build-time information injected via ldflags:
//
//   - Version: Semantic version (e.g., "1.0.0")
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//
// When Version is not injected, the module version recorded by the Go
// toolchain (go install) is used instead.
//
// Usage:
//
//	go build -ldflags "-X github.com/yndnr/wsprobe/internal/infra/buildinfo.Version=v1.0.0"
//
// @design DS-0501
package buildinfo
