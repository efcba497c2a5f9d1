// Package metric provides Prometheus metrics for the echo server.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Registry of echo server metrics and its HTTP handler
//
// Metrics include:
//
//   - Active and total websocket connections
//   - Messages and bytes echoed, by frame type
//   - Messages delayed by the rate limiter
//
// Go runtime and process metrics are registered alongside.
//
// @design DS-0402
package metric
