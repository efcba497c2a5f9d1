// Package echoserver provides the echo websocket server of ws.
//
// This package implements a websocket endpoint returning every message it
// receives:
//
//   - server.go: Server lifecycle, TLS, graceful shutdown, metrics listener
//   - handler.go: websocket upgrade and echo loop
//   - middleware.go: connection ids, access logging and panic recovery
//
// Features:
//
//   - Same frame type in and out (text stays text, binary stays binary)
//   - Idle connections closed after the response timeout
//   - Optional per-connection token bucket limiting echoed messages
//   - Optional TLS with certificate hot-reload
//   - Optional Prometheus endpoint on a separate address
//
// @design DS-0301
package echoserver
