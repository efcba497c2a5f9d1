// Package tlsroots provides TLS configuration for ws connections.
//
// This package handles certificate loading on both ends of a websocket:
//
//   - roots.go: CA pools and the client TLS configuration
//   - keypair.go: certificate/key loading, combined PEM files, encrypted keys
//   - watcher.go: certificate hot-reload for the echo server via fsnotify
//
// @design DS-0501
package tlsroots
