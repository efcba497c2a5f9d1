// Package main provides the entry point for ws.
//
// ws is a websocket toolbox for the command line:
//
//   - session: interactive REPL over a live connection
//   - ping, pong: control frames with round trip times
//   - text, byte: one data frame then close
//   - listen: print received messages, optionally as indented JSON
//   - echo-server: websocket server echoing every message
//   - tail: last lines of a file, optionally following it
//
// Usage:
//
//	ws session ws://localhost:8080/ws
//	ws ping wss://example.com -n 5 -i 0.5
//	ws listen ws://localhost:8080/events --json -d 30
//	ws echo-server -p 8080 --metrics-addr :9090
//
// Settings come from ws.yaml, WS_* environment variables and flags.
//
// @design DS-0601
package main
