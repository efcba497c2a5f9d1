// Package command provides the CLI commands of ws.
//
// This package defines the ws application using urfave/cli/v2:
//
//   - root.go: App, global flags, settings and logger setup
//   - runner.go: shared plumbing (console, supervisor, dialing)
//   - boundary.go: the single place where errors become messages and exit codes
//   - args.go: websocket URL and message option checks
//   - session.go: interactive session
//   - ping.go: ping and pong
//   - send.go: text and byte
//   - listen.go: listen
//   - echo.go: echo-server
//   - tail.go: tail
//
// Every command runs under a supervisor.Supervisor so that Ctrl+C, SIGTERM
// and the optional --duration deadline end it the same way.
//
// @req RQ-0602
// @design DS-0601
package command
