// Package repl implements the interactive session of ws.
//
// This package implements the Read-Eval-Print Loop driving a live
// connection:
//
//   - command.go: Kind, the closed set of session commands
//   - tokenizer.go: shell-like splitting of an input line into a Command
//   - args.go: per-command argument validation
//   - engine.go: Engine, the prompt/validate/execute state machine
//   - help.go: markdown documentation of every command
//   - input.go: line sources (plain reader or x/term line editor)
//   - completer.go: tab completion of command names
//
// Validation errors and ping timeouts are reported and the loop goes on.
// Transport errors end the loop and are returned to the caller, which owns
// the connection.
//
// @design DS-0602
package repl
