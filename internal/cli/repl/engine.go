package repl

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/yndnr/wsprobe/internal/cli/connection"
	"github.com/yndnr/wsprobe/internal/cli/output"
	"github.com/yndnr/wsprobe/internal/telemetry/logger"
)

// DefaultResponseTimeout bounds the wait for a pong.
const DefaultResponseTimeout = 5 * time.Second

// Conn is the part of a connection the session acts on.
type Conn interface {
	URL() string
	Send(ctx context.Context, msg connection.Message) error
	Ping(ctx context.Context, payload []byte) (time.Duration, error)
	Pong(ctx context.Context, payload []byte) error
	Close(ctx context.Context, code int, reason string) error
}

// LineReader supplies input lines. It returns io.EOF when no input is left.
type LineReader interface {
	ReadLine() (string, error)
}

// State is the position of the engine in its loop.
type State int

const (
	StatePrompting State = iota
	StateValidating
	StateExecuting
	// StateClosed is reached through quit or close.
	StateClosed
	// StateInterrupted is reached when input runs out.
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StatePrompting:
		return "prompting"
	case StateValidating:
		return "validating"
	case StateExecuting:
		return "executing"
	case StateClosed:
		return "closed"
	case StateInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// handler runs one command. closed reports that the session must end.
type handler func(ctx context.Context, args []string) (closed bool, err error)

// Engine reads commands and runs them against a connection, one at a time.
type Engine struct {
	conn            Conn
	out             output.Sink
	input           LineReader
	responseTimeout time.Duration
	state           State

	handlers [kindCount]handler
}

// Option configures an Engine.
type Option func(*Engine)

// WithResponseTimeout sets how long ping waits for its pong.
func WithResponseTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.responseTimeout = d
		}
	}
}

// NewEngine creates an Engine. The caller keeps ownership of conn and
// closes it once Run returns.
func NewEngine(conn Conn, out output.Sink, input LineReader, opts ...Option) *Engine {
	e := &Engine{
		conn:            conn,
		out:             out,
		input:           input,
		responseTimeout: DefaultResponseTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.handlers = [kindCount]handler{
		KindQuit:  e.quit,
		KindClose: e.close,
		KindPing:  e.ping,
		KindPong:  e.pong,
		KindText:  e.sendText,
		KindByte:  e.sendByte,
		KindHelp:  e.help,
	}
	return e
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// Run prints the introduction and loops until the session is closed, input
// runs out or ctx is cancelled. Only transport failures and cancellation
// are returned. On cancellation a pending ReadLine is abandoned; the input
// must not be reused afterwards.
func (e *Engine) Run(ctx context.Context) error {
	log := logger.L(ctx)
	e.out.Markdown(Introduction)

	for {
		e.state = StatePrompting
		line, err := e.readLine(ctx)
		if errors.Is(err, io.EOF) {
			e.state = StateInterrupted
			log.Debug("end of input")
			e.out.Info(Farewell)
			return nil
		}
		if err != nil {
			return err
		}

		closed, err := e.Execute(ctx, line)
		if err != nil {
			log.Debug("session failed", "error", err)
			return err
		}
		if closed {
			e.state = StateClosed
			e.out.Info(Farewell)
			return nil
		}
	}
}

// readLine waits for the next line without blocking cancellation.
func (e *Engine) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := e.input.ReadLine()
		ch <- result{line, err}
	}()

	select {
	case r := <-ch:
		return r.line, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Execute runs one input line. Syntax and validation errors are printed and
// swallowed; the returned error is always fatal for the session.
func (e *Engine) Execute(ctx context.Context, line string) (bool, error) {
	e.state = StateValidating

	cmd, err := Tokenize(line)
	if errors.Is(err, ErrEmptyInput) {
		return false, nil
	}

	kind, ok := ParseKind(cmd.Name)
	if !ok {
		e.printUnknownCommand(cmd.Name, KindNames())
		return false, nil
	}

	logger.L(ctx).Debug("executing command", "command", kind.String(), "args", len(cmd.Args))
	closed, err := e.handlers[kind](ctx, cmd.Args)

	var verr *ValidationError
	if errors.As(err, &verr) {
		e.report(verr)
		return false, nil
	}
	return closed, err
}

func (e *Engine) report(err *ValidationError) {
	if len(err.Unknown) > 0 {
		e.out.Warning("%s", err.Message)
		return
	}
	e.out.Error("%s", err.Message)
	e.out.Print()
}

func (e *Engine) printUnknownCommand(name string, available []string) {
	e.out.Printf("Unknown command %s, available commands are:", name)
	for _, n := range available {
		e.out.Info("• %s", n)
	}
	e.out.Print()
}

func (e *Engine) help(ctx context.Context, args []string) (bool, error) {
	parsed, err := ParseHelp(args)
	if err != nil {
		return false, err
	}
	e.state = StateExecuting

	if parsed.Topic == "" {
		doc, _ := HelpFor(KindHelp)
		e.out.Markdown(doc)
		return false, nil
	}

	kind, ok := ParseKind(parsed.Topic)
	if !ok || kind == KindHelp {
		e.printUnknownCommand(parsed.Topic, KindNames(KindHelp))
		return false, nil
	}

	doc, _ := HelpFor(kind)
	e.out.Markdown(doc)
	return false, nil
}

func (e *Engine) ping(ctx context.Context, args []string) (bool, error) {
	parsed, err := ParsePing(args)
	if err != nil {
		return false, err
	}
	e.state = StateExecuting

	size := parsed.Size()
	e.out.Printf("PING %s with %d %s of data", e.conn.URL(), size, plural(size, "byte"))

	pingCtx, cancel := context.WithTimeout(ctx, e.responseTimeout)
	defer cancel()

	elapsed, err := e.conn.Ping(pingCtx, parsed.Payload)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			e.out.Warning("Unable to receive pong before configured response timeout (%s).", seconds(e.responseTimeout))
			e.out.Print()
			return false, nil
		}
		return false, err
	}

	e.out.Printf("Took %.2fs to receive a PONG.", elapsed.Seconds())
	e.out.Print()
	return false, nil
}

func (e *Engine) pong(ctx context.Context, args []string) (bool, error) {
	parsed, err := ParsePong(args)
	if err != nil {
		return false, err
	}
	e.state = StateExecuting

	size := len(parsed.Payload)
	e.out.Printf("PONG %s with %d %s of data", e.conn.URL(), size, plural(size, "byte"))

	start := time.Now()
	if err := e.conn.Pong(ctx, parsed.Payload); err != nil {
		return false, err
	}

	e.out.Printf("Took %.2fs to send the PONG.", time.Since(start).Seconds())
	e.out.Print()
	return false, nil
}

func (e *Engine) sendText(ctx context.Context, args []string) (bool, error) {
	parsed, err := ParseText(args)
	if err != nil {
		return false, err
	}
	return false, e.send(ctx, parsed.Message)
}

func (e *Engine) sendByte(ctx context.Context, args []string) (bool, error) {
	parsed, err := ParseByte(args)
	if err != nil {
		return false, err
	}
	return false, e.send(ctx, parsed.Message)
}

func (e *Engine) send(ctx context.Context, msg connection.Message) error {
	e.state = StateExecuting
	if err := e.conn.Send(ctx, msg); err != nil {
		return err
	}
	e.out.Printf("Sent %s of data over the wire.", output.ReadableSize(int64(len(msg.Data))))
	e.out.Print()
	return nil
}

func (e *Engine) close(ctx context.Context, args []string) (bool, error) {
	parsed, err := ParseClose(args)
	if err != nil {
		return false, err
	}
	e.state = StateExecuting

	if err := e.conn.Close(ctx, parsed.Code, parsed.Reason); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) quit(ctx context.Context, args []string) (bool, error) {
	if err := ParseQuit(args); err != nil {
		return false, err
	}
	e.state = StateExecuting

	if err := e.conn.Close(ctx, DefaultCloseCode, ""); err != nil {
		return false, err
	}
	return true, nil
}

func plural(n int, word string) string {
	if n > 1 {
		return word + "s"
	}
	return word
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}
