package connection

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yndnr/wsprobe/internal/telemetry/logger"
)

// Client is a Connection backed by gorilla/websocket.
type Client struct {
	url  string
	conn *websocket.Conn
	opts Options
	log  logger.Logger

	writeMu sync.Mutex

	messages chan Message
	closing  chan struct{}
	done     chan struct{}
	readErr  error

	pingMu sync.Mutex
	pings  map[string]chan struct{}

	closeOnce sync.Once
	closeErr  error
}

var _ Connection = (*Client)(nil)

// Dial performs the opening handshake with url.
//
// A handshake exceeding opts.ConnectTimeout fails with ErrConnectTimeout; an
// HTTP answer other than 101 fails with a *RejectedError.
func Dial(ctx context.Context, url string, opts Options) (*Client, error) {
	defaults := DefaultOptions()
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaults.ConnectTimeout
	}
	if opts.DisconnectTimeout <= 0 {
		opts.DisconnectTimeout = defaults.DisconnectTimeout
	}
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = defaults.MaxMessageSize
	}
	if opts.ReceiveBuffer <= 0 {
		opts.ReceiveBuffer = defaults.ReceiveBuffer
	}
	if opts.QueueSize < 0 {
		opts.QueueSize = 0
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	headers := opts.Headers.Clone()
	if headers == nil {
		headers = http.Header{}
	}
	if opts.UserAgent != "" && headers.Get("User-Agent") == "" {
		headers.Set("User-Agent", opts.UserAgent)
	}

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.ConnectTimeout,
		TLSClientConfig:  opts.TLSConfig,
		ReadBufferSize:   opts.ReceiveBuffer,
	}

	dialCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	log.Debug("dialing", "url", url, "headers", loggableHeaders(headers))
	conn, resp, err := dialer.DialContext(dialCtx, url, headers)
	if err != nil {
		if errors.Is(err, websocket.ErrBadHandshake) && resp != nil {
			return nil, rejected(url, resp)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isTimeout(err) || errors.Is(dialCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrConnectTimeout, url)
		}
		return nil, fmt.Errorf("connection: dial %s: %w", url, err)
	}
	conn.SetReadLimit(opts.MaxMessageSize)

	c := &Client{
		url:      url,
		conn:     conn,
		opts:     opts,
		log:      log,
		messages: make(chan Message, opts.QueueSize),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
		pings:    make(map[string]chan struct{}),
	}
	conn.SetPongHandler(c.handlePong)
	go c.readLoop()

	log.Debug("connected", "url", url, "subprotocol", conn.Subprotocol())
	return c, nil
}

// loggableHeaders renders the handshake headers as sorted "Name: value"
// lines with credentials masked.
func loggableHeaders(h http.Header) []string {
	lines := make([]string, 0, len(h))
	for name, values := range h {
		for _, v := range values {
			lines = append(lines, name+": "+logger.RedactHeader(name, v))
		}
	}
	sort.Strings(lines)
	return lines
}

func rejected(url string, resp *http.Response) error {
	var body []byte
	if resp.Body != nil {
		body, _ = io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}
	return &RejectedError{
		URL:        url,
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// URL returns the endpoint the client was dialed to.
func (c *Client) URL() string {
	return c.url
}

// Send writes one data frame.
func (c *Client) Send(ctx context.Context, msg Message) error {
	frameType := websocket.TextMessage
	if msg.Type == Binary {
		frameType = websocket.BinaryMessage
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(writeDeadline(ctx)); err != nil {
		return c.transportError("set write deadline", err)
	}
	if err := c.conn.WriteMessage(frameType, msg.Data); err != nil {
		return c.transportError("send", err)
	}

	c.log.Debug("frame sent", "type", msg.Type.String(), "size", len(msg.Data))
	return nil
}

// Receive waits for the next data frame. Once the peer closed the
// connection or reading failed, it returns an error wrapping ErrClosed or
// the read error.
func (c *Client) Receive(ctx context.Context) (Message, error) {
	select {
	case msg, ok := <-c.messages:
		if !ok {
			return Message{}, c.err()
		}
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Ping sends a ping and waits for the pong echoing its payload.
func (c *Client) Ping(ctx context.Context, payload []byte) (time.Duration, error) {
	if payload == nil {
		payload = make([]byte, DefaultPingSize)
		if _, err := rand.Read(payload); err != nil {
			return 0, fmt.Errorf("connection: ping payload: %w", err)
		}
	}
	if len(payload) > MaxControlPayload {
		return 0, ErrPayloadTooLarge
	}

	key := string(payload)
	waiter := make(chan struct{}, 1)

	c.pingMu.Lock()
	if _, exists := c.pings[key]; exists {
		c.pingMu.Unlock()
		return 0, ErrPingInFlight
	}
	c.pings[key] = waiter
	c.pingMu.Unlock()

	defer func() {
		c.pingMu.Lock()
		delete(c.pings, key)
		c.pingMu.Unlock()
	}()

	start := time.Now()
	if err := c.writeControl(ctx, websocket.PingMessage, payload); err != nil {
		return 0, err
	}

	select {
	case <-waiter:
		elapsed := time.Since(start)
		c.log.Debug("pong received", "size", len(payload), "elapsed", elapsed.String())
		return elapsed, nil
	case <-c.done:
		return 0, c.err()
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Pong sends an unsolicited pong.
func (c *Client) Pong(ctx context.Context, payload []byte) error {
	if len(payload) > MaxControlPayload {
		return ErrPayloadTooLarge
	}
	if payload == nil {
		payload = []byte{}
	}
	return c.writeControl(ctx, websocket.PongMessage, payload)
}

// Close sends a close frame and waits for the peer to answer, at most
// opts.DisconnectTimeout. It returns ErrDisconnectTimeout when the peer
// does not answer on time. Later calls return the result of the first one.
func (c *Client) Close(ctx context.Context, code int, reason string) error {
	c.closeOnce.Do(func() {
		c.closeErr = c.close(ctx, code, reason)
	})
	return c.closeErr
}

func (c *Client) close(ctx context.Context, code int, reason string) error {
	close(c.closing)
	defer c.conn.Close()

	select {
	case <-c.done:
		// the peer already closed
		c.log.Debug("close skipped, connection already ended")
		return nil
	default:
	}

	deadline := time.Now().Add(c.opts.DisconnectTimeout)
	c.writeMu.Lock()
	err := c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	c.writeMu.Unlock()
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		select {
		case <-c.done:
			return nil
		default:
		}
		return c.transportError("close", err)
	}

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case <-c.done:
		c.log.Debug("closed", "code", code, "reason", reason)
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: %s", ErrDisconnectTimeout, c.url)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the reader stopped.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) readLoop() {
	defer close(c.done)
	defer close(c.messages)

	for {
		frameType, data, err := c.conn.ReadMessage()
		if err != nil {
			c.readErr = readError(err)
			c.log.Debug("reader stopped", "error", err)
			return
		}

		msg := Message{Type: Text, Data: data}
		if frameType == websocket.BinaryMessage {
			msg.Type = Binary
		}

		select {
		case c.messages <- msg:
		case <-c.closing:
			// draining until the close answer arrives
		}
	}
}

func readError(err error) error {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return &CloseError{Code: closeErr.Code, Reason: closeErr.Text}
	}
	return fmt.Errorf("%w: %w", ErrClosed, err)
}

// err returns the reason the reader stopped. Only valid after done is closed.
func (c *Client) err() error {
	<-c.done
	if c.readErr == nil {
		return ErrClosed
	}
	return c.readErr
}

func (c *Client) handlePong(appData string) error {
	c.pingMu.Lock()
	waiter, ok := c.pings[appData]
	c.pingMu.Unlock()

	if ok {
		select {
		case waiter <- struct{}{}:
		default:
		}
	}
	return nil
}

func (c *Client) writeControl(ctx context.Context, frameType int, payload []byte) error {
	deadline := writeDeadline(ctx)
	if deadline.IsZero() {
		deadline = time.Now().Add(c.opts.DisconnectTimeout)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.WriteControl(frameType, payload, deadline); err != nil {
		return c.transportError("write control frame", err)
	}
	return nil
}

// transportError reports a write failure, preferring the reason the reader
// stopped when the connection is already gone.
func (c *Client) transportError(op string, err error) error {
	select {
	case <-c.done:
		return c.err()
	default:
	}
	if errors.Is(err, websocket.ErrCloseSent) {
		return ErrClosed
	}
	return fmt.Errorf("connection: %s: %w", op, err)
}

func writeDeadline(ctx context.Context) time.Time {
	if deadline, ok := ctx.Deadline(); ok {
		return deadline
	}
	return time.Time{}
}
