package echoserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/yndnr/wsprobe/internal/telemetry/logger"
	"github.com/yndnr/wsprobe/internal/telemetry/metric"
)

// echoHandler upgrades requests and echoes every message back.
type echoHandler struct {
	upgrader websocket.Upgrader
	cfg      Config
	metrics  *metric.Registry
}

func newEchoHandler(cfg Config, metrics *metric.Registry) *echoHandler {
	return &echoHandler{
		upgrader: websocket.Upgrader{
			HandshakeTimeout: cfg.ConnectTimeout,
			ReadBufferSize:   cfg.ReadBuffer,
			CheckOrigin:      func(*http.Request) bool { return true },
		},
		cfg:     cfg,
		metrics: metrics,
	}
}

func (h *echoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.L(ctx)

	// the upgrader writes the 101 response itself, ignoring w.Header()
	var respHeader http.Header
	if id := logger.ConnIDFromContext(ctx); id != "" {
		respHeader = http.Header{HeaderConnectionID: {id}}
	}
	conn, err := h.upgrader.Upgrade(w, r, respHeader)
	if err != nil {
		// the upgrader already replied with an HTTP error
		log.Debug("upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}
	defer conn.Close()

	h.metrics.ConnectionOpened()
	defer h.metrics.ConnectionClosed()

	// unblock the read loop when the server shuts down
	stop := context.AfterFunc(ctx, func() {
		h.closeHandshake(conn, websocket.CloseGoingAway)
		conn.Close()
	})
	defer stop()

	if h.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(h.cfg.MaxMessageSize)
	}

	log.Debug("connection accepted", "remote_addr", r.RemoteAddr)
	if err := h.echo(ctx, conn, log); err != nil {
		log.Debug("echo loop ended", "reason", err)
	}

	if ctx.Err() == nil {
		h.closeHandshake(conn, websocket.CloseNormalClosure)
	}
}

// echo returns the reason the loop ended.
func (h *echoHandler) echo(ctx context.Context, conn *websocket.Conn, log logger.Logger) error {
	limiter := newLimiter(h.cfg.Rate)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(h.cfg.ResponseTimeout)); err != nil {
			return err
		}
		frameType, data, err := conn.ReadMessage()
		if err != nil {
			return readEnd(err)
		}

		if limiter != nil && !limiter.Allow() {
			h.metrics.MessageDelayed()
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}

		if err := conn.SetWriteDeadline(time.Now().Add(h.cfg.ResponseTimeout)); err != nil {
			return err
		}
		if err := conn.WriteMessage(frameType, data); err != nil {
			return err
		}

		h.metrics.MessageEchoed(frameName(frameType), len(data))
		log.Debug("message echoed", "type", frameName(frameType), "size", len(data))
	}
}

func (h *echoHandler) closeHandshake(conn *websocket.Conn, code int) {
	msg := websocket.FormatCloseMessage(code, "")
	// fails with websocket.ErrCloseSent when the peer closed first
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.cfg.DisconnectTimeout))
}

// errIdle is reported when no message arrived within the response timeout.
var errIdle = errors.New("echoserver: idle connection")

func readEnd(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errIdle
	}
	return err
}

// newLimiter returns a token bucket of perSecond messages, or nil when
// the rate is unlimited.
func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func frameName(frameType int) string {
	if frameType == websocket.BinaryMessage {
		return "BINARY"
	}
	return "TEXT"
}
