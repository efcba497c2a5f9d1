// Package connection provides the websocket connection used by ws commands.
package connection

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/yndnr/wsprobe/internal/telemetry/logger"
)

// MessageType is the type of a data frame.
type MessageType int

const (
	// Text is a UTF-8 text frame.
	Text MessageType = iota + 1
	// Binary is a binary frame.
	Binary
)

func (t MessageType) String() string {
	switch t {
	case Text:
		return "TEXT"
	case Binary:
		return "BINARY"
	default:
		return "UNKNOWN"
	}
}

// Message is one data frame.
type Message struct {
	Type MessageType
	Data []byte
}

// TextMessage builds a text frame.
func TextMessage(s string) Message {
	return Message{Type: Text, Data: []byte(s)}
}

// BinaryMessage builds a binary frame.
func BinaryMessage(b []byte) Message {
	return Message{Type: Binary, Data: b}
}

// Close codes and control frame limits from RFC 6455.
const (
	CloseNormalClosure = 1000
	// MaxControlPayload is the largest payload of a ping or pong frame.
	MaxControlPayload = 125
	// MaxCloseReason is the largest reason a close frame can carry.
	MaxCloseReason = 123
	// DefaultPingSize is the size of the random payload sent by Ping(ctx, nil).
	DefaultPingSize = 32
)

// Connection is a bidirectional message channel.
type Connection interface {
	// URL returns the endpoint the connection was dialed to.
	URL() string
	// Send writes one data frame.
	Send(ctx context.Context, msg Message) error
	// Receive waits for the next data frame.
	Receive(ctx context.Context) (Message, error)
	// Ping sends a ping and waits for the matching pong. A nil payload
	// sends DefaultPingSize random bytes.
	Ping(ctx context.Context, payload []byte) (time.Duration, error)
	// Pong sends an unsolicited pong without waiting for anything.
	Pong(ctx context.Context, payload []byte) error
	// Close performs the closing handshake. Only the first call has an effect.
	Close(ctx context.Context, code int, reason string) error
}

// Options configures Dial.
type Options struct {
	ConnectTimeout    time.Duration
	DisconnectTimeout time.Duration
	// MaxMessageSize is the read limit of a message, in bytes.
	MaxMessageSize int64
	// ReceiveBuffer is the size of the read buffer, in bytes.
	ReceiveBuffer int
	// QueueSize is the number of received messages buffered before the
	// reader waits for Receive. Zero means unbuffered.
	QueueSize int
	Headers   http.Header
	TLSConfig *tls.Config
	UserAgent string
	Logger    logger.Logger
}

// DefaultOptions returns the options ws uses without configuration.
func DefaultOptions() Options {
	return Options{
		ConnectTimeout:    5 * time.Second,
		DisconnectTimeout: 5 * time.Second,
		MaxMessageSize:    1024 * 1024,
		ReceiveBuffer:     4 * 1024,
		QueueSize:         1,
	}
}
