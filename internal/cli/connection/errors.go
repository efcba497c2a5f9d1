package connection

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrConnectTimeout is returned when the opening handshake does not
	// complete within the connect timeout.
	ErrConnectTimeout = errors.New("connection: connect timeout")

	// ErrDisconnectTimeout is returned when the closing handshake does not
	// complete within the disconnect timeout.
	ErrDisconnectTimeout = errors.New("connection: disconnect timeout")

	// ErrClosed is returned once the connection no longer carries frames.
	ErrClosed = errors.New("connection: closed")

	// ErrPingInFlight is returned when a ping with the same payload is
	// still waiting for its pong.
	ErrPingInFlight = errors.New("connection: ping with this payload already in flight")

	// ErrPayloadTooLarge is returned for control frames over 125 bytes.
	ErrPayloadTooLarge = errors.New("connection: control frame payload too large")
)

// RejectedError is returned when the server answers the opening handshake
// with something other than 101 Switching Protocols.
type RejectedError struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("connection: rejected by %s with status %d", e.URL, e.StatusCode)
}

// CloseError carries the close frame that ended the connection.
type CloseError struct {
	Code   int
	Reason string
}

func (e *CloseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("connection: closed by peer with code %d", e.Code)
	}
	return fmt.Sprintf("connection: closed by peer with code %d (%s)", e.Code, e.Reason)
}

// Is reports CloseError as ErrClosed.
func (e *CloseError) Is(target error) bool {
	return target == ErrClosed
}
