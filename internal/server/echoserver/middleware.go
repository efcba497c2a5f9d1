package echoserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/wsprobe/internal/telemetry/logger"
)

// HeaderConnectionID carries the connection id in the handshake response.
const HeaderConnectionID = "X-Connection-ID"

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// NewConnID returns a new connection id.
// Format: conn-{ulid_lowercase}.
func NewConnID() string {
	return "conn-" + strings.ToLower(ulid.Make().String())
}

// ConnID assigns an id to each handshake and stores it, with log, in the
// request context.
func ConnID(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := NewConnID()
			w.Header().Set(HeaderConnectionID, id)

			ctx := logger.WithConnID(r.Context(), id)
			ctx = logger.WithLogger(ctx, log)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Access logs each connection once it is over.
func Access() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			logger.L(r.Context()).Info("connection finished",
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// Recover recovers from panics in the handler.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.L(r.Context()).Error("panic recovered",
						"error", err,
						"path", r.URL.Path,
					)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
