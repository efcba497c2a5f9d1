package echoserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/wsprobe/internal/infra/tlsroots"
	"github.com/yndnr/wsprobe/internal/telemetry/logger"
	"github.com/yndnr/wsprobe/internal/telemetry/metric"
)

// ErrKeyWithoutCert is returned when a private key is given without its certificate.
var ErrKeyWithoutCert = errors.New("echoserver: private key file given without a certificate file")

// Config holds the echo server configuration.
type Config struct {
	// Addr is the host:port to bind.
	Addr string
	// CertFile enables TLS; KeyFile may be empty when the key is in CertFile.
	CertFile string
	KeyFile  string
	// MetricsAddr exposes /metrics on a separate listener when set.
	MetricsAddr string
	// Rate is the number of messages echoed per second and connection; 0 is unlimited.
	Rate float64

	ConnectTimeout    time.Duration
	DisconnectTimeout time.Duration
	ResponseTimeout   time.Duration
	MaxMessageSize    int64
	ReadBuffer        int
}

// DefaultConfig returns a configuration listening on localhost:80.
func DefaultConfig() Config {
	return Config{
		Addr:              "localhost:80",
		ConnectTimeout:    5 * time.Second,
		DisconnectTimeout: 5 * time.Second,
		ResponseTimeout:   5 * time.Second,
		MaxMessageSize:    1024 * 1024,
		ReadBuffer:        4 * 1024,
	}
}

// Server represents the echo websocket server.
type Server struct {
	cfg      Config
	log      logger.Logger
	metrics  *metric.Registry
	watcher  *tlsroots.Watcher
	handler  http.Handler
	listener net.Listener

	httpServer    *http.Server
	metricsServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(r *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = r
	}
}

// New creates an echo server. TLS material is loaded now so that a bad
// certificate is reported before anything is bound.
func New(cfg Config, opts ...Option) (*Server, error) {
	if cfg.KeyFile != "" && cfg.CertFile == "" {
		return nil, ErrKeyWithoutCert
	}

	s := &Server{
		cfg: cfg,
		log: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metric.NewRegistry()
	}

	if cfg.CertFile != "" {
		w, err := tlsroots.NewWatcher(cfg.CertFile, cfg.KeyFile, tlsroots.WithLogger(s.log))
		if err != nil {
			return nil, fmt.Errorf("echoserver: tls: %w", err)
		}
		s.watcher = w
	}

	mux := http.NewServeMux()
	mux.Handle("/", newEchoHandler(cfg, s.metrics))
	s.handler = Chain(mux, ConnID(s.log), Recover(), Access())

	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: cfg.ConnectTimeout,
	}
	if s.watcher != nil {
		s.httpServer.TLSConfig = s.watcher.TLSConfig()
	}

	if cfg.MetricsAddr != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", s.metrics.Handler())
		s.metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metricsMux,
			ReadHeaderTimeout: cfg.ConnectTimeout,
		}
	}

	return s, nil
}

// Handler returns the websocket handler with its middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// TLS reports whether the server speaks wss.
func (s *Server) TLS() bool {
	return s.watcher != nil
}

// Listen binds the server address and returns the bound address.
func (s *Server) Listen() (net.Addr, error) {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("echoserver: listen %s: %w", s.cfg.Addr, err)
	}
	s.listener = ln
	return ln.Addr(), nil
}

// Serve serves connections until ctx is cancelled, then shuts down
// gracefully within the disconnect timeout. Listen is called if needed.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	s.httpServer.BaseContext = func(net.Listener) context.Context { return gctx }

	g.Go(func() error {
		var err error
		if s.watcher != nil {
			err = s.httpServer.ServeTLS(s.listener, "", "")
		} else {
			err = s.httpServer.Serve(s.listener)
		}
		return ignoreClosed(err)
	})

	if s.metricsServer != nil {
		g.Go(func() error {
			s.log.Info("metrics endpoint listening", "addr", s.cfg.MetricsAddr)
			return ignoreClosed(s.metricsServer.ListenAndServe())
		})
	}

	if s.watcher != nil {
		g.Go(func() error {
			return s.watcher.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.DisconnectTimeout)
	defer cancel()

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("echoserver: shutdown: %w", err))
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("echoserver: shutdown metrics: %w", err))
		}
	}
	s.log.Debug("server stopped")
	return errors.Join(errs...)
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
