package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/wsprobe/internal/cli/connection"
	"github.com/yndnr/wsprobe/internal/infra/tlsroots"
	"github.com/yndnr/wsprobe/internal/telemetry/logger"
)

// ErrInvalidSettings is returned when one or more settings are out of range.
var ErrInvalidSettings = errors.New("config: invalid settings")

// Settings holds every tunable of the ws command.
type Settings struct {
	ConnectTimeout    time.Duration     `koanf:"connect_timeout"`
	DisconnectTimeout time.Duration     `koanf:"disconnect_timeout"`
	ResponseTimeout   time.Duration     `koanf:"response_timeout"`
	MessageQueueSize  int               `koanf:"message_queue_size"`
	MaxMessageSize    int64             `koanf:"max_message_size"`
	ReceiveBuffer     int               `koanf:"receive_buffer"`
	ExtraHeaders      map[string]string `koanf:"extra_headers"`

	TLSCAFile          string `koanf:"tls_ca_file"`
	TLSCertificateFile string `koanf:"tls_certificate_file"`
	TLSKeyFile         string `koanf:"tls_key_file"`
	TLSPassword        string `koanf:"tls_password"`

	SVGWidth  int    `koanf:"svg_width"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

// Default returns the default settings.
func Default() *Settings {
	return &Settings{
		ConnectTimeout:    5 * time.Second,
		DisconnectTimeout: 5 * time.Second,
		ResponseTimeout:   5 * time.Second,
		MessageQueueSize:  1,
		MaxMessageSize:    1024 * 1024,
		ReceiveBuffer:     4 * 1024,
		ExtraHeaders:      make(map[string]string),
		SVGWidth:          80,
		LogLevel:          "warn",
		LogFormat:         "text",
	}
}

// Validate reports every out of range field at once.
func (s *Settings) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"connect_timeout", s.ConnectTimeout},
		{"disconnect_timeout", s.DisconnectTimeout},
		{"response_timeout", s.ResponseTimeout},
	} {
		if d.value <= 0 {
			add("%s must be greater than 0, got %s", d.name, d.value)
		}
	}

	if s.MessageQueueSize < 0 {
		add("message_queue_size must not be negative, got %d", s.MessageQueueSize)
	}
	if s.MaxMessageSize <= 0 {
		add("max_message_size must be greater than 0, got %d", s.MaxMessageSize)
	}
	if s.ReceiveBuffer <= 0 {
		add("receive_buffer must be greater than 0, got %d", s.ReceiveBuffer)
	}
	if s.SVGWidth <= 0 {
		add("svg_width must be greater than 0, got %d", s.SVGWidth)
	}

	if s.TLSKeyFile != "" && s.TLSCertificateFile == "" {
		add("You provided tls_key_file without tls_certificate_file")
	}
	if s.TLSPassword != "" && s.TLSCertificateFile == "" {
		add("You provided tls_password without tls_key_file and tls_certificate_file")
	}

	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		add("log_level must be one of debug, info, warn or error, got %q", s.LogLevel)
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		add("log_format must be text or json, got %q", s.LogFormat)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(problems, "; "))
	}
	return nil
}

// Headers returns the extra headers merged with the given overrides.
// Overrides replace configured values with the same canonical name.
func (s *Settings) Headers(overrides http.Header) http.Header {
	h := make(http.Header, len(s.ExtraHeaders)+len(overrides))
	for k, v := range s.ExtraHeaders {
		h.Set(k, v)
	}
	for k, values := range overrides {
		h.Del(k)
		for _, v := range values {
			h.Add(k, v)
		}
	}
	return h
}

// ConnectionOptions builds dial options from the settings.
func (s *Settings) ConnectionOptions(headers http.Header) (connection.Options, error) {
	tlsConfig, err := s.TLSConfig()
	if err != nil {
		return connection.Options{}, err
	}

	opts := connection.DefaultOptions()
	opts.ConnectTimeout = s.ConnectTimeout
	opts.DisconnectTimeout = s.DisconnectTimeout
	opts.MaxMessageSize = s.MaxMessageSize
	opts.ReceiveBuffer = s.ReceiveBuffer
	opts.QueueSize = s.MessageQueueSize
	opts.Headers = s.Headers(headers)
	opts.TLSConfig = tlsConfig
	return opts, nil
}

// LoggerConfig returns the logger configuration derived from the settings.
func (s *Settings) LoggerConfig() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = strings.ToLower(s.LogLevel)
	cfg.Format = strings.ToLower(s.LogFormat)
	return cfg
}

// TLSConfig returns the client TLS configuration, or nil when no TLS
// material is configured.
func (s *Settings) TLSConfig() (*tls.Config, error) {
	return tlsroots.ClientConfig(tlsroots.ClientOptions{
		CAFile:   s.TLSCAFile,
		CertFile: s.TLSCertificateFile,
		KeyFile:  s.TLSKeyFile,
		Password: s.TLSPassword,
	})
}
