package config

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	s := Default()

	if s.ConnectTimeout != 5*time.Second || s.DisconnectTimeout != 5*time.Second || s.ResponseTimeout != 5*time.Second {
		t.Errorf("timeouts = %v/%v/%v, want 5s each", s.ConnectTimeout, s.DisconnectTimeout, s.ResponseTimeout)
	}
	if s.MessageQueueSize != 1 {
		t.Errorf("MessageQueueSize = %d, want 1", s.MessageQueueSize)
	}
	if s.MaxMessageSize != 1<<20 {
		t.Errorf("MaxMessageSize = %d, want 1MiB", s.MaxMessageSize)
	}
	if s.ReceiveBuffer != 4096 {
		t.Errorf("ReceiveBuffer = %d, want 4096", s.ReceiveBuffer)
	}
	if s.SVGWidth != 80 {
		t.Errorf("SVGWidth = %d, want 80", s.SVGWidth)
	}
	if s.ExtraHeaders == nil {
		t.Error("ExtraHeaders should not be nil")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		want   []string
	}{
		{
			name:   "zero connect timeout",
			mutate: func(s *Settings) { s.ConnectTimeout = 0 },
			want:   []string{"connect_timeout"},
		},
		{
			name:   "negative queue size",
			mutate: func(s *Settings) { s.MessageQueueSize = -1 },
			want:   []string{"message_queue_size"},
		},
		{
			name:   "zero queue size is fine",
			mutate: func(s *Settings) { s.MessageQueueSize = 0 },
		},
		{
			name:   "key without certificate",
			mutate: func(s *Settings) { s.TLSKeyFile = "client.key" },
			want:   []string{"You provided tls_key_file without tls_certificate_file"},
		},
		{
			name:   "password without certificate",
			mutate: func(s *Settings) { s.TLSPassword = "secret" },
			want: []string{"You provided tls_password without tls_key_file and tls_certificate_file"},
		},
		{
			name: "password with a combined certificate file",
			mutate: func(s *Settings) {
				s.TLSCertificateFile = "client.pem"
				s.TLSPassword = "secret"
			},
		},
		{
			name:   "unknown log level",
			mutate: func(s *Settings) { s.LogLevel = "verbose" },
			want:   []string{"log_level"},
		},
		{
			name: "every violation is listed",
			mutate: func(s *Settings) {
				s.ResponseTimeout = -time.Second
				s.MaxMessageSize = 0
				s.ReceiveBuffer = 0
				s.SVGWidth = 0
				s.LogFormat = "xml"
			},
			want: []string{"response_timeout", "max_message_size", "receive_buffer", "svg_width", "log_format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)

			err := s.Validate()
			if len(tt.want) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("Validate() = %v, want ErrInvalidSettings", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q does not mention %q", err, w)
				}
			}
		})
	}
}

func TestHeaders(t *testing.T) {
	s := Default()
	s.ExtraHeaders = map[string]string{"origin": "https://a.example", "X-Token": "abc"}

	h := s.Headers(http.Header{"Origin": {"https://b.example"}})

	if got := h.Get("Origin"); got != "https://b.example" {
		t.Errorf("Origin = %q, want the override", got)
	}
	if got := h.Values("Origin"); len(got) != 1 {
		t.Errorf("Origin values = %q, want a single value", got)
	}
	if got := h.Get("X-Token"); got != "abc" {
		t.Errorf("X-Token = %q, want %q", got, "abc")
	}
}

func TestConnectionOptions(t *testing.T) {
	s := Default()
	s.ConnectTimeout = 2 * time.Second
	s.MessageQueueSize = 8
	s.MaxMessageSize = 512

	opts, err := s.ConnectionOptions(nil)
	if err != nil {
		t.Fatalf("ConnectionOptions() error = %v", err)
	}
	if opts.ConnectTimeout != 2*time.Second {
		t.Errorf("ConnectTimeout = %v", opts.ConnectTimeout)
	}
	if opts.QueueSize != 8 {
		t.Errorf("QueueSize = %d", opts.QueueSize)
	}
	if opts.MaxMessageSize != 512 {
		t.Errorf("MaxMessageSize = %d", opts.MaxMessageSize)
	}
	if opts.TLSConfig != nil {
		t.Error("TLSConfig should be nil without TLS settings")
	}
}

func TestConnectionOptions_MissingCAFile(t *testing.T) {
	s := Default()
	s.TLSCAFile = "/nonexistent/ca.pem"

	if _, err := s.ConnectionOptions(nil); err == nil {
		t.Error("ConnectionOptions() should fail for a missing CA file")
	}
}

func TestLoggerConfig(t *testing.T) {
	s := Default()
	s.LogLevel = "DEBUG"
	s.LogFormat = "JSON"

	cfg := s.LoggerConfig()
	if cfg.Level != "debug" || cfg.Format != "json" {
		t.Errorf("LoggerConfig() = %+v", cfg)
	}
}
