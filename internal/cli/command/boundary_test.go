package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/yndnr/wsprobe/internal/cli/config"
	"github.com/yndnr/wsprobe/internal/cli/connection"
	"github.com/yndnr/wsprobe/internal/cli/output"
	"github.com/yndnr/wsprobe/internal/cli/repl"
	"github.com/yndnr/wsprobe/internal/infra/tlsroots"
)

func TestRunBoundary(t *testing.T) {
	const url = "ws://example.com"

	tests := []struct {
		name     string
		err      error
		wantCode int
		want     string
	}{
		{"nil", nil, 0, ""},
		{"cancelled", fmt.Errorf("wrapped: %w", context.Canceled), 0, ""},
		{"usage", usagef("bad %s", "flag"), exitUsage, "Error: bad flag"},
		{"validation", &repl.ValidationError{Message: "file x does not exist"}, exitUsage, "Error: file x does not exist"},
		{"settings", fmt.Errorf("%w: connect_timeout must be positive", config.ErrInvalidSettings), exitFailure, "connect_timeout must be positive"},
		{"connect timeout", fmt.Errorf("%w: %s", connection.ErrConnectTimeout, url), exitFailure, "Unable to connect to " + url},
		{"disconnect timeout", connection.ErrDisconnectTimeout, exitFailure, "Unable to disconnect on time from " + url},
		{"no response", errNoResponse, exitFailure, "Unable to get response on time"},
		{
			"ca file",
			&tlsSetupError{caFile: "ca.pem", err: fmt.Errorf("%w: boom", tlsroots.ErrInvalidCAFile)},
			exitFailure,
			"Unable to load certificate(s) located in the (tls_ca_file) file ca.pem",
		},
		{
			"key pair",
			&tlsSetupError{err: fmt.Errorf("%w: boom", tlsroots.ErrInvalidKeyPair)},
			exitFailure,
			"Unable to load the certificate with the provided information.\nPlease check tls_certificate_file",
		},
		{"other", errors.New("something broke"), exitFailure, "something broke"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := runBoundary(output.NewConsole(&buf), url, tt.err)

			if code := exitCode(err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if tt.want == "" && buf.Len() != 0 {
				t.Errorf("unexpected output %q", buf.String())
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestRunBoundary_Rejected(t *testing.T) {
	var buf bytes.Buffer
	err := runBoundary(output.NewConsole(&buf), "ws://example.com", &connection.RejectedError{
		URL:        "ws://example.com",
		StatusCode: 401,
		Headers:    http.Header{"Www-Authenticate": {"Basic"}, "Content-Type": {"text/plain"}},
		Body:       []byte("denied"),
	})
	if code := exitCode(err); code != exitFailure {
		t.Errorf("exit code = %d, want %d", code, exitFailure)
	}

	want := "Connection was rejected by ws://example.com\n" +
		"status code = 401\n" +
		"headers = [('content-type', 'text/plain'), ('www-authenticate', 'Basic')]\n" +
		"body = denied\n"
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestFormatHeaders(t *testing.T) {
	tests := []struct {
		name string
		h    http.Header
		want string
	}{
		{"empty", nil, "[]"},
		{"repeated", http.Header{"Set-Cookie": {"a=1", "b=2"}}, "[('set-cookie', 'a=1'), ('set-cookie', 'b=2')]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatHeaders(tt.h); got != tt.want {
				t.Errorf("formatHeaders() = %q, want %q", got, tt.want)
			}
		})
	}
}
