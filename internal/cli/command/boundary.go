package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/wsprobe/internal/cli/config"
	"github.com/yndnr/wsprobe/internal/cli/connection"
	"github.com/yndnr/wsprobe/internal/cli/output"
	"github.com/yndnr/wsprobe/internal/cli/repl"
	"github.com/yndnr/wsprobe/internal/infra/tlsroots"
)

// Exit statuses.
const (
	exitFailure = 1
	exitUsage   = 2
)

// errNoResponse is returned by the ping command when a pong is late.
var errNoResponse = errors.New("command: no response on time")

// tlsSetupError is a failure to build the client TLS configuration.
type tlsSetupError struct {
	caFile string
	err    error
}

func (e *tlsSetupError) Error() string {
	return fmt.Sprintf("command: tls setup: %v", e.err)
}

func (e *tlsSetupError) Unwrap() error {
	return e.err
}

// runBoundary prints the message matching err and returns the error
// carrying the exit status. Cancellation is a normal end and maps to nil.
func runBoundary(out output.Sink, url string, err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}

	var (
		usage      *usageError
		validation *repl.ValidationError
		rejected   *connection.RejectedError
		tlsErr     *tlsSetupError
	)
	switch {
	case errors.As(err, &usage):
		out.Error("Error: %s", usage.msg)
		return cli.Exit("", exitUsage)
	case errors.As(err, &validation):
		out.Error("Error: %s", validation.Message)
		return cli.Exit("", exitUsage)
	case errors.Is(err, config.ErrInvalidSettings):
		out.Error("%v", err)
	case errors.As(err, &tlsErr):
		printTLSError(out, tlsErr)
	case errors.Is(err, connection.ErrConnectTimeout):
		out.Error("Unable to connect to %s", url)
	case errors.Is(err, connection.ErrDisconnectTimeout):
		out.Error("Unable to disconnect on time from %s", url)
	case errors.As(err, &rejected):
		printRejected(out, rejected)
	case errors.Is(err, errNoResponse):
		out.Error("Unable to get response on time")
	default:
		out.Error("%v", err)
	}
	return cli.Exit("", exitFailure)
}

func printTLSError(out output.Sink, err *tlsSetupError) {
	if errors.Is(err, tlsroots.ErrInvalidCAFile) {
		out.Error("Unable to load certificate(s) located in the (tls_ca_file) file %s", err.caFile)
		return
	}
	out.Error("Unable to load the certificate with the provided information.\n" +
		"Please check tls_certificate_file and eventually tls_key_file and tls_password")
}

func printRejected(out output.Sink, err *connection.RejectedError) {
	out.Error("Connection was rejected by %s", err.URL)
	out.Printf("status code = %d", err.StatusCode)
	out.Printf("headers = %s", formatHeaders(err.Headers))
	out.Printf("body = %s", err.Body)
}

// formatHeaders renders headers as a sorted list of ('name', 'value') pairs
// with lower case names.
func formatHeaders(h http.Header) string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(h))
	for _, k := range keys {
		for _, v := range h[k] {
			pairs = append(pairs, fmt.Sprintf("('%s', '%s')", strings.ToLower(k), v))
		}
	}
	return "[" + strings.Join(pairs, ", ") + "]"
}
