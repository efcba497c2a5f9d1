package command

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/yndnr/wsprobe/internal/cli/connection"
	"github.com/yndnr/wsprobe/internal/cli/repl"
)

// usageError is a bad command line. It is printed with an "Error:" prefix
// and exits with status 2.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usagef(format string, a ...any) error {
	return &usageError{msg: fmt.Sprintf(format, a...)}
}

// checkURL accepts ws:// and wss:// URLs with a host.
func checkURL(raw string) (string, error) {
	if raw == "" {
		return "", usagef("Missing argument 'URL'.")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return "", usagef("%s is not a valid websocket url", raw)
	}
	return raw, nil
}

// controlMessage resolves the -m option of ping and pong. It returns nil
// when the option was not given.
func controlMessage(raw string, given bool) ([]byte, error) {
	if !given {
		return nil, nil
	}
	payload, err := repl.ResolveMessage(raw, true)
	if err != nil {
		return nil, err
	}
	if len(payload) > connection.MaxControlPayload {
		return nil, usagef("%s is longer than %d bytes", raw, connection.MaxControlPayload)
	}
	return payload, nil
}

// parseHeaders turns "Key: Value" flags into a header set.
func parseHeaders(values []string) (http.Header, error) {
	h := http.Header{}
	for _, v := range values {
		key, value, ok := strings.Cut(v, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, usagef("header %q is not in the form \"Key: Value\"", v)
		}
		h.Add(key, strings.TrimSpace(value))
	}
	return h, nil
}
