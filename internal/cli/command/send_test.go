package command

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestSend(t *testing.T) {
	url := newEchoServer(t)
	payload := filepath.Join(t.TempDir(), "payload.bin")
	if err := os.WriteFile(payload, make([]byte, 2048), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"text", []string{"text", url, "hello"}, "Sent 5.0 B of data over the wire."},
		{"byte", []string{"byte", url, "hello world"}, "Sent 11.0 B of data over the wire."},
		{"byte from file", []string{"byte", url, "file@" + payload}, "Sent 2.0 KB of data over the wire."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, out, _ := testEnv("")
			if err := run(env, tt.args...); err != nil {
				t.Fatalf("%s error = %v\n%s", tt.args[0], err, out)
			}
			assertContains(t, out.String(), tt.want)
		})
	}
}

func TestSend_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing message", []string{"text", "ws://localhost"}, "Error: The message is mandatory."},
		{"missing file", []string{"byte", "ws://localhost", "file@/does/not/exist"}, "Error: file /does/not/exist does not exist"},
		{"bad url", []string{"text", "localhost", "hi"}, "Error: localhost is not a valid websocket url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, out, _ := testEnv("")
			err := run(env, tt.args...)
			if code := exitCode(err); code != exitUsage {
				t.Errorf("exit code = %d, want %d", code, exitUsage)
			}
			assertContains(t, out.String(), tt.want)
		})
	}
}

func TestSend_Rejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Reason", "forbidden")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("go away"))
	}))
	defer ts.Close()
	url := wsURL(ts)

	env, out, _ := testEnv("")
	err := run(env, "text", url, "hello")
	if code := exitCode(err); code != exitFailure {
		t.Fatalf("exit code = %d, want %d", code, exitFailure)
	}
	assertContains(t, out.String(),
		"Connection was rejected by "+url,
		"status code = 403",
		"('x-reason', 'forbidden')",
		"body = go away")
}

func TestSend_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(ts)
	ts.Close()

	env, out, _ := testEnv("")
	err := run(env, "text", url, "hello")
	if code := exitCode(err); code != exitFailure {
		t.Fatalf("exit code = %d, want %d\n%s", code, exitFailure, out)
	}
}
