package command

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/wsprobe/internal/infra/supervisor"
	"github.com/yndnr/wsprobe/internal/server/echoserver"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fakeSignals delivers signals on demand instead of os/signal.
type fakeSignals struct {
	mu    sync.Mutex
	ch    chan<- os.Signal
	ready chan struct{}
	once  sync.Once
}

func newFakeSignals() *fakeSignals {
	return &fakeSignals{ready: make(chan struct{})}
}

func (f *fakeSignals) source() *supervisor.SignalSource {
	return &supervisor.SignalSource{
		Notify: func(c chan<- os.Signal, _ ...os.Signal) {
			f.mu.Lock()
			f.ch = c
			f.mu.Unlock()
			f.once.Do(func() { close(f.ready) })
		},
		Stop: func(chan<- os.Signal) {},
	}
}

func (f *fakeSignals) interrupt(t *testing.T) {
	t.Helper()
	select {
	case <-f.ready:
	case <-time.After(2 * time.Second):
		t.Fatal("signal handler never registered")
	}
	f.mu.Lock()
	ch := f.ch
	f.mu.Unlock()
	ch <- syscall.SIGINT
}

// testEnv returns an environment writing to a buffer, with no terminal.
func testEnv(in string) (*Env, *syncBuffer, *fakeSignals) {
	out := &syncBuffer{}
	signals := newFakeSignals()
	return &Env{
		In:      strings.NewReader(in),
		Out:     out,
		Err:     &syncBuffer{},
		Signals: signals.source(),
	}, out, signals
}

// run executes the application with args after the program name.
func run(env *Env, args ...string) error {
	return NewApp(env).Run(append([]string{"ws"}, args...))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

// newEchoServer starts the ws echo handler on a test server.
func newEchoServer(t *testing.T) string {
	t.Helper()
	cfg := echoserver.DefaultConfig()
	cfg.ResponseTimeout = 5 * time.Second
	cfg.DisconnectTimeout = time.Second
	s, err := echoserver.New(cfg)
	if err != nil {
		t.Fatalf("echoserver.New() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return wsURL(ts)
}

// newPushServer starts a server sending frames right after the upgrade,
// then reading until the client closes.
func newPushServer(t *testing.T, frames ...func(*websocket.Conn) error) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, frame := range frames {
			if err := frame(conn); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ts.Close)
	return wsURL(ts)
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output does not contain %q:\n%s", w, got)
		}
	}
}

// newHeaderServer reports X-From-File and X-Both of the opening handshake
// as "file|both".
func newHeaderServer(t *testing.T, got chan<- string) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case got <- r.Header.Get("X-From-File") + "|" + r.Header.Get("X-Both"):
		default:
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ts.Close)
	return wsURL(ts)
}
