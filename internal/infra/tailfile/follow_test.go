package tailfile

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"
)

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

func appendTo(t *testing.T, path, data string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(data); err != nil {
		t.Fatal(err)
	}
}

func TestFollower_Poll(t *testing.T) {
	path := writeFile(t, "existing\n")

	f, err := NewFollower(path, int64(len("existing\n")), time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if f.Offset() != int64(len("existing\n")) {
		t.Errorf("Offset() = %d, want %d", f.Offset(), len("existing\n"))
	}

	var out bytes.Buffer
	if err := f.Poll(&out); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing appended, got %q", out.String())
	}

	appendTo(t, path, "partial")
	if err := f.Poll(&out); err != nil {
		t.Fatal(err)
	}
	appendTo(t, path, " line\n")
	if err := f.Poll(&out); err != nil {
		t.Fatal(err)
	}

	if out.String() != "partial line\n" {
		t.Errorf("streamed = %q, want %q", out.String(), "partial line\n")
	}
}

func TestFollower_Truncation(t *testing.T) {
	path := writeFile(t, "0123456789")

	f, err := NewFollower(path, 10, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("ab"), 0600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := f.Poll(&out); err != nil {
		t.Fatal(err)
	}
	if f.Offset() != 2 {
		t.Errorf("Offset() after truncation = %d, want 2", f.Offset())
	}

	appendTo(t, path, "cd")
	if err := f.Poll(&out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "cd" {
		t.Errorf("streamed = %q, want %q", out.String(), "cd")
	}
}

func TestFollow_StopsOnCancel(t *testing.T) {
	path := writeFile(t, "")
	ctx, cancel := context.WithCancel(context.Background())

	var out syncBuffer
	errCh := make(chan error, 1)
	go func() {
		errCh <- Follow(ctx, path, 0, &out, 5*time.Millisecond)
	}()

	time.Sleep(20 * time.Millisecond)
	appendTo(t, path, "hello\n")

	deadline := time.Now().Add(2 * time.Second)
	for out.String() != "hello\n" && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if out.String() != "hello\n" {
		t.Errorf("streamed = %q, want %q", out.String(), "hello\n")
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Follow() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Follow did not stop after cancel")
	}
}

func TestNewFollower_MissingFile(t *testing.T) {
	if _, err := NewFollower("/nonexistent/file", 0, 0); err == nil {
		t.Error("expected error for missing file")
	}
}
