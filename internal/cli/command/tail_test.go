package command

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeLines(t *testing.T, n int, trailing bool) string {
	t.Helper()
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	content := strings.Join(lines, "\n")
	if trailing {
		content += "\n"
	}
	path := filepath.Join(t.TempDir(), "data.log")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPrintLastLines(t *testing.T) {
	tests := []struct {
		name     string
		lines    int
		trailing bool
		n        int
		want     string
	}{
		{"last three", 20, false, 3, "line 18\nline 19\nline 20\n"},
		{"trailing newline", 20, true, 3, "line 18\nline 19\nline 20\n"},
		{"fewer lines than asked", 2, true, 10, "line 1\nline 2\n"},
		{"empty file", 0, false, 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLines(t, tt.lines, tt.trailing)
			var buf bytes.Buffer
			end, err := printLastLines(&buf, path, tt.n)
			if err != nil {
				t.Fatal(err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if end != info.Size() {
				t.Errorf("end = %d, want the file size %d", end, info.Size())
			}
			if buf.String() != tt.want {
				t.Errorf("printLastLines() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestTail(t *testing.T) {
	path := writeLines(t, 20, true)

	env, out, _ := testEnv("")
	if err := run(env, "tail", "-n", "2", path); err != nil {
		t.Fatalf("tail error = %v", err)
	}
	if out.String() != "line 19\nline 20\n" {
		t.Errorf("tail output = %q", out.String())
	}
}

func TestTail_Validation(t *testing.T) {
	path := writeLines(t, 1, false)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero lines", []string{"-n", "0", path}, "is not in the range x>=1."},
		{"missing file", []string{filepath.Join(t.TempDir(), "nope")}, "does not exist."},
		{"directory", []string{t.TempDir()}, "does not exist."},
		{"no file", nil, "Missing argument 'FILENAME'."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, out, _ := testEnv("")
			err := run(env, append([]string{"tail"}, tt.args...)...)
			if code := exitCode(err); code != exitUsage {
				t.Errorf("exit code = %d, want %d", code, exitUsage)
			}
			assertContains(t, out.String(), tt.want)
		})
	}
}

func TestTail_Follow(t *testing.T) {
	path := writeLines(t, 3, true)
	env, out, signals := testEnv("")

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(env, "tail", "-f", path)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "line 3\n") && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	// appended right after the last lines were printed
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("appended\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	deadline = time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "appended\n") && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	signals.interrupt(t)

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("tail error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("tail did not stop on interrupt")
	}
	assertContains(t, out.String(), "line 1\nline 2\nline 3\nappended\n", "Program was interrupted by Ctrl+C, good bye!")
}
