package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	s, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.ResponseTimeout != 5*time.Second {
		t.Errorf("ResponseTimeout = %v, want 5s", s.ResponseTimeout)
	}
}

func TestLoad_DefaultFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	content := "response_timeout: 2s\nextra_headers:\n  Origin: https://example.com\n"
	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.ResponseTimeout != 2*time.Second {
		t.Errorf("ResponseTimeout = %v, want 2s", s.ResponseTimeout)
	}
	if s.ExtraHeaders["Origin"] != "https://example.com" {
		t.Errorf("ExtraHeaders = %v", s.ExtraHeaders)
	}
	if s.ConnectTimeout != 5*time.Second {
		t.Errorf("ConnectTimeout = %v, want the default", s.ConnectTimeout)
	}
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	chdir(t, t.TempDir())

	if _, err := Load(LoadOptions{File: "missing.yaml"}); err == nil {
		t.Error("Load() should fail for a missing explicit file")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("message_queue_size: 3\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WS_MESSAGE_QUEUE_SIZE", "9")
	t.Setenv("WS_CONNECT_TIMEOUT", "750ms")

	s, err := Load(LoadOptions{File: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.MessageQueueSize != 9 {
		t.Errorf("MessageQueueSize = %d, want 9", s.MessageQueueSize)
	}
	if s.ConnectTimeout != 750*time.Millisecond {
		t.Errorf("ConnectTimeout = %v, want 750ms", s.ConnectTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WS_LOG_LEVEL", "error")

	s, err := Load(LoadOptions{Overrides: map[string]any{"log_level": "debug"}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want the override", s.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WS_RECEIVE_BUFFER", "0")

	_, err := Load(LoadOptions{})
	if !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("Load() error = %v, want ErrInvalidSettings", err)
	}
}
