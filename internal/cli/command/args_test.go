package command

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckURL(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"ws://localhost", false},
		{"wss://example.com:8443/path?q=1", false},
		{"http://localhost", true},
		{"ws://", true},
		{"localhost:8080", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := checkURL(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkURL(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			var usage *usageError
			if err != nil && !errors.As(err, &usage) {
				t.Errorf("error %v is not a usage error", err)
			}
		})
	}
}

func TestControlMessage(t *testing.T) {
	file := filepath.Join(t.TempDir(), "payload")
	if err := os.WriteFile(file, []byte("from file"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		raw     string
		given   bool
		want    []byte
		wantNil bool
		wantErr string
	}{
		{name: "not given", wantNil: true},
		{name: "empty", raw: "", given: true, want: []byte{}},
		{name: "literal", raw: "hello", given: true, want: []byte("hello")},
		{name: "file", raw: "file@" + file, given: true, want: []byte("from file")},
		{name: "exactly 125 bytes", raw: strings.Repeat("x", 125), given: true, want: []byte(strings.Repeat("x", 125))},
		{name: "too long", raw: strings.Repeat("x", 126), given: true, wantErr: "is longer than 125 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := controlMessage(tt.raw, tt.given)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("controlMessage() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("controlMessage() error = %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("controlMessage() = %q, want nil", got)
				}
				return
			}
			if got == nil || string(got) != string(tt.want) {
				t.Errorf("controlMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseHeaders(t *testing.T) {
	h, err := parseHeaders([]string{"Authorization: Bearer abc", "x-trace:  1 ", "X-Trace: 2"})
	if err != nil {
		t.Fatalf("parseHeaders() error = %v", err)
	}
	if got := h.Get("Authorization"); got != "Bearer abc" {
		t.Errorf("Authorization = %q", got)
	}
	if got := h.Values("X-Trace"); len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Errorf("X-Trace = %q, want [1 2]", got)
	}

	for _, bad := range []string{"no colon", ": empty key"} {
		if _, err := parseHeaders([]string{bad}); err == nil {
			t.Errorf("parseHeaders(%q) expected an error", bad)
		}
	}
}
