package output

import (
	"fmt"
	"io"
)

// Format selects how received payloads are printed.
type Format string

const (
	FormatRaw  Format = "raw"
	FormatJSON Format = "json"
)

// Formatter writes one received payload.
type Formatter interface {
	Format(w io.Writer, payload []byte, binary bool) error
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	default:
		return &RawFormatter{}
	}
}

// RawFormatter prints text payloads verbatim and binary payloads quoted.
type RawFormatter struct{}

// Format writes payload followed by a line feed.
func (f *RawFormatter) Format(w io.Writer, payload []byte, binary bool) error {
	if binary {
		_, err := fmt.Fprintf(w, "%q\n", payload)
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n", payload)
	return err
}
