package output

import (
	"bytes"
	"encoding/json"
	"io"
	"unicode/utf8"
)

// JSONFormatter indents payloads holding valid JSON.
// Anything else is printed the way RawFormatter does.
type JSONFormatter struct{}

// Format writes payload as indented JSON when possible.
func (f *JSONFormatter) Format(w io.Writer, payload []byte, binary bool) error {
	if binary && !utf8.Valid(payload) {
		return (&RawFormatter{}).Format(w, payload, true)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(payload), "", "  "); err != nil {
		return (&RawFormatter{}).Format(w, payload, false)
	}
	buf.WriteByte('\n')

	_, err := io.Copy(w, &buf)
	return err
}
