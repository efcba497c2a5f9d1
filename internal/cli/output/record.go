package output

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Transcript formats, selected by file extension.
const (
	TranscriptText = "text"
	TranscriptHTML = "html"
	TranscriptSVG  = "svg"
)

// DefaultSVGWidth is the number of columns of an SVG transcript.
const DefaultSVGWidth = 80

// svg geometry, in pixels
const (
	svgCharWidth  = 8.4
	svgLineHeight = 20
	svgPadding    = 10
)

var htmlTranscript = template.Must(template.New("html").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { color: #000000; background-color: #ffffff; }
</style>
</head>
<body>
<pre style="font-family:Menlo,'DejaVu Sans Mono',consolas,'Courier New',monospace"><code>{{.}}</code></pre>
</body>
</html>
`))

var svgTranscript = template.Must(template.New("svg").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
<rect width="100%" height="100%" fill="#ffffff"/>
<g font-family="Menlo,'DejaVu Sans Mono',consolas,'Courier New',monospace" font-size="14" fill="#000000">
{{- range .Lines}}
<text x="{{$.Padding}}" y="{{.Y}}" xml:space="preserve">{{.Text}}</text>
{{- end}}
</g>
</svg>
`))

type svgLine struct {
	Y    int
	Text string
}

type svgDocument struct {
	Width   int
	Height  int
	Padding int
	Lines   []svgLine
}

// Recorder keeps an in-memory copy of a session transcript.
type Recorder struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	svgWidth int
}

// NewRecorder creates a Recorder. svgWidth is the column count of SVG output.
func NewRecorder(svgWidth int) *Recorder {
	if svgWidth <= 0 {
		svgWidth = DefaultSVGWidth
	}
	return &Recorder{svgWidth: svgWidth}
}

// Write appends p to the transcript.
func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// String returns the transcript recorded so far.
func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

// TranscriptFormat returns the format implied by the extension of path.
func TranscriptFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return TranscriptHTML
	case ".svg":
		return TranscriptSVG
	default:
		return TranscriptText
	}
}

// Save writes the transcript to path in the format implied by its extension.
func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create transcript: %w", err)
	}

	if err := r.Export(f, TranscriptFormat(path)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("output: close transcript: %w", err)
	}
	return nil
}

// Export writes the transcript to w in the given format.
func (r *Recorder) Export(w io.Writer, format string) error {
	text := r.String()

	var err error
	switch format {
	case TranscriptHTML:
		err = htmlTranscript.Execute(w, text)
	case TranscriptSVG:
		err = svgTranscript.Execute(w, r.svgDocument(text))
	default:
		_, err = io.WriteString(w, text)
	}
	if err != nil {
		return fmt.Errorf("output: export %s transcript: %w", format, err)
	}
	return nil
}

func (r *Recorder) svgDocument(text string) svgDocument {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if text == "" {
		lines = nil
	}

	doc := svgDocument{
		Width:   int(float64(r.svgWidth)*svgCharWidth) + 2*svgPadding,
		Height:  (len(lines)+1)*svgLineHeight + svgPadding,
		Padding: svgPadding,
		Lines:   make([]svgLine, len(lines)),
	}
	for i, line := range lines {
		doc.Lines[i] = svgLine{Y: (i + 1) * svgLineHeight, Text: line}
	}
	return doc
}
