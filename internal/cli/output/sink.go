// Package output renders what ws shows to the user.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// DefaultWidth is the width used when the terminal size is unknown.
const DefaultWidth = 80

// Sink is an append-only destination for human readable output.
// Every method except Write emits whole lines.
type Sink interface {
	Print(a ...any)
	Printf(format string, a ...any)
	Info(format string, a ...any)
	Warning(format string, a ...any)
	Error(format string, a ...any)
	Markdown(doc string)
	Rule(title string)
	Write(p []byte) (int, error)
}

// Console is a Sink writing to a stream, optionally mirrored to a Recorder.
// It is safe for concurrent use.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	styled   bool
	width    int
	styles   Styles
	recorder *Recorder

	plainMD  *glamour.TermRenderer
	styledMD *glamour.TermRenderer
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithStyle enables or disables colours.
func WithStyle(styled bool) ConsoleOption {
	return func(c *Console) {
		c.styled = styled
	}
}

// WithWidth sets the width used for rules and markdown wrapping.
func WithWidth(width int) ConsoleOption {
	return func(c *Console) {
		if width > 0 {
			c.width = width
		}
	}
}

// WithRecorder mirrors the unstyled output to r.
func WithRecorder(r *Recorder) ConsoleOption {
	return func(c *Console) {
		c.recorder = r
	}
}

// NewConsole creates a plain Console writing to w.
func NewConsole(w io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		out:    w,
		width:  DefaultWidth,
		styles: DefaultStyles(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewStdout creates a Console on os.Stdout, styled when it is a terminal.
func NewStdout(opts ...ConsoleOption) *Console {
	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	base := []ConsoleOption{WithStyle(tty)}
	if tty {
		if width, _, err := term.GetSize(int(fd)); err == nil {
			base = append(base, WithWidth(width))
		}
	}
	return NewConsole(os.Stdout, append(base, opts...)...)
}

// Recorder returns the recorder attached to the console, if any.
func (c *Console) Recorder() *Recorder {
	return c.recorder
}

// Print writes its operands separated by spaces.
func (c *Console) Print(a ...any) {
	line := strings.TrimSuffix(fmt.Sprintln(a...), "\n")
	c.writeLine(line, line)
}

// Printf writes a formatted line.
func (c *Console) Printf(format string, a ...any) {
	line := fmt.Sprintf(format, a...)
	c.writeLine(line, line)
}

// Info writes a formatted line in the info colour.
func (c *Console) Info(format string, a ...any) {
	line := fmt.Sprintf(format, a...)
	c.writeLine(line, c.styles.Info.Render(line))
}

// Warning writes a formatted line in the warning colour.
func (c *Console) Warning(format string, a ...any) {
	line := fmt.Sprintf(format, a...)
	c.writeLine(line, c.styles.Warning.Render(line))
}

// Error writes a formatted line in the error colour.
func (c *Console) Error(format string, a ...any) {
	line := fmt.Sprintf(format, a...)
	c.writeLine(line, c.styles.Error.Render(line))
}

// Rule writes a horizontal line with title in its middle.
func (c *Console) Rule(title string) {
	left, right := ruleLine(title, c.width)
	plain := left + title + right
	styled := c.styles.Rule.Render(left) + c.styles.Title.Render(title) + c.styles.Rule.Render(right)
	if title == "" {
		styled = c.styles.Rule.Render(left)
	}
	c.writeLine(plain, styled)
}

// Markdown renders doc. Colours and word wrap follow the console settings;
// the recorder always receives the uncoloured rendering.
func (c *Console) Markdown(doc string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	plain := c.render(&c.plainMD, doc, false)
	styled := plain
	if c.styled {
		styled = c.render(&c.styledMD, doc, true)
	}
	c.emit(plain, styled)
}

// Write copies p verbatim.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.recorder != nil {
		c.recorder.Write(p)
	}
	return c.out.Write(p)
}

func (c *Console) writeLine(plain, styled string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emit(plain+"\n", styled+"\n")
}

// emit must be called with mu held.
func (c *Console) emit(plain, styled string) {
	if c.recorder != nil {
		c.recorder.Write([]byte(plain))
	}
	if c.styled {
		io.WriteString(c.out, styled)
		return
	}
	io.WriteString(c.out, plain)
}

// render must be called with mu held.
func (c *Console) render(r **glamour.TermRenderer, doc string, styled bool) string {
	if *r == nil {
		style := glamour.WithStandardStyle("notty")
		if styled {
			style = glamour.WithAutoStyle()
		}
		renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(c.width))
		if err != nil {
			return ensureNewline(doc)
		}
		*r = renderer
	}

	out, err := (*r).Render(doc)
	if err != nil {
		return ensureNewline(doc)
	}
	return ensureNewline(out)
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
