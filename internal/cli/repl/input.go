package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Prompt is displayed before each line on a terminal.
const Prompt = "> "

// ReaderInput reads lines from any reader, without line editing.
type ReaderInput struct {
	r      *bufio.Reader
	w      io.Writer
	prompt string
}

// NewReaderInput creates a ReaderInput. When w is not nil, prompt is
// written to it before each read.
func NewReaderInput(r io.Reader, w io.Writer, prompt string) *ReaderInput {
	return &ReaderInput{r: bufio.NewReader(r), w: w, prompt: prompt}
}

// ReadLine returns the next line without its line ending.
func (in *ReaderInput) ReadLine() (string, error) {
	if in.w != nil && in.prompt != "" {
		io.WriteString(in.w, in.prompt)
	}

	line, err := in.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// TerminalInput reads lines with the x/term line editor: history with the
// arrow keys and tab completion. The terminal is in raw mode only while a
// line is being read.
type TerminalInput struct {
	fd   int
	term *term.Terminal

	mu    sync.Mutex
	state *term.State
}

// NewTerminalInput creates a TerminalInput on in and out. in must be a
// terminal.
func NewTerminalInput(in *os.File, out io.Writer, completer *Completer) *TerminalInput {
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{in, out}, Prompt)
	if completer != nil {
		t.AutoCompleteCallback = completer.Callback
	}
	return &TerminalInput{fd: int(in.Fd()), term: t}
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ReadLine returns the next line. Ctrl+D on an empty line gives io.EOF.
func (in *TerminalInput) ReadLine() (string, error) {
	state, err := term.MakeRaw(in.fd)
	if err != nil {
		return "", fmt.Errorf("repl: enter raw mode: %w", err)
	}
	in.mu.Lock()
	in.state = state
	in.mu.Unlock()
	defer in.Restore()

	return in.term.ReadLine()
}

// Restore puts the terminal back in its original mode. It is safe to call
// while ReadLine is blocked, and more than once.
func (in *TerminalInput) Restore() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.state == nil {
		return nil
	}
	err := term.Restore(in.fd, in.state)
	in.state = nil
	return err
}
