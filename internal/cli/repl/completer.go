package repl

import (
	"sort"
	"strings"
)

// Completer provides command completion for the session prompt.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer knowing every command and help topic.
func NewCompleter() *Completer {
	commands := KindNames()
	for _, topic := range KindNames(KindHelp) {
		commands = append(commands, "help "+topic)
	}
	sort.Strings(commands)
	return &Completer{commands: commands}
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Callback completes the line on Tab. Its signature matches
// term.Terminal.AutoCompleteCallback.
func (c *Completer) Callback(line string, pos int, key rune) (string, int, bool) {
	if key != '\t' || pos != len(line) {
		return "", 0, false
	}

	prefix := strings.TrimLeft(line, " ")
	suggestions := c.Complete(prefix)
	switch len(suggestions) {
	case 0:
		return "", 0, false
	case 1:
		completed := suggestions[0] + " "
		return completed, len(completed), true
	}

	common := commonPrefix(suggestions)
	if len(common) <= len(prefix) {
		return "", 0, false
	}
	return common, len(common), true
}

func commonPrefix(words []string) string {
	prefix := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(w, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
