// Package repl implements the interactive session of ws.
package repl

// Kind identifies a session command.
type Kind int

// Session commands, in the order they are listed to the user.
const (
	KindQuit Kind = iota
	KindClose
	KindPing
	KindPong
	KindText
	KindByte
	KindHelp

	kindCount
)

var kindNames = [kindCount]string{
	KindQuit:  "quit",
	KindClose: "close",
	KindPing:  "ping",
	KindPong:  "pong",
	KindText:  "text",
	KindByte:  "byte",
	KindHelp:  "help",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds returns every command kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// KindNames returns the names of all kinds, in declaration order,
// leaving out the ones in exclude.
func KindNames(exclude ...Kind) []string {
	names := make([]string, 0, kindCount)
outer:
	for _, k := range Kinds() {
		for _, e := range exclude {
			if k == e {
				continue outer
			}
		}
		names = append(names, k.String())
	}
	return names
}

// ParseKind looks a command name up. Names are case-sensitive.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Command is one tokenized input line.
type Command struct {
	Name string
	Args []string
}
