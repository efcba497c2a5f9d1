package repl

import (
	"errors"
	"strings"
	"unicode"
)

// ErrEmptyInput is returned by Tokenize for blank lines.
var ErrEmptyInput = errors.New("repl: empty input")

// Tokenize splits line into a command name and its arguments.
func Tokenize(line string) (Command, error) {
	tokens := Split(line)
	if len(tokens) == 0 {
		return Command{}, ErrEmptyInput
	}
	return Command{Name: tokens[0], Args: tokens[1:]}, nil
}

// Split breaks line into tokens the way a POSIX shell does for words.
//
// Whitespace separates tokens unless it is quoted. Single quotes keep
// everything literally; inside double quotes a backslash only escapes a
// double quote or a backslash; outside quotes a backslash escapes any
// character. An unterminated quote runs to the end of the line.
func Split(line string) []string {
	const (
		stateSpace = iota
		stateWord
		stateSingle
		stateDouble
	)

	var (
		tokens []string
		buf    strings.Builder
		state  = stateSpace
		inWord bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch state {
		case stateSpace, stateWord:
			switch {
			case unicode.IsSpace(r):
				if inWord {
					tokens = append(tokens, buf.String())
					buf.Reset()
					inWord = false
				}
				state = stateSpace
			case r == '\'':
				inWord = true
				state = stateSingle
			case r == '"':
				inWord = true
				state = stateDouble
			case r == '\\' && i+1 < len(runes):
				i++
				buf.WriteRune(runes[i])
				inWord = true
				state = stateWord
			default:
				buf.WriteRune(r)
				inWord = true
				state = stateWord
			}

		case stateSingle:
			if r == '\'' {
				state = stateWord
				continue
			}
			buf.WriteRune(r)

		case stateDouble:
			switch {
			case r == '"':
				state = stateWord
			case r == '\\' && i+1 < len(runes) && (runes[i+1] == '"' || runes[i+1] == '\\'):
				i++
				buf.WriteRune(runes[i])
			default:
				buf.WriteRune(r)
			}
		}
	}

	if inWord {
		tokens = append(tokens, buf.String())
	}
	return tokens
}

// Join is the inverse of Split: it quotes every token that would not
// survive splitting as is.
func Join(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = quote(tok)
	}
	return strings.Join(quoted, " ")
}

func quote(tok string) string {
	if tok == "" {
		return "''"
	}
	if !strings.ContainsFunc(tok, needsQuoting) {
		return tok
	}
	if !strings.Contains(tok, "'") {
		return "'" + tok + "'"
	}

	var b strings.Builder
	b.WriteByte('"')
	for _, r := range tok {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func needsQuoting(r rune) bool {
	return unicode.IsSpace(r) || r == '\'' || r == '"' || r == '\\'
}
