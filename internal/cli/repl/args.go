package repl

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/yndnr/wsprobe/internal/cli/connection"
)

// FilePrefix marks a message argument naming a file whose content is sent.
const FilePrefix = "file@"

// Close code bounds accepted by the close command.
const (
	DefaultCloseCode = connection.CloseNormalClosure
	MaxCloseCode     = 4999
)

// ValidationError is a local, printable argument error.
type ValidationError struct {
	Message string
	// Unknown holds the extra tokens when the error is about unknown
	// arguments.
	Unknown []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// positional splits args into at most n named slots and the extra tokens.
func positional(args []string, n int) ([]string, error) {
	if len(args) <= n {
		return args, nil
	}

	extra := args[n:]
	label := "argument"
	if len(extra) > 1 {
		label = "arguments"
	}
	return nil, &ValidationError{
		Message: fmt.Sprintf("Unknown %s: %s", label, strings.Join(extra, " ")),
		Unknown: extra,
	}
}

// PingArgs are the validated arguments of ping.
type PingArgs struct {
	// Payload is nil when no message was given.
	Payload []byte
}

// Size returns the number of bytes the ping will carry.
func (a PingArgs) Size() int {
	if a.Payload == nil {
		return connection.DefaultPingSize
	}
	return len(a.Payload)
}

// ParsePing validates "ping [message]".
func ParsePing(args []string) (PingArgs, error) {
	slots, err := positional(args, 1)
	if err != nil {
		return PingArgs{}, err
	}
	if len(slots) == 0 {
		return PingArgs{}, nil
	}

	payload := []byte(slots[0])
	if err := checkControlPayload("PING", payload); err != nil {
		return PingArgs{}, err
	}
	return PingArgs{Payload: payload}, nil
}

// PongArgs are the validated arguments of pong.
type PongArgs struct {
	// Payload is never nil; no message means an empty payload.
	Payload []byte
}

// ParsePong validates "pong [message]".
func ParsePong(args []string) (PongArgs, error) {
	slots, err := positional(args, 1)
	if err != nil {
		return PongArgs{}, err
	}
	if len(slots) == 0 {
		return PongArgs{Payload: []byte{}}, nil
	}

	payload := []byte(slots[0])
	if err := checkControlPayload("PONG", payload); err != nil {
		return PongArgs{}, err
	}
	return PongArgs{Payload: payload}, nil
}

func checkControlPayload(frame string, payload []byte) error {
	if len(payload) > connection.MaxControlPayload {
		return invalid("The message of a %s must not exceed a length of %d bytes but you provided %d bytes.",
			frame, connection.MaxControlPayload, len(payload))
	}
	return nil
}

// CloseArgs are the validated arguments of close.
type CloseArgs struct {
	Code   int
	Reason string
}

// ParseClose validates "close [code] [reason]".
func ParseClose(args []string) (CloseArgs, error) {
	slots, err := positional(args, 2)
	if err != nil {
		return CloseArgs{}, err
	}

	parsed := CloseArgs{Code: DefaultCloseCode}
	if len(slots) > 0 {
		code, err := strconv.Atoi(slots[0])
		if err != nil {
			return CloseArgs{}, invalid("code %q is not an integer.", slots[0])
		}
		if code < 0 || code > MaxCloseCode {
			return CloseArgs{}, invalid("code %d is not in the range [0, %d].", code, MaxCloseCode)
		}
		parsed.Code = code
	}
	if len(slots) > 1 {
		if n := len(slots[1]); n > connection.MaxCloseReason {
			return CloseArgs{}, invalid("reason must not exceed a length of %d bytes but you provided %d bytes.",
				connection.MaxCloseReason, n)
		}
		parsed.Reason = slots[1]
	}
	return parsed, nil
}

// DataArgs are the validated arguments of text and byte.
type DataArgs struct {
	Message connection.Message
}

// ParseText validates "text message".
func ParseText(args []string) (DataArgs, error) {
	data, err := parseData(args, false)
	if err != nil {
		return DataArgs{}, err
	}
	return DataArgs{Message: connection.TextMessage(strings.ToValidUTF8(string(data), "�"))}, nil
}

// ParseByte validates "byte message".
func ParseByte(args []string) (DataArgs, error) {
	data, err := parseData(args, true)
	if err != nil {
		return DataArgs{}, err
	}
	return DataArgs{Message: connection.BinaryMessage(data)}, nil
}

func parseData(args []string, binary bool) ([]byte, error) {
	slots, err := positional(args, 1)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, invalid("The message is mandatory.")
	}
	return ResolveMessage(slots[0], binary)
}

// ResolveMessage returns the bytes designated by a message argument:
// the content of a file for "file@<path>", the argument itself otherwise.
// Files read for text messages have their CRLF line endings normalised.
func ResolveMessage(arg string, binary bool) ([]byte, error) {
	path, ok := strings.CutPrefix(arg, FilePrefix)
	if !ok {
		return []byte(arg), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, invalid("file %s does not exist", path)
		}
		return nil, invalid("file %s cannot be opened", path)
	}
	if !binary {
		data = []byte(strings.ReplaceAll(string(data), "\r\n", "\n"))
	}
	return data, nil
}

// HelpArgs are the validated arguments of help.
type HelpArgs struct {
	// Topic is empty for the general help.
	Topic string
}

// ParseHelp validates "help [command]". An unknown topic is not an error
// here; the dispatcher answers it with the list of commands.
func ParseHelp(args []string) (HelpArgs, error) {
	slots, err := positional(args, 1)
	if err != nil {
		return HelpArgs{}, err
	}
	if len(slots) == 0 {
		return HelpArgs{}, nil
	}
	return HelpArgs{Topic: slots[0]}, nil
}

// ParseQuit validates "quit".
func ParseQuit(args []string) error {
	_, err := positional(args, 0)
	return err
}
