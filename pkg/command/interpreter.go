package command

import (
	"fmt"
	"strings"
)

// Result tells the caller how a recognized command was handled.
type Result int

const (
	// Handled means the command completed locally.
	Handled Result = iota

	// DeferToRemote means the command was recognized but must still be
	// forwarded to the remote peer for execution.
	DeferToRemote
)

// Handler processes one parsed command. A non-nil error is surfaced to
// the caller of ProcessLine; the Result is meaningful only on success.
type Handler func(cmd Command) (Result, error)

type registration struct {
	usage   string
	handler Handler
}

// Interpreter maps command names to handlers. Registration must complete
// before dispatch begins; the map is read-only afterwards and dispatch-safe
// from a single goroutine.
type Interpreter struct {
	handlers map[string]registration
}

// NewInterpreter creates an empty interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		handlers: make(map[string]registration),
	}
}

// Register adds a handler for a command name. Names are matched
// case-insensitively. Registering an empty or duplicate name is a
// configuration error and panics at startup.
func (in *Interpreter) Register(name, usage string, handler Handler) {
	if name == "" {
		panic("command: Register called with empty command name")
	}
	if handler == nil {
		panic("command: Register called with nil handler for " + name)
	}
	key := strings.ToLower(name)
	if _, exists := in.handlers[key]; exists {
		panic(fmt.Sprintf("command: %q registered twice", name))
	}
	in.handlers[key] = registration{usage: usage, handler: handler}
}

// ProcessLine tokenizes line and dispatches it to the matching handler.
// The recognized flag reports whether any handler matched, regardless of
// whether the handler then failed validation; the error carries the
// failure itself (*ParseError before dispatch, *UsageError or the
// handler's own error after). A blank line is unrecognized.
func (in *Interpreter) ProcessLine(line string) (result Result, recognized bool, err error) {
	cmd, err := Parse(line)
	if err != nil {
		return Handled, false, err
	}
	if cmd.Name == "" {
		return Handled, false, nil
	}

	reg, ok := in.handlers[strings.ToLower(cmd.Name)]
	if !ok {
		return Handled, false, nil
	}

	result, err = reg.handler(cmd)
	return result, true, err
}

// Usage returns the usage string registered for a command name, or ""
// if the name is unknown.
func (in *Interpreter) Usage(name string) string {
	return in.handlers[strings.ToLower(name)].usage
}

// Recognizes reports whether a handler is registered for the name.
func (in *Interpreter) Recognizes(name string) bool {
	_, ok := in.handlers[strings.ToLower(name)]
	return ok
}
