package controller

import (
	"fmt"
	"strconv"
	"sync"

	"rct/pkg/command"
	"rct/pkg/logger"
	"rct/pkg/protocol"
	"rct/pkg/storage"
)

const defaultLogLimit = 10

type helpSection struct {
	usage    string
	helpText string
}

// Executor is the controller-side counterpart of the console router: it
// owns the remote command vocabulary and executes forwarded instruction
// lines against the robot's registries. Every instruction yields exactly
// one response; a failing handler becomes response text, never a dead
// receive loop.
type Executor struct {
	log        *logger.Logger
	interp     *command.Interpreter
	subsystems *Registry[*Subsystem]
	devices    *Registry[*Device]
	store      storage.Store // nil when the instruction log is disabled

	helpSections []helpSection

	// mu serializes dispatches so output collection is race-free even
	// with several consoles connected.
	mu  sync.Mutex
	out []string
}

// NewExecutor builds the executor over externally owned registries.
func NewExecutor(subsystems *Registry[*Subsystem], devices *Registry[*Device], store storage.Store) *Executor {
	e := &Executor{
		log:        logger.Get().With("side", "controller"),
		interp:     command.NewInterpreter(),
		subsystems: subsystems,
		devices:    devices,
		store:      store,
	}
	e.registerCommands()
	return e
}

// Execute runs one instruction line and captures everything it printed
// — including parse and validation failures — into a single response.
// source identifies the console for the instruction log.
func (e *Executor) Execute(instructionID, line, source string) *protocol.ResponsePayload {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.out = nil
	resp := &protocol.ResponsePayload{InstructionID: instructionID}

	func() {
		defer func() {
			if r := recover(); r != nil {
				e.log.Error("command handler panicked", "line", line, "panic", r)
				resp.ErrorText = fmt.Sprintf("internal error executing command: %v", r)
			}
		}()

		_, recognized, err := e.interp.ProcessLine(line)
		switch {
		case err != nil:
			resp.ErrorText = err.Error()
		case !recognized:
			resp.ErrorText = "Unrecognized command. Use 'help remote' to list commands the roboRIO accepts."
		}
	}()

	resp.Lines = e.out
	e.audit(line, source, resp)
	return resp
}

func (e *Executor) audit(line, source string, resp *protocol.ResponsePayload) {
	if e.store == nil {
		return
	}
	output := ""
	for i, l := range resp.Lines {
		if i > 0 {
			output += "\n"
		}
		output += l
	}
	entry := &storage.LogEntry{
		Line:      line,
		Source:    source,
		Output:    output,
		ErrorText: resp.ErrorText,
	}
	if err := e.store.Append(entry); err != nil {
		e.log.ErrorWithErr("failed to record instruction", err, "line", line)
	}
}

// println appends one output line to the response being built.
func (e *Executor) println(line string) {
	e.out = append(e.out, line)
}

func (e *Executor) printf(format string, args ...interface{}) {
	e.println(fmt.Sprintf(format, args...))
}

func (e *Executor) registerCommands() {
	e.addDocumentedCommand("help", "help [location]",
		"Lists the commands the roboRIO accepts.",
		e.helpCommand)

	e.addDocumentedCommand("subsystems", "subsystems",
		"Lists the subsystems registered with the robot program.",
		e.subsystemsCommand)

	e.addDocumentedCommand("devices", "devices",
		"Lists the hardware devices registered with the robot program.",
		e.devicesCommand)

	e.addDocumentedCommand("logs", "logs [count]",
		"Shows the most recent entries of the instruction log (default 10).",
		e.logsCommand)

	e.addDocumentedCommand("sysinfo", "sysinfo",
		"Reports CPU, memory and disk usage of the controller.",
		e.sysinfoCommand)
}

type documentedHandler func(usage string, cmd command.Command) (command.Result, error)

func (e *Executor) addDocumentedCommand(name, usage, helpText string, handler documentedHandler) {
	e.interp.Register(name, usage, func(cmd command.Command) (command.Result, error) {
		return handler(usage, cmd)
	})
	e.helpSections = append(e.helpSections, helpSection{usage: usage, helpText: helpText})
}

// Command handlers.

func (e *Executor) helpCommand(usage string, cmd command.Command) (command.Result, error) {
	if err := command.CheckNumArgs(usage, 0, 1, len(cmd.Args)); err != nil {
		return command.Handled, err
	}
	if len(cmd.Args) == 1 {
		if err := command.ExpectedOneOf(usage, "location", cmd.Args[0], "local", "remote"); err != nil {
			return command.Handled, err
		}
	}

	e.println("==== Remote Command Help ====")
	e.println("The following commands are executed on the roboRIO.")
	e.println("")
	for _, section := range e.helpSections {
		e.println(section.usage)
		e.println("  " + section.helpText)
	}
	return command.Handled, nil
}

func (e *Executor) subsystemsCommand(usage string, cmd command.Command) (command.Result, error) {
	if err := command.CheckExactNumArgs(usage, 0, len(cmd.Args)); err != nil {
		return command.Handled, err
	}

	names := e.subsystems.Names()
	if len(names) == 0 {
		e.println("No subsystems are registered.")
		return command.Handled, nil
	}

	e.printf("%d subsystem(s) registered:", len(names))
	for _, name := range names {
		sub, _ := e.subsystems.Get(name)
		e.printf("  %-16s %-10s %s", sub.Name, sub.Status, sub.Description)
	}
	return command.Handled, nil
}

func (e *Executor) devicesCommand(usage string, cmd command.Command) (command.Result, error) {
	if err := command.CheckExactNumArgs(usage, 0, len(cmd.Args)); err != nil {
		return command.Handled, err
	}

	names := e.devices.Names()
	if len(names) == 0 {
		e.println("No devices are registered.")
		return command.Handled, nil
	}

	e.printf("%d device(s) registered:", len(names))
	for _, name := range names {
		dev, _ := e.devices.Get(name)
		e.printf("  %-16s %-10s port %d", dev.Name, dev.Type, dev.Port)
	}
	return command.Handled, nil
}

func (e *Executor) logsCommand(usage string, cmd command.Command) (command.Result, error) {
	if err := command.CheckNumArgs(usage, 0, 1, len(cmd.Args)); err != nil {
		return command.Handled, err
	}

	limit := defaultLogLimit
	if len(cmd.Args) == 1 {
		n, err := strconv.Atoi(cmd.Args[0])
		if err != nil || n < 1 {
			return command.Handled, &command.UsageError{
				Usage:   usage,
				Message: fmt.Sprintf("count must be a positive integer, got %q", cmd.Args[0]),
			}
		}
		limit = n
	}

	if e.store == nil {
		e.println("The instruction log is not enabled on this controller.")
		return command.Handled, nil
	}

	entries, err := e.store.Recent(limit)
	if err != nil {
		return command.Handled, fmt.Errorf("reading instruction log: %w", err)
	}
	if len(entries) == 0 {
		e.println("The instruction log is empty.")
		return command.Handled, nil
	}

	for _, entry := range entries {
		status := "ok"
		if entry.ErrorText != "" {
			status = "error"
		}
		e.printf("%s  [%s]  %s", entry.ExecutedAt.Format("15:04:05"), status, entry.Line)
	}
	return command.Handled, nil
}
