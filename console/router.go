package console

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"rct/pkg/command"
	"rct/pkg/health"
	"rct/pkg/protocol"
)

// statusRefreshInterval paces the netstat display loop. The probe
// timeout inside health.Monitor is strictly shorter, so one iteration
// never outlasts one refresh.
const statusRefreshInterval = 200 * time.Millisecond

type helpSection struct {
	usage    string
	helpText string
}

// Router wraps a command.Interpreter bound to the console-local
// vocabulary. A line it does not recognize — or recognizes but defers —
// must be forwarded verbatim to the controller by the caller; that
// unrecognized-locally signal is how either side's command set grows
// without the other side knowing it.
type Router struct {
	console Manager
	system  *LocalSystem
	monitor *health.Monitor
	interp  *command.Interpreter

	helpSections []helpSection

	// launch and exit are swappable for tests.
	launch func(name string, args ...string) error
	exit   func(code int)
}

// NewRouter builds the router and registers the local command set.
func NewRouter(consoleMgr Manager, system *LocalSystem) *Router {
	r := &Router{
		console: consoleMgr,
		system:  system,
		monitor: health.NewMonitor(system),
		interp:  command.NewInterpreter(),
		launch: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
		exit: os.Exit,
	}
	r.registerCommands()
	return r
}

// ProcessLine routes one operator line. handledLocally is true only
// when the local interpreter recognized the command AND the handler
// completed it here; otherwise the caller must forward the identical
// raw line to the controller.
func (r *Router) ProcessLine(line string) (handledLocally bool, err error) {
	result, recognized, err := r.interp.ProcessLine(line)
	if err != nil {
		return recognized, err
	}
	return recognized && result == command.Handled, nil
}

func (r *Router) registerCommands() {
	r.addDocumentedCommand("clear", "clear",
		"Clears the console.",
		r.clearCommand)

	r.addDocumentedCommand("exit", "exit",
		"Exits the robot control terminal immediately.",
		r.exitCommand)

	r.addDocumentedCommand("help", "help [location]",
		"Displays a help message for the given location, either local (driver station) or remote (roboRIO).",
		r.helpCommand)

	r.addDocumentedCommand("netstat", "netstat",
		"Displays the current status of the connection to the controller, updating over time. Press enter to stop.",
		r.statusCommand)

	r.addDocumentedCommand("ssh", "ssh [user]",
		"Launches a Secure Socket Shell for the roboRIO, using either the user 'lvuser' or 'admin'.",
		r.sshCommand)
}

// documentedHandler receives the command's usage string so validation
// failures can cite it.
type documentedHandler func(usage string, cmd command.Command) (command.Result, error)

func (r *Router) addDocumentedCommand(name, usage, helpText string, handler documentedHandler) {
	r.interp.Register(name, usage, func(cmd command.Command) (command.Result, error) {
		return handler(usage, cmd)
	})
	r.helpSections = append(r.helpSections, helpSection{usage: usage, helpText: helpText})
}

// Command handlers.

func (r *Router) clearCommand(usage string, cmd command.Command) (command.Result, error) {
	r.console.Clear()
	return command.Handled, nil
}

func (r *Router) exitCommand(usage string, cmd command.Command) (command.Result, error) {
	r.system.Close()
	r.exit(0)
	return command.Handled, nil
}

func (r *Router) helpCommand(usage string, cmd command.Command) (command.Result, error) {
	if err := command.CheckNumArgs(usage, 0, 1, len(cmd.Args)); err != nil {
		return command.Handled, err
	}

	if len(cmd.Args) == 0 {
		Println(r.console, "Use 'help local' for a list of local commands, and 'help remote' for a list of remote commands.")
		return command.Handled, nil
	}

	if err := command.ExpectedOneOf(usage, "location", cmd.Args[0], "local", "remote"); err != nil {
		return command.Handled, err
	}

	if cmd.Args[0] == "remote" {
		return command.DeferToRemote, nil
	}

	PrintlnSys(r.console, "\n==== Local Command Help ====")
	Println(r.console, "The following commands run on the driver station, not the roboRIO (with few exceptions).\n")
	for _, section := range r.helpSections {
		PrintlnSys(r.console, section.usage)
		Println(r.console, "  "+section.helpText+"\n")
	}
	return command.Handled, nil
}

// statusCommand repaints one status line in place until the operator
// hits enter. It polls and sleeps on the caller's goroutine; responses
// still print promptly because receiving runs on its own goroutine.
func (r *Router) statusCommand(usage string, cmd command.Command) (command.Result, error) {
	Println(r.console, "")

	for !r.console.HasInputReady() {
		status := r.monitor.Poll()

		r.console.MoveUp(1)
		r.console.ClearLine()

		output := fmt.Sprintf("%s - %s", status, status.Description())
		if status == health.OK {
			Println(r.console, output)
		} else {
			PrintlnErr(r.console, output)
		}

		r.console.Print("Press enter to stop.")
		r.console.Flush()

		time.Sleep(statusRefreshInterval)
	}

	// Drop whatever the operator typed to break the loop so it cannot
	// leak into the next read.
	Println(r.console, "")
	r.console.ClearWaitingInput()
	return command.Handled, nil
}

func (r *Router) sshCommand(usage string, cmd command.Command) (command.Result, error) {
	if err := command.CheckExactNumArgs(usage, 1, len(cmd.Args)); err != nil {
		return command.Handled, err
	}
	user := cmd.Args[0]
	if err := command.ExpectedOneOf(usage, "user", user, "lvuser", "admin"); err != nil {
		return command.Handled, err
	}

	host := protocol.RoborioHost(r.system.TeamNumber())

	if err := r.launch("putty", "-ssh", user+"@"+host); err != nil {
		PrintlnErr(r.console, "Failed to launch PuTTY from the command line.")
		PrintlnErr(r.console, "Install PuTTY and ensure it is in your PATH environment variable.")
	}
	return command.Handled, nil
}
