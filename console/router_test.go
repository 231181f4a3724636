package console

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"rct/pkg/command"
)

// fakeConsole records everything printed and feeds canned input.
type fakeConsole struct {
	mu      sync.Mutex
	out     []string
	errOut  []string
	sysOut  []string
	cleared bool
	drained bool

	// hasInputAfter makes HasInputReady return true starting with the
	// Nth call, so refresh loops run a bounded number of iterations.
	hasInputAfter int
	inputCalls    int
}

func (f *fakeConsole) ReadInputLine() string { return "" }

func (f *fakeConsole) HasInputReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputCalls++
	return f.inputCalls >= f.hasInputAfter
}

func (f *fakeConsole) ClearWaitingInput() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drained = true
}

func (f *fakeConsole) MoveUp(lines int) {}
func (f *fakeConsole) ClearLine() {}
func (f *fakeConsole) SaveCursorPos() {}
func (f *fakeConsole) RestoreCursorPos() {}

func (f *fakeConsole) Print(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, msg)
}

func (f *fakeConsole) PrintErr(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errOut = append(f.errOut, msg)
}

func (f *fakeConsole) PrintSys(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sysOut = append(f.sysOut, msg)
}

func (f *fakeConsole) Flush() {}

func (f *fakeConsole) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = true
}

func (f *fakeConsole) allOutput() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.out, "") + strings.Join(f.errOut, "") + strings.Join(f.sysOut, "")
}

func (f *fakeConsole) allErrOutput() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.errOut, "")
}

func newTestRouter(team int) (*Router, *fakeConsole, *LocalSystem) {
	fc := &fakeConsole{hasInputAfter: 2}
	system := NewLocalSystem(fc, team, 5800)
	router := NewRouter(fc, system)
	return router, fc, system
}

func TestHelpRemoteDefersToRemote(t *testing.T) {
	router, _, _ := newTestRouter(118)

	handled, err := router.ProcessLine("help remote")
	if err != nil {
		t.Fatalf("ProcessLine failed: %v", err)
	}
	if handled {
		t.Error("'help remote' reported as handled locally; it must be forwarded")
	}
}

func TestHelpLocalHandledLocally(t *testing.T) {
	router, fc, _ := newTestRouter(118)

	handled, err := router.ProcessLine("help local")
	if err != nil {
		t.Fatalf("ProcessLine failed: %v", err)
	}
	if !handled {
		t.Error("'help local' not handled locally")
	}
	if !strings.Contains(fc.allOutput(), "ssh [user]") {
		t.Error("local help does not list registered commands")
	}
}

func TestHelpNoArgs(t *testing.T) {
	router, fc, _ := newTestRouter(118)

	handled, err := router.ProcessLine("help")
	if err != nil || !handled {
		t.Fatalf("handled=%v err=%v", handled, err)
	}
	if !strings.Contains(fc.allOutput(), "'help local'") {
		t.Error("bare help does not point at help local/remote")
	}
}

func TestHelpBadLocation(t *testing.T) {
	router, _, _ := newTestRouter(118)

	handled, err := router.ProcessLine("help nowhere")
	if !handled {
		t.Error("recognized command reported unhandled on validation error")
	}
	var usageErr *command.UsageError
	if !errors.As(err, &usageErr) {
		t.Fatalf("error = %v, want *UsageError", err)
	}
}

func TestUnrecognizedLineIsNotHandled(t *testing.T) {
	router, _, _ := newTestRouter(118)

	handled, err := router.ProcessLine("subsystems")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handled {
		t.Error("unrecognized command claimed as locally handled")
	}
}

func TestClearCommand(t *testing.T) {
	router, fc, _ := newTestRouter(118)

	handled, err := router.ProcessLine("CLEAR")
	if err != nil || !handled {
		t.Fatalf("handled=%v err=%v", handled, err)
	}
	if !fc.cleared {
		t.Error("console not cleared")
	}
}

func TestExitCommand(t *testing.T) {
	router, _, _ := newTestRouter(118)

	exitCode := -1
	router.exit = func(code int) { exitCode = code }

	handled, err := router.ProcessLine("exit")
	if err != nil || !handled {
		t.Fatalf("handled=%v err=%v", handled, err)
	}
	if exitCode != 0 {
		t.Errorf("exit code = %d, want 0", exitCode)
	}
}

func TestSSHLaunchesForAllowedUser(t *testing.T) {
	router, _, _ := newTestRouter(118)

	var launched []string
	router.launch = func(name string, args ...string) error {
		launched = append([]string{name}, args...)
		return nil
	}

	handled, err := router.ProcessLine("ssh lvuser")
	if err != nil || !handled {
		t.Fatalf("handled=%v err=%v", handled, err)
	}
	want := []string{"putty", "-ssh", "lvuser@roboRIO-118-frc.local"}
	if len(launched) != len(want) {
		t.Fatalf("launched %v, want %v", launched, want)
	}
	for i := range want {
		if launched[i] != want[i] {
			t.Errorf("launched[%d] = %q, want %q", i, launched[i], want[i])
		}
	}
}

func TestSSHRejectsUnknownUser(t *testing.T) {
	router, _, _ := newTestRouter(118)

	launched := false
	router.launch = func(name string, args ...string) error {
		launched = true
		return nil
	}

	_, err := router.ProcessLine("ssh root")
	var usageErr *command.UsageError
	if !errors.As(err, &usageErr) {
		t.Fatalf("error = %v, want *UsageError", err)
	}
	if !strings.Contains(usageErr.Message, "lvuser") || !strings.Contains(usageErr.Message, "admin") {
		t.Errorf("message %q does not name the allowed users", usageErr.Message)
	}
	if launched {
		t.Error("launch attempted despite validation failure")
	}
}

func TestSSHLaunchFailureReportedInline(t *testing.T) {
	router, fc, _ := newTestRouter(118)

	router.launch = func(name string, args ...string) error {
		return errors.New("executable file not found in $PATH")
	}

	handled, err := router.ProcessLine("ssh admin")
	if err != nil {
		t.Fatalf("launch failure escaped as error: %v", err)
	}
	if !handled {
		t.Error("ssh not handled locally")
	}
	if !strings.Contains(fc.allErrOutput(), "PATH") {
		t.Error("launch failure remediation not printed")
	}
}

func TestNetstatStopsOnOperatorInputAndDrains(t *testing.T) {
	router, fc, _ := newTestRouter(118)
	fc.hasInputAfter = 3 // two refresh iterations, then stop

	handled, err := router.ProcessLine("netstat")
	if err != nil || !handled {
		t.Fatalf("handled=%v err=%v", handled, err)
	}
	if !strings.Contains(fc.allErrOutput(), "NO_CONNECTION") {
		t.Error("status line missing NO_CONNECTION with no live connection")
	}
	if !fc.drained {
		t.Error("queued operator input not drained after the loop")
	}
}
