package controller

import (
	"path/filepath"
	"strings"
	"testing"

	"rct/pkg/config"
	"rct/pkg/storage"
)

func testRegistries(t *testing.T) (*Registry[*Subsystem], *Registry[*Device]) {
	t.Helper()
	subsystems := NewRegistry[*Subsystem]("subsystem")
	devices := NewRegistry[*Device]("device")
	if err := subsystems.Add("drive", &Subsystem{Name: "drive", Description: "Tank drive base.", Status: "enabled"}); err != nil {
		t.Fatal(err)
	}
	if err := subsystems.Add("intake", &Subsystem{Name: "intake", Description: "Ball intake.", Status: "disabled"}); err != nil {
		t.Fatal(err)
	}
	if err := devices.Add("gyro", &Device{Name: "gyro", Type: "spi", Port: 0}); err != nil {
		t.Fatal(err)
	}
	return subsystems, devices
}

func testExecutorStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.NewStore(config.DatabaseConfig{
		Type: "sqlite",
		Path: filepath.Join(t.TempDir(), "rct-log.db"),
	})
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestExecuteUnrecognizedCommand(t *testing.T) {
	subsystems, devices := testRegistries(t)
	exec := NewExecutor(subsystems, devices, nil)

	resp := exec.Execute("id-1", "reboot", "test")
	if resp.InstructionID != "id-1" {
		t.Errorf("InstructionID = %q, want id-1", resp.InstructionID)
	}
	if !strings.Contains(resp.ErrorText, "help remote") {
		t.Errorf("ErrorText = %q, want pointer to 'help remote'", resp.ErrorText)
	}
}

func TestExecuteSubsystems(t *testing.T) {
	subsystems, devices := testRegistries(t)
	exec := NewExecutor(subsystems, devices, nil)

	resp := exec.Execute("id-2", "subsystems", "test")
	if resp.ErrorText != "" {
		t.Fatalf("unexpected error text: %q", resp.ErrorText)
	}
	out := strings.Join(resp.Lines, "\n")
	if !strings.Contains(out, "2 subsystem(s) registered") {
		t.Errorf("missing count header in %q", out)
	}
	if !strings.Contains(out, "drive") || !strings.Contains(out, "intake") {
		t.Errorf("missing subsystem names in %q", out)
	}
}

func TestExecuteDevices(t *testing.T) {
	subsystems, devices := testRegistries(t)
	exec := NewExecutor(subsystems, devices, nil)

	resp := exec.Execute("id-3", "devices", "test")
	out := strings.Join(resp.Lines, "\n")
	if !strings.Contains(out, "gyro") || !strings.Contains(out, "port 0") {
		t.Errorf("device listing missing fields: %q", out)
	}
}

func TestExecuteHelpListsEverything(t *testing.T) {
	subsystems, devices := testRegistries(t)
	exec := NewExecutor(subsystems, devices, nil)

	resp := exec.Execute("id-4", "help remote", "test")
	out := strings.Join(resp.Lines, "\n")
	for _, usage := range []string{"subsystems", "devices", "logs [count]", "sysinfo"} {
		if !strings.Contains(out, usage) {
			t.Errorf("help output missing %q", usage)
		}
	}
}

func TestExecuteValidationErrorBecomesResponseText(t *testing.T) {
	subsystems, devices := testRegistries(t)
	exec := NewExecutor(subsystems, devices, nil)

	resp := exec.Execute("id-5", "logs zero", "test")
	if !strings.Contains(resp.ErrorText, "positive integer") {
		t.Errorf("ErrorText = %q, want validation message", resp.ErrorText)
	}
	if !strings.Contains(resp.ErrorText, "logs [count]") {
		t.Errorf("ErrorText = %q, want usage string", resp.ErrorText)
	}
}

func TestExecuteLogsWithoutStore(t *testing.T) {
	subsystems, devices := testRegistries(t)
	exec := NewExecutor(subsystems, devices, nil)

	resp := exec.Execute("id-6", "logs", "test")
	if resp.ErrorText != "" {
		t.Fatalf("unexpected error text: %q", resp.ErrorText)
	}
	if !strings.Contains(strings.Join(resp.Lines, "\n"), "not enabled") {
		t.Errorf("missing disabled-log notice in %v", resp.Lines)
	}
}

func TestExecuteAuditsAndReadsBackLogs(t *testing.T) {
	subsystems, devices := testRegistries(t)
	store := testExecutorStore(t)
	exec := NewExecutor(subsystems, devices, store)

	exec.Execute("id-7", "subsystems", "console-a")
	exec.Execute("id-8", "bogus", "console-a")

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("audited %d instructions, want 2", count)
	}

	resp := exec.Execute("id-9", "logs 5", "console-a")
	if resp.ErrorText != "" {
		t.Fatalf("unexpected error text: %q", resp.ErrorText)
	}
	out := strings.Join(resp.Lines, "\n")
	if !strings.Contains(out, "[ok]") || !strings.Contains(out, "subsystems") {
		t.Errorf("log listing missing the successful entry: %q", out)
	}
	if !strings.Contains(out, "[error]") || !strings.Contains(out, "bogus") {
		t.Errorf("log listing missing the failed entry: %q", out)
	}
}

func TestExecuteCaseInsensitive(t *testing.T) {
	subsystems, devices := testRegistries(t)
	exec := NewExecutor(subsystems, devices, nil)

	resp := exec.Execute("id-10", "SUBSYSTEMS", "test")
	if resp.ErrorText != "" {
		t.Errorf("upper-case command rejected: %q", resp.ErrorText)
	}
}
