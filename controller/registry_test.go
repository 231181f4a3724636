package controller

import (
	"strings"
	"testing"
)

func TestRegistryAddAndGet(t *testing.T) {
	reg := NewRegistry[*Subsystem]("subsystem")

	if err := reg.Add("drive", &Subsystem{Name: "drive", Status: "enabled"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	sub, ok := reg.Get("drive")
	if !ok {
		t.Fatal("registered subsystem not found")
	}
	if sub.Status != "enabled" {
		t.Errorf("Status = %q, want enabled", sub.Status)
	}

	if _, ok := reg.Get("intake"); ok {
		t.Error("lookup of unregistered name succeeded")
	}
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	reg := NewRegistry[*Device]("device")

	if err := reg.Add("gyro", &Device{Name: "gyro"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	err := reg.Add("gyro", &Device{Name: "gyro"})
	if err == nil {
		t.Fatal("duplicate registration accepted")
	}
	if !strings.Contains(err.Error(), "device") || !strings.Contains(err.Error(), "gyro") {
		t.Errorf("error %q does not name the kind and the item", err)
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	reg := NewRegistry[*Subsystem]("subsystem")
	for _, name := range []string{"intake", "drive", "shooter"} {
		if err := reg.Add(name, &Subsystem{Name: name}); err != nil {
			t.Fatalf("Add(%q) failed: %v", name, err)
		}
	}

	names := reg.Names()
	want := []string{"drive", "intake", "shooter"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}
}
