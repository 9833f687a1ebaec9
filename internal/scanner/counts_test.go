package scanner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCounts_DayCountHasExplicitZeros(t *testing.T) {
	c, err := LoadCounts(filepath.Join(t.TempDir(), "counts.json"))
	if err != nil {
		t.Fatalf("LoadCounts() error = %v", err)
	}
	c.AddMatch("absolutely", "2025-01-01")
	c.AddMatch("absolutely", "2025-01-01")
	c.AddMessage("2025-01-01")

	dc := c.DayCount("2025-01-01", "ws-1", []string{"absolutely", "right", "perfect", "excellent"})

	want := map[string]int64{"absolutely": 2, "right": 0, "perfect": 0, "excellent": 0}
	if !reflect.DeepEqual(dc.Patterns, want) {
		t.Errorf("Patterns = %v, want %v", dc.Patterns, want)
	}
	if dc.TotalMessages != 1 {
		t.Errorf("TotalMessages = %d, want 1", dc.TotalMessages)
	}
	if dc.Day != "2025-01-01" || dc.WorkstationID != "ws-1" {
		t.Errorf("record identity = %s/%s", dc.Day, dc.WorkstationID)
	}
}

func TestCounts_DaysSorted(t *testing.T) {
	c, err := LoadCounts(filepath.Join(t.TempDir(), "counts.json"))
	if err != nil {
		t.Fatalf("LoadCounts() error = %v", err)
	}
	c.AddMatch("right", "2025-01-03")
	c.AddMessage("2025-01-01")
	c.AddMatch("perfect", "2025-01-02")

	want := []string{"2025-01-01", "2025-01-02", "2025-01-03"}
	if got := c.Days(); !reflect.DeepEqual(got, want) {
		t.Errorf("Days() = %v, want %v", got, want)
	}
}

func TestCounts_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.json")

	c, err := LoadCounts(path)
	if err != nil {
		t.Fatalf("LoadCounts() error = %v", err)
	}
	c.AddMatch("absolutely", "2025-01-01")
	c.AddMessage("2025-01-01")
	c.AddProject("code-app")
	if err := c.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := LoadCounts(path)
	if err != nil {
		t.Fatalf("LoadCounts() after save error = %v", err)
	}
	if got := reloaded.Patterns["absolutely"]["2025-01-01"]; got != 1 {
		t.Errorf("reloaded absolutely = %d, want 1", got)
	}
	if got := reloaded.Totals["2025-01-01"]; got != 1 {
		t.Errorf("reloaded total = %d, want 1", got)
	}
	if got := reloaded.Projects["code-app"]; got != 1 {
		t.Errorf("reloaded project tally = %d, want 1", got)
	}
}

func TestCounts_SaveNoopWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.json")

	c, err := LoadCounts(path)
	if err != nil {
		t.Fatalf("LoadCounts() error = %v", err)
	}
	if err := c.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("clean Save() wrote a file")
	}
}

func TestCounts_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.json")
	if err := os.WriteFile(path, []byte("nope"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if _, err := LoadCounts(path); err == nil {
		t.Error("LoadCounts() expected error for corrupt file, got nil")
	}
}
