package batch

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDiscoverOneChartPerFolder(t *testing.T) {
	root := t.TempDir()

	touch(t, filepath.Join(root, "songA", "fixture.bms"))
	touch(t, filepath.Join(root, "songA", "fixture.bmson"))
	touch(t, filepath.Join(root, "songA", "kick.wav"))
	touch(t, filepath.Join(root, "songB", "main.bme"))
	touch(t, filepath.Join(root, "notes.txt"))

	charts, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(charts) != 2 {
		t.Fatalf("expected 2 chart files (one per folder), got %d: %v", len(charts), charts)
	}

	var dirs []string
	for _, c := range charts {
		dirs = append(dirs, filepath.Dir(c))
	}
	sort.Strings(dirs)
	wantA := filepath.Join(root, "songA")
	wantB := filepath.Join(root, "songB")
	if dirs[0] != wantA || dirs[1] != wantB {
		t.Fatalf("unexpected folders: %v", dirs)
	}
}

func TestDiscoverRejectsInvalidRoot(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for nonexistent root")
	}
}

func TestDiscoverEmptyFolderYieldsNoCharts(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	charts, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(charts) != 0 {
		t.Fatalf("expected no charts, got %v", charts)
	}
}
