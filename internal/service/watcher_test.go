package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSourceWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "w.png", 4, 4)
	other := writeTestPNG(t, dir, "other.png", 4, 4)

	sw, err := NewSourceWatcher(20*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sw.Close()
	if err := sw.Watch(path); err != nil {
		t.Fatal(err)
	}

	// Writes to a sibling are ignored.
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-sw.Changes():
		t.Fatalf("unexpected change for %q", got)
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(path, createTestPNG(t, 5, 5), 0o644); err != nil {
		t.Fatal(err)
	}
	abs, _ := filepath.Abs(path)
	select {
	case got := <-sw.Changes():
		if got != abs {
			t.Errorf("change for %q, want %q", got, abs)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestSourceWatcherUnwatch(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "w.png", 4, 4)

	sw, err := NewSourceWatcher(20*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sw.Close()
	if err := sw.Watch(path); err != nil {
		t.Fatal(err)
	}
	if err := sw.Watch(""); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-sw.Changes():
		t.Fatalf("unexpected change for %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSourceWatcherMissingDir(t *testing.T) {
	sw, err := NewSourceWatcher(0, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sw.Close()
	if err := sw.Watch(filepath.Join(t.TempDir(), "nope", "x.png")); err == nil {
		t.Error("watching a file in a missing directory should fail")
	}
}
