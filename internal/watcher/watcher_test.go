// file: internal/watcher/watcher_test.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7890-abcd-ef1234567890

package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebounceSingleEvent(t *testing.T) {
	dir := t.TempDir()
	titles := filepath.Join(dir, "titles.txt")
	if err := os.WriteFile(titles, []byte("Bohemian Rhapsody\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	w := New(func(path string) {
		calls.Add(1)
	}, 100*time.Millisecond)

	if err := w.Start(titles); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(titles, []byte("Kind of Blue So What\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// Wait for debounce + buffer.
	time.Sleep(300 * time.Millisecond)

	if c := calls.Load(); c != 1 {
		t.Errorf("expected 1 callback, got %d", c)
	}
}

func TestDebounceCollapsesRapidEdits(t *testing.T) {
	dir := t.TempDir()
	titles := filepath.Join(dir, "titles.txt")

	var calls atomic.Int32
	w := New(func(path string) {
		calls.Add(1)
	}, 200*time.Millisecond)

	if err := w.Start(titles); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Rapid-fire writes within the debounce window.
	for i := 0; i < 5; i++ {
		_ = os.WriteFile(titles, []byte("edit\n"), 0644)
		time.Sleep(30 * time.Millisecond)
	}

	time.Sleep(400 * time.Millisecond)

	if c := calls.Load(); c != 1 {
		t.Errorf("expected exactly 1 debounced callback, got %d", c)
	}
}

func TestOtherFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	titles := filepath.Join(dir, "titles.txt")

	var calls atomic.Int32
	w := New(func(path string) {
		calls.Add(1)
	}, 100*time.Millisecond)

	if err := w.Start(titles); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Writes to siblings in the same directory must not trigger.
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644)
	_ = os.WriteFile(filepath.Join(dir, "cards.pdf"), []byte("pdf"), 0644)

	time.Sleep(300 * time.Millisecond)

	if c := calls.Load(); c != 0 {
		t.Errorf("expected 0 callbacks for sibling files, got %d", c)
	}
}

func TestRenameReplaceTriggers(t *testing.T) {
	dir := t.TempDir()
	titles := filepath.Join(dir, "titles.txt")
	_ = os.WriteFile(titles, []byte("old\n"), 0644)

	var calls atomic.Int32
	w := New(func(path string) {
		calls.Add(1)
	}, 100*time.Millisecond)

	if err := w.Start(titles); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)

	// Editor-style save: write a temp file, rename it over the target.
	tmp := filepath.Join(dir, "titles.txt.swp")
	_ = os.WriteFile(tmp, []byte("new\n"), 0644)
	if err := os.Rename(tmp, titles); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)

	if c := calls.Load(); c != 1 {
		t.Errorf("expected 1 callback after rename-replace, got %d", c)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	titles := filepath.Join(t.TempDir(), "titles.txt")
	w := New(func(string) {}, 100*time.Millisecond)
	if err := w.Start(titles); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop() // should not panic
}

func TestStartIsIdempotent(t *testing.T) {
	titles := filepath.Join(t.TempDir(), "titles.txt")
	w := New(func(string) {}, 100*time.Millisecond)
	if err := w.Start(titles); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	// Second start should be a no-op.
	if err := w.Start(titles); err != nil {
		t.Fatal(err)
	}
}
