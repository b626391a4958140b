package inbox

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_EmitsAcceptedImages(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644)
	os.WriteFile(filepath.Join(dir, ".hidden.png"), []byte("skip"), 0644)
	os.WriteFile(filepath.Join(dir, "drop.png"), []byte("png"), 0644)

	select {
	case f := <-w.Files():
		if f.Name != "drop.png" {
			t.Errorf("expected drop.png, got %s", f.Name)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for the dropped image")
	}

	// Nothing else should arrive
	select {
	case f := <-w.Files():
		t.Errorf("unexpected file %s", f.Name)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), 0); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestWatcher_CloseClosesChannel(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if _, ok := <-w.Files(); ok {
		t.Error("expected Files to be closed")
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
