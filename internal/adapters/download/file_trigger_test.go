package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kamal-hamza/px-cli/internal/adapters/store"
	"github.com/kamal-hamza/px-cli/internal/core/domain"
)

func TestFileTrigger_SavesBlob(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	st := store.NewMemoryStore()
	trigger := NewFileTrigger(st, dir)

	var saved []string
	trigger.OnSaved(func(path string) { saved = append(saved, path) })

	url := st.CreateBlobURL([]byte("baked"), "image/png")
	if err := trigger.Trigger(context.Background(), url, "edited_cat.png"); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}

	want := filepath.Join(dir, "edited_cat.png")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("expected %s to exist: %v", want, err)
	}
	if string(data) != "baked" {
		t.Errorf("unexpected content %q", data)
	}
	if len(saved) != 1 || saved[0] != want {
		t.Errorf("expected notification for %s, got %v", want, saved)
	}
}

func TestFileTrigger_SwapHookWhileSaving(t *testing.T) {
	dir := t.TempDir()
	st := store.NewMemoryStore()
	trigger := NewFileTrigger(st, dir)

	var notified atomic.Int32
	count := func(string) { notified.Add(1) }
	trigger.OnSaved(count)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			url := st.CreateBlobURL([]byte("x"), "image/png")
			if err := trigger.Trigger(context.Background(), url, "img.png"); err != nil {
				t.Errorf("Trigger failed: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			trigger.OnSaved(count)
		}()
	}
	wg.Wait()

	if got := notified.Load(); got != n {
		t.Errorf("expected %d notifications, got %d", n, got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != n {
		t.Errorf("expected %d files, got %d", n, len(entries))
	}
}

func TestFileTrigger_SavesOriginalFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "dog.jpg")
	os.WriteFile(src, []byte("original"), 0644)

	dir := t.TempDir()
	st := store.NewMemoryStore()
	trigger := NewFileTrigger(st, dir)

	url := st.CreateURL(domain.NewUploadFile(src))
	if err := trigger.Trigger(context.Background(), url, "dog.jpg"); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "dog.jpg"))
	if string(data) != "original" {
		t.Errorf("expected original bytes, got %q", data)
	}
}

func TestFileTrigger_NameCollision(t *testing.T) {
	dir := t.TempDir()
	st := store.NewMemoryStore()
	trigger := NewFileTrigger(st, dir)

	for i := 0; i < 3; i++ {
		url := st.CreateBlobURL([]byte{byte('a' + i)}, "image/png")
		if err := trigger.Trigger(context.Background(), url, "edited_x.png"); err != nil {
			t.Fatalf("Trigger %d failed: %v", i, err)
		}
	}

	for _, name := range []string{"edited_x.png", "edited_x-1.png", "edited_x-2.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestFileTrigger_RevokedURL(t *testing.T) {
	st := store.NewMemoryStore()
	trigger := NewFileTrigger(st, t.TempDir())

	url := st.CreateBlobURL([]byte("x"), "image/png")
	st.Revoke(url)

	if err := trigger.Trigger(context.Background(), url, "x.png"); !errors.Is(err, domain.ErrURLNotFound) {
		t.Errorf("expected ErrURLNotFound, got %v", err)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"cat.png":          "cat.png",
		"../../etc/passwd": "passwd",
		"dir\\evil.png":    "evil.png",
		"":                 "download",
		"/":                "download",
	}

	for in, want := range tests {
		if got := sanitizeName(in); got != want {
			t.Errorf("sanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
