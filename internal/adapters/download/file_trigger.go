package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kamal-hamza/px-cli/internal/core/ports"
)

// FileTrigger saves URL payloads into a downloads directory
type FileTrigger struct {
	store  ports.ImageStore
	dir    string
	mu     sync.Mutex // guards notify and serialises collision resolution
	notify func(path string)
}

// NewFileTrigger creates a trigger writing into dir
func NewFileTrigger(store ports.ImageStore, dir string) *FileTrigger {
	return &FileTrigger{
		store: store,
		dir:   dir,
	}
}

// OnSaved registers a callback receiving each saved path
func (t *FileTrigger) OnSaved(fn func(path string)) {
	t.mu.Lock()
	t.notify = fn
	t.mu.Unlock()
}

func (t *FileTrigger) hook() func(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.notify
}

// Dir returns the downloads directory
func (t *FileTrigger) Dir() string {
	return t.dir
}

// Trigger copies the payload behind url to the downloads directory
func (t *FileTrigger) Trigger(ctx context.Context, url string, name string) error {
	rc, err := t.store.Open(ctx, url)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := os.MkdirAll(t.dir, 0755); err != nil {
		return fmt.Errorf("failed to create downloads directory: %w", err)
	}

	dst, path, err := t.create(sanitizeName(name))
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, rc); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if notify := t.hook(); notify != nil {
		notify(path)
	}
	return nil
}

// create opens a new file, adding -1, -2, ... when the name is taken
func (t *FileTrigger) create(name string) (*os.File, string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	target := filepath.Join(t.dir, name)

	counter := 1
	for {
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, target, nil
		}
		if !os.IsExist(err) {
			return nil, "", fmt.Errorf("failed to create %s: %w", target, err)
		}
		target = filepath.Join(t.dir, fmt.Sprintf("%s-%d%s", base, counter, ext))
		counter++
	}
}

// sanitizeName keeps suggested names inside the downloads directory
func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "download"
	}
	return name
}
