package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_UsesXDG(t *testing.T) {
	data := t.TempDir()
	conf := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)
	t.Setenv("XDG_CONFIG_HOME", conf)

	w, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if w.RootPath != filepath.Join(data, "px") {
		t.Errorf("unexpected root %q", w.RootPath)
	}
	if w.ExportsPath != filepath.Join(data, "px", "exports") {
		t.Errorf("unexpected exports path %q", w.ExportsPath)
	}
	if w.ConfigPath != filepath.Join(conf, "px", "config.yaml") {
		t.Errorf("unexpected config path %q", w.ConfigPath)
	}
}

func TestWorkspace_InitializeAndExists(t *testing.T) {
	root := filepath.Join(t.TempDir(), "px")
	w := &Workspace{
		RootPath:    root,
		ExportsPath: filepath.Join(root, "exports"),
		CachePath:   filepath.Join(root, "cache"),
	}

	if w.Exists() {
		t.Fatal("expected workspace to be missing before Initialize")
	}
	if err := w.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !w.Exists() {
		t.Error("expected workspace to exist after Initialize")
	}

	for _, dir := range []string{w.ExportsPath, w.CachePath} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s", dir)
		}
	}
}

func TestWorkspace_DownloadsDir(t *testing.T) {
	w := &Workspace{ExportsPath: "/data/px/exports"}

	tests := []struct {
		name       string
		configured string
		expected   string
	}{
		{"default", "", "/data/px/exports"},
		{"configured", "/home/me/Downloads", "/home/me/Downloads"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.DownloadsDir(tt.configured); got != tt.expected {
				t.Errorf("DownloadsDir(%q) = %q, want %q", tt.configured, got, tt.expected)
			}
		})
	}
}

func TestWorkspace_CleanCache(t *testing.T) {
	cache := t.TempDir()
	w := &Workspace{CachePath: cache}

	os.WriteFile(filepath.Join(cache, "histogram.html"), []byte("x"), 0644)
	os.MkdirAll(filepath.Join(cache, "nested"), 0755)

	if err := w.CleanCache(); err != nil {
		t.Fatalf("CleanCache failed: %v", err)
	}

	entries, _ := os.ReadDir(cache)
	if len(entries) != 0 {
		t.Errorf("expected empty cache, found %d entries", len(entries))
	}
}

func TestWorkspace_GetCachePath(t *testing.T) {
	w := &Workspace{CachePath: "/test/px/cache", RootPath: "/test/px"}

	if got := w.GetCachePath("chart.html"); got != "/test/px/cache/chart.html" {
		t.Errorf("GetCachePath = %q", got)
	}
	if got := w.LogPath(); got != "/test/px/px.log" {
		t.Errorf("LogPath = %q", got)
	}
}
