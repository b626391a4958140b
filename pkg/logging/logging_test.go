package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, false)

	Info("uploaded %d images", 3)
	Debug("hidden")
	Error("failed: %s", "boom")

	out := buf.String()
	if !strings.Contains(out, "INFO: uploaded 3 images") {
		t.Errorf("missing info line in %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written while disabled: %q", out)
	}
	if !strings.Contains(out, "ERROR: failed: boom") {
		t.Errorf("missing error line in %q", out)
	}

	buf.Reset()
	SetOutput(&buf, true)
	Debug("visible")
	if !strings.Contains(buf.String(), "DEBUG: visible") {
		t.Errorf("expected debug line, got %q", buf.String())
	}
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "px.log")

	if err := SetupLogger(path, false); err != nil {
		t.Fatalf("SetupLogger failed: %v", err)
	}
	Info("hello")
	CloseLogger()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "INFO: hello") {
		t.Errorf("expected log line, got %q", data)
	}
}
