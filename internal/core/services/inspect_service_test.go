package services

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestInspectService_Execute(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.png")
	f, err := os.Create(good)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	png.Encode(f, image.NewRGBA(image.Rect(0, 0, 12, 7)))
	f.Close()

	bad := filepath.Join(dir, "bad.png")
	os.WriteFile(bad, []byte("nope"), 0644)

	text := filepath.Join(dir, "readme.txt")
	os.WriteFile(text, []byte("hello"), 0644)

	missing := filepath.Join(dir, "missing.jpg")

	infos, err := NewInspectService().Execute(context.Background(), []string{good, bad, text, missing})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(infos) != 4 {
		t.Fatalf("expected 4 results, got %d", len(infos))
	}

	if infos[0].Err != nil || infos[0].Format != "png" || infos[0].Width != 12 || infos[0].Height != 7 {
		t.Errorf("unexpected info for good.png: %+v", infos[0])
	}
	if !infos[0].Accepted {
		t.Error("expected good.png to be accepted")
	}

	if infos[1].Err == nil {
		t.Error("expected decode error for bad.png")
	}
	if !infos[1].Accepted {
		t.Error("bad.png passes the accept filter even though it cannot decode")
	}

	if infos[2].Accepted {
		t.Error("expected readme.txt to be rejected by the accept filter")
	}

	if infos[3].Err == nil || !os.IsNotExist(infos[3].Err) {
		t.Errorf("expected not-exist error, got %v", infos[3].Err)
	}
}
