package services

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/kamal-hamza/px-cli/internal/adapters/download"
	"github.com/kamal-hamza/px-cli/internal/adapters/render"
	"github.com/kamal-hamza/px-cli/internal/adapters/scheduler"
	"github.com/kamal-hamza/px-cli/internal/adapters/store"
	"github.com/kamal-hamza/px-cli/internal/core/domain"
)

func writeTestPNG(t *testing.T, dir, name string, img image.Image) domain.UploadFile {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	return domain.NewUploadFile(path)
}

func filled(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func within(got, want uint8) bool {
	d := int(got) - int(want)
	return d >= -1 && d <= 1
}

// Exports through the real store, render surface and file trigger
func TestEditorSession_ExportSelectedRendersFile(t *testing.T) {
	srcDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "exports")

	// 40x20 landscape with one marker pixel on the top edge
	one := filled(40, 20, color.NRGBA{0, 0, 100, 255})
	one.SetNRGBA(10, 0, color.NRGBA{100, 0, 0, 255})
	files := []domain.UploadFile{
		writeTestPNG(t, srcDir, "one.png", one),
		writeTestPNG(t, srcDir, "two.png", filled(20, 30, color.NRGBA{50, 50, 50, 255})),
	}

	st := store.NewMemoryStore()
	session := NewEditorSession(
		st,
		render.NewImagingSurface(st, render.FormatPNG, 0),
		download.NewFileTrigger(st, outDir),
		scheduler.NewTimerScheduler(),
	)
	defer session.Close()

	ctx := context.Background()
	assets, err := session.Upload(ctx, files)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if err := session.SelectImage(assets[0].ID); err != nil {
		t.Fatal(err)
	}
	if _, err := session.AdjustFilter(domain.FieldBrightness, 150); err != nil {
		t.Fatal(err)
	}
	if _, err := session.AdjustFilter(domain.FieldRotation, 90); err != nil {
		t.Fatal(err)
	}

	if err := session.ExportSelected(ctx); err != nil {
		t.Fatalf("ExportSelected failed: %v", err)
	}

	f, err := os.Open(filepath.Join(outDir, "edited_one.png"))
	if err != nil {
		t.Fatalf("expected edited_one.png: %v", err)
	}
	defer f.Close()

	out, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode export: %v", err)
	}

	if b := out.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Fatalf("expected natural size 40x20, got %v", b)
	}

	at := func(x, y int) color.NRGBA {
		return color.NRGBAModel.Convert(out.At(x, y)).(color.NRGBA)
	}

	// Clockwise quarter turn centred on the canvas: (10,0) lands on (29,0)
	if got := at(29, 0); !within(got.R, 150) || got.B > 1 || got.A != 255 {
		t.Errorf("expected the brightened marker at (29,0), got %v", got)
	}
	if got := at(20, 10); !within(got.B, 150) || got.R > 1 {
		t.Errorf("expected brightened background at the centre, got %v", got)
	}
	if got := at(0, 10); got.A != 0 {
		t.Errorf("expected a transparent side band, got %v", got)
	}

	if err := session.SelectImage(assets[1].ID); err != nil {
		t.Fatal(err)
	}
	if !session.Filters().IsDefault() {
		t.Errorf("expected file #2 at defaults, got %+v", session.Filters())
	}

	// Only the two uploads remain live after the temporary blob is released
	if st.Live() != 2 {
		t.Errorf("expected 2 live URLs, got %d", st.Live())
	}
}
