package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/kamal-hamza/px-cli/internal/adapters/store"
	"github.com/kamal-hamza/px-cli/internal/core/domain"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -1 && d <= 1
}

func writePNG(t *testing.T, img image.Image, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	return path
}

func TestImagingSurface_LoadFullResolution(t *testing.T) {
	path := writePNG(t, solid(64, 48, color.NRGBA{10, 20, 30, 255}), "photo.png")

	st := store.NewMemoryStore()
	s := NewImagingSurface(st, FormatPNG, 0)
	asset := domain.ImageAsset{Name: "photo.png", URL: st.CreateURL(domain.NewUploadFile(path))}

	img, err := s.Load(context.Background(), asset)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("expected 64x48, got %v", b)
	}
}

func TestImagingSurface_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	os.WriteFile(path, []byte("not an image"), 0644)

	st := store.NewMemoryStore()
	s := NewImagingSurface(st, FormatPNG, 0)
	asset := domain.ImageAsset{Name: "broken.png", URL: st.CreateURL(domain.NewUploadFile(path))}

	if _, err := s.Load(context.Background(), asset); err == nil {
		t.Error("expected decode error")
	}
}

func TestImagingSurface_BakeDefaultsIsIdentity(t *testing.T) {
	s := NewImagingSurface(store.NewMemoryStore(), FormatPNG, 0)
	src := solid(4, 4, color.NRGBA{100, 150, 200, 255})

	out, err := s.Bake(context.Background(), src, domain.DefaultFilters())
	if err != nil {
		t.Fatalf("Bake failed: %v", err)
	}

	got := color.NRGBAModel.Convert(out.At(2, 2)).(color.NRGBA)
	if got != (color.NRGBA{100, 150, 200, 255}) {
		t.Errorf("expected unchanged pixel, got %v", got)
	}
}

func TestImagingSurface_BakeColorFilters(t *testing.T) {
	s := NewImagingSurface(store.NewMemoryStore(), FormatPNG, 0)

	tests := []struct {
		name   string
		src    color.NRGBA
		params domain.FilterParams
		check  func(c color.NRGBA) bool
	}{
		{
			name:   "brightness 150",
			src:    color.NRGBA{100, 100, 100, 255},
			params: domain.FilterParams{Brightness: 150, Contrast: 100, Saturation: 100},
			check:  func(c color.NRGBA) bool { return near(c.R, 150) && near(c.G, 150) && near(c.B, 150) },
		},
		{
			name:   "brightness clamps",
			src:    color.NRGBA{200, 200, 200, 255},
			params: domain.FilterParams{Brightness: 200, Contrast: 100, Saturation: 100},
			check:  func(c color.NRGBA) bool { return c.R == 255 },
		},
		{
			name:   "brightness 0 is black",
			src:    color.NRGBA{90, 180, 250, 255},
			params: domain.FilterParams{Brightness: 0, Contrast: 100, Saturation: 100},
			check:  func(c color.NRGBA) bool { return c.R == 0 && c.G == 0 && c.B == 0 && c.A == 255 },
		},
		{
			name:   "contrast 50",
			src:    color.NRGBA{200, 200, 200, 255},
			params: domain.FilterParams{Brightness: 100, Contrast: 50, Saturation: 100},
			check:  func(c color.NRGBA) bool { return near(c.R, 164) },
		},
		{
			name:   "contrast 0 is mid grey",
			src:    color.NRGBA{10, 240, 60, 255},
			params: domain.FilterParams{Brightness: 100, Contrast: 0, Saturation: 100},
			check:  func(c color.NRGBA) bool { return near(c.R, 128) && near(c.G, 128) && near(c.B, 128) },
		},
		{
			name:   "saturate 0 is grey",
			src:    color.NRGBA{255, 0, 0, 255},
			params: domain.FilterParams{Brightness: 100, Contrast: 100, Saturation: 0},
			check:  func(c color.NRGBA) bool { return c.R == c.G && c.G == c.B && near(c.R, 54) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := s.Bake(context.Background(), solid(3, 3, tt.src), tt.params)
			if err != nil {
				t.Fatalf("Bake failed: %v", err)
			}
			got := color.NRGBAModel.Convert(out.At(1, 1)).(color.NRGBA)
			if !tt.check(got) {
				t.Errorf("unexpected pixel %v", got)
			}
		})
	}
}

func TestImagingSurface_BakeBlurSpreads(t *testing.T) {
	s := NewImagingSurface(store.NewMemoryStore(), FormatPNG, 0)
	src := solid(9, 9, color.NRGBA{0, 0, 0, 255})
	src.SetNRGBA(4, 4, color.NRGBA{255, 255, 255, 255})

	out, err := s.Bake(context.Background(), src, domain.FilterParams{Brightness: 100, Contrast: 100, Saturation: 100, Blur: 2})
	if err != nil {
		t.Fatalf("Bake failed: %v", err)
	}

	centre := color.NRGBAModel.Convert(out.At(4, 4)).(color.NRGBA)
	neighbour := color.NRGBAModel.Convert(out.At(5, 4)).(color.NRGBA)
	if centre.R == 255 {
		t.Error("expected the bright pixel to be spread out")
	}
	if neighbour.R == 0 {
		t.Error("expected the neighbour to pick up light")
	}
}

func TestImagingSurface_BakeRotation(t *testing.T) {
	s := NewImagingSurface(store.NewMemoryStore(), FormatPNG, 0)
	red := color.NRGBA{255, 0, 0, 255}
	src := solid(3, 3, color.NRGBA{0, 0, 255, 255})
	src.SetNRGBA(0, 0, red)

	out, err := s.Bake(context.Background(), src, domain.FilterParams{Brightness: 100, Contrast: 100, Saturation: 100, Rotation: 90})
	if err != nil {
		t.Fatalf("Bake failed: %v", err)
	}

	if b := out.Bounds(); b.Dx() != 3 || b.Dy() != 3 {
		t.Fatalf("expected natural size 3x3, got %v", b)
	}

	// Clockwise quarter turn: top-left moves to top-right
	if got := color.NRGBAModel.Convert(out.At(2, 0)).(color.NRGBA); got != red {
		t.Errorf("expected red at top-right, got %v", got)
	}
}

func TestImagingSurface_BakeRotationKeepsCanvasSize(t *testing.T) {
	s := NewImagingSurface(store.NewMemoryStore(), FormatPNG, 0)
	src := solid(40, 20, color.NRGBA{0, 255, 0, 255})

	out, err := s.Bake(context.Background(), src, domain.FilterParams{Brightness: 100, Contrast: 100, Saturation: 100, Rotation: 30})
	if err != nil {
		t.Fatalf("Bake failed: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("expected 40x20 canvas, got %v", b)
	}

	// Corners fall outside the rotated content
	if got := color.NRGBAModel.Convert(out.At(0, 0)).(color.NRGBA); got.A != 0 {
		t.Errorf("expected transparent corner, got %v", got)
	}
}

func TestImagingSurface_BakeRotationNonSquare(t *testing.T) {
	s := NewImagingSurface(store.NewMemoryStore(), FormatPNG, 0)
	green := color.NRGBA{0, 255, 0, 255}

	tests := []struct {
		name     string
		rotation float64
	}{
		{"quarter turn", 90},
		{"counter-clockwise 60", -60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := solid(40, 20, green)

			out, err := s.Bake(context.Background(), src, domain.FilterParams{Brightness: 100, Contrast: 100, Saturation: 100, Rotation: tt.rotation})
			if err != nil {
				t.Fatalf("Bake failed: %v", err)
			}
			if b := out.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
				t.Fatalf("expected 40x20 canvas, got %v", b)
			}

			// The rotated content is narrower than the canvas: side bands stay empty
			for _, x := range []int{0, 39} {
				if got := color.NRGBAModel.Convert(out.At(x, 10)).(color.NRGBA); got.A != 0 {
					t.Errorf("expected transparent band at (%d,10), got %v", x, got)
				}
			}
			if got := color.NRGBAModel.Convert(out.At(20, 10)).(color.NRGBA); got.A != 255 || !near(got.G, 255) {
				t.Errorf("expected green at the centre, got %v", got)
			}
		})
	}
}

func TestImagingSurface_Encode(t *testing.T) {
	img := solid(5, 4, color.NRGBA{1, 2, 3, 255})

	pngSurface := NewImagingSurface(store.NewMemoryStore(), FormatPNG, 0)
	enc, err := pngSurface.Encode(img, "edited_photo.jpg")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if enc.MIME != "image/png" || enc.Width != 5 || enc.Height != 4 {
		t.Errorf("unexpected encoding %s %dx%d", enc.MIME, enc.Width, enc.Height)
	}
	if _, format, err := image.Decode(bytes.NewReader(enc.Data)); err != nil || format != "png" {
		t.Errorf("expected decodable png, got %q (%v)", format, err)
	}

	auto := NewImagingSurface(store.NewMemoryStore(), FormatAuto, 80)
	enc, err = auto.Encode(img, "edited_photo.jpg")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if enc.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg in auto mode, got %s", enc.MIME)
	}

	enc, err = auto.Encode(img, "edited_photo.webp")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if enc.MIME != "image/png" {
		t.Errorf("expected png fallback for webp, got %s", enc.MIME)
	}
}

func TestImagingSurface_Thumbnail(t *testing.T) {
	s := NewImagingSurface(store.NewMemoryStore(), FormatPNG, 0)

	thumb := s.Thumbnail(solid(400, 200, color.NRGBA{A: 255}), 100, 100)
	if b := thumb.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("expected 100x50, got %v", b)
	}

	small := solid(10, 10, color.NRGBA{A: 255})
	if got := s.Thumbnail(small, 100, 100); got.Bounds() != small.Bounds() {
		t.Errorf("expected no upscaling, got %v", got.Bounds())
	}
}

func TestEncodeFormats(t *testing.T) {
	got := EncodeFormats()
	want := []string{"bmp", "gif", "jpeg", "png", "tiff"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("format %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
