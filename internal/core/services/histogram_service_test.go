package services

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/kamal-hamza/px-cli/internal/core/domain"
	"github.com/kamal-hamza/px-cli/internal/core/ports/mocks"
)

func TestHistogramService_Execute(t *testing.T) {
	store := mocks.NewMockImageStore()
	surface := mocks.NewMockRenderSurface()
	surface.Sizes["grid.png"] = image.Pt(4, 2)
	svc := NewHistogramService(store, surface)

	params := domain.DefaultFilters()
	params.Brightness = 120

	resp, err := svc.Execute(context.Background(), HistogramRequest{
		File:   domain.UploadFile{Name: "grid.png", Path: "/grid.png"},
		Params: params,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if resp.Width != 4 || resp.Height != 2 {
		t.Errorf("expected 4x2, got %dx%d", resp.Width, resp.Height)
	}

	// The mock image is fully transparent, so nothing is counted
	total := 0
	for _, n := range resp.Red {
		total += n
	}
	if total != 0 {
		t.Errorf("expected transparent pixels to be skipped, counted %d", total)
	}

	if len(surface.Bakes) != 1 || surface.Bakes[0].Params.Brightness != 120 {
		t.Errorf("expected filters to be applied before measuring, got %+v", surface.Bakes)
	}
	if store.Live() != 0 {
		t.Errorf("expected the temporary URL to be revoked, %d live", store.Live())
	}
}

func TestHistogramService_LoadError(t *testing.T) {
	store := mocks.NewMockImageStore()
	surface := mocks.NewMockRenderSurface()
	surface.LoadErr = errors.New("corrupt")
	svc := NewHistogramService(store, surface)

	_, err := svc.Execute(context.Background(), HistogramRequest{File: domain.UploadFile{Name: "x.png"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if store.Live() != 0 {
		t.Error("expected the temporary URL to be revoked on failure")
	}
}

func TestAccumulate(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{255, 255, 255, 255})

	var resp HistogramResponse
	accumulate(&resp, img)

	if resp.Red[255] != 2 {
		t.Errorf("expected 2 full-red counts, got %d", resp.Red[255])
	}
	if resp.Green[0] != 1 || resp.Green[255] != 1 {
		t.Errorf("unexpected green histogram: %d at 0, %d at 255", resp.Green[0], resp.Green[255])
	}
	if resp.Luma[255] != 1 || resp.Luma[54] != 1 {
		t.Errorf("unexpected luma buckets: white=%d red=%d", resp.Luma[255], resp.Luma[54])
	}
}
