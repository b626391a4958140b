package services

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/kamal-hamza/px-cli/internal/core/domain"
	"github.com/kamal-hamza/px-cli/internal/core/ports"
)

// HistogramService computes channel histograms of a filtered image
type HistogramService struct {
	store   ports.ImageStore
	surface ports.RenderSurface
}

// NewHistogramService creates a new histogram service
func NewHistogramService(store ports.ImageStore, surface ports.RenderSurface) *HistogramService {
	return &HistogramService{
		store:   store,
		surface: surface,
	}
}

// HistogramRequest names the image and the filters to apply first
type HistogramRequest struct {
	File   domain.UploadFile
	Params domain.FilterParams
}

// HistogramResponse holds 256-bucket counts per channel
type HistogramResponse struct {
	Name   string
	Width  int
	Height int
	Red    [256]int
	Green  [256]int
	Blue   [256]int
	Luma   [256]int
}

// Execute loads, filters and measures the image
func (s *HistogramService) Execute(ctx context.Context, req HistogramRequest) (*HistogramResponse, error) {
	url := s.store.CreateURL(req.File)
	defer s.store.Revoke(url)

	asset := domain.ImageAsset{URL: url, Name: req.File.Name, File: req.File}
	src, err := s.surface.Load(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", req.File.Name, err)
	}

	img, err := s.surface.Bake(ctx, src, req.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", req.File.Name, err)
	}

	resp := &HistogramResponse{
		Name:   req.File.Name,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}
	accumulate(resp, img)
	return resp, nil
}

// accumulate counts visible pixels only; rotated corners are transparent
func accumulate(resp *HistogramResponse, img image.Image) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			resp.Red[c.R]++
			resp.Green[c.G]++
			resp.Blue[c.B]++
			resp.Luma[luma(c)]++
		}
	}
}

// luma uses Rec. 709 weights
func luma(c color.NRGBA) uint8 {
	y := 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
	if y > 255 {
		y = 255
	}
	return uint8(y + 0.5)
}
