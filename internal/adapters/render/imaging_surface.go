package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kamal-hamza/px-cli/internal/core/domain"
	"github.com/kamal-hamza/px-cli/internal/core/ports"
)

// Export formats
const (
	FormatPNG  = "png"
	FormatAuto = "auto" // follow the file extension, PNG when unknown
)

var mimeTypes = map[imaging.Format]string{
	imaging.JPEG: "image/jpeg",
	imaging.PNG:  "image/png",
	imaging.GIF:  "image/gif",
	imaging.TIFF: "image/tiff",
	imaging.BMP:  "image/bmp",
}

// EncodeFormats lists the formats Encode can produce, sorted
func EncodeFormats() []string {
	names := make([]string, 0, len(mimeTypes))
	for f := range mimeTypes {
		names = append(names, strings.ToLower(f.String()))
	}
	sort.Strings(names)
	return names
}

// ImagingSurface is a pure Go render surface
type ImagingSurface struct {
	store       ports.ImageStore
	format      string
	jpegQuality int
}

// NewImagingSurface creates a surface reading pixels through store
func NewImagingSurface(store ports.ImageStore, format string, jpegQuality int) *ImagingSurface {
	if format == "" {
		format = FormatPNG
	}
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = 92
	}
	return &ImagingSurface{
		store:       store,
		format:      strings.ToLower(format),
		jpegQuality: jpegQuality,
	}
}

// Load decodes the asset at its natural size, honouring EXIF orientation
func (s *ImagingSurface) Load(ctx context.Context, asset domain.ImageAsset) (image.Image, error) {
	rc, err := s.store.Open(ctx, asset.URL)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, err := imaging.Decode(rc, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", asset.Name, err)
	}
	return img, nil
}

// Bake applies brightness, contrast, saturate and blur in that order, then
// rotates about the centre onto a canvas of the source's dimensions
func (s *ImagingSurface) Bake(ctx context.Context, src image.Image, params domain.FilterParams) (image.Image, error) {
	bounds := src.Bounds()
	img := imaging.Clone(src)

	if params.Brightness != 100 || params.Contrast != 100 || params.Saturation != 100 {
		img = imaging.AdjustFunc(img, colorChain(params))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if params.Blur > 0 {
		img = imaging.Blur(img, params.Blur)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if params.Rotation != 0 {
		// imaging rotates counter-clockwise; canvas rotation is clockwise
		rotated := imaging.Rotate(img, -params.Rotation, color.Transparent)
		canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.Transparent)
		img = imaging.PasteCenter(canvas, rotated)
	}

	return img, nil
}

// Encode serialises img. The output format is PNG unless the surface is in
// auto mode and the name carries a known extension.
func (s *ImagingSurface) Encode(img image.Image, name string) (*domain.EncodedImage, error) {
	format := imaging.PNG
	if s.format == FormatAuto {
		if f, err := imaging.FormatFromFilename(name); err == nil {
			format = f
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(s.jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}

	b := img.Bounds()
	return &domain.EncodedImage{
		Data:   buf.Bytes(),
		MIME:   mimeTypes[format],
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// Thumbnail fits src inside the box, never upscaling
func (s *ImagingSurface) Thumbnail(src image.Image, maxWidth, maxHeight int) image.Image {
	if maxWidth <= 0 || maxHeight <= 0 {
		return src
	}
	return resize.Thumbnail(uint(maxWidth), uint(maxHeight), src, resize.Bilinear)
}
