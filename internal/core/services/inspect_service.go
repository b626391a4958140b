package services

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/kamal-hamza/px-cli/internal/core/domain"
)

// ImageInfo describes a file as seen by the picker
type ImageInfo struct {
	Name     string
	Path     string
	Format   string
	Width    int
	Height   int
	Size     int64
	Accepted bool  // passes the image/* accept filter
	Err      error // decode or stat error, if any
}

// InspectService reads image headers without decoding pixels
type InspectService struct{}

// NewInspectService creates a new inspect service
func NewInspectService() *InspectService {
	return &InspectService{}
}

// Execute inspects each path in order. Per-file problems are reported in
// ImageInfo.Err rather than failing the batch.
func (s *InspectService) Execute(ctx context.Context, paths []string) ([]ImageInfo, error) {
	infos := make([]ImageInfo, 0, len(paths))

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return infos, err
		}
		infos = append(infos, s.inspect(p))
	}
	return infos, nil
}

func (s *InspectService) inspect(path string) ImageInfo {
	info := ImageInfo{
		Name:     filepath.Base(path),
		Path:     path,
		Accepted: domain.IsAcceptedImage(path),
	}

	st, err := os.Stat(path)
	if err != nil {
		info.Err = err
		return info
	}
	info.Size = st.Size()

	f, err := os.Open(path)
	if err != nil {
		info.Err = err
		return info
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		info.Err = err
		return info
	}

	info.Format = format
	info.Width = cfg.Width
	info.Height = cfg.Height
	return info
}
