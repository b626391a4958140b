package ports

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/kamal-hamza/px-cli/internal/core/domain"
)

// ImageStore defines the port that turns uploaded files into displayable URLs
type ImageStore interface {
	// CreateURL registers a file and returns its displayable URL
	CreateURL(file domain.UploadFile) string

	// CreateBlobURL registers an in-memory payload (e.g. a baked export)
	CreateBlobURL(data []byte, mimeType string) string

	// Open resolves a URL to its bytes
	Open(ctx context.Context, url string) (io.ReadCloser, error)

	// Revoke releases a URL. Revoking an unknown URL is a no-op.
	Revoke(url string)

	// Live returns the number of URLs not yet revoked
	Live() int
}

// RenderSurface defines the port for off-screen rasterisation
type RenderSurface interface {
	// Load decodes the asset's full-resolution pixels
	Load(ctx context.Context, asset domain.ImageAsset) (image.Image, error)

	// Bake applies the filter chain and rotation on a canvas of the source's size
	Bake(ctx context.Context, src image.Image, params domain.FilterParams) (image.Image, error)

	// Encode serialises a baked image for the given file name
	Encode(img image.Image, name string) (*domain.EncodedImage, error)

	// Thumbnail downscales src to fit inside maxWidth x maxHeight
	Thumbnail(src image.Image, maxWidth, maxHeight int) image.Image
}

// DownloadTrigger defines the port that saves a URL's payload as a file
type DownloadTrigger interface {
	// Trigger starts a save of url under the suggested name
	Trigger(ctx context.Context, url string, name string) error
}

// Scheduler defines the port for fire-and-forget delayed callbacks
type Scheduler interface {
	// After runs fn once, after delay
	After(delay time.Duration, fn func())
}

// ImageSource defines the port for files arriving from outside the session
type ImageSource interface {
	// Files streams files that passed the accept filter
	Files() <-chan domain.UploadFile

	// Close stops the source
	Close() error
}
