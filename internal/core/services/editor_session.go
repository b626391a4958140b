package services

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kamal-hamza/px-cli/internal/core/domain"
	"github.com/kamal-hamza/px-cli/internal/core/ports"
	"github.com/kamal-hamza/px-cli/pkg/logging"
)

// DefaultExportAllDelay spaces successive downloads of ExportAll
const DefaultExportAllDelay = 300 * time.Millisecond

// EditorSession holds the image collection, the selection and the live
// filter parameters, and delegates rendering and saving to its ports.
type EditorSession struct {
	store     ports.ImageStore
	surface   ports.RenderSurface
	trigger   ports.DownloadTrigger
	scheduler ports.Scheduler
	delay     time.Duration

	mu         sync.Mutex
	images     []domain.ImageAsset
	selectedID string
	filters    domain.FilterParams
	generation uint64 // bumped whenever a pending export must be abandoned
}

// SessionOption configures an EditorSession
type SessionOption func(*EditorSession)

// WithExportAllDelay sets the per-item spacing used by ExportAll
func WithExportAllDelay(d time.Duration) SessionOption {
	return func(s *EditorSession) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// NewEditorSession creates an empty session
func NewEditorSession(
	store ports.ImageStore,
	surface ports.RenderSurface,
	trigger ports.DownloadTrigger,
	scheduler ports.Scheduler,
	opts ...SessionOption,
) *EditorSession {
	s := &EditorSession{
		store:     store,
		surface:   surface,
		trigger:   trigger,
		scheduler: scheduler,
		delay:     DefaultExportAllDelay,
		filters:   domain.DefaultFilters(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload appends one asset per file, in order. Files are not validated.
func (s *EditorSession) Upload(ctx context.Context, files []domain.UploadFile) ([]domain.ImageAsset, error) {
	added := make([]domain.ImageAsset, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			s.appendAssets(added)
			return added, err
		}
		added = append(added, domain.ImageAsset{
			ID:   uuid.NewString(),
			URL:  s.store.CreateURL(f),
			Name: f.Name,
			File: f,
		})
	}

	s.appendAssets(added)
	return added, nil
}

func (s *EditorSession) appendAssets(assets []domain.ImageAsset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images = append(s.images, assets...)
}

// SelectImage selects an asset and resets the filters, also on reselect
func (s *EditorSession) SelectImage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", domain.ErrAssetNotFound, id)
	}

	s.selectedID = id
	s.filters = domain.DefaultFilters()
	s.generation++
	return nil
}

// AdjustFilter sets exactly one field. Range limits belong to the input controls.
func (s *EditorSession) AdjustFilter(field domain.FilterField, value float64) (domain.FilterParams, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedID == "" {
		return s.filters, domain.ErrNoSelection
	}

	updated, err := s.filters.With(field, value)
	if err != nil {
		return s.filters, err
	}
	s.filters = updated
	return s.filters, nil
}

// ResetFilters restores the defaults
func (s *EditorSession) ResetFilters() domain.FilterParams {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = domain.DefaultFilters()
	return s.filters
}

// DeleteImage removes an asset and revokes its URL
func (s *EditorSession) DeleteImage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", domain.ErrAssetNotFound, id)
	}

	asset := s.images[idx]
	s.images = append(s.images[:idx:idx], s.images[idx+1:]...)
	s.store.Revoke(asset.URL)

	if s.selectedID == id {
		s.selectedID = ""
		s.filters = domain.DefaultFilters()
		s.generation++
	}
	return nil
}

// ExportSelected bakes the filters into the selected image at full
// resolution and triggers a download named edited_<name>.
// It is a no-op when nothing is selected.
func (s *EditorSession) ExportSelected(ctx context.Context) error {
	// Phase 1: snapshot and load pixels
	s.mu.Lock()
	asset, ok := s.selectedLocked()
	params := s.filters
	token := s.generation
	s.mu.Unlock()

	if !ok {
		return nil
	}

	src, err := s.surface.Load(ctx, asset)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", asset.Name, err)
	}

	// Phase 2: render, unless the selection moved on meanwhile
	s.mu.Lock()
	stale := token != s.generation
	s.mu.Unlock()
	if stale {
		return domain.ErrExportSuperseded
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	baked, err := s.surface.Bake(ctx, src, params)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", asset.Name, err)
	}

	name := domain.ExportName(asset.Name)
	encoded, err := s.surface.Encode(baked, name)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	url := s.store.CreateBlobURL(encoded.Data, encoded.MIME)
	defer s.store.Revoke(url)

	if err := s.trigger.Trigger(ctx, url, name); err != nil {
		return fmt.Errorf("failed to download %s: %w", name, err)
	}
	return nil
}

// ExportAll schedules a download of every original, unfiltered image in
// collection order, spaced by the per-item delay. It does not wait.
func (s *EditorSession) ExportAll(ctx context.Context) int {
	images := s.Images()

	for i, asset := range images {
		asset := asset
		s.scheduler.After(time.Duration(i)*s.delay, func() {
			if err := s.trigger.Trigger(ctx, asset.URL, asset.Name); err != nil {
				logging.Error("export-all %s: %v", asset.Name, err)
			}
		})
	}
	return len(images)
}

// PreviewBase is a downscaled copy of an asset used for live previews
type PreviewBase struct {
	AssetID string
	Image   image.Image
	Scale   float64 // preview width / natural width
}

// LoadPreview decodes an asset and downsizes it for the preview pane
func (s *EditorSession) LoadPreview(ctx context.Context, id string, maxWidth, maxHeight int) (*PreviewBase, error) {
	asset, ok := s.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAssetNotFound, id)
	}

	src, err := s.surface.Load(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", asset.Name, err)
	}

	thumb := s.surface.Thumbnail(src, maxWidth, maxHeight)
	scale := 1.0
	if w := src.Bounds().Dx(); w > 0 {
		scale = float64(thumb.Bounds().Dx()) / float64(w)
	}

	return &PreviewBase{AssetID: id, Image: thumb, Scale: scale}, nil
}

// RenderPreview applies params to a preview base without touching the asset
func (s *EditorSession) RenderPreview(ctx context.Context, base *PreviewBase, params domain.FilterParams) (image.Image, error) {
	return s.surface.Bake(ctx, base.Image, params.ScaleBlur(base.Scale))
}

// Close ends the session, revoking every URL and abandoning pending exports
func (s *EditorSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, asset := range s.images {
		s.store.Revoke(asset.URL)
	}
	s.images = nil
	s.selectedID = ""
	s.filters = domain.DefaultFilters()
	s.generation++
}

// Images returns a copy of the collection in upload order
func (s *EditorSession) Images() []domain.ImageAsset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ImageAsset(nil), s.images...)
}

// Len returns the number of images
func (s *EditorSession) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}

// Find looks up an asset by identifier
func (s *EditorSession) Find(id string) (domain.ImageAsset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.images[idx], true
	}
	return domain.ImageAsset{}, false
}

// Selected returns the selected asset, if any
func (s *EditorSession) Selected() (domain.ImageAsset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLocked()
}

// Filters returns the live filter parameters
func (s *EditorSession) Filters() domain.FilterParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

func (s *EditorSession) selectedLocked() (domain.ImageAsset, bool) {
	if s.selectedID == "" {
		return domain.ImageAsset{}, false
	}
	if idx := s.indexOf(s.selectedID); idx >= 0 {
		return s.images[idx], true
	}
	return domain.ImageAsset{}, false
}

func (s *EditorSession) indexOf(id string) int {
	for i, asset := range s.images {
		if asset.ID == id {
			return i
		}
	}
	return -1
}
