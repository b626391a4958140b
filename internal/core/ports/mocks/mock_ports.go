package mocks

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/kamal-hamza/px-cli/internal/core/domain"
)

// --- MockImageStore ---

// MockImageStore is an in-memory ImageStore that records revocations
type MockImageStore struct {
	mu      sync.Mutex
	next    int
	files   map[string]domain.UploadFile
	blobs   map[string][]byte
	Revoked []string
}

// NewMockImageStore creates a new mock image store
func NewMockImageStore() *MockImageStore {
	return &MockImageStore{
		files: make(map[string]domain.UploadFile),
		blobs: make(map[string][]byte),
	}
}

// CreateURL registers a file
func (m *MockImageStore) CreateURL(file domain.UploadFile) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	url := fmt.Sprintf("blob:mock/%d", m.next)
	m.files[url] = file
	return url
}

// CreateBlobURL registers a payload
func (m *MockImageStore) CreateBlobURL(data []byte, mimeType string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	url := fmt.Sprintf("blob:mock/%d", m.next)
	m.blobs[url] = data
	return url
}

// Open returns the blob bytes, or the file name as bytes for file URLs
func (m *MockImageStore) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if data, ok := m.blobs[url]; ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	if f, ok := m.files[url]; ok {
		return io.NopCloser(bytes.NewReader([]byte(f.Name))), nil
	}
	return nil, domain.ErrURLNotFound
}

// Revoke releases a URL
func (m *MockImageStore) Revoke(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, isFile := m.files[url]
	_, isBlob := m.blobs[url]
	if !isFile && !isBlob {
		return
	}
	delete(m.files, url)
	delete(m.blobs, url)
	m.Revoked = append(m.Revoked, url)
}

// Live returns the outstanding URL count
func (m *MockImageStore) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files) + len(m.blobs)
}

// --- MockRenderSurface ---

// BakeCall records one Bake invocation
type BakeCall struct {
	Bounds image.Rectangle
	Params domain.FilterParams
}

// MockRenderSurface returns solid images sized per asset and records bakes
type MockRenderSurface struct {
	mu sync.Mutex

	// Sizes maps asset names to natural dimensions (default 4x4)
	Sizes map[string]image.Point

	// LoadErr, when set, is returned by Load
	LoadErr error

	// OnLoad runs inside Load before it returns
	OnLoad func(asset domain.ImageAsset)

	Loaded []string
	Bakes  []BakeCall
}

// NewMockRenderSurface creates a new mock render surface
func NewMockRenderSurface() *MockRenderSurface {
	return &MockRenderSurface{Sizes: make(map[string]image.Point)}
}

// Load returns an RGBA image of the configured size
func (m *MockRenderSurface) Load(ctx context.Context, asset domain.ImageAsset) (image.Image, error) {
	if m.OnLoad != nil {
		m.OnLoad(asset)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.Loaded = append(m.Loaded, asset.Name)

	size, ok := m.Sizes[asset.Name]
	if !ok {
		size = image.Pt(4, 4)
	}
	return image.NewRGBA(image.Rect(0, 0, size.X, size.Y)), nil
}

// Bake records the call and returns src unchanged
func (m *MockRenderSurface) Bake(ctx context.Context, src image.Image, params domain.FilterParams) (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Bakes = append(m.Bakes, BakeCall{Bounds: src.Bounds(), Params: params})
	return src, nil
}

// Encode returns a tiny payload carrying the dimensions
func (m *MockRenderSurface) Encode(img image.Image, name string) (*domain.EncodedImage, error) {
	b := img.Bounds()
	return &domain.EncodedImage{
		Data:   []byte(fmt.Sprintf("%s:%dx%d", name, b.Dx(), b.Dy())),
		MIME:   "image/png",
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// Thumbnail returns a blank image of the requested box
func (m *MockRenderSurface) Thumbnail(src image.Image, maxWidth, maxHeight int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, maxWidth, maxHeight))
}

// --- MockDownloadTrigger ---

// Download records one Trigger invocation
type Download struct {
	URL     string
	Name    string
	Payload []byte
}

// MockDownloadTrigger records downloads, reading the payload through Store when set
type MockDownloadTrigger struct {
	mu        sync.Mutex
	Store     *MockImageStore
	Err       error
	Downloads []Download
}

// NewMockDownloadTrigger creates a trigger that reads payloads from store
func NewMockDownloadTrigger(store *MockImageStore) *MockDownloadTrigger {
	return &MockDownloadTrigger{Store: store}
}

// Trigger records the download
func (m *MockDownloadTrigger) Trigger(ctx context.Context, url string, name string) error {
	var payload []byte
	if m.Store != nil {
		if rc, err := m.Store.Open(ctx, url); err == nil {
			payload, _ = io.ReadAll(rc)
			rc.Close()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Downloads = append(m.Downloads, Download{URL: url, Name: name, Payload: payload})
	return m.Err
}

// Snapshot returns a copy of the recorded downloads
func (m *MockDownloadTrigger) Snapshot() []Download {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Download(nil), m.Downloads...)
}

// --- MockScheduler ---

// MockScheduler records delays and runs callbacks synchronously
type MockScheduler struct {
	mu     sync.Mutex
	Delays []time.Duration
}

// NewMockScheduler creates a new mock scheduler
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{}
}

// After records delay and runs fn immediately
func (m *MockScheduler) After(delay time.Duration, fn func()) {
	m.mu.Lock()
	m.Delays = append(m.Delays, delay)
	m.mu.Unlock()

	fn()
}
