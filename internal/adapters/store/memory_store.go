package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/kamal-hamza/px-cli/internal/core/domain"
)

const urlPrefix = "blob:px/"

// entry is what a URL points at: either a file on disk or an in-memory blob
type entry struct {
	path string
	data []byte
	mime string
}

// MemoryStore hands out blob: URLs for files and payloads and keeps them
// alive until revoked
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
	}
}

// CreateURL registers a file. The file is not read or validated.
func (s *MemoryStore) CreateURL(file domain.UploadFile) string {
	url := urlPrefix + uuid.NewString()

	s.mu.Lock()
	s.entries[url] = entry{path: file.Path, mime: domain.MIMEType(file.Name)}
	s.mu.Unlock()

	return url
}

// CreateBlobURL registers an in-memory payload
func (s *MemoryStore) CreateBlobURL(data []byte, mimeType string) string {
	url := urlPrefix + uuid.NewString()

	s.mu.Lock()
	s.entries[url] = entry{data: data, mime: mimeType}
	s.mu.Unlock()

	return url
}

// Open resolves a URL to a reader over its bytes
func (s *MemoryStore) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	e, ok := s.entries[url]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrURLNotFound, url)
	}

	if e.data != nil {
		return io.NopCloser(bytes.NewReader(e.data)), nil
	}

	f, err := os.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", e.path, err)
	}
	return f, nil
}

// MIMEType returns the type recorded for a URL
func (s *MemoryStore) MIMEType(url string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[url].mime
}

// Revoke releases a URL
func (s *MemoryStore) Revoke(url string) {
	s.mu.Lock()
	delete(s.entries, url)
	s.mu.Unlock()
}

// Live returns the number of outstanding URLs
func (s *MemoryStore) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
