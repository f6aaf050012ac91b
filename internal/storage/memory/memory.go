package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/UTarts/cardiff-healthcare/internal/storage"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
)

type object struct {
	contentType string
	data        []byte
}

// Storage implements storage.Storage in memory for development and tests.
type Storage struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
}

// New creates an empty store whose public URLs start with baseURL.
func New(baseURL string) *Storage {
	return &Storage{
		objects: make(map[string]object),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload keeps the object bytes and returns its URL.
func (s *Storage) Upload(_ context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	data, err := io.ReadAll(input.Data)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", input.Key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.objects[input.Key]; exists {
		return nil, apperrors.AlreadyExists("object", "key", input.Key)
	}
	s.objects[input.Key] = object{contentType: input.ContentType, data: data}

	return &storage.UploadResult{Key: input.Key, URL: s.PublicURL(input.Key)}, nil
}

// Delete removes an object.
func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.objects[key]; !exists {
		return apperrors.NotFound("object", key)
	}
	delete(s.objects, key)
	return nil
}

// PublicURL returns baseURL/key.
func (s *Storage) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

// Object returns a copy of the stored bytes and content type.
func (s *Storage) Object(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[key]
	if !ok {
		return nil, "", false
	}
	return bytes.Clone(o.data), o.contentType, true
}
