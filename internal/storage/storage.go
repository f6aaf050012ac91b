package storage

import (
	"context"
	"io"
)

// DefaultBucket holds product photos.
const DefaultBucket = "medicine-images"

// Storage stores product images and issues their public URLs.
type Storage interface {
	// Upload stores an object and returns its key and public URL.
	Upload(ctx context.Context, input *UploadInput) (*UploadResult, error)

	// Delete removes an object by its key.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the URL anyone can fetch key from.
	PublicURL(key string) string
}

// UploadInput holds the parameters for uploading a file.
type UploadInput struct {
	Key         string
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadResult holds the result of a successful upload.
type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
