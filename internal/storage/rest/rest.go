// Package rest stores objects in a gateway bucket.
package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/UTarts/cardiff-healthcare/internal/gateway"
	"github.com/UTarts/cardiff-healthcare/internal/storage"
)

// Storage implements storage.Storage on the gateway's object API.
type Storage struct {
	client *gateway.Client
	bucket string
}

// New returns a store writing to bucket.
func New(client *gateway.Client, bucket string) *Storage {
	if bucket == "" {
		bucket = storage.DefaultBucket
	}
	return &Storage{client: client, bucket: bucket}
}

func (s *Storage) objectPath(key string) string {
	return "/storage/v1/object/" + s.bucket + "/" + key
}

// Upload sends the object body. Existing keys are not overwritten.
func (s *Storage) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	data, err := io.ReadAll(input.Data)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", input.Key, err)
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.Send(ctx, gateway.Request{
		Method:      http.MethodPost,
		Path:        s.objectPath(input.Key),
		Body:        data,
		ContentType: contentType,
		Header: http.Header{
			"Cache-Control": {"max-age=3600"},
			"X-Upsert":      {"false"},
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", input.Key, err)
	}

	return &storage.UploadResult{Key: input.Key, URL: s.PublicURL(input.Key)}, nil
}

// Delete removes an object from the bucket.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if _, err := s.client.Send(ctx, gateway.Request{Method: http.MethodDelete, Path: s.objectPath(key)}, nil); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the unauthenticated URL of key.
func (s *Storage) PublicURL(key string) string {
	return s.client.URL("/storage/v1/object/public/"+s.bucket+"/"+key, nil)
}
