package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UTarts/cardiff-healthcare/internal/storage"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
)

func TestStorage_UploadDelete(t *testing.T) {
	s := New("http://localhost:8080/media/")
	ctx := context.Background()

	res, err := s.Upload(ctx, &storage.UploadInput{Key: "cardimol-1.jpg", ContentType: "image/jpeg", Data: strings.NewReader("jpeg")})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/cardimol-1.jpg", res.URL)

	data, ct, ok := s.Object("cardimol-1.jpg")
	require.True(t, ok)
	assert.Equal(t, "jpeg", string(data))
	assert.Equal(t, "image/jpeg", ct)

	_, err = s.Upload(ctx, &storage.UploadInput{Key: "cardimol-1.jpg", Data: strings.NewReader("again")})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	require.NoError(t, s.Delete(ctx, "cardimol-1.jpg"))
	assert.ErrorIs(t, s.Delete(ctx, "cardimol-1.jpg"), apperrors.ErrNotFound)
}
