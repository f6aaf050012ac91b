package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 20, G: 120, B: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decode(t *testing.T, data []byte) (image.Image, string) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img, format
}

func TestOptimize_ScalesDown(t *testing.T) {
	out, err := Optimize(pngBytes(t, 1600, 800), UploadPreset)
	require.NoError(t, err)

	img, format := decode(t, out)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestOptimize_KeepsSmallImages(t *testing.T) {
	thumb, _ := PresetFor(SizeThumb)
	out, err := Optimize(pngBytes(t, 120, 90), thumb)
	require.NoError(t, err)

	img, _ := decode(t, out)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 90, img.Bounds().Dy())
}

func TestOptimize_RejectsGarbage(t *testing.T) {
	_, err := Optimize([]byte("not an image"), UploadPreset)
	assert.ErrorContains(t, err, "decode image")
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want Size
		ok   bool
	}{
		{"", SizeFull, true},
		{"full", SizeFull, true},
		{"thumb", SizeThumb, true},
		{"medium", SizeMedium, true},
		{"huge", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSize(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}

	_, ok := PresetFor(SizeFull)
	assert.False(t, ok)
}
