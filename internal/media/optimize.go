// Package media re-encodes product photos for upload and display.
package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Size names a display preset.
type Size string

const (
	SizeThumb  Size = "thumb"
	SizeMedium Size = "medium"
	SizeFull   Size = "full"
)

// Preset is a maximum edge length and JPEG quality. A zero MaxDim keeps
// the original dimensions.
type Preset struct {
	MaxDim  int
	Quality int
}

var presets = map[Size]Preset{
	SizeThumb:  {MaxDim: 300, Quality: 60},
	SizeMedium: {MaxDim: 800, Quality: 75},
}

// UploadPreset bounds images stored in the product bucket.
var UploadPreset = Preset{MaxDim: 1200, Quality: 85}

// ParseSize maps a query value to a size. Empty means full.
func ParseSize(s string) (Size, bool) {
	switch Size(s) {
	case "", SizeFull:
		return SizeFull, true
	case SizeThumb, SizeMedium:
		return Size(s), true
	default:
		return "", false
	}
}

// PresetFor returns the preset of size. Full has none.
func PresetFor(size Size) (Preset, bool) {
	p, ok := presets[size]
	return p, ok
}

// Optimize decodes data, applies EXIF orientation, scales it down to fit
// the preset and encodes it as JPEG. Images already within bounds are
// re-encoded without resizing.
func Optimize(data []byte, p Preset) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if p.MaxDim > 0 {
		b := img.Bounds()
		if b.Dx() > p.MaxDim || b.Dy() > p.MaxDim {
			img = imaging.Fit(img, p.MaxDim, p.MaxDim, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.Quality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
