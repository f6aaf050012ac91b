package catalog

import (
	"github.com/UTarts/cardiff-healthcare/internal/domain"
)

// ContactPath is where an inquiry hand-off navigates.
const ContactPath = "/contact"

// Handoff asks the shell to navigate to the contact form.
type Handoff struct {
	Path    string `json:"path"`
	Prefill string `json:"prefill"`
}

// Viewer is the lightbox state: closed, or open on one product at one
// image index. Methods return new values and never modify the receiver.
type Viewer struct {
	open    bool
	product domain.Product
	index   int
}

// Open shows p starting at its first image.
func (v Viewer) Open(p domain.Product) Viewer {
	return Viewer{open: true, product: p.Clone()}
}

// Close dismisses the lightbox.
func (v Viewer) Close() Viewer {
	return Viewer{}
}

// SelectImage moves to gallery entry i. Indexes outside the gallery, and
// any call while closed, leave the viewer unchanged.
func (v Viewer) SelectImage(i int, placeholder string) Viewer {
	if !v.open || i < 0 || i >= len(v.Images(placeholder)) {
		return v
	}
	v.index = i
	return v
}

// IsOpen reports whether a product is shown.
func (v Viewer) IsOpen() bool {
	return v.open
}

// Product returns the shown product.
func (v Viewer) Product() (domain.Product, bool) {
	return v.product, v.open
}

// Index returns the active image index; it is only meaningful while open.
func (v Viewer) Index() (int, bool) {
	return v.index, v.open
}

// Images returns the gallery. A product without images shows placeholder
// as its single entry.
func (v Viewer) Images(placeholder string) []string {
	if !v.open {
		return nil
	}
	if !v.product.HasImages() {
		return []string{placeholder}
	}
	return v.product.Images
}

// MainImage returns the image at the active index.
func (v Viewer) MainImage(placeholder string) string {
	images := v.Images(placeholder)
	if len(images) == 0 {
		return ""
	}
	return images[v.index]
}

// Thumbnail is one entry of the gallery strip.
type Thumbnail struct {
	Index  int    `json:"index"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Thumbnails returns one entry per gallery image.
func (v Viewer) Thumbnails(placeholder string) []Thumbnail {
	images := v.Images(placeholder)
	out := make([]Thumbnail, len(images))
	for i, u := range images {
		out[i] = Thumbnail{Index: i, URL: u, Active: i == v.index}
	}
	return out
}

// Inquire returns the contact hand-off for the shown product.
func (v Viewer) Inquire() (Handoff, bool) {
	if !v.open {
		return Handoff{}, false
	}
	return Handoff{Path: ContactPath, Prefill: v.product.Name}, true
}
