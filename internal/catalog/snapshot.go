package catalog

import "github.com/UTarts/cardiff-healthcare/internal/domain"

// Card is one grid entry.
type Card struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Composition string `json:"composition"`
	Uses        string `json:"uses"`
	PackSize    string `json:"pack_size"`
	Image       string `json:"image"`
	IsTopSeller bool   `json:"is_top_seller"`
}

// Lightbox is the rendered detail viewer.
type Lightbox struct {
	Product    domain.Product `json:"product"`
	ImageIndex int            `json:"image_index"`
	MainImage  string         `json:"main_image"`
	Thumbnails []Thumbnail    `json:"thumbnails"`
	Inquire    Handoff        `json:"inquire"`
}

// Snapshot is everything needed to render the catalog once.
type Snapshot struct {
	Loading    bool      `json:"loading"`
	Skeletons  int       `json:"skeletons"`
	Categories []string  `json:"categories"`
	Criteria   Criteria  `json:"criteria"`
	Cards      []Card    `json:"cards"`
	Total      int       `json:"total"`
	Lightbox   *Lightbox `json:"lightbox,omitempty"`
}

// Snapshot renders the current state. While loading it carries skeleton
// placeholders and no cards.
func (v *View) Snapshot() Snapshot {
	s := Snapshot{
		Loading:    v.loading,
		Categories: v.Categories(),
		Criteria:   v.criteria,
		Cards:      []Card{},
		Total:      len(v.products),
	}
	if v.loading {
		s.Skeletons = SkeletonCount
		return s
	}

	for _, p := range v.Visible() {
		s.Cards = append(s.Cards, NewCard(p, v.placeholder))
	}

	if p, ok := v.viewer.Product(); ok {
		idx, _ := v.viewer.Index()
		handoff, _ := v.viewer.Inquire()
		s.Lightbox = &Lightbox{
			Product:    p,
			ImageIndex: idx,
			MainImage:  v.viewer.MainImage(v.placeholder),
			Thumbnails: v.viewer.Thumbnails(v.placeholder),
			Inquire:    handoff,
		}
	}
	return s
}

// NewCard builds a grid card, substituting placeholder for a missing image.
func NewCard(p domain.Product, placeholder string) Card {
	return Card{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.CategoryLabel(),
		Composition: p.Composition,
		Uses:        p.Uses,
		PackSize:    p.PackSize,
		Image:       p.PrimaryImage(placeholder),
		IsTopSeller: p.IsTopSeller,
	}
}
