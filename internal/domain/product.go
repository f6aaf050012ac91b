package domain

import (
	"time"
)

// Product is a medicine record as stored by the gateway.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Composition string    `json:"composition"`
	Uses        string    `json:"uses"`
	Description string    `json:"description"`
	PackSize    string    `json:"pack_size"`
	Images      []string  `json:"images"`
	IsTopSeller bool      `json:"is_top_seller"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// CategoryLabel returns the category used for grouping, OtherCategory
// when the record has none.
func (p Product) CategoryLabel() string {
	if p.Category == "" {
		return OtherCategory
	}
	return p.Category
}

// HasImages reports whether the product carries at least one image URL.
func (p Product) HasImages() bool {
	return len(p.Images) > 0
}

// PrimaryImage returns the first image, or fallback when there is none.
func (p Product) PrimaryImage(fallback string) string {
	if !p.HasImages() {
		return fallback
	}
	return p.Images[0]
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	if p.Images != nil {
		p.Images = append([]string(nil), p.Images...)
	}
	return p
}

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	Name        string   `json:"name" validate:"notblank,max=200"`
	Category    string   `json:"category" validate:"omitempty,max=50"`
	Composition string   `json:"composition" validate:"max=500"`
	Uses        string   `json:"uses" validate:"max=500"`
	Description string   `json:"description" validate:"max=2000"`
	PackSize    string   `json:"pack_size" validate:"max=100"`
	Images      []string `json:"images" validate:"min=1,dive,url"`
	IsTopSeller bool     `json:"is_top_seller"`
}

// Apply copies the input onto p, defaulting an empty category.
func (in ProductInput) Apply(p *Product) {
	p.Name = in.Name
	p.Category = in.Category
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	p.Composition = in.Composition
	p.Uses = in.Uses
	p.Description = in.Description
	p.PackSize = in.PackSize
	p.Images = append([]string(nil), in.Images...)
	p.IsTopSeller = in.IsTopSeller
}
