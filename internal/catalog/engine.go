// Package catalog implements the product browse, filter and detail state
// shared by the HTTP catalog endpoint and the terminal browser.
package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/UTarts/cardiff-healthcare/internal/domain"
)

// AllCategories is the category that disables category filtering.
const AllCategories = "All"

// SortOrder orders products by name.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder accepts "asc" or "desc" in any case and falls back to
// ascending for anything else.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// Criteria are the user-edited filter inputs.
type Criteria struct {
	Category string    `json:"category"`
	Search   string    `json:"search"`
	Sort     SortOrder `json:"sort"`
}

// DefaultCriteria shows every product in ascending name order.
func DefaultCriteria() Criteria {
	return Criteria{Category: AllCategories, Sort: SortAsc}
}

// Engine filters and orders product lists. It holds no per-call state and
// may be shared; collators and casers are built per call because neither
// is safe for concurrent use.
type Engine struct {
	tag language.Tag
}

// NewEngine returns an engine that collates names for tag.
func NewEngine(tag language.Tag) *Engine {
	return &Engine{tag: tag}
}

// Categories returns AllCategories followed by the distinct category labels
// of products in order of first occurrence.
func (e *Engine) Categories(products []domain.Product) []string {
	out := []string{AllCategories}
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		label := p.CategoryLabel()
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// Visible returns the products matching c in name order. The input slice
// is never modified.
func (e *Engine) Visible(products []domain.Product, c Criteria) []domain.Product {
	fold := cases.Fold()
	term := fold.String(c.Search)

	type keyed struct {
		product domain.Product
		key     string
	}
	matched := make([]keyed, 0, len(products))
	for _, p := range products {
		if c.Category != AllCategories && c.Category != "" && p.CategoryLabel() != c.Category {
			continue
		}
		if term != "" &&
			!strings.Contains(fold.String(p.Name), term) &&
			!strings.Contains(fold.String(p.Uses), term) &&
			!strings.Contains(fold.String(p.Composition), term) {
			continue
		}
		matched = append(matched, keyed{product: p, key: fold.String(p.Name)})
	}

	col := collate.New(e.tag)
	slices.SortStableFunc(matched, func(a, b keyed) int {
		if c.Sort == SortDesc {
			return col.CompareString(b.key, a.key)
		}
		return col.CompareString(a.key, b.key)
	})

	out := make([]domain.Product, len(matched))
	for i, m := range matched {
		out[i] = m.product
	}
	return out
}

// Compare orders two names the way Visible does in ascending order.
func (e *Engine) Compare(a, b string) int {
	fold := cases.Fold()
	return collate.New(e.tag).CompareString(fold.String(a), fold.String(b))
}
