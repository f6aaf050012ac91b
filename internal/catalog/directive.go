package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/UTarts/cardiff-healthcare/internal/domain"
)

// Directive asks the catalog to open one product's detail view right after
// the initial load. It is consumed once whether or not the product exists.
type Directive struct {
	OpenProductID int64
}

// ParseDirective reads an "open" parameter. An empty value yields nil.
func ParseDirective(raw string) (*Directive, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("open must be a positive product id, got %q", raw)
	}
	return &Directive{OpenProductID: id}, nil
}

// Resolve finds the directive's product in products by id.
func Resolve(products []domain.Product, d *Directive) (domain.Product, bool) {
	if d == nil {
		return domain.Product{}, false
	}
	return findByID(products, d.OpenProductID)
}

func findByID(products []domain.Product, id int64) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
