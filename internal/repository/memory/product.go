package memory

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/UTarts/cardiff-healthcare/internal/domain"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
)

// ProductRepository is an in-process products table for development and
// tests. It returns copies so callers never alias stored records.
type ProductRepository struct {
	mu       sync.RWMutex
	products []domain.Product
	nextID   int64
	now      func() time.Time
}

// NewProductRepository returns a repository holding a copy of products.
func NewProductRepository(products []domain.Product) *ProductRepository {
	r := &ProductRepository{now: time.Now}
	for _, p := range products {
		r.products = append(r.products, p.Clone())
		r.nextID = max(r.nextID, p.ID)
	}
	r.nextID++
	return r
}

func (r *ProductRepository) snapshot() []domain.Product {
	out := make([]domain.Product, len(r.products))
	for i, p := range r.products {
		out[i] = p.Clone()
	}
	return out
}

// ListProducts returns all products in insertion order.
func (r *ProductRepository) ListProducts(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(), nil
}

// ListTopSellers returns up to limit top sellers in insertion order.
func (r *ProductRepository) ListTopSellers(_ context.Context, limit int) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Product
	for _, p := range r.products {
		if len(out) == limit {
			break
		}
		if p.IsTopSeller {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

// ListProductNames returns every product name.
func (r *ProductRepository) ListProductNames(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.products))
	for i, p := range r.products {
		names[i] = p.Name
	}
	return names, nil
}

// ListNewestFirst returns all products by id descending.
func (r *ProductRepository) ListNewestFirst(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	out := r.snapshot()
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Product) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}

// GetByID returns one product.
func (r *ProductRepository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, apperrors.NotFound("product", strconv.FormatInt(id, 10))
	}
	p := r.products[i].Clone()
	return &p, nil
}

// Create appends product, assigning the next id.
func (r *ProductRepository) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	if product.CreatedAt.IsZero() {
		product.CreatedAt = r.now().UTC()
	}
	r.products = append(r.products, product.Clone())
	return nil
}

// Update replaces the stored product with the same id.
func (r *ProductRepository) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(product.ID)
	if i < 0 {
		return apperrors.NotFound("product", strconv.FormatInt(product.ID, 10))
	}
	product.CreatedAt = r.products[i].CreatedAt
	r.products[i] = product.Clone()
	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return apperrors.NotFound("product", strconv.FormatInt(id, 10))
	}
	r.products = slices.Delete(r.products, i, i+1)
	return nil
}

func (r *ProductRepository) indexOf(id int64) int {
	return slices.IndexFunc(r.products, func(p domain.Product) bool { return p.ID == id })
}
