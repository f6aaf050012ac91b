// Package rest implements the repositories over the gateway's table API.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/UTarts/cardiff-healthcare/internal/domain"
	"github.com/UTarts/cardiff-healthcare/internal/gateway"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
)

const productsPath = "/rest/v1/products"

var returnRepresentation = http.Header{"Prefer": {"return=representation"}}

// productWrite is the writable column set; id and created_at are assigned
// by the gateway.
type productWrite struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Composition string   `json:"composition"`
	Uses        string   `json:"uses"`
	Description string   `json:"description"`
	PackSize    string   `json:"pack_size"`
	Images      []string `json:"images"`
	IsTopSeller bool     `json:"is_top_seller"`
}

func toProductWrite(p *domain.Product) productWrite {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return productWrite{
		Name:        p.Name,
		Category:    p.Category,
		Composition: p.Composition,
		Uses:        p.Uses,
		Description: p.Description,
		PackSize:    p.PackSize,
		Images:      images,
		IsTopSeller: p.IsTopSeller,
	}
}

func idFilter(id int64) string {
	return "eq." + strconv.FormatInt(id, 10)
}

// ProductRepository implements repository.ProductRepository over the
// gateway table API.
type ProductRepository struct {
	client *gateway.Client
}

// NewProductRepository creates a gateway-backed product repository.
func NewProductRepository(client *gateway.Client) *ProductRepository {
	return &ProductRepository{client: client}
}

func (r *ProductRepository) list(ctx context.Context, query url.Values) ([]domain.Product, error) {
	var products []domain.Product
	if _, err := r.client.Send(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   productsPath,
		Query:  query,
	}, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListProducts selects every product with no gateway-side filtering.
func (r *ProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := r.list(ctx, url.Values{"select": {"*"}})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListTopSellers returns up to limit flagged products.
func (r *ProductRepository) ListTopSellers(ctx context.Context, limit int) ([]domain.Product, error) {
	products, err := r.list(ctx, url.Values{
		"select":        {"*"},
		"is_top_seller": {"eq.true"},
		"limit":         {strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, fmt.Errorf("list top sellers: %w", err)
	}
	return products, nil
}

// ListProductNames returns only the name column.
func (r *ProductRepository) ListProductNames(ctx context.Context) ([]string, error) {
	var rows []struct {
		Name string `json:"name"`
	}
	if _, err := r.client.Send(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   productsPath,
		Query:  url.Values{"select": {"name"}},
	}, &rows); err != nil {
		return nil, fmt.Errorf("list product names: %w", err)
	}

	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Name
	}
	return names, nil
}

// ListNewestFirst returns every product ordered by id descending.
func (r *ProductRepository) ListNewestFirst(ctx context.Context) ([]domain.Product, error) {
	products, err := r.list(ctx, url.Values{"select": {"*"}, "order": {"id.desc"}})
	if err != nil {
		return nil, fmt.Errorf("list products by id: %w", err)
	}
	return products, nil
}

// GetByID retrieves one product.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	products, err := r.list(ctx, url.Values{"select": {"*"}, "id": {idFilter(id)}})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(products) == 0 {
		return nil, apperrors.NotFound("product", strconv.FormatInt(id, 10))
	}
	return &products[0], nil
}

// Create inserts product and copies back the gateway-assigned columns.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	var created []domain.Product
	if _, err := r.client.Send(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   productsPath,
		JSON:   []productWrite{toProductWrite(product)},
		Header: returnRepresentation,
	}, &created); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if len(created) == 0 {
		return fmt.Errorf("insert product: gateway returned no row")
	}
	product.ID = created[0].ID
	product.CreatedAt = created[0].CreatedAt
	return nil
}

// Update replaces the writable columns of product.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	var updated []domain.Product
	if _, err := r.client.Send(ctx, gateway.Request{
		Method: http.MethodPatch,
		Path:   productsPath,
		Query:  url.Values{"id": {idFilter(product.ID)}},
		JSON:   toProductWrite(product),
		Header: returnRepresentation,
	}, &updated); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if len(updated) == 0 {
		return apperrors.NotFound("product", strconv.FormatInt(product.ID, 10))
	}
	product.CreatedAt = updated[0].CreatedAt
	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	var deleted []domain.Product
	if _, err := r.client.Send(ctx, gateway.Request{
		Method: http.MethodDelete,
		Path:   productsPath,
		Query:  url.Values{"id": {idFilter(id)}},
		Header: returnRepresentation,
	}, &deleted); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if len(deleted) == 0 {
		return apperrors.NotFound("product", strconv.FormatInt(id, 10))
	}
	return nil
}
