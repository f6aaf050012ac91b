package repository

import (
	"context"

	"github.com/UTarts/cardiff-healthcare/internal/domain"
	"github.com/UTarts/cardiff-healthcare/pkg/pagination"
)

// ProductRepository is the gateway's products table.
type ProductRepository interface {
	// ListProducts returns every product in gateway order.
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// ListTopSellers returns up to limit products flagged as top sellers.
	ListTopSellers(ctx context.Context, limit int) ([]domain.Product, error)

	// ListProductNames returns the names of all products for pickers.
	ListProductNames(ctx context.Context) ([]string, error)

	// ListNewestFirst returns every product ordered by id descending.
	ListNewestFirst(ctx context.Context) ([]domain.Product, error)

	// GetByID retrieves a product by id.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Create inserts a product and fills in its id and creation time.
	Create(ctx context.Context, product *domain.Product) error

	// Update replaces the editable fields of an existing product.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product by id.
	Delete(ctx context.Context, id int64) error
}

// InquiryRepository is the gateway's inquiries table.
type InquiryRepository interface {
	// Create inserts an inquiry and fills in its id and creation time.
	Create(ctx context.Context, inquiry *domain.Inquiry) error

	// List returns one page of inquiries, newest first, with the total count.
	List(ctx context.Context, params pagination.Params) ([]domain.Inquiry, int, error)

	// GetByID retrieves an inquiry by id.
	GetByID(ctx context.Context, id int64) (*domain.Inquiry, error)

	// UpdateStatus moves an inquiry from one status to another. It fails
	// with a conflict when the inquiry is not currently in from.
	UpdateStatus(ctx context.Context, id int64, from, to string) error
}
