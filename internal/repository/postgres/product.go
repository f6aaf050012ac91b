package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/UTarts/cardiff-healthcare/internal/domain"
	"github.com/UTarts/cardiff-healthcare/pkg/database"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
)

const productColumns = `id, name, COALESCE(category, ''), COALESCE(composition, ''), COALESCE(uses, ''),
		COALESCE(description, ''), COALESCE(pack_size, ''), images, is_top_seller, created_at`

// ProductRepository implements repository.ProductRepository on a direct
// connection to the gateway database.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Composition, &p.Uses,
		&p.Description, &p.PackSize, &p.Images, &p.IsTopSeller, &p.CreatedAt)
	return p, err
}

func (r *ProductRepository) query(ctx context.Context, op, query string, args ...any) (products []domain.Product, err error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListProducts returns all rows in storage order.
func (r *ProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := r.query(ctx, "ListProducts", `SELECT `+productColumns+` FROM products`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListTopSellers returns up to limit flagged products.
func (r *ProductRepository) ListTopSellers(ctx context.Context, limit int) ([]domain.Product, error) {
	products, err := r.query(ctx, "ListTopSellers",
		`SELECT `+productColumns+` FROM products WHERE is_top_seller LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list top sellers: %w", err)
	}
	return products, nil
}

// ListProductNames returns every product name.
func (r *ProductRepository) ListProductNames(ctx context.Context) (names []string, err error) {
	const q = `SELECT name FROM products`
	ctx, end := database.TraceQuery(ctx, "ListProductNames", q)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list product names: %w", err)
	}
	names, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list product names: %w", err)
	}
	return names, nil
}

// ListNewestFirst returns every product ordered by id descending.
func (r *ProductRepository) ListNewestFirst(ctx context.Context) ([]domain.Product, error) {
	products, err := r.query(ctx, "ListNewestFirst", `SELECT `+productColumns+` FROM products ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products by id: %w", err)
	}
	return products, nil
}

// GetByID retrieves a product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (p *domain.Product, err error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	ctx, end := database.TraceQuery(ctx, "GetProduct", q)
	defer func() { end(err) }()

	got, err := scanProduct(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("product", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &got, nil
}

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}

// Create inserts product and sets its id and creation time.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (err error) {
	const q = `
		INSERT INTO products (name, category, composition, uses, description, pack_size, images, is_top_seller)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	ctx, end := database.TraceQuery(ctx, "CreateProduct", q)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, q,
		product.Name,
		product.Category,
		product.Composition,
		product.Uses,
		product.Description,
		product.PackSize,
		imagesOrEmpty(product.Images),
		product.IsTopSeller,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update replaces the editable columns of product.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (err error) {
	const q = `
		UPDATE products
		SET name = $2, category = $3, composition = $4, uses = $5, description = $6,
			pack_size = $7, images = $8, is_top_seller = $9
		WHERE id = $1
		RETURNING created_at`
	ctx, end := database.TraceQuery(ctx, "UpdateProduct", q)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, q,
		product.ID,
		product.Name,
		product.Category,
		product.Composition,
		product.Uses,
		product.Description,
		product.PackSize,
		imagesOrEmpty(product.Images),
		product.IsTopSeller,
	).Scan(&product.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("product", strconv.FormatInt(product.ID, 10))
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete removes a product by id.
func (r *ProductRepository) Delete(ctx context.Context, id int64) (err error) {
	const q = `DELETE FROM products WHERE id = $1`
	ctx, end := database.TraceQuery(ctx, "DeleteProduct", q)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product", strconv.FormatInt(id, 10))
	}
	return nil
}
