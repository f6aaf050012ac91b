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
	"github.com/UTarts/cardiff-healthcare/pkg/pagination"
)

const inquiryColumns = `id, customer_name, customer_email, COALESCE(customer_phone, ''), message,
		selected_products, status, created_at`

// InquiryRepository implements repository.InquiryRepository using PostgreSQL.
type InquiryRepository struct {
	db database.DBTX
}

// NewInquiryRepository creates a PostgreSQL-backed inquiry repository.
func NewInquiryRepository(db database.DBTX) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func scanInquiry(row pgx.Row, extra ...any) (domain.Inquiry, error) {
	var i domain.Inquiry
	dest := []any{&i.ID, &i.CustomerName, &i.CustomerEmail, &i.CustomerPhone, &i.Message,
		&i.SelectedProducts, &i.Status, &i.CreatedAt}
	err := row.Scan(append(dest, extra...)...)
	return i, err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserts inquiry and sets its id and creation time.
func (r *InquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) (err error) {
	const q = `
		INSERT INTO inquiries (customer_name, customer_email, customer_phone, message, selected_products, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	ctx, end := database.TraceQuery(ctx, "CreateInquiry", q)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, q,
		inquiry.CustomerName,
		inquiry.CustomerEmail,
		nullable(inquiry.CustomerPhone),
		inquiry.Message,
		inquiry.SelectedProducts,
		inquiry.Status,
	).Scan(&inquiry.ID, &inquiry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}
	return nil
}

// List returns one page of inquiries, newest first, with the total count.
func (r *InquiryRepository) List(ctx context.Context, params pagination.Params) (inquiries []domain.Inquiry, total int, err error) {
	const q = `
		SELECT ` + inquiryColumns + `, count(*) OVER() AS total_count
		FROM inquiries
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	ctx, end := database.TraceQuery(ctx, "ListInquiries", q)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, q, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		i, err := scanInquiry(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan inquiry: %w", err)
		}
		inquiries = append(inquiries, i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate inquiries: %w", err)
	}

	// An offset past the end returns no rows and so no window count.
	if len(inquiries) == 0 && params.Offset > 0 {
		if err := r.db.QueryRow(ctx, `SELECT count(*) FROM inquiries`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count inquiries: %w", err)
		}
	}
	return inquiries, total, nil
}

// GetByID retrieves an inquiry by id.
func (r *InquiryRepository) GetByID(ctx context.Context, id int64) (inq *domain.Inquiry, err error) {
	q := `SELECT ` + inquiryColumns + ` FROM inquiries WHERE id = $1`
	ctx, end := database.TraceQuery(ctx, "GetInquiry", q)
	defer func() { end(err) }()

	got, err := scanInquiry(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("inquiry", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, fmt.Errorf("get inquiry: %w", err)
	}
	return &got, nil
}

// UpdateStatus moves an inquiry from one status to another in a single
// conditional update.
func (r *InquiryRepository) UpdateStatus(ctx context.Context, id int64, from, to string) (err error) {
	const q = `UPDATE inquiries SET status = $3 WHERE id = $1 AND status = $2`
	traced, end := database.TraceQuery(ctx, "UpdateInquiryStatus", q)
	defer func() { end(err) }()

	tag, err := r.db.Exec(traced, q, id, from, to)
	if err != nil {
		return fmt.Errorf("update inquiry status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return apperrors.Conflict(fmt.Sprintf("inquiry %d is not %s", id, from))
}
