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
	"github.com/UTarts/cardiff-healthcare/pkg/pagination"
)

const inquiriesPath = "/rest/v1/inquiries"

type inquiryWrite struct {
	CustomerName     string  `json:"customer_name"`
	CustomerEmail    string  `json:"customer_email"`
	CustomerPhone    *string `json:"customer_phone,omitempty"`
	Message          string  `json:"message"`
	SelectedProducts string  `json:"selected_products"`
	Status           string  `json:"status"`
}

// InquiryRepository implements repository.InquiryRepository over the
// gateway table API.
type InquiryRepository struct {
	client *gateway.Client
}

// NewInquiryRepository creates a gateway-backed inquiry repository.
func NewInquiryRepository(client *gateway.Client) *InquiryRepository {
	return &InquiryRepository{client: client}
}

// Create inserts inquiry.
func (r *InquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	row := inquiryWrite{
		CustomerName:     inquiry.CustomerName,
		CustomerEmail:    inquiry.CustomerEmail,
		Message:          inquiry.Message,
		SelectedProducts: inquiry.SelectedProducts,
		Status:           inquiry.Status,
	}
	if inquiry.CustomerPhone != "" {
		row.CustomerPhone = &inquiry.CustomerPhone
	}

	var created []domain.Inquiry
	if _, err := r.client.Send(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   inquiriesPath,
		JSON:   []inquiryWrite{row},
		Header: returnRepresentation,
	}, &created); err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}
	if len(created) == 0 {
		return fmt.Errorf("insert inquiry: gateway returned no row")
	}
	inquiry.ID = created[0].ID
	inquiry.CreatedAt = created[0].CreatedAt
	return nil
}

// List returns one page of inquiries, newest first. The total comes from
// the Content-Range header.
func (r *InquiryRepository) List(ctx context.Context, params pagination.Params) ([]domain.Inquiry, int, error) {
	var inquiries []domain.Inquiry
	hdr, err := r.client.Send(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   inquiriesPath,
		Query:  url.Values{"select": {"*"}, "order": {"created_at.desc"}},
		Header: http.Header{
			"Prefer":     {"count=exact"},
			"Range-Unit": {"items"},
			"Range":      {params.Range()},
		},
	}, &inquiries)
	if err != nil {
		return nil, 0, fmt.Errorf("list inquiries: %w", err)
	}

	total := pagination.ParseContentRange(hdr.Get("Content-Range"))
	if total < 0 {
		total = params.Offset + len(inquiries)
	}
	return inquiries, total, nil
}

// GetByID retrieves one inquiry.
func (r *InquiryRepository) GetByID(ctx context.Context, id int64) (*domain.Inquiry, error) {
	var inquiries []domain.Inquiry
	if _, err := r.client.Send(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   inquiriesPath,
		Query:  url.Values{"select": {"*"}, "id": {idFilter(id)}},
	}, &inquiries); err != nil {
		return nil, fmt.Errorf("get inquiry: %w", err)
	}
	if len(inquiries) == 0 {
		return nil, apperrors.NotFound("inquiry", strconv.FormatInt(id, 10))
	}
	return &inquiries[0], nil
}

// UpdateStatus patches the status only while it still equals from.
func (r *InquiryRepository) UpdateStatus(ctx context.Context, id int64, from, to string) error {
	var updated []domain.Inquiry
	if _, err := r.client.Send(ctx, gateway.Request{
		Method: http.MethodPatch,
		Path:   inquiriesPath,
		Query:  url.Values{"id": {idFilter(id)}, "status": {"eq." + from}},
		JSON:   map[string]string{"status": to},
		Header: returnRepresentation,
	}, &updated); err != nil {
		return fmt.Errorf("update inquiry status: %w", err)
	}
	if len(updated) > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return apperrors.Conflict(fmt.Sprintf("inquiry %d is not %s", id, from))
}
