package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/UTarts/cardiff-healthcare/internal/domain"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
	"github.com/UTarts/cardiff-healthcare/pkg/pagination"
)

// InquiryRepository is an in-process inquiries table.
type InquiryRepository struct {
	mu        sync.RWMutex
	inquiries []domain.Inquiry
	nextID    int64
	now       func() time.Time
}

// NewInquiryRepository returns an empty inquiry repository.
func NewInquiryRepository() *InquiryRepository {
	return &InquiryRepository{nextID: 1, now: time.Now}
}

// Create stores inquiry, assigning its id and creation time.
func (r *InquiryRepository) Create(_ context.Context, inquiry *domain.Inquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inquiry.ID = r.nextID
	r.nextID++
	inquiry.CreatedAt = r.now().UTC()
	r.inquiries = append(r.inquiries, *inquiry)
	return nil
}

// List returns a page of inquiries, newest first.
func (r *InquiryRepository) List(_ context.Context, params pagination.Params) ([]domain.Inquiry, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.inquiries)
	out := make([]domain.Inquiry, 0, params.PerPage)
	for i := total - 1 - params.Offset; i >= 0 && len(out) < params.PerPage; i-- {
		out = append(out, r.inquiries[i])
	}
	return out, total, nil
}

// GetByID returns one inquiry.
func (r *InquiryRepository) GetByID(_ context.Context, id int64) (*domain.Inquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, inq := range r.inquiries {
		if inq.ID == id {
			return &inq, nil
		}
	}
	return nil, apperrors.NotFound("inquiry", strconv.FormatInt(id, 10))
}

// UpdateStatus moves an inquiry from one status to another.
func (r *InquiryRepository) UpdateStatus(_ context.Context, id int64, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.inquiries {
		if r.inquiries[i].ID != id {
			continue
		}
		if r.inquiries[i].Status != from {
			return apperrors.Conflict("inquiry " + strconv.FormatInt(id, 10) + " is not " + from)
		}
		r.inquiries[i].Status = to
		return nil
	}
	return apperrors.NotFound("inquiry", strconv.FormatInt(id, 10))
}
