package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/UTarts/cardiff-healthcare/internal/domain"
	"github.com/UTarts/cardiff-healthcare/internal/event"
	"github.com/UTarts/cardiff-healthcare/internal/repository"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
	"github.com/UTarts/cardiff-healthcare/pkg/pagination"
)

// InquiryService handles the contact form and the admin inquiry list.
type InquiryService struct {
	repo      repository.InquiryRepository
	products  repository.ProductRepository
	publisher event.Publisher
	whatsApp  string
	logger    *slog.Logger
}

// NewInquiryService creates a new inquiry service. whatsAppNumber receives
// the chat hand-off; anything but digits is stripped.
func NewInquiryService(
	repo repository.InquiryRepository,
	products repository.ProductRepository,
	publisher event.Publisher,
	whatsAppNumber string,
	logger *slog.Logger,
) *InquiryService {
	return &InquiryService{
		repo:      repo,
		products:  products,
		publisher: publisher,
		whatsApp:  digits(whatsAppNumber),
		logger:    logger,
	}
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// ContactForm is the initial state of the contact page.
type ContactForm struct {
	Products []string `json:"products"`
	Selected []string `json:"selected"`
}

// ContactForm lists product names for the picker and preselects prefill.
// A failed name lookup leaves the picker empty.
func (s *InquiryService) ContactForm(ctx context.Context, prefill string) *ContactForm {
	form := &ContactForm{Products: []string{}, Selected: []string{}}

	names, err := s.products.ListProductNames(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load product names",
			slog.String("error", err.Error()),
		)
	} else if names != nil {
		form.Products = names
	}

	if prefill = strings.TrimSpace(prefill); prefill != "" {
		form.Selected = []string{prefill}
	}
	return form
}

// SubmitInquiryInput holds the contact form fields.
type SubmitInquiryInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Message   string
	Products  []string
}

// SubmitResult is a stored inquiry and the chat hand-off link.
type SubmitResult struct {
	Inquiry     *domain.Inquiry `json:"inquiry"`
	WhatsAppURL string          `json:"whatsapp_url"`
}

// Submit stores a New inquiry and announces it. Publishing failures are
// logged; the inquiry is already saved.
func (s *InquiryService) Submit(ctx context.Context, input *SubmitInquiryInput) (*SubmitResult, error) {
	name := strings.TrimSpace(strings.TrimSpace(input.FirstName) + " " + strings.TrimSpace(input.LastName))
	if name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, apperrors.InvalidInput("message is required")
	}

	inquiry := &domain.Inquiry{
		CustomerName:     name,
		CustomerEmail:    strings.TrimSpace(input.Email),
		CustomerPhone:    strings.TrimSpace(input.Phone),
		Message:          input.Message,
		SelectedProducts: domain.JoinProducts(uniqueNames(input.Products)),
		Status:           domain.InquiryStatusNew,
	}

	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("create inquiry: %w", err)
	}

	if err := s.publisher.PublishInquiryCreated(ctx, inquiry); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish inquiry.created event",
			slog.Int64("inquiry_id", inquiry.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "inquiry received",
		slog.Int64("inquiry_id", inquiry.ID),
		slog.Int("products", len(inquiry.Products())),
	)

	return &SubmitResult{Inquiry: inquiry, WhatsAppURL: s.WhatsAppURL(inquiry)}, nil
}

// uniqueNames trims names and drops blanks and repeats, keeping the
// first occurrence.
func uniqueNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// WhatsAppURL builds the chat link carrying an inquiry summary.
func (s *InquiryService) WhatsAppURL(inq *domain.Inquiry) string {
	text := fmt.Sprintf("*New Inquiry*\nName: %s\nEmail: %s\nMsg: %s\nProducts: %s",
		inq.CustomerName, inq.CustomerEmail, inq.Message, inq.SelectedProducts)
	return "https://wa.me/" + s.whatsApp + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// List returns one page of inquiries, newest first.
func (s *InquiryService) List(ctx context.Context, params pagination.Params) (pagination.Result[domain.Inquiry], error) {
	inquiries, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Result[domain.Inquiry]{}, fmt.Errorf("list inquiries: %w", err)
	}
	return pagination.NewResult(inquiries, total, params), nil
}

// MarkContacted moves a New inquiry to Contacted.
func (s *InquiryService) MarkContacted(ctx context.Context, id int64) (*domain.Inquiry, error) {
	if err := s.repo.UpdateStatus(ctx, id, domain.InquiryStatusNew, domain.InquiryStatusContacted); err != nil {
		return nil, fmt.Errorf("mark inquiry %d contacted: %w", id, err)
	}

	inquiry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get inquiry: %w", err)
	}

	s.logger.InfoContext(ctx, "inquiry marked contacted", slog.Int64("inquiry_id", id))
	return inquiry, nil
}
