package http

import (
	"log/slog"
	"net/http"

	"github.com/UTarts/cardiff-healthcare/internal/service"
	"github.com/UTarts/cardiff-healthcare/pkg/httputil"
)

// ContactHandler serves the contact form and accepts inquiries.
type ContactHandler struct {
	service *service.InquiryService
	logger  *slog.Logger
}

// NewContactHandler creates a new contact HTTP handler.
func NewContactHandler(svc *service.InquiryService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SubmitInquiryRequest is the JSON request body for the contact form.
type SubmitInquiryRequest struct {
	FirstName string   `json:"first_name" validate:"notblank,max=100"`
	LastName  string   `json:"last_name" validate:"max=100"`
	Email     string   `json:"email" validate:"required,email,max=254"`
	Phone     string   `json:"phone" validate:"max=32"`
	Message   string   `json:"message" validate:"notblank,max=5000"`
	Products  []string `json:"products" validate:"max=50,dive,max=200"`
}

// --- Handlers ---

// ContactForm handles GET /api/v1/contact
// @Summary Contact form state
// @Description Returns the product names for the picker and the preselected names.
// @Tags contact
// @Produce json
// @Param prefill query string false "Product name handed over from the catalog"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/contact [get]
func (h *ContactHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	form := h.service.ContactForm(r.Context(), r.URL.Query().Get("prefill"))
	httputil.WriteData(w, http.StatusOK, form)
}

// SubmitInquiry handles POST /api/v1/inquiries
// @Summary Submit an inquiry
// @Description Stores the inquiry and returns a WhatsApp link with its summary.
// @Tags contact
// @Accept json
// @Produce json
// @Param request body SubmitInquiryRequest true "Inquiry"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /api/v1/inquiries [post]
func (h *ContactHandler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var req SubmitInquiryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.service.Submit(r.Context(), &service.SubmitInquiryInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Products:  req.Products,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, result)
}
