package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/UTarts/cardiff-healthcare/internal/service"
	"github.com/UTarts/cardiff-healthcare/pkg/httputil"
	"github.com/UTarts/cardiff-healthcare/pkg/pagination"
)

// InquiryHandler handles the admin inquiry endpoints.
type InquiryHandler struct {
	service *service.InquiryService
	logger  *slog.Logger
}

// NewInquiryHandler creates a new inquiry HTTP handler.
func NewInquiryHandler(svc *service.InquiryService, logger *slog.Logger) *InquiryHandler {
	return &InquiryHandler{
		service: svc,
		logger:  logger,
	}
}

// ListInquiries handles GET /api/v1/admin/inquiries
// @Summary List inquiries
// @Description Returns inquiries newest first.
// @Tags admin
// @Produce json
// @Param page query integer false "Page number" default(1)
// @Param per_page query integer false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/inquiries [get]
func (h *InquiryHandler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	result, err := h.service.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// MarkContacted handles PATCH /api/v1/admin/inquiries/{id}/contacted
// @Summary Mark an inquiry as contacted
// @Tags admin
// @Produce json
// @Param id path integer true "Inquiry id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/inquiries/{id}/contacted [patch]
func (h *InquiryHandler) MarkContacted(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	inquiry, err := h.service.MarkContacted(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, inquiry)
}
