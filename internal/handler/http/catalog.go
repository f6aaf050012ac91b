package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/UTarts/cardiff-healthcare/internal/service"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
	"github.com/UTarts/cardiff-healthcare/pkg/httputil"
)

// CatalogHandler serves the public catalog, its categories and the home
// page top sellers.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Response DTOs ---

// catalogResponse is a catalog snapshot plus, when a deep link was
// consumed, the URL the client should replace its location with.
type catalogResponse struct {
	*service.BrowseResult
	ReplaceURL string `json:"replace_url,omitempty"`
}

// --- Handlers ---

// Browse handles GET /api/v1/catalog
// @Summary Browse the catalog
// @Description Returns the visible cards for the given criteria and, when a product is selected, the lightbox.
// @Tags catalog
// @Produce json
// @Param category query string false "Category filter, All for none"
// @Param search query string false "Case-insensitive term matched against name, uses and composition"
// @Param sort query string false "asc or desc by name"
// @Param open query integer false "One-time deep link to a product id"
// @Param selected query integer false "Product id to show in the lightbox"
// @Param image query integer false "Image index inside the lightbox"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/catalog [get]
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := service.BrowseInput{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Open:     q.Get("open"),
	}

	if v := q.Get("selected"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("selected must be a product id"), h.logger)
			return
		}
		input.Selected = &id
	}

	if v := q.Get("image"); v != "" {
		idx, err := strconv.Atoi(v)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("image must be an integer index"), h.logger)
			return
		}
		input.Image = &idx
	}

	result, err := h.service.Browse(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp := catalogResponse{BrowseResult: result}
	if result.DirectiveConsumed && input.Open != "" {
		resp.ReplaceURL = withoutOpen(r)
	}

	httputil.WriteData(w, http.StatusOK, resp)
}

// ListCategories handles GET /api/v1/catalog/categories
// @Summary List categories
// @Description Returns "All" followed by the categories present in the catalog.
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/catalog/categories [get]
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Categories(r.Context()))
}

// TopSellers handles GET /api/v1/home/top-sellers
// @Summary Home page top sellers
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/home/top-sellers [get]
func (h *CatalogHandler) TopSellers(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.TopSellers(r.Context()))
}

// withoutOpen returns the request path and query with the open parameter
// removed.
func withoutOpen(r *http.Request) string {
	q := r.URL.Query()
	q.Del("open")
	if len(q) == 0 {
		return r.URL.Path
	}
	return r.URL.Path + "?" + q.Encode()
}
