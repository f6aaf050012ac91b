package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/UTarts/cardiff-healthcare/internal/assets"
	"github.com/UTarts/cardiff-healthcare/internal/media"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
	"github.com/UTarts/cardiff-healthcare/pkg/httputil"
)

// AssetHandler serves product images through the read-through cache.
type AssetHandler struct {
	proxy  *assets.Proxy
	maxAge time.Duration
	logger *slog.Logger
}

// NewAssetHandler creates a new asset handler. maxAge is advertised to
// browsers in Cache-Control.
func NewAssetHandler(proxy *assets.Proxy, maxAge time.Duration, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{
		proxy:  proxy,
		maxAge: maxAge,
		logger: logger,
	}
}

// GetImage handles GET /assets/images
// @Summary Cached product image
// @Tags assets
// @Produce image/jpeg
// @Param src query string true "Absolute image URL on an allowed host"
// @Param size query string false "thumb, medium or full"
// @Success 200
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /assets/images [get]
func (h *AssetHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	src := q.Get("src")
	if src == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("src is required"), h.logger)
		return
	}
	size, ok := media.ParseSize(q.Get("size"))
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("size must be one of: thumb, medium, full"), h.logger)
		return
	}

	asset, err := h.proxy.Get(r.Context(), src, size)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(asset.Data)))
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.maxAge.Seconds())))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(asset.Data)
	}
}
