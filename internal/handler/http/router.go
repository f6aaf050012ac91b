package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/UTarts/cardiff-healthcare/internal/assets"
	"github.com/UTarts/cardiff-healthcare/internal/auth"
	"github.com/UTarts/cardiff-healthcare/internal/service"
	"github.com/UTarts/cardiff-healthcare/pkg/health"
	"github.com/UTarts/cardiff-healthcare/pkg/middleware"
)

// Component labels metrics, spans and logs emitted by the router.
const Component = "storefront"

// publicMaxAge is the browser cache lifetime of category and top seller
// lists.
const publicMaxAge = 5 * time.Minute

// RouterDeps are the services and settings the router is built from.
type RouterDeps struct {
	Catalog   *service.CatalogService
	Inquiries *service.InquiryService
	Products  *service.ProductService
	Auth      *service.AuthService
	Assets    *assets.Proxy
	Health    *health.Handler

	ValidateToken middleware.TokenValidator
	AssetMaxAge   time.Duration
	CORSOrigins   []string

	InquiryRateLimitRPS float64
	InquiryBurst        int

	// TrustedProxies may set X-Forwarded-For for rate limiting.
	TrustedProxies []netip.Prefix

	Logger *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
// ctx bounds background work owned by the middleware, such as rate limiter
// eviction.
func NewRouter(ctx context.Context, deps RouterDeps) http.Handler {
	logger := deps.Logger
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(Component))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(Component))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(deps.CORSOrigins)))

	// Operations
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	catalogHandler := NewCatalogHandler(deps.Catalog, logger)
	contactHandler := NewContactHandler(deps.Inquiries, logger)
	authHandler := NewAuthHandler(deps.Auth, logger)
	productHandler := NewProductHandler(deps.Products, logger)
	inquiryHandler := NewInquiryHandler(deps.Inquiries, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public storefront
		r.Get("/catalog", catalogHandler.Browse)
		r.With(middleware.CacheControl(publicMaxAge)).Get("/catalog/categories", catalogHandler.ListCategories)
		r.With(middleware.CacheControl(publicMaxAge)).Get("/home/top-sellers", catalogHandler.TopSellers)

		r.Get("/contact", contactHandler.ContactForm)
		r.With(middleware.RateLimit(ctx, deps.InquiryRateLimitRPS, deps.InquiryBurst, deps.TrustedProxies, logger)).
			Post("/inquiries", contactHandler.SubmitInquiry)

		// Authentication
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.NoStore)

			r.Post("/login", authHandler.Login)
			r.With(middleware.Auth(deps.ValidateToken)).Post("/logout", authHandler.Logout)
		})

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(middleware.Auth(deps.ValidateToken))
			r.Use(middleware.RequireRole(auth.RoleAuthenticated))
			r.Use(middleware.RequestLogger(logger))

			r.Get("/products", productHandler.ListProducts)
			r.Get("/products/categories", productHandler.ListCategories)
			r.Post("/products", productHandler.CreateProduct)
			r.Post("/products/images", productHandler.UploadImages)
			r.Put("/products/{id}", productHandler.UpdateProduct)
			r.Delete("/products/{id}", productHandler.DeleteProduct)

			r.Get("/inquiries", inquiryHandler.ListInquiries)
			r.Patch("/inquiries/{id}/contacted", inquiryHandler.MarkContacted)
		})
	})

	if deps.Assets != nil {
		assetHandler := NewAssetHandler(deps.Assets, deps.AssetMaxAge, logger)
		r.Get("/assets/images", assetHandler.GetImage)
	}

	return r
}
