package service

import (
	"context"
	"log/slog"

	"github.com/UTarts/cardiff-healthcare/internal/catalog"
	"github.com/UTarts/cardiff-healthcare/internal/repository"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
)

// TopSellerLimit is the number of products featured on the home page.
const TopSellerLimit = 3

// CatalogService serves the public catalog. Each browse request mounts a
// fresh catalog view, so the gateway is read once per request.
type CatalogService struct {
	repo        repository.ProductRepository
	engine      *catalog.Engine
	placeholder string
	logger      *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.ProductRepository, engine *catalog.Engine, placeholder string, logger *slog.Logger) *CatalogService {
	if placeholder == "" {
		placeholder = catalog.DefaultPlaceholder
	}
	return &CatalogService{
		repo:        repo,
		engine:      engine,
		placeholder: placeholder,
		logger:      logger,
	}
}

// BrowseInput holds the query of one catalog page.
type BrowseInput struct {
	Category string
	Search   string
	Sort     string
	// Open is the raw one-time deep-link product id.
	Open string
	// Selected and Image restore a lightbox the client already had open.
	Selected *int64
	Image    *int
}

// BrowseResult is a rendered catalog page.
type BrowseResult struct {
	catalog.Snapshot
	// DirectiveConsumed is set when Open was handled and should be removed
	// from the address the client shows.
	DirectiveConsumed bool `json:"-"`
}

// Browse loads the catalog and applies the input in the order a visitor
// would: deep link first, then criteria, then any explicit selection.
func (s *CatalogService) Browse(ctx context.Context, input BrowseInput) (*BrowseResult, error) {
	directive, err := catalog.ParseDirective(input.Open)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	view := s.newView(directive)
	defer view.Unmount()
	view.Load(ctx, s.repo)

	if input.Category != "" && !view.SetCategory(input.Category) {
		s.logger.DebugContext(ctx, "ignoring unknown category", slog.String("category", input.Category))
	}
	view.SetSearch(input.Search)
	view.SetSort(catalog.ParseSortOrder(input.Sort))

	if input.Selected != nil {
		view.Select(*input.Selected)
	}
	if input.Image != nil {
		view.SelectImage(*input.Image)
	}

	return &BrowseResult{
		Snapshot:          view.Snapshot(),
		DirectiveConsumed: view.DirectiveConsumed(),
	}, nil
}

// Categories returns "All" followed by the categories present in the
// catalog.
func (s *CatalogService) Categories(ctx context.Context) []string {
	view := s.newView(nil)
	defer view.Unmount()
	view.Load(ctx, s.repo)
	return view.Categories()
}

// TopSellers returns the featured products as cards. Failures are logged
// and give an empty list.
func (s *CatalogService) TopSellers(ctx context.Context) []catalog.Card {
	products, err := s.repo.ListTopSellers(ctx, TopSellerLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load top sellers",
			slog.String("error", err.Error()),
		)
		return []catalog.Card{}
	}

	cards := make([]catalog.Card, 0, len(products))
	for _, p := range products {
		cards = append(cards, catalog.NewCard(p, s.placeholder))
	}
	return cards
}

func (s *CatalogService) newView(directive *catalog.Directive) *catalog.View {
	return catalog.NewView(s.engine, directive,
		catalog.WithLogger(s.logger),
		catalog.WithPlaceholder(s.placeholder),
	)
}
