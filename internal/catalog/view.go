package catalog

import (
	"context"
	"log/slog"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/UTarts/cardiff-healthcare/internal/domain"
)

const (
	// SkeletonCount is the number of placeholder cards shown while loading.
	SkeletonCount = 6
	// DefaultPlaceholder stands in for missing product images.
	DefaultPlaceholder = "https://via.placeholder.com/400"
)

var fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "catalog_fetch_failures_total",
	Help: "Catalog loads that failed and were shown as an empty catalog.",
})

// ProductLister is the single gateway call the catalog makes.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// FetchResult is the outcome of the initial load.
type FetchResult struct {
	Products []domain.Product
	Err      error
}

// Fetch performs the load. It touches no view state, so it may run on
// another goroutine with the result handed back through Apply.
func Fetch(ctx context.Context, src ProductLister) FetchResult {
	products, err := src.ListProducts(ctx)
	return FetchResult{Products: products, Err: err}
}

// View is the state of one mounted catalog. It is owned by a single
// goroutine and is not synchronised.
type View struct {
	engine      *Engine
	logger      *slog.Logger
	placeholder string

	directive *Directive
	consumed  bool

	mounted   bool
	requested bool
	loading   bool

	products []domain.Product
	criteria Criteria
	viewer   Viewer
}

// Option customises a View.
type Option func(*View)

// WithLogger sets the logger used for fetch failures.
func WithLogger(l *slog.Logger) Option {
	return func(v *View) { v.logger = l }
}

// WithPlaceholder sets the image shown for products without images.
func WithPlaceholder(url string) Option {
	return func(v *View) {
		if url != "" {
			v.placeholder = url
		}
	}
}

// NewView mounts a catalog view in the loading state. directive may be nil.
func NewView(engine *Engine, directive *Directive, opts ...Option) *View {
	v := &View{
		engine:      engine,
		logger:      slog.Default(),
		placeholder: DefaultPlaceholder,
		directive:   directive,
		mounted:     true,
		loading:     true,
		criteria:    DefaultCriteria(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Load fetches and applies the product list. Only the first call on a
// mount does anything.
func (v *View) Load(ctx context.Context, src ProductLister) {
	if !v.BeginLoad() {
		return
	}
	v.Apply(ctx, Fetch(ctx, src))
}

// BeginLoad claims the single fetch of this mount. It returns false when a
// fetch was already started or the view is unmounted.
func (v *View) BeginLoad() bool {
	if v.requested || !v.mounted {
		return false
	}
	v.requested = true
	return true
}

// Apply installs a fetch result and resolves the deep-link directive. A
// failed fetch is logged and shown as an empty catalog. Results arriving
// after Unmount, or after a result was already applied, are discarded.
func (v *View) Apply(ctx context.Context, res FetchResult) bool {
	if !v.mounted || !v.loading {
		return false
	}
	v.loading = false

	if res.Err != nil {
		fetchFailures.Inc()
		v.logger.ErrorContext(ctx, "failed to load catalog",
			slog.String("error", res.Err.Error()),
		)
		v.products = nil
	} else {
		v.products = slices.Clone(res.Products)
	}

	v.resolveDirective()
	return true
}

func (v *View) resolveDirective() {
	if v.directive == nil {
		return
	}
	if p, ok := Resolve(v.products, v.directive); ok {
		v.viewer = v.viewer.Open(p)
	}
	v.directive = nil
	v.consumed = true
}

// DirectiveConsumed reports whether a deep-link directive was handled and
// should be stripped from the navigation entry.
func (v *View) DirectiveConsumed() bool {
	return v.consumed
}

// Unmount tears the view down; later results are ignored.
func (v *View) Unmount() {
	v.mounted = false
}

// Loading reports whether the initial fetch is outstanding.
func (v *View) Loading() bool {
	return v.loading
}

// Products returns the fetched list.
func (v *View) Products() []domain.Product {
	return v.products
}

// Criteria returns the active criteria.
func (v *View) Criteria() Criteria {
	return v.criteria
}

// Categories returns the selectable categories.
func (v *View) Categories() []string {
	return v.engine.Categories(v.products)
}

// SetCategory switches category. Values outside Categories are ignored.
func (v *View) SetCategory(category string) bool {
	if !slices.Contains(v.Categories(), category) {
		return false
	}
	v.criteria.Category = category
	return true
}

// SetSearch replaces the search term.
func (v *View) SetSearch(term string) {
	v.criteria.Search = term
}

// SetSort sets the name order.
func (v *View) SetSort(order SortOrder) {
	if order != SortDesc {
		order = SortAsc
	}
	v.criteria.Sort = order
}

// ToggleSort flips the name order.
func (v *View) ToggleSort() {
	if v.criteria.Sort == SortDesc {
		v.criteria.Sort = SortAsc
		return
	}
	v.criteria.Sort = SortDesc
}

// Visible returns the filtered and sorted products.
func (v *View) Visible() []domain.Product {
	return v.engine.Visible(v.products, v.criteria)
}

// Select opens the product with id. Ids not in the fetched list are
// ignored.
func (v *View) Select(id int64) bool {
	p, ok := findByID(v.products, id)
	if !ok {
		return false
	}
	v.viewer = v.viewer.Open(p)
	return true
}

// SelectImage moves the open lightbox to image i.
func (v *View) SelectImage(i int) {
	v.viewer = v.viewer.SelectImage(i, v.placeholder)
}

// Close dismisses the lightbox.
func (v *View) Close() {
	v.viewer = v.viewer.Close()
}

// Viewer returns the lightbox state.
func (v *View) Viewer() Viewer {
	return v.viewer
}

// Inquire returns the contact hand-off for the open product.
func (v *View) Inquire() (Handoff, bool) {
	return v.viewer.Inquire()
}

// Placeholder returns the image used for products without images.
func (v *View) Placeholder() string {
	return v.placeholder
}
