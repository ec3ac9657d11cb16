package catalog

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"CatalogExplorer/internal/history"
	"CatalogExplorer/internal/session"
	"CatalogExplorer/pkg/kit"
)

const refreshMessage = "Product data refreshed successfully"

// Latencies are the simulated round-trip times of each read.
type Latencies struct {
	Navigations time.Duration
	Categories  time.Duration
	Products    time.Duration
	Product     time.Duration
	Detail      time.Duration
	Reviews     time.Duration
	Refresh     time.Duration
}

func DefaultLatencies() Latencies {
	return Latencies{
		Navigations: 300 * time.Millisecond,
		Categories:  400 * time.Millisecond,
		Products:    500 * time.Millisecond,
		Product:     400 * time.Millisecond,
		Detail:      400 * time.Millisecond,
		Reviews:     400 * time.Millisecond,
		Refresh:     1000 * time.Millisecond,
	}
}

type Options struct {
	Dataset   *Dataset
	Sleep     kit.Sleeper
	Latencies *Latencies
	// FilterByCategory makes GetProducts honor its categoryID argument.
	FilterByCategory bool
	History          *history.ViewHistory
	Log              *zap.Logger
	Metrics          *kit.OpMetrics
}

// Service answers catalog queries from an in-memory Dataset, waiting a
// simulated latency before each read.
type Service struct {
	data             *Dataset
	sleep            kit.Sleeper
	lat              Latencies
	filterByCategory bool
	history          *history.ViewHistory
	log              *zap.Logger
	metrics          *kit.OpMetrics
}

var _ API = (*Service)(nil)

func NewService(opts Options) *Service {
	s := &Service{
		data:             opts.Dataset,
		sleep:            opts.Sleep,
		lat:              DefaultLatencies(),
		filterByCategory: opts.FilterByCategory,
		history:          opts.History,
		log:              opts.Log,
		metrics:          opts.Metrics,
	}
	if opts.Latencies != nil {
		s.lat = *opts.Latencies
	}
	if s.data == nil {
		s.data = NewDataset(time.Now().UTC())
	}
	if s.sleep == nil {
		s.sleep = kit.ContextSleep
	}
	if s.history == nil {
		s.history = history.New(history.NewMemoryStore(), history.DefaultLimit)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Ping reports whether the history store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.history.Ping(ctx)
}

func (s *Service) GetNavigations(ctx context.Context) (out []Navigation, err error) {
	defer s.observe(ctx, "get_navigations", time.Now(), &err)

	if err = s.sleep(ctx, s.lat.Navigations); err != nil {
		return nil, err
	}
	return slices.Clone(s.data.Navigations), nil
}

func (s *Service) GetCategories(ctx context.Context, navigationID string) (out []Category, err error) {
	defer s.observe(ctx, "get_categories", time.Now(), &err)

	if navigationID == "" {
		return nil, ErrMissingID
	}
	if err = s.sleep(ctx, s.lat.Categories); err != nil {
		return nil, err
	}
	return lo.Filter(s.data.Categories, func(c Category, _ int) bool {
		return c.NavigationID == navigationID
	}), nil
}

// GetProducts filters and pages the product list. categoryID is ignored
// unless the service was built with FilterByCategory.
func (s *Service) GetProducts(ctx context.Context, categoryID string, filters ProductFilters, page PaginationParams) (out ProductsResponse, err error) {
	defer s.observe(ctx, "get_products", time.Now(), &err)

	pg, err := page.Normalize()
	if err != nil {
		return ProductsResponse{}, err
	}
	if err = s.sleep(ctx, s.lat.Products); err != nil {
		return ProductsResponse{}, err
	}

	products := s.data.Products
	if s.filterByCategory && categoryID != "" {
		products = lo.Filter(products, func(p Product, _ int) bool { return p.CategoryID == categoryID })
	}
	return Paginate(FilterProducts(products, filters), pg), nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (out Product, ok bool, err error) {
	defer s.observe(ctx, "get_product", time.Now(), &err)

	if id == "" {
		return Product{}, false, ErrMissingID
	}
	if err = s.sleep(ctx, s.lat.Product); err != nil {
		return Product{}, false, err
	}
	p, ok := lo.Find(s.data.Products, func(p Product) bool { return p.ID == id })
	return p, ok, nil
}

func (s *Service) GetProductDetail(ctx context.Context, id string) (out ProductDetail, ok bool, err error) {
	defer s.observe(ctx, "get_product_detail", time.Now(), &err)

	if id == "" {
		return ProductDetail{}, false, ErrMissingID
	}
	if err = s.sleep(ctx, s.lat.Detail); err != nil {
		return ProductDetail{}, false, err
	}
	d, ok := s.data.Details[id]
	if !ok {
		return ProductDetail{}, false, nil
	}
	d.Specs = maps.Clone(d.Specs)
	return d, true, nil
}

// GetReviews returns reviews in storage order, which is newest first for the seed data.
func (s *Service) GetReviews(ctx context.Context, productID string) (out []Review, err error) {
	defer s.observe(ctx, "get_reviews", time.Now(), &err)

	if productID == "" {
		return nil, ErrMissingID
	}
	if err = s.sleep(ctx, s.lat.Reviews); err != nil {
		return nil, err
	}
	return lo.Filter(s.data.Reviews, func(r Review, _ int) bool {
		return r.ProductID == productID
	}), nil
}

// RefreshProduct stands in for re-scraping the product's source page.
// It always succeeds and leaves the dataset untouched.
func (s *Service) RefreshProduct(ctx context.Context, id string) (out RefreshResult, err error) {
	defer s.observe(ctx, "refresh_product", time.Now(), &err)

	if id == "" {
		return RefreshResult{}, ErrMissingID
	}
	if err = s.sleep(ctx, s.lat.Refresh); err != nil {
		return RefreshResult{}, err
	}
	s.log.Info("product refresh requested", zap.String("product_id", id))
	return RefreshResult{Success: true, Message: refreshMessage}, nil
}

// SaveViewHistory records productID in the caller's history slot.
func (s *Service) SaveViewHistory(ctx context.Context, productID string) (err error) {
	defer s.observe(ctx, "save_view_history", time.Now(), &err)

	if productID == "" {
		return ErrMissingID
	}
	if err = s.history.Save(ctx, history.Key(session.FromContext(ctx)), productID); err != nil {
		return fmt.Errorf("save view history: %w", err)
	}
	return nil
}

func (s *Service) GetViewHistory(ctx context.Context) (out []string, err error) {
	defer s.observe(ctx, "get_view_history", time.Now(), &err)

	ids, err := s.history.List(ctx, history.Key(session.FromContext(ctx)))
	if err != nil {
		return nil, fmt.Errorf("get view history: %w", err)
	}
	return ids, nil
}

func (s *Service) observe(ctx context.Context, op string, start time.Time, errp *error) {
	d := time.Since(start)
	s.metrics.Observe(op, d, *errp)

	if *errp != nil {
		s.log.Debug("catalog op failed", zap.String("op", op), zap.Duration("duration", d), zap.Error(*errp))
		return
	}
	s.log.Debug("catalog op", zap.String("op", op), zap.Duration("duration", d),
		zap.String("session", session.FromContext(ctx)))
}
