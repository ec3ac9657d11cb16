package catalog

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"CatalogExplorer/internal/session"
	"CatalogExplorer/pkg/kit"
)

const (
	readyTimeout          = 1 * time.Second
	refreshLimitPerWindow = 10
	refreshWindow         = time.Minute
)

// Pinger reports backend readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Catalog  API
	Health   Pinger
	Sessions *session.TokenMaker
	Log      *zap.Logger

	// TrustProxy keys the refresh limiter on X-Forwarded-For.
	TrustProxy bool
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	refreshLimiter := kit.NewIPRateLimiter(refreshLimitPerWindow, refreshWindow).TrustProxy(s.TrustProxy)

	r.Group(func(g chi.Router) {
		if s.Sessions != nil {
			g.Use(session.Middleware(s.Sessions, s.Log))
		}

		g.Get("/navigations", s.navigations)
		g.Get("/navigations/{id}/categories", s.categories)
		g.Get("/categories/{id}/products", s.products)

		g.Route("/products/{id}", func(pr chi.Router) {
			pr.Get("/", s.product)
			pr.Get("/detail", s.detail)
			pr.Get("/reviews", s.reviews)
			pr.With(refreshLimiter.Middleware).Post("/refresh", s.refresh)
			pr.Post("/views", s.saveView)
		})

		g.Get("/history", s.viewHistory)
	})

	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	if s.Health == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Health.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) navigations(w http.ResponseWriter, r *http.Request) {
	navs, err := s.Catalog.GetNavigations(r.Context())
	if err != nil {
		s.writeErr(w, r, "list navigations", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, navs)
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.Catalog.GetCategories(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, r, "list categories", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, cats)
}

func (s *Server) products(w http.ResponseWriter, r *http.Request) {
	filters, page, err := decodeProductQuery(r.URL.Query())
	if err != nil {
		var qe *queryError
		if errors.As(err, &qe) {
			kit.WriteError(w, r, http.StatusBadRequest, "bad query", map[string]any{"param": qe.Param})
			return
		}
		kit.WriteError(w, r, http.StatusBadRequest, "bad query", nil)
		return
	}

	resp, err := s.Catalog.GetProducts(r.Context(), chi.URLParam(r, "id"), filters, page)
	if err != nil {
		s.writeErr(w, r, "list products", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) product(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := s.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, "get product", err, zap.String("id", id))
		return
	}
	if !ok {
		kit.WriteNotFound(w, r, "product", id)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, ok, err := s.Catalog.GetProductDetail(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, "get product detail", err, zap.String("id", id))
		return
	}
	if !ok {
		kit.WriteNotFound(w, r, "product detail", id)
		return
	}
	kit.WriteJSON(w, http.StatusOK, d)
}

func (s *Server) reviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rs, err := s.Catalog.GetReviews(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, "list reviews", err, zap.String("id", id))
		return
	}
	kit.WriteJSON(w, http.StatusOK, rs)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := s.Catalog.RefreshProduct(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, "refresh product", err, zap.String("id", id))
		return
	}
	kit.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) saveView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.Catalog.SaveViewHistory(r.Context(), id); err != nil {
		s.writeErr(w, r, "save view history", err, zap.String("id", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) viewHistory(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Catalog.GetViewHistory(r.Context())
	if err != nil {
		s.writeErr(w, r, "get view history", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, ids)
}

func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, op string, err error, fields ...zap.Field) {
	switch {
	case errors.Is(err, ErrMissingID):
		kit.WriteError(w, r, http.StatusBadRequest, "id required", nil)
	case errors.Is(err, ErrInvalidPagination):
		kit.WriteError(w, r, http.StatusBadRequest, "invalid pagination", nil)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
	default:
		s.logger().Error(op+" failed", append(fields, zap.Error(err))...)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
