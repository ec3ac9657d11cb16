package catalog_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"CatalogExplorer/internal/catalog"
	"CatalogExplorer/internal/session"
	"CatalogExplorer/pkg/kit"
)

func newCatalogTS(t *testing.T, deps catalog.HTTPDeps) *httptest.Server {
	t.Helper()

	opts := catalog.Options{Sleep: kit.NoSleep}
	if deps.Registry != nil {
		opts.Metrics = kit.NewOpMetrics(deps.Registry)
	}
	svc := catalog.NewService(opts)
	s := &catalog.Server{
		Catalog:  svc,
		Health:   svc,
		Sessions: session.NewTokenMaker("test-secret", time.Hour),
		Log:      zap.NewNop(),
	}

	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	deps.Service = "catalog"

	ts := httptest.NewServer(catalog.NewHandler(s, deps))
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T, baseURL string) *catalog.Client {
	t.Helper()

	c := catalog.NewClient(baseURL, 2*time.Second)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func get(t *testing.T, url string, header http.Header) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestClient_BrowseFlow(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})
	c := newClient(t, ts.URL)
	ctx := context.Background()

	navs, err := c.GetNavigations(ctx)
	require.NoError(t, err)
	require.Len(t, navs, 4)
	require.Equal(t, "home-garden", navs[2].Slug)

	cats, err := c.GetCategories(ctx, "2")
	require.NoError(t, err)
	require.Len(t, cats, 2)
	require.Equal(t, "Fiction", cats[0].Title)

	resp, err := c.GetProducts(ctx, cats[0].ID,
		catalog.ProductFilters{MinPrice: ptr(100), MaxPrice: ptr(1000)},
		catalog.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 3, resp.Total)
	require.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.Products, 2)
	require.Equal(t, "p1", resp.Products[0].ID)

	p, ok, err := c.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 299.99, p.Price)
	require.False(t, p.LastScrapedAt.IsZero())

	d, ok, err := c.GetProductDetail(ctx, "p1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, catalog.StringSpec("5.2"), d.Specs["Bluetooth Version"])

	rs, err := c.GetReviews(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, rs, 3)

	res, err := c.RefreshProduct(ctx, "p1")
	require.NoError(t, err)
	require.True(t, res.Success)
}

func TestClient_AbsenceIsNotAnError(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})
	c := newClient(t, ts.URL)
	ctx := context.Background()

	_, ok, err := c.GetProduct(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = c.GetProductDetail(ctx, "p5")
	require.NoError(t, err)
	require.False(t, ok)

	cats, err := c.GetCategories(ctx, "4")
	require.NoError(t, err)
	require.Empty(t, cats)
}

func TestClient_ViewHistoryFollowsSession(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})
	ctx := context.Background()

	alice := newClient(t, ts.URL)
	require.NoError(t, alice.SaveViewHistory(ctx, "p1"))
	require.NotEmpty(t, alice.SessionToken())
	require.NoError(t, alice.SaveViewHistory(ctx, "p4"))
	require.NoError(t, alice.SaveViewHistory(ctx, "p1"))

	got, err := alice.GetViewHistory(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"p1", "p4"}, got)

	bob := newClient(t, ts.URL)
	got, err = bob.GetViewHistory(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestHTTP_BadQuery(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	resp, raw := get(t, ts.URL+"/categories/c1/products?minPrice=cheap", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))

	var er kit.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &er))
	require.Equal(t, "bad query", er.Error)
	require.NotEmpty(t, er.RequestID)

	resp, raw = get(t, ts.URL+"/categories/c1/products?page=-2", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))
}

func TestHTTP_ProductNotFound(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	resp, raw := get(t, ts.URL+"/products/nope", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode, string(raw))

	var er kit.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &er))
	require.Equal(t, "product not found", er.Error)
	require.Equal(t, map[string]any{"id": "nope"}, er.Details)

	resp, raw = get(t, ts.URL+"/products/p2/detail", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &er))
	require.Equal(t, "product detail not found", er.Error)
}

func TestHTTP_RefreshIsRateLimited(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	var last int
	for i := 0; i < 11; i++ {
		resp, err := http.Post(ts.URL+"/products/p1/refresh", "application/json", nil)
		require.NoError(t, err)
		_ = resp.Body.Close()
		last = resp.StatusCode
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}

func TestHTTP_RefreshLimitIgnoresForwardedFor(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	var last int
	for i := 0; i < 11; i++ {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/products/p1/refresh", nil)
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i+1))

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		last = resp.StatusCode
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}

func TestHTTP_HugeLimitKeepsFirstPage(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	resp, raw := get(t, fmt.Sprintf("%s/categories/c1/products?limit=%d", ts.URL, math.MaxInt), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var got catalog.ProductsResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, 5, got.Total)
	require.Equal(t, 1, got.TotalPages)
	require.Len(t, got.Products, 5)
}

func TestHTTP_Metrics(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   "metrics-token",
	})

	resp, _ := get(t, ts.URL+"/navigations", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/metrics", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := get(t, ts.URL+"/metrics", http.Header{"Authorization": {"Bearer metrics-token"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), "http_requests_total")
	require.Contains(t, string(raw), `path="/navigations"`)
	require.Contains(t, string(raw), "catalog_operation_duration_seconds")
}

func TestHTTP_HealthAndReady(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	resp, _ := get(t, ts.URL+"/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, resp.Header.Get(session.Header))

	resp, _ = get(t, ts.URL+"/readyz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
