//go:build integration
// +build integration

package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"CatalogExplorer/internal/catalog"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8082")

func TestSystem_E2E_Browse(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	c := catalog.NewClient(baseURL, 10*time.Second)
	defer func() { _ = c.Close() }()

	navs, err := c.GetNavigations(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, navs)

	cats, err := c.GetCategories(ctx, navs[0].ID)
	require.NoError(t, err)
	require.NotEmpty(t, cats)

	lo, hi := 100.0, 1000.0
	resp, err := c.GetProducts(ctx, cats[0].ID, catalog.ProductFilters{MinPrice: &lo, MaxPrice: &hi}, catalog.PaginationParams{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Products)
	for _, p := range resp.Products {
		require.GreaterOrEqual(t, p.Price, lo)
		require.LessOrEqual(t, p.Price, hi)
	}

	pid := resp.Products[0].ID
	p, ok, err := c.GetProduct(ctx, pid)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, pid, p.ID)

	require.NoError(t, c.SaveViewHistory(ctx, pid))
	require.NotEmpty(t, c.SessionToken())

	hist, err := c.GetViewHistory(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{pid}, hist)

	if os.Getenv("E2E_RESTART_CATALOG") == "1" {
		restartCatalogContainer(t, ctx)
		waitReady(t, ctx, baseURL+"/readyz")

		hist, err = c.GetViewHistory(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{pid}, hist)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
