package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"resty.dev/v3"

	"CatalogExplorer/internal/session"
)

var (
	ErrUnavailable    = errors.New("catalog unavailable")
	ErrUpstreamStatus = errors.New("catalog bad status")
)

const (
	defaultClientTimeout = 5 * time.Second
	clientRetries        = 2
	clientRetryWait      = 200 * time.Millisecond
)

// Client talks to a catalog Server over HTTP. It remembers the session
// token the server hands out so view history follows this client.
type Client struct {
	http *resty.Client

	mu    sync.Mutex
	token string
}

var _ API = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(clientRetries).
		SetRetryWaitTime(clientRetryWait).
		SetHeader("Accept", "application/json")

	return &Client{http: rc}
}

func (c *Client) Close() error {
	return c.http.Close()
}

// SessionToken returns the token last issued by the server, if any.
func (c *Client) SessionToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) SetSessionToken(tok string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = tok
}

func (c *Client) GetNavigations(ctx context.Context) ([]Navigation, error) {
	var out []Navigation
	resp, err := c.request(ctx).SetResult(&out).Get("/navigations")
	if err := c.check(ctx, resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCategories(ctx context.Context, navigationID string) ([]Category, error) {
	if navigationID == "" {
		return nil, ErrMissingID
	}

	var out []Category
	resp, err := c.request(ctx).
		SetPathParam("id", navigationID).
		SetResult(&out).
		Get("/navigations/{id}/categories")
	if err := c.check(ctx, resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProducts(ctx context.Context, categoryID string, filters ProductFilters, page PaginationParams) (ProductsResponse, error) {
	if _, err := page.Normalize(); err != nil {
		return ProductsResponse{}, err
	}

	var out ProductsResponse
	resp, err := c.request(ctx).
		SetPathParam("id", categoryID).
		SetQueryParams(encodeProductQuery(filters, page)).
		SetResult(&out).
		Get("/categories/{id}/products")
	if err := c.check(ctx, resp, err); err != nil {
		return ProductsResponse{}, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (Product, bool, error) {
	if id == "" {
		return Product{}, false, ErrMissingID
	}

	var out Product
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		Get("/products/{id}")
	if found, err := c.checkLookup(ctx, resp, err); !found || err != nil {
		return Product{}, false, err
	}
	return out, true, nil
}

func (c *Client) GetProductDetail(ctx context.Context, id string) (ProductDetail, bool, error) {
	if id == "" {
		return ProductDetail{}, false, ErrMissingID
	}

	var out ProductDetail
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		Get("/products/{id}/detail")
	if found, err := c.checkLookup(ctx, resp, err); !found || err != nil {
		return ProductDetail{}, false, err
	}
	return out, true, nil
}

func (c *Client) GetReviews(ctx context.Context, productID string) ([]Review, error) {
	if productID == "" {
		return nil, ErrMissingID
	}

	var out []Review
	resp, err := c.request(ctx).
		SetPathParam("id", productID).
		SetResult(&out).
		Get("/products/{id}/reviews")
	if err := c.check(ctx, resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RefreshProduct(ctx context.Context, id string) (RefreshResult, error) {
	if id == "" {
		return RefreshResult{}, ErrMissingID
	}

	var out RefreshResult
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		Post("/products/{id}/refresh")
	if err := c.check(ctx, resp, err); err != nil {
		return RefreshResult{}, err
	}
	return out, nil
}

func (c *Client) SaveViewHistory(ctx context.Context, productID string) error {
	if productID == "" {
		return ErrMissingID
	}

	resp, err := c.request(ctx).
		SetPathParam("id", productID).
		Post("/products/{id}/views")
	return c.check(ctx, resp, err)
}

func (c *Client) GetViewHistory(ctx context.Context) ([]string, error) {
	var out []string
	resp, err := c.request(ctx).SetResult(&out).Get("/history")
	if err := c.check(ctx, resp, err); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if tok := c.SessionToken(); tok != "" {
		r.SetHeader(session.Header, tok)
	}
	return r
}

func (c *Client) check(ctx context.Context, resp *resty.Response, err error) error {
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.remember(resp)

	switch {
	case resp.StatusCode() == http.StatusBadRequest:
		return fmt.Errorf("%w: status=%d body=%s", ErrUpstreamStatus, resp.StatusCode(), strings.TrimSpace(resp.String()))
	case resp.IsError():
		return fmt.Errorf("%w: status=%d", ErrUpstreamStatus, resp.StatusCode())
	}
	return nil
}

// checkLookup treats 404 as absence rather than failure.
func (c *Client) checkLookup(ctx context.Context, resp *resty.Response, err error) (bool, error) {
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		c.remember(resp)
		return false, nil
	}
	if err := c.check(ctx, resp, err); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) remember(resp *resty.Response) {
	if tok := resp.Header().Get(session.Header); tok != "" {
		c.SetSessionToken(tok)
	}
}
