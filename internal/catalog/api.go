// Package catalog serves the product catalog: navigations, categories,
// products with details and reviews, and the caller's view history.
package catalog

import (
	"context"
	"errors"
)

var (
	ErrMissingID         = errors.New("catalog: id is required")
	ErrInvalidPagination = errors.New("catalog: page and limit must not be negative")
)

// API is the read contract shared by the in-process Service and the HTTP Client.
// Absence is never an error: lookups report ok=false and listings return empty slices.
type API interface {
	GetNavigations(ctx context.Context) ([]Navigation, error)
	GetCategories(ctx context.Context, navigationID string) ([]Category, error)
	GetProducts(ctx context.Context, categoryID string, filters ProductFilters, page PaginationParams) (ProductsResponse, error)
	GetProduct(ctx context.Context, id string) (Product, bool, error)
	GetProductDetail(ctx context.Context, id string) (ProductDetail, bool, error)
	GetReviews(ctx context.Context, productID string) ([]Review, error)
	RefreshProduct(ctx context.Context, id string) (RefreshResult, error)
	SaveViewHistory(ctx context.Context, productID string) error
	GetViewHistory(ctx context.Context) ([]string, error)
}
