package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
)

// Normalize fills zero page and limit with defaults and rejects negative values.
func (p PaginationParams) Normalize() (PaginationParams, error) {
	if p.Page < 0 || p.Limit < 0 {
		return p, ErrInvalidPagination
	}
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	return p, nil
}

// Match reports whether p passes every filter that is set. The filters are
// independent predicates, so the order they are checked in does not matter.
func (f ProductFilters) Match(p Product) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Author), q) {
			return false
		}
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Author != "" && p.Author != f.Author {
		return false
	}
	return true
}

func FilterProducts(products []Product, f ProductFilters) []Product {
	return lo.Filter(products, func(p Product, _ int) bool { return f.Match(p) })
}

// Paginate slices an already filtered list. pg must be normalized.
// A page past the end yields no products but still reports the full total.
func Paginate(products []Product, pg PaginationParams) ProductsResponse {
	total := len(products)
	totalPages := total / pg.Limit
	if total%pg.Limit != 0 {
		totalPages++
	}

	page := []Product{}
	if pg.Page <= totalPages {
		start := (pg.Page - 1) * pg.Limit
		end := min(start+pg.Limit, total)
		page = append(page, products[start:end]...)
	}

	return ProductsResponse{
		Products:   page,
		Total:      total,
		Page:       pg.Page,
		Limit:      pg.Limit,
		TotalPages: totalPages,
	}
}

// Query parameter names used on the wire.
const (
	qSearch    = "search"
	qMinPrice  = "minPrice"
	qMaxPrice  = "maxPrice"
	qMinRating = "minRating"
	qAuthor    = "author"
	qPage      = "page"
	qLimit     = "limit"
)

func encodeProductQuery(f ProductFilters, pg PaginationParams) map[string]string {
	q := map[string]string{}
	if f.Search != "" {
		q[qSearch] = f.Search
	}
	if f.Author != "" {
		q[qAuthor] = f.Author
	}
	for name, v := range map[string]*float64{qMinPrice: f.MinPrice, qMaxPrice: f.MaxPrice, qMinRating: f.MinRating} {
		if v != nil {
			q[name] = strconv.FormatFloat(*v, 'f', -1, 64)
		}
	}
	if pg.Page != 0 {
		q[qPage] = strconv.Itoa(pg.Page)
	}
	if pg.Limit != 0 {
		q[qLimit] = strconv.Itoa(pg.Limit)
	}
	return q
}

// queryError names the offending parameter so handlers can report it.
type queryError struct {
	Param string
	Err   error
}

func (e *queryError) Error() string { return fmt.Sprintf("bad %s: %v", e.Param, e.Err) }
func (e *queryError) Unwrap() error { return e.Err }

func decodeProductQuery(q url.Values) (ProductFilters, PaginationParams, error) {
	f := ProductFilters{
		Search: q.Get(qSearch),
		Author: q.Get(qAuthor),
	}

	var err error
	if f.MinPrice, err = optFloat(q, qMinPrice); err != nil {
		return ProductFilters{}, PaginationParams{}, err
	}
	if f.MaxPrice, err = optFloat(q, qMaxPrice); err != nil {
		return ProductFilters{}, PaginationParams{}, err
	}
	if f.MinRating, err = optFloat(q, qMinRating); err != nil {
		return ProductFilters{}, PaginationParams{}, err
	}

	var pg PaginationParams
	if pg.Page, err = optInt(q, qPage); err != nil {
		return ProductFilters{}, PaginationParams{}, err
	}
	if pg.Limit, err = optInt(q, qLimit); err != nil {
		return ProductFilters{}, PaginationParams{}, err
	}
	return f, pg, nil
}

func optFloat(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &queryError{Param: name, Err: err}
	}
	return &v, nil
}

func optInt(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &queryError{Param: name, Err: err}
	}
	return v, nil
}
