package catalog

import (
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestPaginationParams_Normalize(t *testing.T) {
	pg, err := PaginationParams{}.Normalize()
	require.NoError(t, err)
	require.Equal(t, PaginationParams{Page: DefaultPage, Limit: DefaultLimit}, pg)

	pg, err = PaginationParams{Page: 3, Limit: 2}.Normalize()
	require.NoError(t, err)
	require.Equal(t, PaginationParams{Page: 3, Limit: 2}, pg)

	_, err = PaginationParams{Page: -1, Limit: 2}.Normalize()
	require.ErrorIs(t, err, ErrInvalidPagination)

	_, err = PaginationParams{Page: 1, Limit: -5}.Normalize()
	require.ErrorIs(t, err, ErrInvalidPagination)
}

func TestProductFilters_Match(t *testing.T) {
	p := Product{Title: "Professional Camera 4K", Author: "PhotoPro", Price: 899.99}

	cases := []struct {
		name string
		f    ProductFilters
		want bool
	}{
		{"no filters", ProductFilters{}, true},
		{"search title any case", ProductFilters{Search: "CAMERA"}, true},
		{"search author", ProductFilters{Search: "photop"}, true},
		{"search miss", ProductFilters{Search: "laptop"}, false},
		{"min bound inclusive", ProductFilters{MinPrice: ptr(899.99)}, true},
		{"max bound inclusive", ProductFilters{MaxPrice: ptr(899.99)}, true},
		{"below min", ProductFilters{MinPrice: ptr(900)}, false},
		{"above max", ProductFilters{MaxPrice: ptr(899)}, false},
		{"author exact", ProductFilters{Author: "PhotoPro"}, true},
		{"author is case sensitive", ProductFilters{Author: "photopro"}, false},
		{"min rating ignored", ProductFilters{MinRating: ptr(5)}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.f.Match(p))
		})
	}
}

func TestPaginate(t *testing.T) {
	products := NewDataset(time.Unix(0, 0)).Products // 5 items

	cases := []struct {
		page, limit   int
		wantLen       int
		wantTotalPage int
	}{
		{1, 2, 2, 3},
		{2, 2, 2, 3},
		{3, 2, 1, 3},
		{4, 2, 0, 3},
		{1, 12, 5, 1},
		{1, 5, 5, 1},
		{2, 5, 0, 1},
		{1000000, 1000000, 0, 1},
		{1, math.MaxInt, 5, 1},
		{2, math.MaxInt, 0, 1},
	}

	for _, tc := range cases {
		resp := Paginate(products, PaginationParams{Page: tc.page, Limit: tc.limit})
		require.Equal(t, 5, resp.Total)
		require.Equal(t, tc.wantTotalPage, resp.TotalPages)
		require.Len(t, resp.Products, tc.wantLen, "page=%d limit=%d", tc.page, tc.limit)
		require.NotNil(t, resp.Products)
		require.Equal(t, min(tc.limit, max(0, resp.Total-(tc.page-1)*tc.limit)), len(resp.Products))
	}
}

func TestPaginate_Empty(t *testing.T) {
	resp := Paginate(nil, PaginationParams{Page: 1, Limit: 12})
	require.Equal(t, 0, resp.Total)
	require.Equal(t, 0, resp.TotalPages)
	require.Empty(t, resp.Products)
	require.NotNil(t, resp.Products)
}

func TestProductQuery_EncodeDecode(t *testing.T) {
	f := ProductFilters{Search: "pro", MinPrice: ptr(100), MaxPrice: ptr(999.5), MinRating: ptr(4), Author: "PhotoPro"}
	pg := PaginationParams{Page: 2, Limit: 3}

	q := url.Values{}
	for k, v := range encodeProductQuery(f, pg) {
		q.Set(k, v)
	}

	gotF, gotPg, err := decodeProductQuery(q)
	require.NoError(t, err)
	require.Equal(t, f, gotF)
	require.Equal(t, pg, gotPg)
}

func TestDecodeProductQuery_Errors(t *testing.T) {
	for _, raw := range []string{"minPrice=abc", "maxPrice=1..2", "minRating=x", "page=one", "limit=1.5"} {
		q, err := url.ParseQuery(raw)
		require.NoError(t, err)

		_, _, err = decodeProductQuery(q)
		var qe *queryError
		require.ErrorAs(t, err, &qe, raw)
	}
}
