package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type Navigation struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type Category struct {
	ID            string     `json:"id"`
	NavigationID  string     `json:"navigation_id"`
	ParentID      string     `json:"parent_id,omitempty"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	ProductCount  int        `json:"product_count"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

// Product is a catalog item with a link back to the page it was scraped from.
// CategoryID is only consulted when category filtering is enabled.
type Product struct {
	ID            string    `json:"id"`
	SourceID      string    `json:"source_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	ImageURL      string    `json:"image_url"`
	SourceURL     string    `json:"source_url"`
	LastScrapedAt time.Time `json:"last_scraped_at"`
	CategoryID    string    `json:"category_id,omitempty"`
}

type ProductDetail struct {
	ProductID    string               `json:"product_id"`
	Description  string               `json:"description"`
	Specs        map[string]SpecValue `json:"specs"`
	RatingsAvg   float64              `json:"ratings_avg"`
	ReviewsCount int                  `json:"reviews_count"`
}

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductFilters narrows a product listing. Nil bounds are not applied.
// MinRating is accepted for compatibility but products carry no rating, so it never filters.
type ProductFilters struct {
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Author    string
}

type PaginationParams struct {
	Page  int
	Limit int
}

type ProductsResponse struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}

type RefreshResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SpecKind uint8

const (
	SpecString SpecKind = iota
	SpecNumber
	SpecBool
)

// SpecValue is one entry of a product's spec sheet: a string, number or boolean.
type SpecValue struct {
	Kind SpecKind
	Str  string
	Num  float64
	Bool bool
}

func StringSpec(s string) SpecValue  { return SpecValue{Kind: SpecString, Str: s} }
func NumberSpec(n float64) SpecValue { return SpecValue{Kind: SpecNumber, Num: n} }
func BoolSpec(b bool) SpecValue      { return SpecValue{Kind: SpecBool, Bool: b} }

func (v SpecValue) String() string {
	switch v.Kind {
	case SpecNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case SpecBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

func (v SpecValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case SpecString:
		return json.Marshal(v.Str)
	case SpecNumber:
		return json.Marshal(v.Num)
	case SpecBool:
		return json.Marshal(v.Bool)
	default:
		return nil, fmt.Errorf("catalog: unknown spec kind %d", v.Kind)
	}
}

func (v *SpecValue) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch x := raw.(type) {
	case string:
		*v = StringSpec(x)
	case float64:
		*v = NumberSpec(x)
	case bool:
		*v = BoolSpec(x)
	default:
		return fmt.Errorf("catalog: unsupported spec value %s", b)
	}
	return nil
}
