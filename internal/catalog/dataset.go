package catalog

import "time"

const day = 24 * time.Hour

// Dataset holds the reference collections. It is built once and never mutated.
type Dataset struct {
	Navigations []Navigation
	Categories  []Category
	Products    []Product
	Details     map[string]ProductDetail
	Reviews     []Review
}

// NewDataset returns the seed catalog with scrape and review timestamps relative to now.
func NewDataset(now time.Time) *Dataset {
	product := func(id, sourceID, title, author string, price float64, categoryID string) Product {
		return Product{
			ID:            id,
			SourceID:      sourceID,
			Title:         title,
			Author:        author,
			Price:         price,
			Currency:      "USD",
			ImageURL:      "/placeholder.svg",
			SourceURL:     "https://example.com",
			LastScrapedAt: now,
			CategoryID:    categoryID,
		}
	}

	return &Dataset{
		Navigations: []Navigation{
			{ID: "1", Title: "Electronics", Slug: "electronics"},
			{ID: "2", Title: "Books", Slug: "books"},
			{ID: "3", Title: "Home & Garden", Slug: "home-garden"},
			{ID: "4", Title: "Fashion", Slug: "fashion"},
		},
		Categories: []Category{
			{ID: "c1", NavigationID: "1", Title: "Computers & Laptops", Slug: "computers-laptops", ProductCount: 156},
			{ID: "c2", NavigationID: "1", Title: "Smartphones & Tablets", Slug: "smartphones-tablets", ProductCount: 243},
			{ID: "c3", NavigationID: "1", Title: "Audio & Headphones", Slug: "audio-headphones", ProductCount: 89},
			{ID: "c4", NavigationID: "2", Title: "Fiction", Slug: "fiction", ProductCount: 567},
			{ID: "c5", NavigationID: "2", Title: "Non-Fiction", Slug: "non-fiction", ProductCount: 432},
		},
		Products: []Product{
			product("p1", "amz-123", "Premium Wireless Headphones Pro", "AudioTech", 299.99, "c3"),
			product("p2", "amz-124", `Smart Laptop 15.6" Ultra`, "TechBrand", 1299.99, "c1"),
			product("p3", "amz-125", "Bestselling Fiction Novel", "Jane Smith", 24.99, "c4"),
			product("p4", "amz-126", "Professional Camera 4K", "PhotoPro", 899.99, "c2"),
			product("p5", "amz-127", "Gaming Console Next-Gen", "GameTech", 499.99, "c1"),
		},
		Details: map[string]ProductDetail{
			"p1": {
				ProductID: "p1",
				Description: "Experience crystal-clear sound with our premium wireless headphones. " +
					"Features advanced noise cancellation, 30-hour battery life, and premium materials.",
				Specs: map[string]SpecValue{
					"Battery Life":      StringSpec("30 hours"),
					"Bluetooth Version": StringSpec("5.2"),
					"Weight":            StringSpec("250g"),
					"Colors":            StringSpec("Black, Silver, Blue"),
				},
				RatingsAvg:   4.6,
				ReviewsCount: 1284,
			},
		},
		Reviews: []Review{
			{ID: "r1", ProductID: "p1", Author: "John D.", Rating: 5, Text: "Amazing sound quality! Best headphones I've ever owned.", CreatedAt: now.Add(-1 * day)},
			{ID: "r2", ProductID: "p1", Author: "Sarah M.", Rating: 4, Text: "Great product overall. Battery life is impressive.", CreatedAt: now.Add(-2 * day)},
			{ID: "r3", ProductID: "p1", Author: "Mike R.", Rating: 5, Text: "Worth every penny. The noise cancellation is incredible.", CreatedAt: now.Add(-3 * day)},
		},
	}
}
