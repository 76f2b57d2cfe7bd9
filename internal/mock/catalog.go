package mock

import (
	"github.com/shopspring/decimal"

	"eshop-storefront/internal/model"
)

func price(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// fixedCatalog is the embedded product catalog. Read-only; ids are stable
// so cart and wishlist rows can reference them across restarts.
var fixedCatalog = []model.Product{
	{
		ID:          1,
		Name:        "Wireless Bluetooth Headphones",
		Price:       price(2999),
		Category:    model.CategoryRef{Name: "Electronics"},
		Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=300&h=200&fit=crop",
		Rating:      4.5,
		Description: "Premium quality wireless headphones with noise cancellation",
		IsFeatured:  true,
	},
	{
		ID:          2,
		Name:        "Smart Fitness Watch",
		Price:       price(4999),
		Category:    model.CategoryRef{Name: "Electronics"},
		Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=300&h=200&fit=crop",
		Rating:      4.3,
		Description: "Track your fitness goals with this advanced smartwatch",
	},
	{
		ID:          3,
		Name:        "Running Sports Shoes",
		Price:       price(1999),
		Category:    model.CategoryRef{Name: "Fashion"},
		Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=300&h=200&fit=crop",
		Rating:      4.7,
		Description: "Comfortable running shoes for all your fitness activities",
		IsFeatured:  true,
	},
	{
		ID:          4,
		Name:        "Coffee Maker Machine",
		Price:       price(3499),
		Category:    model.CategoryRef{Name: "Home & Kitchen"},
		Image:       "https://images.unsplash.com/photo-1559056199-641a0ac8b55e?w=300&h=200&fit=crop",
		Rating:      4.2,
		Description: "Brew perfect coffee every morning with this premium machine",
	},
	{
		ID:          5,
		Name:        "Laptop Stand Adjustable",
		Price:       price(899),
		Category:    model.CategoryRef{Name: "Electronics"},
		Image:       "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=300&h=200&fit=crop",
		Rating:      4.4,
		Description: "Ergonomic laptop stand for better posture while working",
	},
	{
		ID:          6,
		Name:        "Premium Yoga Mat",
		Price:       price(1299),
		Category:    model.CategoryRef{Name: "Sports"},
		Image:       "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?w=300&h=200&fit=crop",
		Rating:      4.6,
		Description: "Non-slip yoga mat for your daily meditation and exercise",
	},
	{
		ID:          7,
		Name:        "Wireless Mouse",
		Price:       price(799),
		Category:    model.CategoryRef{Name: "Electronics"},
		Image:       "https://images.unsplash.com/photo-1563297007-0686b4ac4de4?w=300&h=200&fit=crop",
		Rating:      4.1,
		Description: "Ergonomic wireless mouse with long battery life",
	},
	{
		ID:          8,
		Name:        "Designer Backpack",
		Price:       price(2499),
		Category:    model.CategoryRef{Name: "Fashion"},
		Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=300&h=200&fit=crop",
		Rating:      4.8,
		Description: "Stylish and spacious backpack for daily use",
		IsFeatured:  true,
	},
}

// fixedCategories is derived from the catalog once, ids in first-seen order.
var fixedCategories = func() []model.Category {
	var cats []model.Category
	seen := make(map[string]bool)
	for _, p := range fixedCatalog {
		name := p.CategoryKey()
		if seen[name] {
			continue
		}
		seen[name] = true
		cats = append(cats, model.Category{ID: int64(len(cats) + 1), Name: name})
	}
	return cats
}()

func findProduct(id int64) (model.Product, bool) {
	for _, p := range fixedCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}
