package catalog

import (
	"net/url"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"eshop-storefront/internal/model"
)

type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// CategoryAll is the sentinel that disables category filtering.
const CategoryAll = "all"

// Filter is one set of listing criteria. All predicates compose as a
// logical AND; sorting is applied last, to the filtered set.
type Filter struct {
	Search   string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     SortKey
}

// FromQuery reads a Filter from listing query params
// (search, category, min_price, max_price, sort). Unparseable price bounds
// are treated as unset.
func FromQuery(q url.Values) Filter {
	f := Filter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     SortKey(q.Get("sort")),
	}
	if min, err := decimal.NewFromString(q.Get("min_price")); err == nil {
		f.MinPrice = &min
	}
	if max, err := decimal.NewFromString(q.Get("max_price")); err == nil {
		f.MaxPrice = &max
	}
	return f
}

func (f Filter) matches(p model.Product) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}

	if f.Category != "" && f.Category != CategoryAll && p.CategoryKey() != f.Category {
		return false
	}

	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}

	return true
}

// Apply returns the products satisfying every predicate in f, sorted by
// f.Sort. It is a pure function of its inputs: products is never mutated
// and the result is always a fresh slice.
func Apply(products []model.Product, f Filter) []model.Product {
	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if f.matches(p) {
			filtered = append(filtered, p)
		}
	}

	switch f.Sort {
	case SortPriceLow:
		sort.Slice(filtered, func(i, j int) bool {
			return filtered[i].Price.LessThan(filtered[j].Price)
		})
	case SortPriceHigh:
		sort.Slice(filtered, func(i, j int) bool {
			return filtered[i].Price.GreaterThan(filtered[j].Price)
		})
	case SortRating:
		sort.Slice(filtered, func(i, j int) bool {
			return filtered[i].Rating > filtered[j].Rating
		})
	default:
		// Name A-Z, locale-aware.
		c := collate.New(language.Und, collate.IgnoreCase)
		sort.Slice(filtered, func(i, j int) bool {
			return c.CompareString(filtered[i].Name, filtered[j].Name) < 0
		})
	}

	return filtered
}

// CategoryNames returns the distinct category keys of products, prefixed
// with the "all" sentinel, in first-seen order.
func CategoryNames(products []model.Product) []string {
	names := []string{CategoryAll}
	seen := make(map[string]bool)
	for _, p := range products {
		key := p.CategoryKey()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, key)
	}
	return names
}
