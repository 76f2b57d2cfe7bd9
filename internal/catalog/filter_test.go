package catalog

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eshop-storefront/internal/model"
)

func product(id int64, name, desc, category string, price int64, rating float64) model.Product {
	return model.Product{
		ID:          id,
		Name:        name,
		Description: desc,
		Category:    model.CategoryRef{Name: category},
		Price:       decimal.NewFromInt(price),
		Rating:      rating,
	}
}

func testCatalog() []model.Product {
	return []model.Product{
		product(1, "Laptop Stand Adjustable", "Ergonomic laptop stand", "Electronics", 899, 4.4),
		product(2, "Running Sports Shoes", "Comfortable running shoes", "Fashion", 1999, 4.7),
		product(3, "Wireless Bluetooth Headphones", "Noise cancellation", "Electronics", 2999, 4.5),
		product(4, "Smart Fitness Watch", "Track your fitness goals", "Electronics", 4999, 4.3),
		product(5, "Premium Yoga Mat", "Non-slip yoga mat for daily exercise", "Sports", 1299, 4.6),
	}
}

func names(products []model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestApplySearchMatchesNameOrDescription(t *testing.T) {
	result := Apply(testCatalog(), Filter{Search: "yoga", Category: CategoryAll})

	require.Len(t, result, 1)
	assert.Equal(t, "Premium Yoga Mat", result[0].Name)

	// Case-insensitive, and description text counts too.
	result = Apply(testCatalog(), Filter{Search: "FITNESS"})
	assert.ElementsMatch(t,
		[]string{"Running Sports Shoes", "Smart Fitness Watch"},
		names(result))
}

func TestApplyEmptySearchMatchesEverything(t *testing.T) {
	result := Apply(testCatalog(), Filter{})
	assert.Len(t, result, len(testCatalog()))
}

func TestApplyPriceBoundsInclusive(t *testing.T) {
	min := decimal.NewFromInt(1000)
	max := decimal.NewFromInt(3000)

	result := Apply([]model.Product{
		product(1, "a", "", "", 899, 0),
		product(2, "b", "", "", 1999, 0),
		product(3, "c", "", "", 2999, 0),
		product(4, "d", "", "", 4999, 0),
	}, Filter{MinPrice: &min, MaxPrice: &max})

	require.Len(t, result, 2)
	assert.ElementsMatch(t, []string{"b", "c"}, names(result))

	// Bounds are inclusive.
	exact := decimal.NewFromInt(1999)
	result = Apply(testCatalog(), Filter{MinPrice: &exact, MaxPrice: &exact})
	require.Len(t, result, 1)
	assert.Equal(t, "Running Sports Shoes", result[0].Name)
}

func TestApplyCategoryFilter(t *testing.T) {
	result := Apply(testCatalog(), Filter{Category: "Electronics"})
	assert.Len(t, result, 3)

	// "all" disables the filter.
	result = Apply(testCatalog(), Filter{Category: CategoryAll})
	assert.Len(t, result, len(testCatalog()))

	// Nested-object and plain-string categories resolve to the same key.
	nested := model.Product{ID: 9, Name: "x", Category: model.CategoryRef{ID: 3, Name: "Sports"}}
	flat := model.Product{ID: 10, Name: "y", CategoryName: "Sports"}
	result = Apply([]model.Product{nested, flat}, Filter{Category: "Sports"})
	assert.Len(t, result, 2)
}

func TestApplyPredicatesComposeAsAND(t *testing.T) {
	products := testCatalog()
	min := decimal.NewFromInt(1000)

	result := Apply(products, Filter{Search: "shoes", Category: "Fashion", MinPrice: &min})
	require.Len(t, result, 1)
	assert.Equal(t, "Running Sports Shoes", result[0].Name)

	// Every element of the result satisfies every predicate, and the
	// result is never larger than the input.
	assert.LessOrEqual(t, len(result), len(products))

	result = Apply(products, Filter{Search: "shoes", Category: "Electronics"})
	assert.Empty(t, result)
}

func TestApplyIsIdempotent(t *testing.T) {
	f := Filter{Search: "e", Sort: SortPriceLow}

	once := Apply(testCatalog(), f)
	twice := Apply(once, f)
	assert.Equal(t, once, twice)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	products := testCatalog()
	original := names(products)

	Apply(products, Filter{Sort: SortPriceHigh})
	assert.Equal(t, original, names(products))
}

func TestApplySortOrders(t *testing.T) {
	t.Run("price low to high reversed equals high to low", func(t *testing.T) {
		low := Apply(testCatalog(), Filter{Sort: SortPriceLow})
		high := Apply(testCatalog(), Filter{Sort: SortPriceHigh})

		require.Len(t, high, len(low))
		for i := range low {
			assert.Equal(t, low[i].ID, high[len(high)-1-i].ID)
		}
	})

	t.Run("rating descending with missing rating last", func(t *testing.T) {
		unrated := product(6, "Unrated Thing", "", "Misc", 100, 0)
		result := Apply(append(testCatalog(), unrated), Filter{Sort: SortRating})

		require.NotEmpty(t, result)
		assert.Equal(t, "Running Sports Shoes", result[0].Name)
		assert.Equal(t, "Unrated Thing", result[len(result)-1].Name)
	})

	t.Run("name ascending is the default", func(t *testing.T) {
		result := Apply(testCatalog(), Filter{})
		require.NotEmpty(t, result)
		assert.Equal(t, "Laptop Stand Adjustable", result[0].Name)
		assert.Equal(t, "Wireless Bluetooth Headphones", result[len(result)-1].Name)
	})
}

func TestFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("search", "watch")
	q.Set("category", "Electronics")
	q.Set("min_price", "1000")
	q.Set("max_price", "5000.50")
	q.Set("sort", "price-high")

	f := FromQuery(q)
	assert.Equal(t, "watch", f.Search)
	assert.Equal(t, "Electronics", f.Category)
	require.NotNil(t, f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.True(t, f.MinPrice.Equal(decimal.NewFromInt(1000)))
	assert.True(t, f.MaxPrice.Equal(decimal.RequireFromString("5000.50")))
	assert.Equal(t, SortPriceHigh, f.Sort)

	// Empty or garbage bounds are ignored, not zeroed.
	f = FromQuery(url.Values{"min_price": []string{"abc"}})
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MaxPrice)
}

func TestCategoryNames(t *testing.T) {
	got := CategoryNames(testCatalog())
	assert.Equal(t, []string{"all", "Electronics", "Fashion", "Sports"}, got)
}
