package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeComputesTotalAndDefaultsQuantity(t *testing.T) {
	// item_price as a decimal string, quantity absent: total is
	// price x 1 and quantity defaults to 1.
	var raw RawCartLine
	require.NoError(t, json.Unmarshal([]byte(`{"id": 7, "item": 3, "item_price": "199.5"}`), &raw))

	line := raw.Normalize()
	assert.Equal(t, 1, line.Quantity)
	assert.True(t, line.TotalPrice.Equal(decimal.RequireFromString("199.5")),
		"total_price = %s", line.TotalPrice)
	assert.True(t, line.Price.Equal(decimal.RequireFromString("199.5")))
}

func TestNormalizeCoalescesPrefixedFields(t *testing.T) {
	price := decimal.RequireFromString("2999")
	raw := RawCartLine{
		ID:           1,
		Item:         5,
		ItemName:     "Wireless Bluetooth Headphones",
		ItemPrice:    &price,
		ItemImage:    "https://example.com/headphones.jpg",
		CategoryName: "Electronics",
		Quantity:     2,
	}

	line := raw.Normalize()
	assert.Equal(t, "Wireless Bluetooth Headphones", line.Name)
	assert.Equal(t, "https://example.com/headphones.jpg", line.Image)
	assert.Equal(t, "Electronics", line.Category)
	assert.True(t, line.TotalPrice.Equal(decimal.RequireFromString("5998")))
}

func TestNormalizeCoalescesBareFields(t *testing.T) {
	price := decimal.RequireFromString("1299")
	raw := RawCartLine{
		ID:       2,
		Item:     6,
		Name:     "Premium Yoga Mat",
		Price:    &price,
		Image:    "https://example.com/mat.jpg",
		Category: CategoryRef{Name: "Sports"},
		Quantity: 3,
	}

	line := raw.Normalize()
	assert.Equal(t, "Premium Yoga Mat", line.Name)
	assert.Equal(t, "https://example.com/mat.jpg", line.Image)
	assert.Equal(t, "Sports", line.Category)
	assert.True(t, line.Price.Equal(price))
}

func TestNormalizePrefixedFieldsWin(t *testing.T) {
	prefixed := decimal.RequireFromString("100")
	bare := decimal.RequireFromString("999")
	raw := RawCartLine{
		ItemName:  "canonical",
		Name:      "legacy",
		ItemPrice: &prefixed,
		Price:     &bare,
		Quantity:  1,
	}

	line := raw.Normalize()
	assert.Equal(t, "canonical", line.Name)
	assert.True(t, line.Price.Equal(prefixed))
}

func TestNormalizeKeepsSuppliedTotal(t *testing.T) {
	price := decimal.RequireFromString("10")
	total := decimal.RequireFromString("42")
	raw := RawCartLine{Price: &price, Quantity: 2, TotalPrice: &total}

	// The backend's total wins over the computed one.
	line := raw.Normalize()
	assert.True(t, line.TotalPrice.Equal(total))
}

func TestNormalizeMissingPriceDefaultsToZero(t *testing.T) {
	line := RawCartLine{Quantity: 4}.Normalize()
	assert.True(t, line.Price.IsZero())
	assert.True(t, line.TotalPrice.IsZero())
	assert.Equal(t, 4, line.Quantity)
}

func TestNormalizeLines(t *testing.T) {
	price := decimal.RequireFromString("5")
	lines := NormalizeLines([]RawCartLine{
		{ID: 1, ItemPrice: &price},
		{ID: 2, ItemPrice: &price, Quantity: 2},
	})

	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.True(t, lines[1].TotalPrice.Equal(decimal.RequireFromString("10")))
}

func TestCategoryRefUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want CategoryRef
	}{
		{"plain string", `"Electronics"`, CategoryRef{Name: "Electronics"}},
		{"nested object", `{"id": 2, "name": "Fashion"}`, CategoryRef{ID: 2, Name: "Fashion"}},
		{"numeric id", `7`, CategoryRef{ID: 7}},
		{"null", `null`, CategoryRef{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got CategoryRef
			require.NoError(t, json.Unmarshal([]byte(tc.in), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestProductCategoryKey(t *testing.T) {
	p := Product{Category: CategoryRef{ID: 1, Name: "Electronics"}}
	assert.Equal(t, "Electronics", p.CategoryKey())

	// category_name takes precedence when both are populated.
	p.CategoryName = "Gadgets"
	assert.Equal(t, "Gadgets", p.CategoryKey())
}
