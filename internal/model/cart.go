package model

import "github.com/shopspring/decimal"

// RawCartLine is a cart line exactly as the backend sends it. Depending on
// the serializer version, the denormalized snapshot fields arrive either
// prefixed (item_name, item_price, item_image, category_name) or bare
// (name, price, image, category), and total_price may be missing entirely.
type RawCartLine struct {
	ID           int64            `json:"id"`
	Item         int64            `json:"item"`
	ItemName     string           `json:"item_name"`
	Name         string           `json:"name"`
	ItemPrice    *decimal.Decimal `json:"item_price"`
	Price        *decimal.Decimal `json:"price"`
	ItemImage    string           `json:"item_image"`
	Image        string           `json:"image"`
	CategoryName string           `json:"category_name"`
	Category     CategoryRef      `json:"category"`
	Quantity     int              `json:"quantity"`
	TotalPrice   *decimal.Decimal `json:"total_price"`
}

// CartLine is the normalized line the view layer works with. One canonical
// field per concept, quantity always >= 1, total always populated.
type CartLine struct {
	ID         int64           `json:"id"`
	ItemID     int64           `json:"item"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image"`
	Category   string          `json:"category"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Cart is the backend's cart envelope.
type Cart struct {
	ID         int64           `json:"id"`
	Items      []RawCartLine   `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	TotalItems int             `json:"total_items"`
}

// Normalize coalesces the two field-naming conventions into CartLine.
// Missing price defaults to 0 and missing quantity to 1, and total_price is
// computed as price x quantity when the backend did not supply it, so a
// partially populated record never reaches the view layer half-empty.
func (l RawCartLine) Normalize() CartLine {
	price := decimal.Zero
	switch {
	case l.ItemPrice != nil:
		price = *l.ItemPrice
	case l.Price != nil:
		price = *l.Price
	}

	quantity := l.Quantity
	if quantity < 1 {
		quantity = 1
	}

	total := price.Mul(decimal.NewFromInt(int64(quantity)))
	if l.TotalPrice != nil {
		total = *l.TotalPrice
	}

	name := l.ItemName
	if name == "" {
		name = l.Name
	}
	image := l.ItemImage
	if image == "" {
		image = l.Image
	}
	category := l.CategoryName
	if category == "" {
		category = l.Category.Name
	}

	return CartLine{
		ID:         l.ID,
		ItemID:     l.Item,
		Name:       name,
		Price:      price,
		Image:      image,
		Category:   category,
		Quantity:   quantity,
		TotalPrice: total,
	}
}

// NormalizeLines maps Normalize over a raw cart payload.
func NormalizeLines(raw []RawCartLine) []CartLine {
	lines := make([]CartLine, len(raw))
	for i, l := range raw {
		lines[i] = l.Normalize()
	}
	return lines
}
