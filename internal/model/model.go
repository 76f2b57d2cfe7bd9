package model

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CategoryRef absorbs the backend's two shapes for a product's category:
// a plain name string, a numeric id, or a nested {id, name} object.
type CategoryRef struct {
	ID   int64
	Name string
}

func (c *CategoryRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*c = CategoryRef{}
		return nil
	}

	switch b[0] {
	case '"':
		return json.Unmarshal(b, &c.Name)
	case '{':
		var obj struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		c.ID = obj.ID
		c.Name = obj.Name
		return nil
	default:
		return json.Unmarshal(b, &c.ID)
	}
}

func (c CategoryRef) MarshalJSON() ([]byte, error) {
	if c.Name != "" {
		return json.Marshal(c.Name)
	}
	return json.Marshal(c.ID)
}

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      CategoryRef     `json:"category"`
	CategoryName  string          `json:"category_name,omitempty"`
	Image         string          `json:"image"`
	Rating        float64         `json:"rating,omitempty"`
	StockQuantity int             `json:"stock_quantity,omitempty"`
	IsFeatured    bool            `json:"is_featured,omitempty"`
	IsActive      bool            `json:"is_active,omitempty"`
}

// CategoryKey is the comparison key used by category filtering, coalesced
// from whichever field the backend populated.
func (p Product) CategoryKey() string {
	if p.CategoryName != "" {
		return p.CategoryName
	}
	return p.Category.Name
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	ItemsCount  int    `json:"items_count,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// TokenPair is the session credential pair: a short-lived access token sent
// as the bearer on every authenticated call, and a long-lived refresh token
// used to obtain new access tokens.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

type ProfileUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type Wishlist struct {
	ID    int64     `json:"id"`
	Items []Product `json:"items"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// OrderLine is a frozen snapshot of a product at purchase time.
type OrderLine struct {
	ID       int64           `json:"id"`
	ItemID   int64           `json:"item"`
	Name     string          `json:"item_name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	Items           []OrderLine     `json:"items"`
	ShippingAddress string          `json:"shipping_address"`
	Total           decimal.Decimal `json:"total_amount"`
	CreatedAt       string          `json:"created_at,omitempty"`
}

type Payment struct {
	Method       string `json:"payment_method"`
	CardLastFour string `json:"card_last_four"`
}
