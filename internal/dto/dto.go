package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"eshop-storefront/internal/model"
)

// Validate checks the struct tags on inbound requests. Validation failures
// never reach the backend or the shared error slot.
var Validate = validator.New(validator.WithRequiredStructEnabled())

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type CartAddRequest struct {
	ItemID   int64 `json:"item_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"omitempty,gte=0"`
}

type QuantityRequest struct {
	// Zero or negative means remove.
	Quantity int `json:"quantity"`
}

type WishlistAddRequest struct {
	ItemID int64 `json:"item_id" validate:"required,gt=0"`
}

type PaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
	CardLastFour  string `json:"card_last_four" validate:"required,len=4,numeric"`
}

type ProfileUpdateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"omitempty,email"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

type MutationResponse struct {
	OK bool `json:"ok"`
}

// SessionResponse is the state snapshot the view layer polls.
type SessionResponse struct {
	User       *model.User      `json:"user"`
	Cart       []model.CartLine `json:"cart"`
	CartTotal  decimal.Decimal  `json:"cart_total"`
	Wishlist   []model.Product  `json:"wishlist"`
	Categories []model.Category `json:"categories"`
	Loading    bool             `json:"loading"`
	Error      string           `json:"error,omitempty"`
}

type ProductListResponse struct {
	Results []model.Product `json:"results"`
	Count   int             `json:"count"`
}
