package mock

import (
	"time"

	"github.com/shopspring/decimal"
)

// Persistence records for the embedded store. This is the Go rendition of
// the no-backend variant's browser storage: cart and wishlist survive a
// restart, one row per (user, item).

type userRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:128;uniqueIndex;not null"`
	Email     string `gorm:"size:128"`
	Password  string `gorm:"size:128;not null"`
	FirstName string `gorm:"size:64"`
	LastName  string `gorm:"size:64"`
	Address   string `gorm:"size:256"`
	Phone     string `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type cartLineRecord struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    uint  `gorm:"uniqueIndex:idx_cart_user_item;not null"`
	ItemID    int64 `gorm:"uniqueIndex:idx_cart_user_item;not null"`
	Quantity  int   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type wishlistRecord struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    uint  `gorm:"uniqueIndex:idx_wish_user_item;not null"`
	ItemID    int64 `gorm:"uniqueIndex:idx_wish_user_item;not null"`
	CreatedAt time.Time
}

type orderRecord struct {
	ID              uint            `gorm:"primaryKey"`
	UserID          uint            `gorm:"index;not null"`
	OrderNumber     string          `gorm:"size:64;uniqueIndex;not null"`
	Status          string          `gorm:"size:32;not null"` // pending, processing, shipped, delivered, cancelled
	PaymentStatus   string          `gorm:"size:32;not null"` // pending, completed
	ShippingAddress string          `gorm:"size:256"`
	Total           decimal.Decimal `gorm:"type:numeric;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type orderLineRecord struct {
	ID       uint            `gorm:"primaryKey"`
	OrderID  uint            `gorm:"index;not null"`
	ItemID   int64           `gorm:"not null"`
	Name     string          `gorm:"size:128;not null"`
	Price    decimal.Decimal `gorm:"type:numeric;not null"`
	Quantity int             `gorm:"not null"`
}
