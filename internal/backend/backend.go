package backend

import (
	"context"
	"net/url"

	"eshop-storefront/internal/model"
)

// Backend is the single point of contact with the commerce store. Two
// implementations exist: the REST client in internal/client and the embedded
// mock in internal/mock. Every call is a single request with no retry and no
// caching; consistency is the caller's problem (write, then read back).
type Backend interface {
	// Login exchanges credentials for a token pair and stores the access
	// token for subsequent calls as a side effect.
	Login(ctx context.Context, username, password string) (model.TokenPair, error)
	Register(ctx context.Context, reg model.Registration) (model.User, error)
	// Refresh exchanges the refresh token for a new access token and stores
	// it as a side effect.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Profile(ctx context.Context) (model.User, error)
	UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (model.User, error)
	// Logout clears the stored token. It never fails and never touches the
	// network.
	Logout()

	Products(ctx context.Context, query url.Values) ([]model.Product, error)
	Product(ctx context.Context, id int64) (model.Product, error)
	FeaturedProducts(ctx context.Context) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Category(ctx context.Context, id int64) (model.Category, error)

	Cart(ctx context.Context) (model.Cart, error)
	AddToCart(ctx context.Context, itemID int64, quantity int) error
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) error
	RemoveFromCart(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context) error

	Wishlist(ctx context.Context) (model.Wishlist, error)
	AddToWishlist(ctx context.Context, itemID int64) error
	RemoveFromWishlist(ctx context.Context, itemID int64) error

	Orders(ctx context.Context) ([]model.Order, error)
	Order(ctx context.Context, id int64) (model.Order, error)
	SubmitPayment(ctx context.Context, orderID int64, payment model.Payment) error
}

// TokenStore persists the session token pair outside process memory so a
// restart resumes the same session. Implementations must tolerate Clear on
// an already-empty store.
type TokenStore interface {
	Tokens() (model.TokenPair, error)
	Save(pair model.TokenPair) error
	Clear() error
}
