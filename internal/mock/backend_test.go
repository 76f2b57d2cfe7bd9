package mock

import (
	"context"
	"net/http"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eshop-storefront/internal/backend"
	"eshop-storefront/internal/config"
	"eshop-storefront/internal/model"
)

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func newTestStore(t *testing.T) (*Store, *backend.MemoryTokenStore) {
	t.Helper()

	tokens := backend.NewMemoryTokenStore()
	s, err := NewStore(&config.Mock{
		DatabasePath: filepath.Join(t.TempDir(), "mock.db"),
		SigningKey:   "test-signing-key",
	}, tokens)
	require.NoError(t, err)
	return s, tokens
}

func login(t *testing.T, s *Store) {
	t.Helper()
	_, err := s.Login(context.Background(), DemoUsername, DemoPassword)
	require.NoError(t, err)
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	s, tokens := newTestStore(t)

	_, err := s.Login(context.Background(), DemoUsername, "not-the-password")
	require.Error(t, err)

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	// No token was stored.
	pair, err := tokens.Tokens()
	require.NoError(t, err)
	assert.Empty(t, pair.Access)

	// And the session stays anonymous.
	_, err = s.Profile(context.Background())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestLoginIssuesWorkingSession(t *testing.T) {
	s, tokens := newTestStore(t)

	pair, err := s.Login(context.Background(), DemoUsername, DemoPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	saved, err := tokens.Tokens()
	require.NoError(t, err)
	assert.Equal(t, pair, saved)

	user, err := s.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DemoUsername, user.Username)
	assert.Equal(t, "John", user.FirstName)
}

func TestRefreshMintsNewAccessToken(t *testing.T) {
	s, _ := newTestStore(t)
	pair, err := s.Login(context.Background(), DemoUsername, DemoPassword)
	require.NoError(t, err)

	access, err := s.Refresh(context.Background(), pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	// An access token is not accepted as a refresh token.
	_, err = s.Refresh(context.Background(), pair.Access)
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestRegisterThenLogin(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	user, err := s.Register(ctx, model.Registration{
		Username:  "jane@example.com",
		Email:     "jane@example.com",
		Password:  "secret123",
		FirstName: "Jane",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Username)

	_, err = s.Login(ctx, "jane@example.com", "secret123")
	require.NoError(t, err)
}

func TestRegisterRejectsPasswordMismatch(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Register(context.Background(), model.Registration{
		Username:        "x@example.com",
		Password:        "one",
		PasswordConfirm: "two",
	})
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestCartRequiresAuth(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Cart(context.Background())
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestAddToCartBumpsExistingLine(t *testing.T) {
	s, _ := newTestStore(t)
	login(t, s)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, 1, 1))
	require.NoError(t, s.AddToCart(ctx, 1, 2))

	cart, err := s.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "one line per item")
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// Snapshot fields are denormalized onto the line.
	line := cart.Items[0].Normalize()
	assert.Equal(t, "Wireless Bluetooth Headphones", line.Name)
	assert.Equal(t, "Electronics", line.Category)
	assert.True(t, line.TotalPrice.Equal(line.Price.Mul(decimalFromInt(3))))
	assert.Equal(t, 3, cart.TotalItems)
}

func TestUpdateCartItemZeroRemovesLine(t *testing.T) {
	s, _ := newTestStore(t)
	login(t, s)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, 2, 1))
	require.NoError(t, s.UpdateCartItem(ctx, 2, 0))

	cart, err := s.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "zero quantity is a removal, never a stored zero")
}

func TestRemoveFromCartUnknownItemIs404(t *testing.T) {
	s, _ := newTestStore(t)
	login(t, s)

	err := s.RemoveFromCart(context.Background(), 999)
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestClearCart(t *testing.T) {
	s, _ := newTestStore(t)
	login(t, s)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, 1, 1))
	require.NoError(t, s.AddToCart(ctx, 2, 1))
	require.NoError(t, s.ClearCart(ctx))

	cart, err := s.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestWishlistIgnoresDuplicates(t *testing.T) {
	s, _ := newTestStore(t)
	login(t, s)
	ctx := context.Background()

	require.NoError(t, s.AddToWishlist(ctx, 6))
	require.NoError(t, s.AddToWishlist(ctx, 6))

	wishlist, err := s.Wishlist(ctx)
	require.NoError(t, err)
	require.Len(t, wishlist.Items, 1)
	assert.Equal(t, "Premium Yoga Mat", wishlist.Items[0].Name)

	require.NoError(t, s.RemoveFromWishlist(ctx, 6))
	wishlist, err = s.Wishlist(ctx)
	require.NoError(t, err)
	assert.Empty(t, wishlist.Items)
}

func TestProductsApplyQueryFilters(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	q := url.Values{}
	q.Set("search", "yoga")
	products, err := s.Products(ctx, q)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Premium Yoga Mat", products[0].Name)

	q = url.Values{}
	q.Set("min_price", "1000")
	q.Set("max_price", "3000")
	products, err = s.Products(ctx, q)
	require.NoError(t, err)
	for _, p := range products {
		assert.True(t, p.Price.GreaterThanOrEqual(decimalFromInt(1000)))
		assert.True(t, p.Price.LessThanOrEqual(decimalFromInt(3000)))
	}
}

func TestFeaturedProductsSubset(t *testing.T) {
	s, _ := newTestStore(t)

	featured, err := s.FeaturedProducts(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, featured)
	for _, p := range featured {
		assert.True(t, p.IsFeatured)
	}
}

func TestOrderLifecycle(t *testing.T) {
	s, _ := newTestStore(t)
	login(t, s)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, 3, 2))

	order, err := s.PlaceOrder(ctx, "221B Baker Street")
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.Equal(t, model.PaymentPending, order.PaymentStatus)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Running Sports Shoes", order.Items[0].Name)
	assert.True(t, order.Total.Equal(order.Items[0].Price.Mul(decimalFromInt(2))))

	// Placing the order emptied the cart.
	cart, err := s.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Pay it.
	require.NoError(t, s.SubmitPayment(ctx, order.ID, model.Payment{Method: "card", CardLastFour: "4242"}))

	paid, err := s.Order(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, paid.PaymentStatus)
	assert.Equal(t, model.OrderProcessing, paid.Status)

	// Paying twice is rejected.
	err = s.SubmitPayment(ctx, order.ID, model.Payment{Method: "card", CardLastFour: "4242"})
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestPlaceOrderEmptyCartRejected(t *testing.T) {
	s, _ := newTestStore(t)
	login(t, s)

	_, err := s.PlaceOrder(context.Background(), "nowhere")
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestOrdersAreScopedToUser(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	login(t, s)

	require.NoError(t, s.AddToCart(ctx, 5, 1))
	order, err := s.PlaceOrder(ctx, "somewhere")
	require.NoError(t, err)

	// A different user sees neither the list entry nor the order itself.
	_, err = s.Register(ctx, model.Registration{Username: "other@example.com", Password: "pw123456"})
	require.NoError(t, err)
	_, err = s.Login(ctx, "other@example.com", "pw123456")
	require.NoError(t, err)

	orders, err := s.Orders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = s.Order(ctx, order.ID)
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestUpdateProfilePersists(t *testing.T) {
	s, _ := newTestStore(t)
	login(t, s)
	ctx := context.Background()

	user, err := s.UpdateProfile(ctx, model.ProfileUpdate{Address: "42 Main St", Phone: "+91 98765 43210"})
	require.NoError(t, err)
	assert.Equal(t, "42 Main St", user.Address)

	again, err := s.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "+91 98765 43210", again.Phone)
}

func TestCartSurvivesRestart(t *testing.T) {
	tokens := backend.NewMemoryTokenStore()
	path := filepath.Join(t.TempDir(), "mock.db")
	ctx := context.Background()

	s, err := NewStore(&config.Mock{DatabasePath: path, SigningKey: "k"}, tokens)
	require.NoError(t, err)
	login(t, s)
	require.NoError(t, s.AddToCart(ctx, 8, 1))

	// Same database, new process: the persisted token resumes the session
	// and the cart is still there.
	reopened, err := NewStore(&config.Mock{DatabasePath: path, SigningKey: "k"}, tokens)
	require.NoError(t, err)

	cart, err := reopened.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Designer Backpack", cart.Items[0].Normalize().Name)
}
