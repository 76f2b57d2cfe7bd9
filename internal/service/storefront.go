package service

import (
	"context"
	"log"
	"net/url"
	"strings"
	"sync"

	"eshop-storefront/internal/backend"
	"eshop-storefront/internal/catalog"
	"eshop-storefront/internal/model"
)

// Storefront is the shared application state container: the current user,
// cart, wishlist and reference data, plus every mutation entry point the
// view layer uses. Consistency is write-then-read-back: every mutation calls
// the backend and then unconditionally re-fetches the affected collection,
// so local state never diverges from what the backend confirmed. There are
// no optimistic updates to roll back.
type Storefront interface {
	// Initialize bootstraps the session: resumes a persisted token if the
	// backend still accepts it (downgrading silently to anonymous if not)
	// and loads products and categories.
	Initialize(ctx context.Context) error

	State() State
	ClearError()

	Login(ctx context.Context, username, password string) (bool, error)
	Signup(ctx context.Context, name, email, password string) (bool, error)
	Logout()

	AddToCart(ctx context.Context, itemID int64, quantity int) (bool, error)
	RemoveFromCart(ctx context.Context, itemID int64) (bool, error)
	// UpdateQuantity with a non-positive quantity removes the line instead
	// of sending the value to the backend.
	UpdateQuantity(ctx context.Context, itemID int64, quantity int) (bool, error)
	ClearCart(ctx context.Context) (bool, error)

	AddToWishlist(ctx context.Context, itemID int64) (bool, error)
	RemoveFromWishlist(ctx context.Context, itemID int64) (bool, error)

	LoadProducts(ctx context.Context) error
	LoadCategories(ctx context.Context) error
	SearchProducts(ctx context.Context, query string, filters url.Values) ([]model.Product, error)
	// FilteredProducts is the derived product view: a pure function of the
	// loaded product list and the given filter.
	FilteredProducts(f catalog.Filter) []model.Product

	Orders(ctx context.Context) ([]model.Order, error)
	Order(ctx context.Context, id int64) (model.Order, error)
	PayOrder(ctx context.Context, orderID int64, payment model.Payment) (bool, error)
	UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (bool, error)
}

// State is a point-in-time snapshot handed to the view layer. Slices are
// copies; mutating them does not touch the container.
type State struct {
	User       *model.User
	Cart       []model.CartLine
	Wishlist   []model.Product
	Products   []model.Product
	Categories []model.Category
	Loading    bool
	Err        string
}

type storefrontImpl struct {
	backend backend.Backend
	tokens  backend.TokenStore

	// opMu serializes mutations end to end, network call plus re-fetch.
	// Two overlapping writes to the same resource would otherwise race on
	// whose read-back lands last; full serialization is the documented
	// answer to that.
	opMu sync.Mutex

	// stateMu guards the fields below; reads never wait on the network.
	stateMu    sync.RWMutex
	user       *model.User
	cart       []model.CartLine
	wishlist   []model.Product
	products   []model.Product
	categories []model.Category
	loading    bool
	err        string
}

func NewStorefront(b backend.Backend, tokens backend.TokenStore) Storefront {
	return &storefrontImpl{
		backend: b,
		tokens:  tokens,
	}
}

func (s *storefrontImpl) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	st := State{
		Cart:       append([]model.CartLine(nil), s.cart...),
		Wishlist:   append([]model.Product(nil), s.wishlist...),
		Products:   append([]model.Product(nil), s.products...),
		Categories: append([]model.Category(nil), s.categories...),
		Loading:    s.loading,
		Err:        s.err,
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

func (s *storefrontImpl) setLoading(v bool) {
	s.stateMu.Lock()
	s.loading = v
	s.stateMu.Unlock()
}

func (s *storefrontImpl) setErr(msg string) {
	s.stateMu.Lock()
	s.err = msg
	s.stateMu.Unlock()
}

func (s *storefrontImpl) ClearError() {
	s.setErr("")
}

func (s *storefrontImpl) currentUser() *model.User {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.user
}

func (s *storefrontImpl) Initialize(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	pair, err := s.tokens.Tokens()
	if err != nil {
		log.Println("read persisted tokens:", err)
	}
	if pair.Access != "" {
		user, err := s.backend.Profile(ctx)
		if backend.IsUnauthorized(err) && pair.Refresh != "" {
			// Access token went stale; one refresh attempt before giving up.
			if _, rerr := s.backend.Refresh(ctx, pair.Refresh); rerr == nil {
				user, err = s.backend.Profile(ctx)
			}
		}
		if err != nil {
			// Stale or rejected session: drop it and continue anonymous.
			// Deliberately not surfaced through the error slot.
			s.backend.Logout()
		} else {
			s.stateMu.Lock()
			s.user = &user
			s.stateMu.Unlock()
			s.loadCart(ctx)
			s.loadWishlist(ctx)
		}
	}

	if err := s.LoadProducts(ctx); err != nil {
		return err
	}
	return s.LoadCategories(ctx)
}

func (s *storefrontImpl) LoadProducts(ctx context.Context) error {
	products, err := s.backend.Products(ctx, nil)
	if err != nil {
		s.setErr("Failed to load products: " + err.Error())
		return err
	}

	s.stateMu.Lock()
	s.products = products
	s.err = ""
	s.stateMu.Unlock()
	return nil
}

func (s *storefrontImpl) LoadCategories(ctx context.Context) error {
	categories, err := s.backend.Categories(ctx)
	if err != nil {
		s.setErr("Failed to load categories: " + err.Error())
		return err
	}

	s.stateMu.Lock()
	s.categories = categories
	s.err = ""
	s.stateMu.Unlock()
	return nil
}

// loadCart re-reads the cart and replaces local state with the backend's
// answer. Failures are logged, not surfaced: a stale local cart is
// preferable to failing the mutation that already succeeded.
func (s *storefrontImpl) loadCart(ctx context.Context) {
	cart, err := s.backend.Cart(ctx)
	if err != nil {
		log.Println("refresh cart:", err)
		return
	}

	lines := model.NormalizeLines(cart.Items)
	s.stateMu.Lock()
	s.cart = lines
	s.stateMu.Unlock()
}

func (s *storefrontImpl) loadWishlist(ctx context.Context) {
	wishlist, err := s.backend.Wishlist(ctx)
	if err != nil {
		log.Println("refresh wishlist:", err)
		return
	}

	s.stateMu.Lock()
	s.wishlist = wishlist.Items
	s.stateMu.Unlock()
}

// mutate runs one guarded mutation: login check, backend call, re-fetch of
// the affected collection. failMsg lands in the shared error slot on
// backend failure; the typed error goes back to the caller either way.
func (s *storefrontImpl) mutate(ctx context.Context, action, failMsg string, op func(context.Context) error, refetch func(context.Context)) (bool, error) {
	if s.currentUser() == nil {
		err := loginRequired(action)
		s.setErr(err.Error())
		return false, err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)
	s.setErr("")

	if err := op(ctx); err != nil {
		s.setErr(failMsg)
		return false, err
	}

	refetch(ctx)
	return true, nil
}

func (s *storefrontImpl) AddToCart(ctx context.Context, itemID int64, quantity int) (bool, error) {
	return s.mutate(ctx, "add items to cart", "Failed to add item to cart",
		func(ctx context.Context) error { return s.backend.AddToCart(ctx, itemID, quantity) },
		s.loadCart)
}

func (s *storefrontImpl) RemoveFromCart(ctx context.Context, itemID int64) (bool, error) {
	return s.mutate(ctx, "update your cart", "Failed to remove item from cart",
		func(ctx context.Context) error { return s.backend.RemoveFromCart(ctx, itemID) },
		s.loadCart)
}

func (s *storefrontImpl) UpdateQuantity(ctx context.Context, itemID int64, quantity int) (bool, error) {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, itemID)
	}
	return s.mutate(ctx, "update your cart", "Failed to update item quantity",
		func(ctx context.Context) error { return s.backend.UpdateCartItem(ctx, itemID, quantity) },
		s.loadCart)
}

func (s *storefrontImpl) ClearCart(ctx context.Context) (bool, error) {
	return s.mutate(ctx, "update your cart", "Failed to clear cart",
		func(ctx context.Context) error { return s.backend.ClearCart(ctx) },
		s.loadCart)
}

func (s *storefrontImpl) AddToWishlist(ctx context.Context, itemID int64) (bool, error) {
	return s.mutate(ctx, "add items to wishlist", "Failed to add item to wishlist",
		func(ctx context.Context) error { return s.backend.AddToWishlist(ctx, itemID) },
		s.loadWishlist)
}

func (s *storefrontImpl) RemoveFromWishlist(ctx context.Context, itemID int64) (bool, error) {
	return s.mutate(ctx, "update your wishlist", "Failed to remove item from wishlist",
		func(ctx context.Context) error { return s.backend.RemoveFromWishlist(ctx, itemID) },
		s.loadWishlist)
}

func (s *storefrontImpl) Login(ctx context.Context, username, password string) (bool, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)
	s.setErr("")

	if _, err := s.backend.Login(ctx, username, password); err != nil {
		s.setErr(loginFailureMessage(err))
		return false, err
	}

	user, err := s.backend.Profile(ctx)
	if err != nil {
		s.setErr(loginFailureMessage(err))
		return false, err
	}

	s.stateMu.Lock()
	s.user = &user
	s.stateMu.Unlock()

	s.loadCart(ctx)
	s.loadWishlist(ctx)
	return true, nil
}

func (s *storefrontImpl) Signup(ctx context.Context, name, email, password string) (bool, error) {
	s.opMu.Lock()
	s.setLoading(true)
	s.setErr("")

	first, last, _ := strings.Cut(name, " ")
	reg := model.Registration{
		Username:        email,
		Email:           email,
		Password:        password,
		PasswordConfirm: password,
		FirstName:       first,
		LastName:        last,
	}

	if _, err := s.backend.Register(ctx, reg); err != nil {
		s.setErr(signupFailureMessage(err))
		s.setLoading(false)
		s.opMu.Unlock()
		return false, err
	}

	s.setLoading(false)
	s.opMu.Unlock()

	// Auto-login with the credentials that just registered.
	return s.Login(ctx, email, password)
}

// Logout tears the session down: token (memory and persisted), user, cart
// and wishlist. Safe to call when already logged out.
func (s *storefrontImpl) Logout() {
	s.backend.Logout()

	s.stateMu.Lock()
	s.user = nil
	s.cart = nil
	s.wishlist = nil
	s.stateMu.Unlock()
}

func (s *storefrontImpl) SearchProducts(ctx context.Context, query string, filters url.Values) ([]model.Product, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	params := url.Values{}
	for k, vs := range filters {
		params[k] = vs
	}
	if query != "" {
		params.Set("search", query)
	}

	products, err := s.backend.Products(ctx, params)
	if err != nil {
		s.setErr("Search failed")
		return nil, err
	}

	s.stateMu.Lock()
	s.products = products
	s.stateMu.Unlock()
	return products, nil
}

func (s *storefrontImpl) FilteredProducts(f catalog.Filter) []model.Product {
	s.stateMu.RLock()
	products := append([]model.Product(nil), s.products...)
	s.stateMu.RUnlock()

	return catalog.Apply(products, f)
}

func (s *storefrontImpl) Orders(ctx context.Context) ([]model.Order, error) {
	if s.currentUser() == nil {
		err := loginRequired("view your orders")
		s.setErr(err.Error())
		return nil, err
	}

	s.setLoading(true)
	defer s.setLoading(false)
	s.setErr("")

	orders, err := s.backend.Orders(ctx)
	if err != nil {
		s.setErr("Failed to load orders")
		return nil, err
	}
	return orders, nil
}

func (s *storefrontImpl) Order(ctx context.Context, id int64) (model.Order, error) {
	if s.currentUser() == nil {
		err := loginRequired("view your orders")
		s.setErr(err.Error())
		return model.Order{}, err
	}

	s.setLoading(true)
	defer s.setLoading(false)
	s.setErr("")

	order, err := s.backend.Order(ctx, id)
	if err != nil {
		s.setErr("Failed to load order")
		return model.Order{}, err
	}
	return order, nil
}

func (s *storefrontImpl) PayOrder(ctx context.Context, orderID int64, payment model.Payment) (bool, error) {
	if s.currentUser() == nil {
		err := loginRequired("pay for your order")
		s.setErr(err.Error())
		return false, err
	}

	// Card validation happens before any network call and stays out of the
	// shared error slot; the caller surfaces it inline.
	if err := validatePayment(&payment); err != nil {
		return false, err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)
	s.setErr("")

	if err := s.backend.SubmitPayment(ctx, orderID, payment); err != nil {
		s.setErr("Payment failed")
		return false, err
	}
	return true, nil
}

func (s *storefrontImpl) UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (bool, error) {
	if s.currentUser() == nil {
		err := loginRequired("update your profile")
		s.setErr(err.Error())
		return false, err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)
	s.setErr("")

	user, err := s.backend.UpdateProfile(ctx, upd)
	if err != nil {
		s.setErr("Failed to update profile")
		return false, err
	}

	s.stateMu.Lock()
	s.user = &user
	s.stateMu.Unlock()
	return true, nil
}

func loginFailureMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Login failed"
}

func signupFailureMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Registration failed"
}
