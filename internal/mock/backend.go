package mock

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"eshop-storefront/internal/backend"
	"eshop-storefront/internal/catalog"
	"eshop-storefront/internal/config"
	"eshop-storefront/internal/model"
)

// Demo credentials accepted out of the box; register creates more users.
const (
	DemoUsername = "user@example.com"
	DemoPassword = "password"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Store is the embedded implementation of backend.Backend: a fixed catalog,
// JWT session tokens, and cart/wishlist/orders persisted to a local sqlite
// database. It exists so the storefront runs without a remote backend, with
// the exact same contract the REST client honors.
type Store struct {
	db      *gorm.DB
	tokens  backend.TokenStore
	signKey []byte
	latency time.Duration

	mu    sync.Mutex
	token string
}

func NewStore(cfg *config.Mock, tokens backend.TokenStore) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open mock database: %w", err)
	}

	if err := db.AutoMigrate(
		&userRecord{},
		&cartLineRecord{},
		&wishlistRecord{},
		&orderRecord{},
		&orderLineRecord{},
	); err != nil {
		return nil, fmt.Errorf("migrate mock database: %w", err)
	}

	s := &Store{
		db:      db,
		tokens:  tokens,
		signKey: []byte(cfg.SigningKey),
		latency: cfg.Latency,
	}

	// Resume the previous session if a token survived the last run.
	if pair, err := tokens.Tokens(); err == nil {
		s.token = pair.Access
	}

	demo := userRecord{
		Username:  DemoUsername,
		Email:     DemoUsername,
		Password:  DemoPassword,
		FirstName: "John",
		LastName:  "Doe",
	}
	if err := db.Where("username = ?", demo.Username).FirstOrCreate(&demo).Error; err != nil {
		return nil, fmt.Errorf("seed demo user: %w", err)
	}

	return s, nil
}

// pause imitates network latency, honoring cancellation.
func (s *Store) pause(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type sessionClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
}

func (s *Store) issueToken(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tokenType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
}

func (s *Store) parseToken(token, wantType string) (uint, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.signKey, nil
	})
	if err != nil {
		return 0, err
	}
	if claims.TokenType != wantType {
		return 0, fmt.Errorf("token is not a %s token", wantType)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse token subject: %w", err)
	}
	return uint(id), nil
}

func (s *Store) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// currentUser resolves the bearer set by Login/Refresh, answering with the
// same 401 the remote store sends when the token is missing or rejected.
func (s *Store) currentUser() (userRecord, error) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == "" {
		return userRecord{}, backend.NewAPIError(http.StatusUnauthorized, "Authentication credentials were not provided.")
	}
	userID, err := s.parseToken(token, "access")
	if err != nil {
		return userRecord{}, backend.NewAPIError(http.StatusUnauthorized, "Given token not valid for any token type")
	}

	var user userRecord
	if err := s.db.First(&user, userID).Error; err != nil {
		return userRecord{}, backend.NewAPIError(http.StatusUnauthorized, "User not found")
	}
	return user, nil
}

func toUser(u userRecord) model.User {
	return model.User{
		ID:        int64(u.ID),
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Address:   u.Address,
		Phone:     u.Phone,
	}
}

func (s *Store) Login(ctx context.Context, username, password string) (model.TokenPair, error) {
	if err := s.pause(ctx); err != nil {
		return model.TokenPair{}, err
	}

	var user userRecord
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && user.Password != password) {
		return model.TokenPair{}, backend.NewAPIError(http.StatusUnauthorized, "No active account found with the given credentials")
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("look up user: %w", err)
	}

	access, err := s.issueToken(user.ID, "access", accessTokenTTL)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.issueToken(user.ID, "refresh", refreshTokenTTL)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	pair := model.TokenPair{Access: access, Refresh: refresh}
	s.setToken(access)
	if err := s.tokens.Save(pair); err != nil {
		return pair, fmt.Errorf("persist session tokens: %w", err)
	}
	return pair, nil
}

func (s *Store) Register(ctx context.Context, reg model.Registration) (model.User, error) {
	if err := s.pause(ctx); err != nil {
		return model.User{}, err
	}

	if reg.PasswordConfirm != "" && reg.Password != reg.PasswordConfirm {
		return model.User{}, backend.NewAPIError(http.StatusBadRequest, "Passwords don't match")
	}

	user := userRecord{
		Username:  reg.Username,
		Email:     reg.Email,
		Password:  reg.Password,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.User{}, backend.NewAPIError(http.StatusBadRequest, "A user with that username already exists.")
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return toUser(user), nil
}

func (s *Store) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if err := s.pause(ctx); err != nil {
		return "", err
	}

	userID, err := s.parseToken(refreshToken, "refresh")
	if err != nil {
		return "", backend.NewAPIError(http.StatusUnauthorized, "Token is invalid or expired")
	}
	access, err := s.issueToken(userID, "access", accessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}

	s.setToken(access)
	if err := s.tokens.Save(model.TokenPair{Access: access, Refresh: refreshToken}); err != nil {
		return access, fmt.Errorf("persist session tokens: %w", err)
	}
	return access, nil
}

func (s *Store) Profile(ctx context.Context) (model.User, error) {
	if err := s.pause(ctx); err != nil {
		return model.User{}, err
	}
	user, err := s.currentUser()
	if err != nil {
		return model.User{}, err
	}
	return toUser(user), nil
}

func (s *Store) UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (model.User, error) {
	if err := s.pause(ctx); err != nil {
		return model.User{}, err
	}
	user, err := s.currentUser()
	if err != nil {
		return model.User{}, err
	}

	if upd.FirstName != "" {
		user.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		user.LastName = upd.LastName
	}
	if upd.Email != "" {
		user.Email = upd.Email
	}
	if upd.Address != "" {
		user.Address = upd.Address
	}
	if upd.Phone != "" {
		user.Phone = upd.Phone
	}
	if err := s.db.Save(&user).Error; err != nil {
		return model.User{}, fmt.Errorf("update user: %w", err)
	}
	return toUser(user), nil
}

func (s *Store) Logout() {
	s.setToken("")
	s.tokens.Clear()
}

func (s *Store) Products(ctx context.Context, query url.Values) ([]model.Product, error) {
	if err := s.pause(ctx); err != nil {
		return nil, err
	}
	// The remote store evaluates the query server-side; the embedded one
	// reuses the listing filter for the same effect.
	return catalog.Apply(fixedCatalog, catalog.FromQuery(query)), nil
}

func (s *Store) Product(ctx context.Context, id int64) (model.Product, error) {
	if err := s.pause(ctx); err != nil {
		return model.Product{}, err
	}
	p, ok := findProduct(id)
	if !ok {
		return model.Product{}, backend.NewAPIError(http.StatusNotFound, "Item not found")
	}
	return p, nil
}

func (s *Store) FeaturedProducts(ctx context.Context) ([]model.Product, error) {
	if err := s.pause(ctx); err != nil {
		return nil, err
	}
	var featured []model.Product
	for _, p := range fixedCatalog {
		if p.IsFeatured {
			featured = append(featured, p)
		}
	}
	return featured, nil
}

func (s *Store) Categories(ctx context.Context) ([]model.Category, error) {
	if err := s.pause(ctx); err != nil {
		return nil, err
	}
	return append([]model.Category(nil), fixedCategories...), nil
}

func (s *Store) Category(ctx context.Context, id int64) (model.Category, error) {
	if err := s.pause(ctx); err != nil {
		return model.Category{}, err
	}
	for _, c := range fixedCategories {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Category{}, backend.NewAPIError(http.StatusNotFound, "Category not found")
}

func (s *Store) Cart(ctx context.Context) (model.Cart, error) {
	if err := s.pause(ctx); err != nil {
		return model.Cart{}, err
	}
	user, err := s.currentUser()
	if err != nil {
		return model.Cart{}, err
	}

	var records []cartLineRecord
	if err := s.db.Where("user_id = ?", user.ID).Order("id").Find(&records).Error; err != nil {
		return model.Cart{}, fmt.Errorf("load cart: %w", err)
	}

	cart := model.Cart{ID: int64(user.ID)}
	for _, rec := range records {
		p, ok := findProduct(rec.ItemID)
		if !ok {
			continue
		}
		linePrice := p.Price
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(rec.Quantity)))
		cart.Items = append(cart.Items, model.RawCartLine{
			ID:           int64(rec.ID),
			Item:         p.ID,
			ItemName:     p.Name,
			ItemPrice:    &linePrice,
			ItemImage:    p.Image,
			CategoryName: p.CategoryKey(),
			Quantity:     rec.Quantity,
			TotalPrice:   &lineTotal,
		})
		cart.TotalPrice = cart.TotalPrice.Add(lineTotal)
		cart.TotalItems += rec.Quantity
	}
	return cart, nil
}

func (s *Store) AddToCart(ctx context.Context, itemID int64, quantity int) error {
	if err := s.pause(ctx); err != nil {
		return err
	}
	user, err := s.currentUser()
	if err != nil {
		return err
	}
	if _, ok := findProduct(itemID); !ok {
		return backend.NewAPIError(http.StatusNotFound, "Item not found")
	}
	if quantity < 1 {
		quantity = 1
	}

	// One line per (user, item): adding an item already in the cart bumps
	// its quantity instead of creating a second line.
	var line cartLineRecord
	err = s.db.Where("user_id = ? AND item_id = ?", user.ID, itemID).First(&line).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		line = cartLineRecord{UserID: user.ID, ItemID: itemID, Quantity: quantity}
		if err := s.db.Create(&line).Error; err != nil {
			return fmt.Errorf("create cart line: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("look up cart line: %w", err)
	default:
		line.Quantity += quantity
		if err := s.db.Save(&line).Error; err != nil {
			return fmt.Errorf("update cart line: %w", err)
		}
		return nil
	}
}

func (s *Store) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	if err := s.pause(ctx); err != nil {
		return err
	}
	user, err := s.currentUser()
	if err != nil {
		return err
	}

	var line cartLineRecord
	err = s.db.Where("user_id = ? AND item_id = ?", user.ID, itemID).First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return backend.NewAPIError(http.StatusNotFound, "Cart item not found")
	}
	if err != nil {
		return fmt.Errorf("look up cart line: %w", err)
	}

	// Matches the remote store: a non-positive quantity removes the line
	// rather than storing a zero.
	if quantity <= 0 {
		return s.db.Delete(&line).Error
	}

	line.Quantity = quantity
	if err := s.db.Save(&line).Error; err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	return nil
}

func (s *Store) RemoveFromCart(ctx context.Context, itemID int64) error {
	if err := s.pause(ctx); err != nil {
		return err
	}
	user, err := s.currentUser()
	if err != nil {
		return err
	}

	res := s.db.Where("user_id = ? AND item_id = ?", user.ID, itemID).Delete(&cartLineRecord{})
	if res.Error != nil {
		return fmt.Errorf("remove cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return backend.NewAPIError(http.StatusNotFound, "Cart item not found")
	}
	return nil
}

func (s *Store) ClearCart(ctx context.Context) error {
	if err := s.pause(ctx); err != nil {
		return err
	}
	user, err := s.currentUser()
	if err != nil {
		return err
	}
	return s.db.Where("user_id = ?", user.ID).Delete(&cartLineRecord{}).Error
}

func (s *Store) Wishlist(ctx context.Context) (model.Wishlist, error) {
	if err := s.pause(ctx); err != nil {
		return model.Wishlist{}, err
	}
	user, err := s.currentUser()
	if err != nil {
		return model.Wishlist{}, err
	}

	var records []wishlistRecord
	if err := s.db.Where("user_id = ?", user.ID).Order("id").Find(&records).Error; err != nil {
		return model.Wishlist{}, fmt.Errorf("load wishlist: %w", err)
	}

	wishlist := model.Wishlist{ID: int64(user.ID), Items: []model.Product{}}
	for _, rec := range records {
		if p, ok := findProduct(rec.ItemID); ok {
			wishlist.Items = append(wishlist.Items, p)
		}
	}
	return wishlist, nil
}

func (s *Store) AddToWishlist(ctx context.Context, itemID int64) error {
	if err := s.pause(ctx); err != nil {
		return err
	}
	user, err := s.currentUser()
	if err != nil {
		return err
	}
	if _, ok := findProduct(itemID); !ok {
		return backend.NewAPIError(http.StatusNotFound, "Item not found")
	}

	// At most one entry per (user, item); re-adding is a no-op.
	entry := wishlistRecord{UserID: user.ID, ItemID: itemID}
	if err := s.db.Where("user_id = ? AND item_id = ?", user.ID, itemID).FirstOrCreate(&entry).Error; err != nil {
		return fmt.Errorf("add wishlist entry: %w", err)
	}
	return nil
}

func (s *Store) RemoveFromWishlist(ctx context.Context, itemID int64) error {
	if err := s.pause(ctx); err != nil {
		return err
	}
	user, err := s.currentUser()
	if err != nil {
		return err
	}

	res := s.db.Where("user_id = ? AND item_id = ?", user.ID, itemID).Delete(&wishlistRecord{})
	if res.Error != nil {
		return fmt.Errorf("remove wishlist entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return backend.NewAPIError(http.StatusNotFound, "Item not found in wishlist")
	}
	return nil
}

func (s *Store) toOrder(rec orderRecord) (model.Order, error) {
	var lines []orderLineRecord
	if err := s.db.Where("order_id = ?", rec.ID).Order("id").Find(&lines).Error; err != nil {
		return model.Order{}, fmt.Errorf("load order lines: %w", err)
	}

	order := model.Order{
		ID:              int64(rec.ID),
		OrderNumber:     rec.OrderNumber,
		Status:          model.OrderStatus(rec.Status),
		PaymentStatus:   model.PaymentStatus(rec.PaymentStatus),
		ShippingAddress: rec.ShippingAddress,
		Total:           rec.Total,
		CreatedAt:       rec.CreatedAt.Format(time.RFC3339),
	}
	for _, l := range lines {
		order.Items = append(order.Items, model.OrderLine{
			ID:       int64(l.ID),
			ItemID:   l.ItemID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
		})
	}
	return order, nil
}

func (s *Store) Orders(ctx context.Context) ([]model.Order, error) {
	if err := s.pause(ctx); err != nil {
		return nil, err
	}
	user, err := s.currentUser()
	if err != nil {
		return nil, err
	}

	var records []orderRecord
	if err := s.db.Where("user_id = ?", user.ID).Order("id desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	orders := make([]model.Order, 0, len(records))
	for _, rec := range records {
		order, err := s.toOrder(rec)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (s *Store) Order(ctx context.Context, id int64) (model.Order, error) {
	if err := s.pause(ctx); err != nil {
		return model.Order{}, err
	}
	user, err := s.currentUser()
	if err != nil {
		return model.Order{}, err
	}

	var rec orderRecord
	err = s.db.Where("id = ? AND user_id = ?", id, user.ID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, backend.NewAPIError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("load order: %w", err)
	}
	return s.toOrder(rec)
}

func (s *Store) SubmitPayment(ctx context.Context, orderID int64, payment model.Payment) error {
	if err := s.pause(ctx); err != nil {
		return err
	}
	user, err := s.currentUser()
	if err != nil {
		return err
	}

	var rec orderRecord
	err = s.db.Where("id = ? AND user_id = ?", orderID, user.ID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return backend.NewAPIError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if rec.PaymentStatus == string(model.PaymentCompleted) {
		return backend.NewAPIError(http.StatusBadRequest, "Payment already completed")
	}

	rec.PaymentStatus = string(model.PaymentCompleted)
	rec.Status = string(model.OrderProcessing)
	if err := s.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// PlaceOrder turns the current cart into an order with frozen line
// snapshots and empties the cart. Not part of backend.Backend; the gateway
// only reads orders and pays them, but the embedded store has to mint them
// from somewhere.
func (s *Store) PlaceOrder(ctx context.Context, shippingAddress string) (model.Order, error) {
	if err := s.pause(ctx); err != nil {
		return model.Order{}, err
	}
	user, err := s.currentUser()
	if err != nil {
		return model.Order{}, err
	}

	var lines []cartLineRecord
	if err := s.db.Where("user_id = ?", user.ID).Order("id").Find(&lines).Error; err != nil {
		return model.Order{}, fmt.Errorf("load cart: %w", err)
	}
	if len(lines) == 0 {
		return model.Order{}, backend.NewAPIError(http.StatusBadRequest, "Cart is empty")
	}

	rec := orderRecord{
		UserID:          user.ID,
		OrderNumber:     "ORD-" + uuid.NewString()[:8],
		Status:          string(model.OrderPending),
		PaymentStatus:   string(model.PaymentPending),
		ShippingAddress: shippingAddress,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, l := range lines {
			p, ok := findProduct(l.ItemID)
			if !ok {
				continue
			}
			rec.Total = rec.Total.Add(p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, l := range lines {
			p, ok := findProduct(l.ItemID)
			if !ok {
				continue
			}
			line := orderLineRecord{
				OrderID:  rec.ID,
				ItemID:   p.ID,
				Name:     p.Name,
				Price:    p.Price,
				Quantity: l.Quantity,
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("create order line: %w", err)
			}
		}
		return tx.Where("user_id = ?", user.ID).Delete(&cartLineRecord{}).Error
	})
	if err != nil {
		return model.Order{}, err
	}

	return s.toOrder(rec)
}
