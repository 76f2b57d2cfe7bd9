package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"eshop-storefront/internal/backend"
	"eshop-storefront/internal/config"
	"eshop-storefront/internal/model"
)

// StoreClient is the REST implementation of backend.Backend. It is a plain
// pass-through: one request per call, no retries, no caching. The only state
// it carries is the bearer token, shared by every call made through the same
// instance.
type StoreClient struct {
	httpClient *http.Client
	baseURL    string
	tokens     backend.TokenStore

	mu    sync.Mutex
	token string
}

func NewStoreClient(cfg *config.StoreAPI, tokens backend.TokenStore) *StoreClient {
	c := &StoreClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: cfg.BaseURL,
		tokens:  tokens,
	}

	// Resume the previous session if a token survived the last run.
	if pair, err := tokens.Tokens(); err == nil {
		c.token = pair.Access
	}

	return c
}

func (c *StoreClient) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *StoreClient) bearer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// errorBody is the failure shape the store uses; which field is populated
// depends on the endpoint.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (c *StoreClient) request(ctx context.Context, method, path string, payload, out any) error {
	var body *bytes.Buffer
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewBuffer(b)
	} else {
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &backend.NetworkError{BaseURL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		json.NewDecoder(resp.Body).Decode(&eb)
		msg := eb.Error
		if msg == "" {
			msg = eb.Detail
		}
		return backend.NewAPIError(resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeList accepts both a bare JSON array and the paginated
// {"results": [...]} envelope the list endpoints may wrap it in.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	}

	var envelope struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode list envelope: %w", err)
	}
	return envelope.Results, nil
}

func (c *StoreClient) Login(ctx context.Context, username, password string) (model.TokenPair, error) {
	var pair model.TokenPair
	err := c.request(ctx, http.MethodPost, "/auth/login/", map[string]string{
		"username": username,
		"password": password,
	}, &pair)
	if err != nil {
		return model.TokenPair{}, err
	}

	c.setToken(pair.Access)
	if err := c.tokens.Save(pair); err != nil {
		return pair, fmt.Errorf("persist session tokens: %w", err)
	}
	return pair, nil
}

func (c *StoreClient) Register(ctx context.Context, reg model.Registration) (model.User, error) {
	var user model.User
	err := c.request(ctx, http.MethodPost, "/auth/register/", reg, &user)
	return user, err
}

func (c *StoreClient) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var resp struct {
		Access string `json:"access"`
	}
	err := c.request(ctx, http.MethodPost, "/auth/refresh/", map[string]string{
		"refresh": refreshToken,
	}, &resp)
	if err != nil {
		return "", err
	}

	c.setToken(resp.Access)
	if err := c.tokens.Save(model.TokenPair{Access: resp.Access, Refresh: refreshToken}); err != nil {
		return resp.Access, fmt.Errorf("persist session tokens: %w", err)
	}
	return resp.Access, nil
}

func (c *StoreClient) Profile(ctx context.Context) (model.User, error) {
	var user model.User
	err := c.request(ctx, http.MethodGet, "/auth/profile/", nil, &user)
	return user, err
}

func (c *StoreClient) UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (model.User, error) {
	var user model.User
	err := c.request(ctx, http.MethodPut, "/auth/profile/", upd, &user)
	return user, err
}

func (c *StoreClient) Logout() {
	c.setToken("")
	c.tokens.Clear()
}

func (c *StoreClient) Products(ctx context.Context, query url.Values) ([]model.Product, error) {
	path := "/items/"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var raw json.RawMessage
	if err := c.request(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[model.Product](raw)
}

func (c *StoreClient) Product(ctx context.Context, id int64) (model.Product, error) {
	var product model.Product
	err := c.request(ctx, http.MethodGet, fmt.Sprintf("/items/%d/", id), nil, &product)
	return product, err
}

func (c *StoreClient) FeaturedProducts(ctx context.Context) ([]model.Product, error) {
	var raw json.RawMessage
	if err := c.request(ctx, http.MethodGet, "/items/featured/", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[model.Product](raw)
}

func (c *StoreClient) Categories(ctx context.Context) ([]model.Category, error) {
	var raw json.RawMessage
	if err := c.request(ctx, http.MethodGet, "/categories/", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[model.Category](raw)
}

func (c *StoreClient) Category(ctx context.Context, id int64) (model.Category, error) {
	var category model.Category
	err := c.request(ctx, http.MethodGet, fmt.Sprintf("/categories/%d/", id), nil, &category)
	return category, err
}

func (c *StoreClient) Cart(ctx context.Context) (model.Cart, error) {
	var cart model.Cart
	err := c.request(ctx, http.MethodGet, "/cart/", nil, &cart)
	return cart, err
}

func (c *StoreClient) AddToCart(ctx context.Context, itemID int64, quantity int) error {
	return c.request(ctx, http.MethodPost, "/cart/add/", map[string]any{
		"item_id":  itemID,
		"quantity": quantity,
	}, nil)
}

func (c *StoreClient) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	return c.request(ctx, http.MethodPut, fmt.Sprintf("/cart/update/%d/", itemID), map[string]int{
		"quantity": quantity,
	}, nil)
}

func (c *StoreClient) RemoveFromCart(ctx context.Context, itemID int64) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/cart/remove/%d/", itemID), nil, nil)
}

func (c *StoreClient) ClearCart(ctx context.Context) error {
	return c.request(ctx, http.MethodDelete, "/cart/clear/", nil, nil)
}

func (c *StoreClient) Wishlist(ctx context.Context) (model.Wishlist, error) {
	var wishlist model.Wishlist
	err := c.request(ctx, http.MethodGet, "/wishlist/", nil, &wishlist)
	return wishlist, err
}

func (c *StoreClient) AddToWishlist(ctx context.Context, itemID int64) error {
	return c.request(ctx, http.MethodPost, "/wishlist/add/", map[string]int64{
		"item_id": itemID,
	}, nil)
}

func (c *StoreClient) RemoveFromWishlist(ctx context.Context, itemID int64) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/wishlist/remove/%d/", itemID), nil, nil)
}

func (c *StoreClient) Orders(ctx context.Context) ([]model.Order, error) {
	var raw json.RawMessage
	if err := c.request(ctx, http.MethodGet, "/orders/", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[model.Order](raw)
}

func (c *StoreClient) Order(ctx context.Context, id int64) (model.Order, error) {
	var order model.Order
	err := c.request(ctx, http.MethodGet, fmt.Sprintf("/orders/%d/", id), nil, &order)
	return order, err
}

func (c *StoreClient) SubmitPayment(ctx context.Context, orderID int64, payment model.Payment) error {
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/payment/", orderID), payment, nil)
}
