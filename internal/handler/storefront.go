package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"eshop-storefront/internal/backend"
	"eshop-storefront/internal/catalog"
	"eshop-storefront/internal/dto"
	"eshop-storefront/internal/model"
	"eshop-storefront/internal/service"
)

type StorefrontHandler struct {
	storefront service.Storefront
}

func NewStorefrontHandler(storefront service.Storefront) *StorefrontHandler {
	return &StorefrontHandler{
		storefront: storefront,
	}
}

// httpError maps the service's error taxonomy onto response statuses:
// pre-flight failures are 400/401 locally, backend failures keep the
// backend's status, and an unreachable backend is a 502.
func httpError(err error) error {
	var (
		loginErr      *service.LoginRequiredError
		validationErr *service.ValidationError
		apiErr        *backend.APIError
		netErr        *backend.NetworkError
	)
	switch {
	case errors.As(err, &loginErr):
		return echo.NewHTTPError(http.StatusUnauthorized, loginErr.Error())
	case errors.As(err, &validationErr):
		return echo.NewHTTPError(http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &apiErr):
		return echo.NewHTTPError(apiErr.StatusCode, apiErr.Message)
	case errors.As(err, &netErr):
		return echo.NewHTTPError(http.StatusBadGateway, netErr.Error())
	default:
		return err
	}
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := dto.Validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return echo.NewHTTPError(http.StatusBadRequest, verrs.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	return nil
}

func itemIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func (h *StorefrontHandler) Session(c echo.Context) error {
	st := h.storefront.State()

	resp := dto.SessionResponse{
		User:       st.User,
		Cart:       st.Cart,
		Wishlist:   st.Wishlist,
		Categories: st.Categories,
		Loading:    st.Loading,
		Error:      st.Err,
	}
	for _, line := range st.Cart {
		resp.CartTotal = resp.CartTotal.Add(line.TotalPrice)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *StorefrontHandler) ClearError(c echo.Context) error {
	h.storefront.ClearError()
	return c.NoContent(http.StatusNoContent)
}

func (h *StorefrontHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.storefront.Login(ctx, req.Username, req.Password); err != nil {
		return httpError(err)
	}

	st := h.storefront.State()
	return c.JSON(http.StatusOK, st.User)
}

func (h *StorefrontHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.storefront.Signup(ctx, req.Name, req.Email, req.Password); err != nil {
		return httpError(err)
	}

	st := h.storefront.State()
	return c.JSON(http.StatusCreated, st.User)
}

func (h *StorefrontHandler) Logout(c echo.Context) error {
	h.storefront.Logout()
	return c.NoContent(http.StatusNoContent)
}

func (h *StorefrontHandler) Profile(c echo.Context) error {
	st := h.storefront.State()
	if st.User == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	return c.JSON(http.StatusOK, st.User)
}

func (h *StorefrontHandler) UpdateProfile(c echo.Context) error {
	var req dto.ProfileUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	_, err := h.storefront.UpdateProfile(ctx, model.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Address:   req.Address,
		Phone:     req.Phone,
	})
	if err != nil {
		return httpError(err)
	}

	st := h.storefront.State()
	return c.JSON(http.StatusOK, st.User)
}

// ListProducts serves the derived product view: the loaded catalog run
// through the search/category/price/sort filter from the query string.
func (h *StorefrontHandler) ListProducts(c echo.Context) error {
	filter := catalog.FromQuery(c.QueryParams())
	products := h.storefront.FilteredProducts(filter)

	return c.JSON(http.StatusOK, dto.ProductListResponse{
		Results: products,
		Count:   len(products),
	})
}

// SearchProducts forwards the query to the backend instead of filtering
// locally, and replaces the loaded product list with the answer.
func (h *StorefrontHandler) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.storefront.SearchProducts(ctx, c.QueryParam("q"), nil)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ProductListResponse{
		Results: products,
		Count:   len(products),
	})
}

func (h *StorefrontHandler) Categories(c echo.Context) error {
	st := h.storefront.State()
	return c.JSON(http.StatusOK, st.Categories)
}

func (h *StorefrontHandler) AddToCart(c echo.Context) error {
	var req dto.CartAddRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx := c.Request().Context()
	if _, err := h.storefront.AddToCart(ctx, req.ItemID, req.Quantity); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.MutationResponse{OK: true})
}

func (h *StorefrontHandler) UpdateCartItem(c echo.Context) error {
	itemID, err := itemIDParam(c, "itemID")
	if err != nil {
		return err
	}
	var req dto.QuantityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.storefront.UpdateQuantity(ctx, itemID, req.Quantity); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.MutationResponse{OK: true})
}

func (h *StorefrontHandler) RemoveFromCart(c echo.Context) error {
	itemID, err := itemIDParam(c, "itemID")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.storefront.RemoveFromCart(ctx, itemID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.MutationResponse{OK: true})
}

func (h *StorefrontHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := h.storefront.ClearCart(ctx); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.MutationResponse{OK: true})
}

func (h *StorefrontHandler) AddToWishlist(c echo.Context) error {
	var req dto.WishlistAddRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.storefront.AddToWishlist(ctx, req.ItemID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.MutationResponse{OK: true})
}

func (h *StorefrontHandler) RemoveFromWishlist(c echo.Context) error {
	itemID, err := itemIDParam(c, "itemID")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.storefront.RemoveFromWishlist(ctx, itemID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.MutationResponse{OK: true})
}

func (h *StorefrontHandler) Orders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.storefront.Orders(ctx)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *StorefrontHandler) Order(c echo.Context) error {
	id, err := itemIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	order, err := h.storefront.Order(ctx, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *StorefrontHandler) PayOrder(c echo.Context) error {
	id, err := itemIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.PaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	_, err = h.storefront.PayOrder(ctx, id, model.Payment{
		Method:       req.PaymentMethod,
		CardLastFour: req.CardLastFour,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.MutationResponse{OK: true})
}
