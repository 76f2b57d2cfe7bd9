package server

import (
	"eshop-storefront/internal/handler"
	"eshop-storefront/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo              *echo.Echo
	storefrontHandler *handler.StorefrontHandler
}

func NewServer(storefront service.Storefront) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:              e,
		storefrontHandler: handler.NewStorefrontHandler(storefront),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.GET("/session", s.storefrontHandler.Session)
	api.DELETE("/session/error", s.storefrontHandler.ClearError)

	// -------- auth --------
	auth := api.Group("/auth")
	auth.POST("/login", s.storefrontHandler.Login)
	auth.POST("/signup", s.storefrontHandler.Signup)
	auth.POST("/logout", s.storefrontHandler.Logout)
	auth.GET("/profile", s.storefrontHandler.Profile)
	auth.PUT("/profile", s.storefrontHandler.UpdateProfile)

	// -------- catalog --------
	api.GET("/products", s.storefrontHandler.ListProducts)
	api.GET("/products/search", s.storefrontHandler.SearchProducts)
	api.GET("/categories", s.storefrontHandler.Categories)

	// -------- cart --------
	cart := api.Group("/cart")
	cart.POST("/add", s.storefrontHandler.AddToCart)
	cart.PUT("/update/:itemID", s.storefrontHandler.UpdateCartItem)
	cart.DELETE("/remove/:itemID", s.storefrontHandler.RemoveFromCart)
	cart.DELETE("/clear", s.storefrontHandler.ClearCart)

	// -------- wishlist --------
	wishlist := api.Group("/wishlist")
	wishlist.POST("/add", s.storefrontHandler.AddToWishlist)
	wishlist.DELETE("/remove/:itemID", s.storefrontHandler.RemoveFromWishlist)

	// -------- orders / payment --------
	orders := api.Group("/orders")
	orders.GET("", s.storefrontHandler.Orders)
	orders.GET("/:id", s.storefrontHandler.Order)
	orders.POST("/:id/payment", s.storefrontHandler.PayOrder)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
