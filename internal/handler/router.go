package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/flicky/toolstore/internal/metrics"
	"github.com/flicky/toolstore/internal/middleware"
)

type RouterConfig struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	JWTSecret string
	AdminRole string

	Health   *HealthHandler
	User     *UserHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Wishlist *WishlistHandler
	Order    *OrderHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(cfg.Logger), cfg.Metrics.Middleware())

	r.GET("/healthz", cfg.Health.Healthz)
	r.GET("/readyz", cfg.Health.Readyz)
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		api.GET("/categories", cfg.Catalog.ListCategories)
		api.GET("/categories/:slug", cfg.Catalog.GetCategory)
		api.GET("/products", cfg.Catalog.ListProducts)
		api.GET("/products/:id", cfg.Catalog.GetProduct)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		authed.GET("/auth/user", cfg.User.GetUser)

		authed.GET("/cart", cfg.Cart.GetCart)
		authed.POST("/cart", cfg.Cart.AddToCart)
		authed.DELETE("/cart", cfg.Cart.ClearCart)
		authed.GET("/cart/count", cfg.Cart.CountCart)
		authed.GET("/cart/total", cfg.Cart.CartTotal)
		authed.PUT("/cart/:productId", cfg.Cart.UpdateCartItem)
		authed.DELETE("/cart/:productId", cfg.Cart.RemoveFromCart)

		authed.GET("/wishlist", cfg.Wishlist.GetWishlist)
		authed.POST("/wishlist", cfg.Wishlist.AddToWishlist)
		authed.GET("/wishlist/:productId", cfg.Wishlist.CheckWishlist)
		authed.DELETE("/wishlist/:productId", cfg.Wishlist.RemoveFromWishlist)

		authed.GET("/orders", cfg.Order.ListOrders)
		authed.POST("/orders", cfg.Order.PlaceOrder)
		authed.GET("/orders/:id", cfg.Order.GetOrder)
		authed.GET("/orders/:id/history", cfg.Order.GetOrderHistory)
		authed.GET("/tracking/:trackingNumber", cfg.Order.TrackOrder)
	}

	admin := authed.Group("")
	admin.Use(middleware.AdminOnly(cfg.AdminRole))
	{
		admin.PUT("/orders/:id/status", cfg.Order.UpdateOrderStatus)
		admin.PUT("/orders/:id/tracking", cfg.Order.SetTrackingNumber)
	}

	return r
}
