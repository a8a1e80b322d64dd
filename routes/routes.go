package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront-backend/config"
	"storefront-backend/handlers"
	customMiddleware "storefront-backend/middleware"
)

// SetupRoutes registers the full HTTP surface. Static segments win
// over the catch-all /:id product route.
func SetupRoutes(e *echo.Echo, cfg *config.Config) {
	auth := customMiddleware.Auth(cfg)
	admin := customMiddleware.AdminOnly()
	optionalAuth := customMiddleware.OptionalAuth(cfg)

	// Public
	e.POST("/signup", handlers.SignUp)
	e.POST("/login", handlers.Login)
	e.GET("/", handlers.ListProducts)
	e.GET("/:id", handlers.GetProduct)

	// Admin: accounts
	e.GET("/admin/users", handlers.ListUsers, auth, admin)
	e.GET("/admin/users/:userId", handlers.GetUser, auth, admin)
	e.GET("/admin/users-stats", handlers.UserStats, auth, admin)

	// Admin: catalog
	e.POST("/add", handlers.AddProduct, auth, admin)
	e.POST("/assign", handlers.AssignAdmin, auth, admin)
	e.PUT("/update/:id", handlers.UpdateProduct, auth, admin)
	e.GET("/admin/reviews", handlers.ListAllReviews, auth, admin)

	// Admin: orders
	e.GET("/orders/payment", handlers.ListPayments, auth, admin)
	e.GET("/delivery-tracking", handlers.ListDeliveryTracking, auth, admin)
	e.POST("/delivery-tracking", handlers.UpdateDeliveryTracking, auth, admin)

	// Cart: identity from token when present, else from the request
	e.POST("/cart/add", handlers.AddToCart, optionalAuth)
	e.DELETE("/cart/delete/:productId", handlers.RemoveFromCart, optionalAuth)
	e.GET("/cart", handlers.GetCart, optionalAuth)

	// Authenticated user
	e.POST("/orders/place", handlers.PlaceOrder, auth)
	e.GET("/user/orders", handlers.ListUserOrders, auth)
	e.DELETE("/orders/:orderId", handlers.CancelOrder, auth)
	e.PUT("/profile/update", handlers.UpdateProfile, auth)
	e.POST("/:productId/reviews", handlers.PostReview, auth)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
