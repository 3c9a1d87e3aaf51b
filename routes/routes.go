// routes/routes.go
package routes

import (
	"go-marketplace/controllers"
	"go-marketplace/metrics"
	"go-marketplace/middleware"

	"github.com/gorilla/mux"
)

// Controllers bundles every handler group the router wires up.
type Controllers struct {
	Users     *controllers.UserController
	Products  *controllers.ProductController
	Carts     *controllers.CartController
	Checkout  *controllers.CheckoutController
	Orders    *controllers.OrderController
	Coupons   *controllers.CouponController
	Reviews   *controllers.ReviewController
	Wishlists *controllers.WishlistController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, m *metrics.AppMetrics) {
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.Metrics(m))

	// Auth routes
	api.HandleFunc("/auth/register", c.Users.Register).Methods("POST")
	api.HandleFunc("/auth/login", c.Users.Login).Methods("POST")

	// Product routes
	api.HandleFunc("/products", c.Products.GetProducts).Methods("GET")
	api.HandleFunc("/products/categories", c.Products.GetCategories).Methods("GET")
	api.HandleFunc("/products/brands", c.Products.GetBrands).Methods("GET")
	api.HandleFunc("/products/{id}", c.Products.GetProductByID).Methods("GET")
	api.HandleFunc("/products/{id}/recommendations", c.Products.GetRecommendations).Methods("GET")
	api.HandleFunc("/products/{product_id}/reviews", c.Reviews.GetProductReviews).Methods("GET")

	// Cart routes
	api.HandleFunc("/cart", c.Carts.CreateCart).Methods("POST")
	api.HandleFunc("/cart/{cart_id}", c.Carts.GetCart).Methods("GET")
	api.HandleFunc("/cart/{cart_id}/items", c.Carts.AddItem).Methods("POST")
	api.HandleFunc("/cart/{cart_id}/items/{product_id}", c.Carts.RemoveItem).Methods("DELETE")

	// Checkout and payment routes
	api.HandleFunc("/checkout/session", c.Checkout.CreateSession).Methods("POST")
	api.HandleFunc("/checkout/status/{session_id}", c.Checkout.GetStatus).Methods("GET")
	api.HandleFunc("/webhook/payment", c.Checkout.Webhook).Methods("POST")

	// Coupon preview
	api.HandleFunc("/coupons/validate", c.Coupons.ValidateCoupon).Methods("POST")

	// Order routes
	api.HandleFunc("/orders", c.Orders.GetOrders).Methods("GET")
	api.HandleFunc("/orders/{id}", c.Orders.GetOrder).Methods("GET")

	// Protected routes
	protected := api.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", c.Users.GetProfile).Methods("GET")
	protected.HandleFunc("/verification/request", c.Users.RequestVerification).Methods("POST")
	protected.HandleFunc("/verification/confirm", c.Users.ConfirmVerification).Methods("POST")
	protected.HandleFunc("/reviews", c.Reviews.CreateReview).Methods("POST")
	protected.HandleFunc("/wishlist", c.Wishlists.GetWishlist).Methods("GET")
	protected.HandleFunc("/wishlist/{product_id}", c.Wishlists.AddToWishlist).Methods("POST")
	protected.HandleFunc("/wishlist/{product_id}", c.Wishlists.RemoveFromWishlist).Methods("DELETE")

	// Seller routes; ownership checks happen in the handlers
	protected.HandleFunc("/products", c.Products.CreateProduct).Methods("POST")
	protected.HandleFunc("/products/{id}", c.Products.UpdateProduct).Methods("PUT")
	protected.HandleFunc("/products/{id}", c.Products.DeleteProduct).Methods("DELETE")

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/coupons", c.Coupons.CreateCoupon).Methods("POST")
	admin.HandleFunc("/coupons", c.Coupons.ListCoupons).Methods("GET")
	admin.HandleFunc("/coupons/{code}", c.Coupons.DeactivateCoupon).Methods("DELETE")
	admin.HandleFunc("/orders/{id}/status", c.Orders.UpdateOrderStatus).Methods("PUT")
}
