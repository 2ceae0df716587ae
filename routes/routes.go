package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardtavern/storefront/auth"
	"github.com/cardtavern/storefront/controllers"
	"github.com/cardtavern/storefront/middleware"
)

// Controllers bundles everything Register wires into the engine.
type Controllers struct {
	Auth     *controllers.AuthController
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Orders   *controllers.OrderController
	Catalog  *controllers.CatalogController
}

// Register sets up all storefront routes.
func Register(r *gin.Engine, tokens *auth.TokenService, c Controllers) {
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	authGroup.POST("/register", c.Auth.Register)
	authGroup.POST("/login", c.Auth.Login)

	// Public browsing; suggest picks up identity when present
	catalogGroup := r.Group("/catalog")
	catalogGroup.Use(middleware.OptionalAuth(tokens))
	catalogGroup.GET("/cards", c.Catalog.ListCards)
	catalogGroup.GET("/cards/suggest", c.Catalog.SuggestCards)
	catalogGroup.GET("/cards/:id", c.Catalog.GetCard)
	catalogGroup.GET("/apparel", c.Catalog.ListApparel)

	// Viewing the cart works without a token; mutating it does not
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.OptionalAuth(tokens))
	cartGroup.GET("", c.Cart.GetCart)
	cartGroup.GET("/contains", c.Cart.CheckItem)

	cartAuthed := r.Group("/cart")
	cartAuthed.Use(middleware.RequireAuth(tokens))
	cartAuthed.POST("/items", c.Cart.AddItem)
	cartAuthed.DELETE("/items/:product_type/:product_id", c.Cart.RemoveItem)

	checkoutGroup := r.Group("/checkout")
	checkoutGroup.Use(middleware.RequireAuth(tokens))
	checkoutGroup.POST("", c.Checkout.Submit)

	ordersGroup := r.Group("/orders")
	ordersGroup.Use(middleware.RequireAuth(tokens))
	ordersGroup.POST("/confirm", c.Orders.Confirm)
	ordersGroup.GET("", c.Orders.GetOrders)
}
