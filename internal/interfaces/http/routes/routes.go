// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal-gateway/internal/backend"
	"github.com/your-org/pos-terminal-gateway/internal/config"
	"github.com/your-org/pos-terminal-gateway/internal/interfaces/http/handlers"
	"github.com/your-org/pos-terminal-gateway/internal/interfaces/http/middleware"
	"github.com/your-org/pos-terminal-gateway/internal/session"
)

// SetupRoutes wires the terminal API surface
func SetupRoutes(rg *gin.RouterGroup, cfg *config.Config, client *backend.Client, manager *session.Manager, logger *logrus.Logger) {
	SetupSessionRoutes(rg, manager, logger)
	SetupCatalogRoutes(rg, client, manager, logger)
	SetupCartRoutes(rg, client, manager, logger)
	SetupOrderRoutes(rg, cfg, client, manager, logger)
}

// SetupSessionRoutes sets up login, logout and operator state routes
func SetupSessionRoutes(rg *gin.RouterGroup, manager *session.Manager, logger *logrus.Logger) {
	sessionHandler := handlers.NewSessionHandler(manager, logger)

	sessionGroup := rg.Group("/session")
	{
		// Login is the only open endpoint
		sessionGroup.POST("/login", sessionHandler.Login)

		protected := sessionGroup.Group("")
		protected.Use(middleware.RequireSession(manager))
		{
			protected.POST("/logout", sessionHandler.Logout)
			protected.GET("/me", sessionHandler.Me)
			protected.GET("/theme", sessionHandler.GetTheme)
			protected.PUT("/theme", sessionHandler.SetTheme)
		}
	}
}

// SetupCatalogRoutes sets up product catalog and customer list routes
func SetupCatalogRoutes(rg *gin.RouterGroup, client *backend.Client, manager *session.Manager, logger *logrus.Logger) {
	catalogHandler := handlers.NewCatalogHandler(client, logger)

	catalog := rg.Group("/catalog")
	catalog.Use(middleware.RequireSession(manager))
	{
		catalog.GET("/products", catalogHandler.GetProducts)
	}

	customers := rg.Group("/customers")
	customers.Use(middleware.RequireSession(manager))
	{
		customers.GET("", catalogHandler.GetCustomers)
	}
}

// SetupCartRoutes sets up the working-cart routes
func SetupCartRoutes(rg *gin.RouterGroup, client *backend.Client, manager *session.Manager, logger *logrus.Logger) {
	cartHandler := handlers.NewCartHandler(client, manager, logger)

	carts := rg.Group("/carts")
	carts.Use(middleware.RequireSession(manager))
	carts.Use(middleware.RequirePermission(manager, session.PermSalesCreate))
	{
		carts.POST("", cartHandler.CreateCart)
		carts.GET("/:id", cartHandler.GetCart)
		carts.PUT("/:id/customer", cartHandler.SelectCustomer)
		carts.POST("/:id/items", cartHandler.AddItem)
		carts.PATCH("/:id/items/:productId", cartHandler.UpdateItem)
		carts.DELETE("/:id/items/:productId", cartHandler.RemoveItem)
		carts.POST("/:id/confirm", cartHandler.Confirm)
		carts.DELETE("/:id", cartHandler.Discard)
	}
}

// SetupOrderRoutes sets up order detail, payment and voiding routes
func SetupOrderRoutes(rg *gin.RouterGroup, cfg *config.Config, client *backend.Client, manager *session.Manager, logger *logrus.Logger) {
	orderHandler := handlers.NewOrderHandler(client, logger)
	paymentHandler := handlers.NewPaymentHandler(client, logger, cfg.Terminal.Currency)

	orders := rg.Group("/orders")
	orders.Use(middleware.RequireSession(manager))
	{
		orders.GET("/:id", middleware.RequirePermission(manager, session.PermSalesView), orderHandler.GetOrder)
		orders.GET("/:id/receipt", middleware.RequirePermission(manager, session.PermSalesView), orderHandler.GetReceipt)
		orders.POST("/:id/void", middleware.RequirePermission(manager, session.PermSalesVoid), orderHandler.VoidOrder)

		// Checkout flow
		checkout := orders.Group("/:id/checkout")
		checkout.Use(middleware.RequirePermission(manager, session.PermPaymentsCreate))
		{
			checkout.POST("", paymentHandler.StartCheckout)
			checkout.GET("", paymentHandler.GetCheckout)
			checkout.POST("/cash", paymentHandler.PayCash)
			checkout.POST("/card", paymentHandler.StartCard)
			checkout.POST("/card/confirm", paymentHandler.ConfirmCard)
			checkout.POST("/qr", paymentHandler.StartQR)
			checkout.POST("/qr/confirm", paymentHandler.ConfirmQR)
			checkout.POST("/cancel", paymentHandler.CancelMethod)
		}
	}
}
