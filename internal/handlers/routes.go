package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/metrics"
	"github.com/malabro/eshop-backend/internal/middleware"
	"github.com/malabro/eshop-backend/internal/services/assistant"
	"github.com/malabro/eshop-backend/internal/services/preparation"
	"github.com/malabro/eshop-backend/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies carries the infrastructure built in main. DB may be nil, in
// which case only the health endpoints are served.
type Dependencies struct {
	DB        *mongo.Database
	Notifier  Notifier
	Images    utils.ImageStore
	Assistant assistant.Assistant

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeCurrency      string

	LoginRatePerMinute int
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	logrus.Info("Setting up routes...")

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "MALABRO API is running",
			"status":  "ok",
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "malabro-backend",
		})
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	if deps.DB == nil {
		logrus.Warn("Database not connected - running with limited functionality")
		router.Any("/api/*path", func(c *gin.Context) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Database connection not available",
				"message": "The server is running but could not connect to the database. Please check server logs.",
			})
		})
		return
	}

	userRepo := repository.NewUserRepository(deps.DB)
	productRepo := repository.NewProductRepository(deps.DB)
	categoryRepo := repository.NewCategoryRepository(deps.DB)
	unitRepo := repository.NewUnitRepository(deps.DB)
	orderRepo := repository.NewOrderRepository(deps.DB)
	ledgerRepo := repository.NewLedgerRepository(deps.DB)

	images := deps.Images
	if images == nil {
		images = utils.DisabledImageStore{}
	}
	bot := deps.Assistant
	if bot == nil {
		bot = assistant.Disabled{}
	}

	authHandler := NewAuthHandler(userRepo, deps.Notifier)
	productHandler := NewProductHandler(productRepo, categoryRepo, unitRepo, ledgerRepo)
	categoryHandler := NewCategoryHandler(categoryRepo)
	unitHandler := NewUnitHandler(unitRepo)
	uploadHandler := NewUploadHandler(images)
	orderHandler := NewOrderHandler(orderRepo, productRepo, deps.Notifier)
	adminHandler := NewAdminHandler(orderRepo, userRepo)
	preparationHandler := NewPreparationHandler(preparation.NewService(orderRepo, productRepo))
	inventoryHandler := NewInventoryHandler(productRepo, categoryRepo, ledgerRepo)
	notificationHandler := NewNotificationHandler(deps.Notifier)
	paymentHandler := NewPaymentHandler(orderRepo, deps.StripeSecretKey, deps.StripeWebhookSecret, deps.StripeCurrency)
	assistantHandler := NewAssistantHandler(bot, orderRepo, userRepo, productRepo, categoryRepo)

	loginLimiter := middleware.NewIPRateLimiter(deps.LoginRatePerMinute, time.Minute)

	api := router.Group("/api/v1")

	// Auth Routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", loginLimiter.Middleware(), authHandler.Login)
		authGroup.GET("/me", middleware.AuthMiddleware(), authHandler.Me)
	}

	// Catalog Routes
	products := api.Group("/products")
	{
		products.GET("", middleware.OptionalAuthMiddleware(), productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)

		adminProducts := products.Group("", middleware.AuthMiddleware(), middleware.ActiveUserMiddleware(userRepo), middleware.AdminMiddleware())
		adminProducts.POST("", productHandler.CreateProduct)
		adminProducts.PUT("/:id", productHandler.UpdateProduct)
		adminProducts.DELETE("/:id", productHandler.DeleteProduct)
		adminProducts.PATCH("/:id/toggle-status", productHandler.ToggleProductStatus)
		adminProducts.GET("/:id/ledger", productHandler.GetProductLedger)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", categoryHandler.ListCategories)
		categories.GET("/:id", categoryHandler.GetCategory)

		adminCategories := categories.Group("", middleware.AuthMiddleware(), middleware.ActiveUserMiddleware(userRepo), middleware.AdminMiddleware())
		adminCategories.POST("", categoryHandler.CreateCategory)
		adminCategories.PUT("/:id", categoryHandler.UpdateCategory)
		adminCategories.DELETE("/:id", categoryHandler.DeleteCategory)
	}

	units := api.Group("/units-of-measure")
	{
		units.GET("", unitHandler.ListUnits)
		units.GET("/:id", unitHandler.GetUnit)

		adminUnits := units.Group("", middleware.AuthMiddleware(), middleware.ActiveUserMiddleware(userRepo), middleware.AdminMiddleware())
		adminUnits.POST("", unitHandler.CreateUnit)
		adminUnits.PUT("/:id", unitHandler.UpdateUnit)
		adminUnits.DELETE("/:id", unitHandler.DeleteUnit)
	}

	// Order Routes (guest checkout allowed)
	orders := api.Group("/orders")
	{
		orders.POST("", middleware.OptionalAuthMiddleware(), orderHandler.CreateOrder)
		orders.GET("/me", middleware.AuthMiddleware(), orderHandler.ListMyOrders)
		orders.GET("/reference/:reference", orderHandler.GetOrderByReference)
		orders.GET("/:id", orderHandler.GetOrder)
	}

	// Admin Routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.ActiveUserMiddleware(userRepo), middleware.AdminMiddleware())
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/orders", adminHandler.ListOrders)
		admin.GET("/orders/pending", adminHandler.PendingOrders)
		admin.GET("/orders/preparation-summary", preparationHandler.Summary)
		admin.GET("/orders/preparation-summary/export", preparationHandler.Export)
		admin.GET("/orders/:id", adminHandler.GetOrder)
		admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
		admin.GET("/users", adminHandler.ListUsers)
		admin.PUT("/users/:id/active", adminHandler.SetUserActive)
		admin.POST("/products/upload-image", uploadHandler.UploadImage)
		admin.POST("/assistant/chat", assistantHandler.Chat)
	}

	reports := api.Group("/inventory-reports")
	reports.Use(middleware.AuthMiddleware(), middleware.ActiveUserMiddleware(userRepo), middleware.AdminMiddleware())
	{
		reports.GET("/summary", inventoryHandler.Summary)
		reports.GET("/low-stock", inventoryHandler.LowStock)
		reports.GET("/out-of-stock", inventoryHandler.OutOfStock)
		reports.GET("/stock-movements", inventoryHandler.Movements)
		reports.GET("/stock-levels", inventoryHandler.StockLevels)
		reports.GET("/top-products", inventoryHandler.TopProducts)
	}

	// Notification Routes
	notifications := api.Group("/notifications")
	{
		notifications.POST("/payment-started", notificationHandler.PaymentStarted)
		notifications.POST("/test-email", middleware.AuthMiddleware(), middleware.ActiveUserMiddleware(userRepo), middleware.AdminMiddleware(), notificationHandler.TestEmail)
	}

	// Payment Routes
	payments := api.Group("/payments")
	{
		payments.POST("/create-intent", middleware.OptionalAuthMiddleware(), paymentHandler.CreatePaymentIntent)
		payments.POST("/webhook", paymentHandler.HandleWebhook)
	}
}
