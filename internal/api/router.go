package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vetdesk/posapi/internal/api/handlers"
	"github.com/vetdesk/posapi/internal/api/middleware"
	"github.com/vetdesk/posapi/internal/config"
	"github.com/vetdesk/posapi/internal/pos"
)

// NewRouter creates and configures the Gin router
func NewRouter(
	cfg *config.Config,
	store pos.SessionStore,
	backend handlers.VariantSearcher,
	checkout handlers.CheckoutProcessor,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	idemStore := middleware.NewIdempotencyStore()

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "VetDesk POS API",
			"endpoints": []string{
				"GET /health",
				"POST /v1/sessions",
				"GET /v1/sessions/:id",
				"DELETE /v1/sessions/:id",
				"GET /v1/products/search",
				"POST /v1/sessions/:id/cart/items",
				"POST /v1/sessions/:id/cart/scan",
				"PATCH /v1/sessions/:id/cart/items/:variantId",
				"DELETE /v1/sessions/:id/cart/items/:variantId",
				"POST /v1/sessions/:id/cart/reset",
				"GET /v1/sessions/:id/checkout/preview",
				"POST /v1/sessions/:id/checkout",
				"GET /v1/sessions/:id/receipt",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/products/search", handlers.HandleSearchProducts(cfg, backend, logger))

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.HandleOpenSession(cfg, store, logger))
			sessions.GET("/:id", handlers.HandleGetSession(store, logger))
			sessions.DELETE("/:id", handlers.HandleCloseSession(store, logger))

			sessions.POST("/:id/cart/items", handlers.HandleAddCartItem(store, logger))
			sessions.POST("/:id/cart/scan", handlers.HandleScanCartItem(cfg, store, backend, logger))
			sessions.PATCH("/:id/cart/items/:variantId", handlers.HandleUpdateCartItem(store, logger))
			sessions.DELETE("/:id/cart/items/:variantId", handlers.HandleRemoveCartItem(store, logger))
			sessions.POST("/:id/cart/reset", handlers.HandleResetCart(store, logger))

			sessions.GET("/:id/checkout/preview", handlers.HandleCheckoutPreview(checkout, logger))
			sessions.POST("/:id/checkout",
				middleware.IdempotencyMiddleware(idemStore, logger),
				handlers.HandleCheckout(checkout, idemStore, logger))

			sessions.GET("/:id/receipt", handlers.HandleReceipt(store, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
