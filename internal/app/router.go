package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/handler"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler    *handler.TripHandler
	WalletHandler  *handler.WalletHandler
	PaymentHandler *handler.PaymentHandler
	PlaceHandler   *handler.PlaceHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.Idempotency(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		v1.POST("/fare-estimate", deps.TripHandler.EstimateFare)

		// Trip routes.
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.CreateTrip)
			trips.GET("", deps.TripHandler.ListTrips)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.POST("/:id/cancel", deps.TripHandler.CancelTrip)
			trips.POST("/:id/start", deps.TripHandler.StartTrip)
			trips.POST("/:id/complete", deps.TripHandler.CompleteTrip)
		}

		// Wallet routes.
		wallet := v1.Group("/wallet")
		{
			wallet.GET("/balance", deps.WalletHandler.GetBalance)
			wallet.GET("/transactions", deps.WalletHandler.ListTransactions)
			wallet.GET("/summary", deps.WalletHandler.Summary)
			wallet.POST("/debit", deps.WalletHandler.Debit)
			wallet.POST("/topup", deps.WalletHandler.TopUp)
		}

		// Payment method routes.
		methods := v1.Group("/payment-methods")
		{
			methods.GET("", deps.PaymentHandler.ListMethods)
			methods.POST("", deps.PaymentHandler.AddMethod)
		}

		// Mobile money charge routes.
		payments := v1.Group("/payments")
		{
			payments.POST("/mobile-money", deps.PaymentHandler.ChargeMobileMoney)
			payments.POST("/mobile-money/confirm", deps.PaymentHandler.ConfirmMobileMoney)
		}

		// Place catalog routes.
		places := v1.Group("/places")
		{
			places.GET("/search", deps.PlaceHandler.Search)
			places.GET("/nearby", deps.PlaceHandler.Nearby)
			places.GET("/current-location", deps.PlaceHandler.CurrentLocation)
		}
	}

	return router
}
