package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/app"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/config"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/handler"
	internalRedis "github.com/sajithmohammed-livelocal/uber-taxi/internal/redis"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/repository/postgres"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, tripService, placeService := wireServer(db, redisClient, nrApp, cfg)
	defer tripService.Close()

	// Seed the place catalog into the geo index.
	if err := placeService.Seed(ctx); err != nil {
		log.Printf("failed to seed place catalog: %v", err)
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server along with
// the services that need an explicit shutdown or startup step.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *service.TripService, *service.PlaceService) {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	placeStore := internalRedis.NewPlaceStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	tripRepo := postgres.NewTripRepository(db)
	walletRepo := postgres.NewWalletRepository(db, cfg.Wallet.WalletID)
	methodRepo := postgres.NewPaymentMethodRepository(db)

	// Initialize services.
	notificationService := service.NewNotificationService()
	fareConfig := service.FareConfig{
		BaseFare:       cfg.Fare.BaseFare,
		PerKmRate:      cfg.Fare.PerKmRate,
		PerMinRate:     cfg.Fare.PerMinuteRate,
		MinFare:        cfg.Fare.MinimumFare,
		CityMultiplier: cfg.Fare.CityMultiplier,
		HourlyRate:     cfg.Fare.HourlyRate,
	}
	if err := fareConfig.Validate(); err != nil {
		log.Fatalf("invalid fare configuration: %v", err)
	}
	fares := service.NewFareCalculator(fareConfig)
	routes := service.NewHaversineRouteProvider()
	receiptService := service.NewReceiptService(routes, fares)
	decider := service.NewRandDecider(cfg.Gateway.ChargeSuccessRate, cfg.Gateway.TopUpSuccessRate, time.Now().UnixNano())
	gateway := service.NewStubGateway(decider)
	drivers := service.NewStaticDriverPool(time.Now().UnixNano(), service.DefaultDrivers()...)
	walletService := service.NewWalletService(cfg.Wallet.WalletID, walletRepo, lockStore, gateway, notificationService)
	tripService := service.NewTripService(service.TripServiceDeps{
		DB:                  db,
		WalletID:            cfg.Wallet.WalletID,
		TripRepo:            tripRepo,
		WalletRepo:          walletRepo,
		Fares:               fares,
		Routes:              routes,
		Drivers:             drivers,
		Gateway:             gateway,
		CacheStore:          cacheStore,
		NotificationService: notificationService,
		ReceiptService:      receiptService,
		MatchDelay:          cfg.Trip.MatchDelay,
	})
	methodService := service.NewPaymentMethodService(methodRepo)
	placeService := service.NewPlaceService(placeStore, service.DefaultPlaces())

	// Initialize handlers.
	tripHandler := handler.NewTripHandler(tripService)
	walletHandler := handler.NewWalletHandler(walletService)
	paymentHandler := handler.NewPaymentHandler(methodService, gateway)
	placeHandler := handler.NewPlaceHandler(placeService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		TripHandler:    tripHandler,
		WalletHandler:  walletHandler,
		PaymentHandler: paymentHandler,
		PlaceHandler:   placeHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return server, tripService, placeService
}
