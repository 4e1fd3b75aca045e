package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/web-ordering-backend/config"
	"github.com/ikkim/web-ordering-backend/internal/app/controller"
	"github.com/ikkim/web-ordering-backend/internal/app/repository"
	"github.com/ikkim/web-ordering-backend/internal/app/service"
	"github.com/ikkim/web-ordering-backend/internal/db"
	"github.com/ikkim/web-ordering-backend/internal/middleware"
	"github.com/ikkim/web-ordering-backend/internal/router"
	"github.com/ikkim/web-ordering-backend/internal/scheduler"
	ws "github.com/ikkim/web-ordering-backend/internal/websocket"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"github.com/ikkim/web-ordering-backend/pkg/metrics"
	"github.com/ikkim/web-ordering-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	format := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		format = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      format,
		EnableColor: true,
	})

	logger.Info("Starting web ordering server", map[string]interface{}{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"log_level":    logLevel,
		"cart_backend": string(cfg.Cart.Backend),
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations (seeds the demo store and menu on an empty database)
	if err := db.Migrate(&cfg.Store); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis: 장바구니 저장소가 redis일 때만 필수
	var (
		redisStore *redis.Store
		revoker    service.TokenRevoker
		revoked    middleware.RevocationChecker
	)
	if err := redis.Init(&cfg.Redis); err != nil {
		if cfg.Cart.Backend == config.CartBackendRedis {
			logger.Fatal("Redis is required for CART_BACKEND=redis", err)
		}
		logger.Warn("Redis unavailable, session revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		redisStore = redis.NewStore(redis.GetClient())
		revoker = redisStore
		revoked = redisStore
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	var cartRepo repository.CartRepository
	if cfg.Cart.Backend == config.CartBackendRedis {
		cartRepo = repository.NewRedisCartRepository(redisStore, cfg.Cart.TTL)
	} else {
		cartRepo = repository.NewCartRepository(db.GetDB())
	}

	// Metrics and realtime events
	orderingMetrics := metrics.NewOrderingMetrics(prometheus.DefaultRegisterer)
	hub := ws.NewHub()

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, storeRepo, cfg.Store.StoreID, cfg.Store.BrandID)
	cartService := service.NewCartService(cartRepo, hub, orderingMetrics)
	customizationService := service.NewCustomizationService(
		catalogService,
		cartService,
		hub,
		orderingMetrics,
		cfg.Customization.SessionTTL,
	)
	checkoutService := service.NewCheckoutService(
		catalogService,
		cartService,
		service.NewOrderGateway(orderRepo),
		hub,
		orderingMetrics,
	)
	orderService := service.NewOrderService(orderRepo)
	sessionService := service.NewSessionService(&cfg.Session, cartService, revoker)

	hub.SetHandler(func(sessionID string, msg ws.ClientMessage) error {
		_, err := customizationService.Apply(sessionID, msg.CustomizationID, msg.Action)
		return err
	})
	go hub.Run()

	// Expire abandoned customizations
	sweeper := scheduler.NewSweepScheduler(
		customizationService,
		cfg.Customization.SweepSpec,
		cfg.Customization.SessionTTL,
		orderingMetrics,
	)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start customization sweeper", err)
	}
	defer sweeper.Stop()

	// Initialize controllers
	sessionController := controller.NewSessionController(sessionService)
	catalogController := controller.NewCatalogController(catalogService)
	customizationController := controller.NewCustomizationController(customizationService)
	cartController := controller.NewCartController(cartService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	orderController := controller.NewOrderController(orderService)
	eventsController := controller.NewEventsController(hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	sessionMiddleware := middleware.NewSessionMiddleware(cfg.Session.Secret, revoked)

	// Setup router
	r := router.NewRouter(
		sessionController,
		catalogController,
		customizationController,
		cartController,
		checkoutController,
		orderController,
		eventsController,
		sessionMiddleware,
		prometheus.DefaultGatherer,
		cfg,
	)
	engine := r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
