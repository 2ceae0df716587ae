package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cardtavern/storefront/auth"
	"github.com/cardtavern/storefront/catalog"
	"github.com/cardtavern/storefront/common/logger"
	"github.com/cardtavern/storefront/config"
	"github.com/cardtavern/storefront/controllers"
	"github.com/cardtavern/storefront/database"
	"github.com/cardtavern/storefront/functions"
	"github.com/cardtavern/storefront/middleware"
	"github.com/cardtavern/storefront/payment"
	awspkg "github.com/cardtavern/storefront/pkg/aws"
	"github.com/cardtavern/storefront/repository"
	"github.com/cardtavern/storefront/routes"
	"github.com/cardtavern/storefront/services"
	"github.com/cardtavern/storefront/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl := logger.New(cfg.Environment)
	defer zl.Sync()

	db, err := database.Connect(cfg.PostgresDSN())
	if err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		// the cache is an optimization; run without it
		zl.Warn("Redis unavailable, card cache disabled", zap.Error(err))
		redisClient = nil
	}

	// Order completion events; optional in local development
	var snsPublisher awspkg.SNSPublisher
	if cfg.SNSTopicArn != "" {
		awsCfg, err := awspkg.LoadAWSConfig(context.Background())
		if err != nil {
			zl.Fatal("Failed to load AWS config", zap.Error(err))
		}
		snsPublisher = awspkg.NewSNSClient(awsCfg)
	}

	// Repositories
	cartRepo := repository.NewGormCartRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	cardRepo := repository.NewGormCardRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	// Remote gateway clients
	fnClient := functions.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.RemoteTimeout)
	images := storage.NewPublicURLBuilder(cfg.GatewayBaseURL, cfg.ImageBucket)

	// Catalogs
	var cache *catalog.Cache
	if redisClient != nil {
		cache = catalog.NewCache(redisClient, zl)
	}
	cardCatalog := catalog.NewCardCatalog(cardRepo, cache, images)
	apparelCatalog := catalog.NewApparelCatalog(fnClient, zl)
	registry := catalog.NewRegistry(cardCatalog, apparelCatalog)

	// Payments
	stripeProvider := payment.NewStripeProvider(cfg.StripeSecretKey, cfg.SuccessURL, cfg.CancelURL, cfg.RemoteTimeout)

	// Services
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := services.NewAuthService(userRepo, tokens, zl)
	cartService := services.NewCartService(cartRepo, registry, zl)
	checkoutService := services.NewCheckoutService(cartService, orderRepo, stripeProvider, zl)
	finalizerService := services.NewFinalizerService(orderRepo, cartRepo, stripeProvider, snsPublisher, cfg.SNSTopicArn, zl)
	orderService := services.NewOrderService(orderRepo, zl)
	searchService := services.NewSearchService(cardRepo, 300*time.Millisecond, zl)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger(zl))
	router.Use(middleware.RateLimit())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(router, tokens, routes.Controllers{
		Auth:     controllers.NewAuthController(authService),
		Cart:     controllers.NewCartController(cartService),
		Checkout: controllers.NewCheckoutController(checkoutService),
		Orders:   controllers.NewOrderController(finalizerService, orderService),
		Catalog:  controllers.NewCatalogController(cardRepo, apparelCatalog, images, searchService),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zl.Info("Storefront listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zl.Info("Shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Fatal("Shutdown error", zap.Error(err))
	}
	zl.Info("Server shutdown complete")
}
