package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	identityapp "github.com/loyalty/backend/internal/application/identity"
	loyaltyapp "github.com/loyalty/backend/internal/application/loyalty"
	"github.com/loyalty/backend/internal/infrastructure/auth"
	"github.com/loyalty/backend/internal/infrastructure/cache"
	"github.com/loyalty/backend/internal/infrastructure/config"
	"github.com/loyalty/backend/internal/infrastructure/logger"
	"github.com/loyalty/backend/internal/infrastructure/persistence"
	"github.com/loyalty/backend/internal/infrastructure/persistence/tenant"
	"github.com/loyalty/backend/internal/interfaces/http/handler"
	"github.com/loyalty/backend/internal/interfaces/http/middleware"
	"github.com/loyalty/backend/internal/interfaces/http/router"
)

func main() {
	// Optional .env for local development; real deployments use the
	// environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting loyalty backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Every tenant-owned query from here on is scoped to the tenant
	// bound into the request context
	tenant.EnableAutoTenantFilter(db.DB)

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	apiKeyRepo := persistence.NewGormAPIKeyRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	campaignRepo := persistence.NewGormCampaignRepository(db.DB)
	rewardRepo := persistence.NewGormRewardRepository(db.DB)
	unitOfWork := persistence.NewGormUnitOfWork(db.DB)

	// Caches (redis, with optional in-process fallback)
	cacheFactory := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.Cache.InMemoryFallback),
	)
	caches, err := cacheFactory.CreateCaches()
	if err != nil {
		log.Fatal("Failed to initialize caches", zap.Error(err))
	}

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(tenantRepo, userRepo, apiKeyRepo, jwtService, log)
	tenantService := identityapp.NewTenantService(tenantRepo, apiKeyRepo, log)
	apiKeyService := identityapp.NewAPIKeyService(tenantRepo, apiKeyRepo, log)

	// Loyalty services
	ledgerService := loyaltyapp.NewLedgerService(unitOfWork, caches.Balances, caches.Stats, cfg.Cache.BalanceTTL, log)
	calculator := loyaltyapp.NewPointsCalculator(campaignRepo, caches.Campaigns, cfg.Cache.CampaignTTL, log)
	accrualService := loyaltyapp.NewAccrualService(customerRepo, transactionRepo, calculator, ledgerService, log)
	redemptionService := loyaltyapp.NewRedemptionService(customerRepo, rewardRepo, ledgerService, log)
	customerService := loyaltyapp.NewCustomerService(customerRepo, transactionRepo)
	campaignService := loyaltyapp.NewCampaignService(campaignRepo, caches.Campaigns, log)
	rewardService := loyaltyapp.NewRewardService(rewardRepo, log)
	analyticsService := loyaltyapp.NewAnalyticsService(transactionRepo, caches.Stats, cfg.Cache.StatsTTL, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := router.Setup(router.Config{
		Handlers: router.Handlers{
			System:   handler.NewSystemHandler(db),
			Auth:     handler.NewAuthHandler(authService),
			APIKey:   handler.NewAPIKeyHandler(apiKeyService),
			Points:   handler.NewPointsHandler(accrualService, redemptionService, ledgerService),
			Customer: handler.NewCustomerHandler(customerService),
			Campaign: handler.NewCampaignHandler(campaignService),
			Reward:   handler.NewRewardHandler(rewardService),
			Stats:    handler.NewStatsHandler(analyticsService),
		},
		APIKeyResolver: tenantService,
		JWTService:     jwtService,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
