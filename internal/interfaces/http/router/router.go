package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/infrastructure/auth"
	"github.com/loyalty/backend/internal/infrastructure/logger"
	"github.com/loyalty/backend/internal/interfaces/http/handler"
	"github.com/loyalty/backend/internal/interfaces/http/middleware"
)

// Handlers bundles all HTTP handlers for route registration
type Handlers struct {
	System   *handler.SystemHandler
	Auth     *handler.AuthHandler
	APIKey   *handler.APIKeyHandler
	Points   *handler.PointsHandler
	Customer *handler.CustomerHandler
	Campaign *handler.CampaignHandler
	Reward   *handler.RewardHandler
	Stats    *handler.StatsHandler
}

// Config holds router dependencies
type Config struct {
	Handlers       Handlers
	APIKeyResolver middleware.APIKeyResolver
	JWTService     *auth.JWTService
	Logger         *zap.Logger
}

// Setup builds the gin engine with all middleware and routes.
//
// Two authentication surfaces share /api/v1: the merchant API,
// authenticated per-request with an X-API-Key header, and the dashboard
// API, authenticated with JWT bearer tokens. Both bind the resolved tenant
// to the request context, so tenant scoping is uniform downstream.
func Setup(cfg Config) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
	)

	engine.GET("/health", cfg.Handlers.System.Health)
	engine.GET("/ready", cfg.Handlers.System.Ready)

	api := engine.Group("/api/v1")

	// Dashboard authentication; no credentials required. A stale bearer
	// token sent along anyway must not block these paths.
	authGroup := api.Group("/auth", middleware.OptionalJWTAuth(cfg.JWTService, cfg.Logger))
	{
		authGroup.POST("/register", cfg.Handlers.Auth.Register)
		authGroup.POST("/login", cfg.Handlers.Auth.Login)
		authGroup.POST("/refresh", cfg.Handlers.Auth.Refresh)
		authGroup.GET("/profile",
			middleware.JWTAuth(cfg.JWTService, cfg.Logger),
			cfg.Handlers.Auth.Profile)
	}

	// Dashboard surface: JWT-authenticated tenant administration
	dashboard := api.Group("", middleware.JWTAuth(cfg.JWTService, cfg.Logger))
	{
		dashboard.POST("/api-keys", cfg.Handlers.APIKey.Create)
		dashboard.GET("/api-keys", cfg.Handlers.APIKey.List)
		dashboard.DELETE("/api-keys/:id", cfg.Handlers.APIKey.Revoke)
	}

	// Merchant surface: API-key-authenticated loyalty operations
	merchant := api.Group("", middleware.APIKeyAuth(cfg.APIKeyResolver, cfg.Logger))
	{
		merchant.POST("/accruals", cfg.Handlers.Points.Accrue)
		merchant.POST("/redemption", cfg.Handlers.Points.Redeem)

		merchant.GET("/transactions", cfg.Handlers.Customer.ListAllTransactions)

		merchant.GET("/customers", cfg.Handlers.Customer.List)
		merchant.GET("/customers/:id", cfg.Handlers.Customer.Get)
		merchant.GET("/customers/:id/balance", cfg.Handlers.Points.Balance)
		merchant.GET("/customers/:id/transactions", cfg.Handlers.Customer.ListTransactions)
		merchant.GET("/customers/external/:external_id", cfg.Handlers.Customer.GetByExternalID)
		// Customers exist through accruals only
		merchant.POST("/customers", cfg.Handlers.Customer.NotAllowed)
		merchant.DELETE("/customers/:id", cfg.Handlers.Customer.NotAllowed)

		merchant.POST("/campaigns", cfg.Handlers.Campaign.Create)
		merchant.GET("/campaigns", cfg.Handlers.Campaign.List)
		merchant.GET("/campaigns/:id", cfg.Handlers.Campaign.Get)
		merchant.PUT("/campaigns/:id", cfg.Handlers.Campaign.Update)
		merchant.DELETE("/campaigns/:id", cfg.Handlers.Campaign.Delete)

		merchant.POST("/rewards", cfg.Handlers.Reward.Create)
		merchant.GET("/rewards", cfg.Handlers.Reward.List)
		merchant.GET("/rewards/:id", cfg.Handlers.Reward.Get)
		merchant.PUT("/rewards/:id", cfg.Handlers.Reward.Update)
		merchant.DELETE("/rewards/:id", cfg.Handlers.Reward.Delete)

		merchant.GET("/stats", cfg.Handlers.Stats.Get)
	}

	return engine
}
