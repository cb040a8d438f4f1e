package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/infrastructure/config"
)

// Caches bundles the cache implementations used by the loyalty services
type Caches struct {
	Campaigns loyalty.CampaignCache
	Stats     loyalty.StatsCache
	Balances  loyalty.BalanceCache
}

// Factory creates caches based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory caches
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new cache factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCaches creates Redis-backed caches sharing one client
func (f *Factory) CreateRedisCaches() (Caches, error) {
	client, err := NewRedisClient(f.redisConfig)
	if err != nil {
		return Caches{}, fmt.Errorf("failed to create Redis caches: %w", err)
	}

	return Caches{
		Campaigns: NewRedisCampaignCache(client),
		Stats:     NewRedisStatsCache(client),
		Balances:  NewRedisBalanceCache(client),
	}, nil
}

// CreateInMemoryCaches creates process-local caches.
// WARNING: in-memory caches do not share invalidations across instances,
// which can serve stale campaign sets in distributed deployments.
func (f *Factory) CreateInMemoryCaches() Caches {
	return Caches{
		Campaigns: NewInMemoryCampaignCache(),
		Stats:     NewInMemoryStatsCache(),
		Balances:  NewInMemoryBalanceCache(),
	}
}

// CreateCaches tries Redis first and falls back to in-memory caches when
// Redis is unavailable and fallback is allowed
func (f *Factory) CreateCaches() (Caches, error) {
	caches, err := f.CreateRedisCaches()
	if err == nil {
		f.logger.Info("using Redis caches")
		return caches, nil
	}

	if !f.allowInMemoryFallback {
		return Caches{}, fmt.Errorf("Redis required for caching but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory caches. "+
		"Invalidations will not propagate across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryCaches(), nil
}
