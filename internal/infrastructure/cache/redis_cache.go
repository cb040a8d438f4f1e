package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/infrastructure/config"
)

// NewRedisClient creates a Redis client and verifies connectivity
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// RedisCampaignCache implements loyalty.CampaignCache backed by Redis.
// Suitable for distributed deployments where invalidation must reach all
// API instances.
type RedisCampaignCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisCampaignCache creates a Redis-backed campaign cache
func NewRedisCampaignCache(client *redis.Client) *RedisCampaignCache {
	return &RedisCampaignCache{
		client:    client,
		keyPrefix: "loyalty:campaigns:active:",
	}
}

func (c *RedisCampaignCache) key(tenantID uuid.UUID) string {
	return c.keyPrefix + tenantID.String()
}

// GetActive returns the cached active campaign set for a tenant
func (c *RedisCampaignCache) GetActive(ctx context.Context, tenantID uuid.UUID) ([]loyalty.Campaign, bool, error) {
	data, err := c.client.Get(ctx, c.key(tenantID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read campaign cache: %w", err)
	}

	var campaigns []loyalty.Campaign
	if err := json.Unmarshal(data, &campaigns); err != nil {
		// Treat a corrupt entry as a miss; the next Set overwrites it
		return nil, false, nil
	}
	return campaigns, true, nil
}

// SetActive stores the active campaign set for a tenant
func (c *RedisCampaignCache) SetActive(ctx context.Context, tenantID uuid.UUID, campaigns []loyalty.Campaign, ttl time.Duration) error {
	data, err := json.Marshal(campaigns)
	if err != nil {
		return fmt.Errorf("failed to encode campaigns: %w", err)
	}
	return c.client.Set(ctx, c.key(tenantID), data, ttl).Err()
}

// Invalidate drops the cached campaign set for a tenant
func (c *RedisCampaignCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	return c.client.Del(ctx, c.key(tenantID)).Err()
}

// RedisStatsCache implements loyalty.StatsCache backed by Redis
type RedisStatsCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStatsCache creates a Redis-backed stats cache
func NewRedisStatsCache(client *redis.Client) *RedisStatsCache {
	return &RedisStatsCache{
		client:    client,
		keyPrefix: "loyalty:stats:",
	}
}

func (c *RedisStatsCache) key(tenantID uuid.UUID) string {
	return c.keyPrefix + tenantID.String()
}

// Get returns the cached analytics snapshot for a tenant
func (c *RedisStatsCache) Get(ctx context.Context, tenantID uuid.UUID) (*loyalty.StatsSnapshot, bool, error) {
	data, err := c.client.Get(ctx, c.key(tenantID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read stats cache: %w", err)
	}

	var snapshot loyalty.StatsSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, false, nil
	}
	return &snapshot, true, nil
}

// Set stores the analytics snapshot for a tenant
func (c *RedisStatsCache) Set(ctx context.Context, tenantID uuid.UUID, snapshot *loyalty.StatsSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode stats snapshot: %w", err)
	}
	return c.client.Set(ctx, c.key(tenantID), data, ttl).Err()
}

// Invalidate drops the cached snapshot for a tenant
func (c *RedisStatsCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	return c.client.Del(ctx, c.key(tenantID)).Err()
}

// RedisBalanceCache implements loyalty.BalanceCache backed by Redis
type RedisBalanceCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisBalanceCache creates a Redis-backed balance cache
func NewRedisBalanceCache(client *redis.Client) *RedisBalanceCache {
	return &RedisBalanceCache{
		client:    client,
		keyPrefix: "loyalty:balance:",
	}
}

func (c *RedisBalanceCache) key(customerID uuid.UUID) string {
	return c.keyPrefix + customerID.String()
}

// Get returns the cached balance for a customer
func (c *RedisBalanceCache) Get(ctx context.Context, customerID uuid.UUID) (int64, bool, error) {
	val, err := c.client.Get(ctx, c.key(customerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read balance cache: %w", err)
	}

	balance, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return balance, true, nil
}

// Set stores the balance for a customer
func (c *RedisBalanceCache) Set(ctx context.Context, customerID uuid.UUID, balance int64, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(customerID), strconv.FormatInt(balance, 10), ttl).Err()
}

// Invalidate drops the cached balance for a customer
func (c *RedisBalanceCache) Invalidate(ctx context.Context, customerID uuid.UUID) error {
	return c.client.Del(ctx, c.key(customerID)).Err()
}

var (
	_ loyalty.CampaignCache = (*RedisCampaignCache)(nil)
	_ loyalty.StatsCache    = (*RedisStatsCache)(nil)
	_ loyalty.BalanceCache  = (*RedisBalanceCache)(nil)
)
