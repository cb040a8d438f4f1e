package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/loyalty/backend/internal/domain/loyalty"
)

// entry is a value with an expiry timestamp. A zero expiry never expires.
type entry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e entry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// InMemoryCampaignCache implements loyalty.CampaignCache in process memory.
// WARNING: invalidations do not propagate across instances; suitable for
// single-instance deployments and testing.
type InMemoryCampaignCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]entry[[]loyalty.Campaign]
}

// NewInMemoryCampaignCache creates an in-memory campaign cache
func NewInMemoryCampaignCache() *InMemoryCampaignCache {
	return &InMemoryCampaignCache{
		entries: make(map[uuid.UUID]entry[[]loyalty.Campaign]),
	}
}

// GetActive returns the cached active campaign set for a tenant
func (c *InMemoryCampaignCache) GetActive(_ context.Context, tenantID uuid.UUID) ([]loyalty.Campaign, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[tenantID]
	c.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// SetActive stores the active campaign set for a tenant
func (c *InMemoryCampaignCache) SetActive(_ context.Context, tenantID uuid.UUID, campaigns []loyalty.Campaign, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tenantID] = newEntry(campaigns, ttl)
	return nil
}

// Invalidate drops the cached campaign set for a tenant
func (c *InMemoryCampaignCache) Invalidate(_ context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, tenantID)
	return nil
}

// InMemoryStatsCache implements loyalty.StatsCache in process memory
type InMemoryStatsCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]entry[*loyalty.StatsSnapshot]
}

// NewInMemoryStatsCache creates an in-memory stats cache
func NewInMemoryStatsCache() *InMemoryStatsCache {
	return &InMemoryStatsCache{
		entries: make(map[uuid.UUID]entry[*loyalty.StatsSnapshot]),
	}
}

// Get returns the cached analytics snapshot for a tenant
func (c *InMemoryStatsCache) Get(_ context.Context, tenantID uuid.UUID) (*loyalty.StatsSnapshot, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[tenantID]
	c.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores the analytics snapshot for a tenant
func (c *InMemoryStatsCache) Set(_ context.Context, tenantID uuid.UUID, snapshot *loyalty.StatsSnapshot, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tenantID] = newEntry(snapshot, ttl)
	return nil
}

// Invalidate drops the cached snapshot for a tenant
func (c *InMemoryStatsCache) Invalidate(_ context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, tenantID)
	return nil
}

// InMemoryBalanceCache implements loyalty.BalanceCache in process memory
type InMemoryBalanceCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]entry[int64]
}

// NewInMemoryBalanceCache creates an in-memory balance cache
func NewInMemoryBalanceCache() *InMemoryBalanceCache {
	return &InMemoryBalanceCache{
		entries: make(map[uuid.UUID]entry[int64]),
	}
}

// Get returns the cached balance for a customer
func (c *InMemoryBalanceCache) Get(_ context.Context, customerID uuid.UUID) (int64, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[customerID]
	c.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		return 0, false, nil
	}
	return e.value, true, nil
}

// Set stores the balance for a customer
func (c *InMemoryBalanceCache) Set(_ context.Context, customerID uuid.UUID, balance int64, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[customerID] = newEntry(balance, ttl)
	return nil
}

// Invalidate drops the cached balance for a customer
func (c *InMemoryBalanceCache) Invalidate(_ context.Context, customerID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, customerID)
	return nil
}

func newEntry[T any](value T, ttl time.Duration) entry[T] {
	e := entry[T]{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	return e
}

var (
	_ loyalty.CampaignCache = (*InMemoryCampaignCache)(nil)
	_ loyalty.StatsCache    = (*InMemoryStatsCache)(nil)
	_ loyalty.BalanceCache  = (*InMemoryBalanceCache)(nil)
)
