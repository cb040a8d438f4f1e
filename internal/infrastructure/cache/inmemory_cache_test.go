package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/infrastructure/config"
)

func TestInMemoryCampaignCache(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("miss on empty cache", func(t *testing.T) {
		c := NewInMemoryCampaignCache()

		_, ok, err := c.GetActive(ctx, tenantID)

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		c := NewInMemoryCampaignCache()
		campaigns := []loyalty.Campaign{{Name: "Summer", PointsValue: 2}}

		require.NoError(t, c.SetActive(ctx, tenantID, campaigns, time.Minute))

		got, ok, err := c.GetActive(ctx, tenantID)
		assert.NoError(t, err)
		assert.True(t, ok)
		require.Len(t, got, 1)
		assert.Equal(t, "Summer", got[0].Name)
	})

	t.Run("invalidate drops entry", func(t *testing.T) {
		c := NewInMemoryCampaignCache()
		require.NoError(t, c.SetActive(ctx, tenantID, []loyalty.Campaign{{Name: "x"}}, time.Minute))

		require.NoError(t, c.Invalidate(ctx, tenantID))

		_, ok, err := c.GetActive(ctx, tenantID)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		c := NewInMemoryCampaignCache()
		require.NoError(t, c.SetActive(ctx, tenantID, []loyalty.Campaign{{Name: "x"}}, time.Nanosecond))

		time.Sleep(5 * time.Millisecond)

		_, ok, err := c.GetActive(ctx, tenantID)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("tenants do not share entries", func(t *testing.T) {
		c := NewInMemoryCampaignCache()
		other := uuid.New()
		require.NoError(t, c.SetActive(ctx, tenantID, []loyalty.Campaign{{Name: "mine"}}, time.Minute))

		_, ok, err := c.GetActive(ctx, other)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestInMemoryStatsCache(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	c := NewInMemoryStatsCache()

	snapshot := &loyalty.StatsSnapshot{
		KPI:         loyalty.KPIRow{TotalCustomers: 5, TotalIssued: 100, TotalRedeemed: 20},
		GeneratedAt: time.Now(),
	}
	require.NoError(t, c.Set(ctx, tenantID, snapshot, time.Minute))

	got, ok, err := c.Get(ctx, tenantID)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(5), got.KPI.TotalCustomers)

	require.NoError(t, c.Invalidate(ctx, tenantID))
	_, ok, err = c.Get(ctx, tenantID)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryBalanceCache(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	c := NewInMemoryBalanceCache()

	require.NoError(t, c.Set(ctx, customerID, 250, time.Minute))

	balance, ok, err := c.Get(ctx, customerID)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(250), balance)

	require.NoError(t, c.Invalidate(ctx, customerID))
	_, ok, err = c.Get(ctx, customerID)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestFactory_CreateInMemoryCaches(t *testing.T) {
	f := NewFactory(config.RedisConfig{Host: "localhost", Port: 6379}, WithInMemoryFallback(true))

	caches := f.CreateInMemoryCaches()

	assert.NotNil(t, caches.Campaigns)
	assert.NotNil(t, caches.Stats)
	assert.NotNil(t, caches.Balances)
}
