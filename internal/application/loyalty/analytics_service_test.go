package loyalty

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/loyalty"
)

func TestAnalyticsService_Stats(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	kpi := loyalty.KPIRow{TotalCustomers: 12, TotalIssued: 4000, TotalRedeemed: 1500, CurrentLiability: 2300}
	timeline := []loyalty.TimelineRow{{Date: "2026-08-30", Issued: 120, Redeemed: 40}}

	t.Run("computes and caches the default window", func(t *testing.T) {
		repo := new(MockTransactionRepositoryAgg)
		repo.On("KPI", ctx).Return(kpi, nil)
		repo.On("Timeline", ctx, mock.AnythingOfType("time.Time")).Return(timeline, nil)
		cache := new(MockStatsCache)
		cache.On("Get", ctx, tenantID).Return(nil, false, nil)
		cache.On("Set", ctx, tenantID, mock.AnythingOfType("*loyalty.StatsSnapshot"), time.Minute).Return(nil)
		service := NewAnalyticsService(repo, cache, time.Minute, zap.NewNop())

		stats, err := service.Stats(ctx, tenantID, DefaultTimelineDays)

		require.NoError(t, err)
		assert.Equal(t, int64(12), stats.TotalCustomers)
		assert.Equal(t, int64(4000), stats.TotalIssued)
		assert.Equal(t, int64(1500), stats.TotalRedeemed)
		assert.Equal(t, int64(2300), stats.CurrentLiability)
		assert.InDelta(t, 37.5, stats.RedemptionRate, 0.001)
		assert.Equal(t, timeline, stats.Timeline)
		assert.False(t, stats.Cached)
		cache.AssertExpectations(t)
	})

	t.Run("liability and redemption rate follow the ledger totals", func(t *testing.T) {
		// two customers earned 100 and 200, the first spent 60
		repo := new(MockTransactionRepositoryAgg)
		repo.On("KPI", ctx).Return(loyalty.KPIRow{
			TotalCustomers:   2,
			TotalIssued:      300,
			TotalRedeemed:    60,
			CurrentLiability: 240,
		}, nil)
		repo.On("Timeline", ctx, mock.AnythingOfType("time.Time")).Return(timeline, nil)
		service := NewAnalyticsService(repo, nil, time.Minute, zap.NewNop())

		stats, err := service.Stats(ctx, tenantID, DefaultTimelineDays)

		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalCustomers)
		assert.Equal(t, int64(240), stats.CurrentLiability)
		assert.InDelta(t, 20.0, stats.RedemptionRate, 0.001)
	})

	t.Run("redemption rate is zero without earn activity", func(t *testing.T) {
		repo := new(MockTransactionRepositoryAgg)
		repo.On("KPI", ctx).Return(loyalty.KPIRow{}, nil)
		repo.On("Timeline", ctx, mock.AnythingOfType("time.Time")).Return(nil, nil)
		service := NewAnalyticsService(repo, nil, time.Minute, zap.NewNop())

		stats, err := service.Stats(ctx, tenantID, DefaultTimelineDays)

		require.NoError(t, err)
		assert.Zero(t, stats.RedemptionRate)
	})

	t.Run("serves the cached snapshot on a hit", func(t *testing.T) {
		repo := new(MockTransactionRepositoryAgg)
		cache := new(MockStatsCache)
		snapshot := &loyalty.StatsSnapshot{KPI: kpi, Timeline: timeline, GeneratedAt: time.Now().UTC()}
		cache.On("Get", ctx, tenantID).Return(snapshot, true, nil)
		service := NewAnalyticsService(repo, cache, time.Minute, zap.NewNop())

		stats, err := service.Stats(ctx, tenantID, 0)

		require.NoError(t, err)
		assert.True(t, stats.Cached)
		assert.Equal(t, int64(12), stats.TotalCustomers)
		repo.AssertNotCalled(t, "KPI", mock.Anything)
	})

	t.Run("non-default window bypasses the cache", func(t *testing.T) {
		repo := new(MockTransactionRepositoryAgg)
		repo.On("KPI", ctx).Return(kpi, nil)
		repo.On("Timeline", ctx, mock.AnythingOfType("time.Time")).Return(timeline, nil)
		cache := new(MockStatsCache)
		service := NewAnalyticsService(repo, cache, time.Minute, zap.NewNop())

		stats, err := service.Stats(ctx, tenantID, 7)

		require.NoError(t, err)
		assert.False(t, stats.Cached)
		cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache read failure falls through to storage", func(t *testing.T) {
		repo := new(MockTransactionRepositoryAgg)
		repo.On("KPI", ctx).Return(kpi, nil)
		repo.On("Timeline", ctx, mock.AnythingOfType("time.Time")).Return(timeline, nil)
		cache := new(MockStatsCache)
		cache.On("Get", ctx, tenantID).Return(nil, false, assert.AnError)
		cache.On("Set", ctx, tenantID, mock.AnythingOfType("*loyalty.StatsSnapshot"), time.Minute).Return(nil)
		service := NewAnalyticsService(repo, cache, time.Minute, zap.NewNop())

		stats, err := service.Stats(ctx, tenantID, DefaultTimelineDays)

		require.NoError(t, err)
		assert.False(t, stats.Cached)
	})

	t.Run("nil timeline is returned as an empty slice", func(t *testing.T) {
		repo := new(MockTransactionRepositoryAgg)
		repo.On("KPI", ctx).Return(kpi, nil)
		repo.On("Timeline", ctx, mock.AnythingOfType("time.Time")).Return(nil, nil)
		service := NewAnalyticsService(repo, nil, time.Minute, zap.NewNop())

		stats, err := service.Stats(ctx, tenantID, DefaultTimelineDays)

		require.NoError(t, err)
		assert.NotNil(t, stats.Timeline)
		assert.Empty(t, stats.Timeline)
	})
}
