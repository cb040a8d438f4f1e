package loyalty

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/loyalty"
)

func activeCampaign(t *testing.T, tenantID uuid.UUID, name string, pointsValue int64, rewardType loyalty.RewardType, rules string) loyalty.Campaign {
	t.Helper()
	campaign, err := loyalty.NewCampaign(tenantID, name, pointsValue, rewardType, rules)
	require.NoError(t, err)
	return *campaign
}

func TestPointsCalculator_Calculate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	noState := loyalty.CustomerState{}

	t.Run("base award is one point per whole currency unit", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		repo.On("FindActive", ctx).Return([]loyalty.Campaign{}, nil)
		calc := NewPointsCalculator(repo, nil, time.Minute, zap.NewNop())

		breakdown, err := calc.Calculate(ctx, tenantID, decimal.RequireFromString("12.99"), noState, now)

		require.NoError(t, err)
		assert.Equal(t, int64(12), breakdown.BasePoints)
		assert.Equal(t, int64(12), breakdown.TotalPoints)
		assert.Nil(t, breakdown.CampaignID)
	})

	t.Run("best single campaign wins, never stacking", func(t *testing.T) {
		double := activeCampaign(t, tenantID, "Double", 2, loyalty.RewardMultiplier, "")
		bonus := activeCampaign(t, tenantID, "Welcome 50", 50, loyalty.RewardBonus, "")
		repo := new(MockCampaignRepository)
		repo.On("FindActive", ctx).Return([]loyalty.Campaign{double, bonus}, nil)
		calc := NewPointsCalculator(repo, nil, time.Minute, zap.NewNop())

		// base 20, double gives 40, bonus gives 70 -> bonus wins alone
		breakdown, err := calc.Calculate(ctx, tenantID, decimal.NewFromInt(20), noState, now)

		require.NoError(t, err)
		assert.Equal(t, int64(70), breakdown.TotalPoints)
		require.NotNil(t, breakdown.CampaignID)
		assert.Equal(t, bonus.ID, *breakdown.CampaignID)
		assert.Equal(t, "Welcome 50", breakdown.CampaignName)
	})

	t.Run("campaign below the base award never wins", func(t *testing.T) {
		half := activeCampaign(t, tenantID, "Half", 0, loyalty.RewardMultiplier, "")
		repo := new(MockCampaignRepository)
		repo.On("FindActive", ctx).Return([]loyalty.Campaign{half}, nil)
		calc := NewPointsCalculator(repo, nil, time.Minute, zap.NewNop())

		breakdown, err := calc.Calculate(ctx, tenantID, decimal.NewFromInt(20), noState, now)

		require.NoError(t, err)
		assert.Equal(t, int64(20), breakdown.TotalPoints)
		assert.Nil(t, breakdown.CampaignID)
	})

	t.Run("min_amount gates the campaign", func(t *testing.T) {
		gated := activeCampaign(t, tenantID, "Big Spender", 3, loyalty.RewardMultiplier, `{"min_amount": 100}`)
		repo := new(MockCampaignRepository)
		repo.On("FindActive", ctx).Return([]loyalty.Campaign{gated}, nil)
		calc := NewPointsCalculator(repo, nil, time.Minute, zap.NewNop())

		below, err := calc.Calculate(ctx, tenantID, decimal.NewFromInt(99), noState, now)
		require.NoError(t, err)
		assert.Equal(t, int64(99), below.TotalPoints)

		atThreshold, err := calc.Calculate(ctx, tenantID, decimal.NewFromInt(100), noState, now)
		require.NoError(t, err)
		assert.Equal(t, int64(300), atThreshold.TotalPoints)
	})

	t.Run("first purchase campaign skips returning customers", func(t *testing.T) {
		welcome := activeCampaign(t, tenantID, "Welcome", 100, loyalty.RewardBonus, `{"is_first_purchase": true}`)
		repo := new(MockCampaignRepository)
		repo.On("FindActive", ctx).Return([]loyalty.Campaign{welcome}, nil)
		calc := NewPointsCalculator(repo, nil, time.Minute, zap.NewNop())

		returning, err := calc.Calculate(ctx, tenantID, decimal.NewFromInt(10), loyalty.CustomerState{HasTransactions: true}, now)
		require.NoError(t, err)
		assert.Equal(t, int64(10), returning.TotalPoints)

		first, err := calc.Calculate(ctx, tenantID, decimal.NewFromInt(10), noState, now)
		require.NoError(t, err)
		assert.Equal(t, int64(110), first.TotalPoints)
	})

	t.Run("sub-unit purchase can still win a bonus", func(t *testing.T) {
		bonus := activeCampaign(t, tenantID, "Any Purchase", 5, loyalty.RewardBonus, "")
		repo := new(MockCampaignRepository)
		repo.On("FindActive", ctx).Return([]loyalty.Campaign{bonus}, nil)
		calc := NewPointsCalculator(repo, nil, time.Minute, zap.NewNop())

		breakdown, err := calc.Calculate(ctx, tenantID, decimal.RequireFromString("0.50"), noState, now)

		require.NoError(t, err)
		assert.Equal(t, int64(0), breakdown.BasePoints)
		assert.Equal(t, int64(5), breakdown.TotalPoints)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		double := activeCampaign(t, tenantID, "Double", 2, loyalty.RewardMultiplier, "")
		repo := new(MockCampaignRepository)
		cache := new(MockCampaignCache)
		cache.On("GetActive", ctx, tenantID).Return([]loyalty.Campaign{double}, true, nil)
		calc := NewPointsCalculator(repo, cache, time.Minute, zap.NewNop())

		breakdown, err := calc.Calculate(ctx, tenantID, decimal.NewFromInt(10), noState, now)

		require.NoError(t, err)
		assert.Equal(t, int64(20), breakdown.TotalPoints)
		repo.AssertNotCalled(t, "FindActive", mock.Anything)
		cache.AssertExpectations(t)
	})

	t.Run("cache miss falls through and fills the cache", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		repo.On("FindActive", ctx).Return([]loyalty.Campaign{}, nil)
		cache := new(MockCampaignCache)
		cache.On("GetActive", ctx, tenantID).Return(nil, false, nil)
		cache.On("SetActive", ctx, tenantID, []loyalty.Campaign{}, time.Minute).Return(nil)
		calc := NewPointsCalculator(repo, cache, time.Minute, zap.NewNop())

		_, err := calc.Calculate(ctx, tenantID, decimal.NewFromInt(10), noState, now)

		require.NoError(t, err)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})
}
