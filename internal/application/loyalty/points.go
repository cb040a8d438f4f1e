package loyalty

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/loyalty"
)

// AwardBreakdown is the result of evaluating the campaign rule set for one
// purchase
type AwardBreakdown struct {
	BasePoints   int64
	TotalPoints  int64
	CampaignID   *uuid.UUID
	CampaignName string
}

// PointsCalculator computes the points award for a purchase. The base award
// is one point per whole currency unit; every applicable active campaign
// produces a candidate award and the single best candidate wins. Campaigns
// never stack.
type PointsCalculator struct {
	campaignRepo  loyalty.CampaignRepository
	campaignCache loyalty.CampaignCache
	cacheTTL      time.Duration
	logger        *zap.Logger
}

// NewPointsCalculator creates a new PointsCalculator
func NewPointsCalculator(
	campaignRepo loyalty.CampaignRepository,
	campaignCache loyalty.CampaignCache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *PointsCalculator {
	return &PointsCalculator{
		campaignRepo:  campaignRepo,
		campaignCache: campaignCache,
		cacheTTL:      cacheTTL,
		logger:        logger,
	}
}

// Calculate evaluates all active campaigns of the tenant against the
// purchase and returns the winning award. A purchase below one currency
// unit earns zero base points but can still win a bonus campaign.
func (c *PointsCalculator) Calculate(ctx context.Context, tenantID uuid.UUID, money decimal.Decimal, state loyalty.CustomerState, now time.Time) (AwardBreakdown, error) {
	base := money.IntPart()
	if base < 0 {
		base = 0
	}

	breakdown := AwardBreakdown{
		BasePoints:  base,
		TotalPoints: base,
	}

	campaigns, err := c.activeCampaigns(ctx, tenantID)
	if err != nil {
		return AwardBreakdown{}, err
	}

	for i := range campaigns {
		campaign := &campaigns[i]
		rules := loyalty.ParseRuleSet(campaign.Rules)
		if !rules.Applicable(money, state, now) {
			continue
		}

		candidate := campaign.Award(money, base)
		if candidate > breakdown.TotalPoints {
			id := campaign.ID
			breakdown.TotalPoints = candidate
			breakdown.CampaignID = &id
			breakdown.CampaignName = campaign.Name
		}
	}

	return breakdown, nil
}

// activeCampaigns returns the tenant's active campaign set, served from
// cache when possible
func (c *PointsCalculator) activeCampaigns(ctx context.Context, tenantID uuid.UUID) ([]loyalty.Campaign, error) {
	if c.campaignCache != nil {
		cached, ok, err := c.campaignCache.GetActive(ctx, tenantID)
		if err != nil {
			c.logger.Warn("Campaign cache read failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	campaigns, err := c.campaignRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	if c.campaignCache != nil {
		if err := c.campaignCache.SetActive(ctx, tenantID, campaigns, c.cacheTTL); err != nil {
			c.logger.Warn("Campaign cache write failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		}
	}

	return campaigns, nil
}
