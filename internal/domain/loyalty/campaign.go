package loyalty

import (
	"strings"

	"github.com/google/uuid"
	"github.com/loyalty/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RewardType determines how a campaign's points_value is applied
type RewardType string

const (
	// RewardMultiplier multiplies the money amount (e.g. x2 points)
	RewardMultiplier RewardType = "multiplier"
	// RewardBonus adds a flat number of points on top of the base award
	RewardBonus RewardType = "bonus"
)

// Valid reports whether the reward type is known
func (r RewardType) Valid() bool {
	return r == RewardMultiplier || r == RewardBonus
}

// Campaign is a tenant-owned promotional rule set. When a customer accrues
// points, every active campaign of the tenant is evaluated and the single
// most favorable award wins; campaigns never stack.
//
// Rules is an open-ended JSON document of rule-name -> parameter, parsed
// defensively at evaluation time (see ParseRuleSet).
type Campaign struct {
	shared.TenantEntity
	Name        string     `gorm:"type:varchar(255);not null"`
	Description string     `gorm:"type:text"`
	PointsValue int64      `gorm:"not null;check:points_value >= 0"`
	RewardType  RewardType `gorm:"type:varchar(20);not null;default:'multiplier'"`
	Rules       string     `gorm:"type:jsonb;not null;default:'{}'"`
	IsActive    bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Campaign) TableName() string {
	return "campaigns"
}

// NewCampaign creates a new active campaign
func NewCampaign(tenantID uuid.UUID, name string, pointsValue int64, rewardType RewardType, rules string) (*Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CAMPAIGN_NAME", "Campaign name is required")
	}
	if pointsValue < 0 {
		return nil, shared.NewDomainError("INVALID_POINTS_VALUE", "Campaign points value cannot be negative")
	}
	if !rewardType.Valid() {
		return nil, shared.NewDomainError("INVALID_REWARD_TYPE", "Reward type must be multiplier or bonus")
	}
	if rules == "" {
		rules = "{}"
	}
	return &Campaign{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		PointsValue:  pointsValue,
		RewardType:   rewardType,
		Rules:        rules,
		IsActive:     true,
	}, nil
}

// Award computes this campaign's candidate award for a money amount,
// assuming the campaign's rules have already been found applicable.
// Decimal amounts are truncated toward zero, matching the base award.
func (c *Campaign) Award(money decimal.Decimal, basePoints int64) int64 {
	switch c.RewardType {
	case RewardMultiplier:
		return money.Mul(decimal.NewFromInt(c.PointsValue)).IntPart()
	case RewardBonus:
		return basePoints + c.PointsValue
	}
	return basePoints
}
