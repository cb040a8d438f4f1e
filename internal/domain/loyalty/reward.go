package loyalty

import (
	"strings"

	"github.com/google/uuid"
	"github.com/loyalty/backend/internal/domain/shared"
)

// Reward is an item or benefit a customer can purchase with points,
// e.g. "Free Coffee" or "10% Discount Coupon". Rewards are referenced by
// redemption transactions but never own ledger data themselves.
type Reward struct {
	shared.TenantEntity
	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	PointCost   int64  `gorm:"not null;check:point_cost > 0"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Reward) TableName() string {
	return "rewards"
}

// NewReward creates a new active reward
func NewReward(tenantID uuid.UUID, name, description string, pointCost int64) (*Reward, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_REWARD_NAME", "Reward name is required")
	}
	if pointCost <= 0 {
		return nil, shared.NewDomainError("INVALID_POINT_COST", "Reward point cost must be positive")
	}
	return &Reward{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		Description:  description,
		PointCost:    pointCost,
		IsActive:     true,
	}, nil
}
