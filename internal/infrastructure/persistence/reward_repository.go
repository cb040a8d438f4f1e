package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/domain/shared"
)

// GormRewardRepository implements loyalty.RewardRepository using GORM
type GormRewardRepository struct {
	db *gorm.DB
}

// NewGormRewardRepository creates a new GormRewardRepository
func NewGormRewardRepository(db *gorm.DB) *GormRewardRepository {
	return &GormRewardRepository{db: db}
}

// Create inserts a new reward
func (r *GormRewardRepository) Create(ctx context.Context, reward *loyalty.Reward) error {
	return r.db.WithContext(ctx).Create(reward).Error
}

// FindByID finds a reward by its ID
func (r *GormRewardRepository) FindByID(ctx context.Context, id uuid.UUID) (*loyalty.Reward, error) {
	var reward loyalty.Reward
	if err := r.db.WithContext(ctx).First(&reward, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reward, nil
}

// List finds rewards matching the filter with a total count
func (r *GormRewardRepository) List(ctx context.Context, filter shared.Filter) ([]loyalty.Reward, int64, error) {
	query := r.db.WithContext(ctx).Model(&loyalty.Reward{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, RewardSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.Limit())

	var rewards []loyalty.Reward
	if err := query.Find(&rewards).Error; err != nil {
		return nil, 0, err
	}
	return rewards, total, nil
}

// Save persists changes to an existing reward
func (r *GormRewardRepository) Save(ctx context.Context, reward *loyalty.Reward) error {
	return r.db.WithContext(ctx).Save(reward).Error
}

// Delete removes a reward
func (r *GormRewardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&loyalty.Reward{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormRewardRepository implements RewardRepository
var _ loyalty.RewardRepository = (*GormRewardRepository)(nil)
