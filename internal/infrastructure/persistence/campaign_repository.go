package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/domain/shared"
)

// GormCampaignRepository implements loyalty.CampaignRepository using GORM
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GormCampaignRepository
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// Create inserts a new campaign
func (r *GormCampaignRepository) Create(ctx context.Context, campaign *loyalty.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

// FindByID finds a campaign by its ID
func (r *GormCampaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*loyalty.Campaign, error) {
	var campaign loyalty.Campaign
	if err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// FindActive finds all active campaigns for the current tenant
func (r *GormCampaignRepository) FindActive(ctx context.Context) ([]loyalty.Campaign, error) {
	var campaigns []loyalty.Campaign
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// List finds campaigns matching the filter with a total count
func (r *GormCampaignRepository) List(ctx context.Context, filter shared.Filter) ([]loyalty.Campaign, int64, error) {
	query := r.db.WithContext(ctx).Model(&loyalty.Campaign{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, CampaignSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.Limit())

	var campaigns []loyalty.Campaign
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// Save persists changes to an existing campaign
func (r *GormCampaignRepository) Save(ctx context.Context, campaign *loyalty.Campaign) error {
	return r.db.WithContext(ctx).Save(campaign).Error
}

// Delete removes a campaign
func (r *GormCampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&loyalty.Campaign{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCampaignRepository implements CampaignRepository
var _ loyalty.CampaignRepository = (*GormCampaignRepository)(nil)
