package loyalty

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/domain/shared"
)

// CampaignService manages promotional campaigns. Every write invalidates
// the tenant's cached active campaign set so awards never use stale rules.
type CampaignService struct {
	campaignRepo  loyalty.CampaignRepository
	campaignCache loyalty.CampaignCache
	logger        *zap.Logger
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(
	campaignRepo loyalty.CampaignRepository,
	campaignCache loyalty.CampaignCache,
	logger *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo:  campaignRepo,
		campaignCache: campaignCache,
		logger:        logger,
	}
}

// Create creates a new campaign
func (s *CampaignService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCampaignRequest) (*CampaignResponse, error) {
	if err := validateRulesDocument(req.Rules); err != nil {
		return nil, err
	}

	campaign, err := loyalty.NewCampaign(tenantID, req.Name, req.PointsValue, loyalty.RewardType(req.RewardType), req.Rules)
	if err != nil {
		return nil, err
	}
	campaign.Description = req.Description
	if req.IsActive != nil {
		campaign.IsActive = *req.IsActive
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)

	s.logger.Info("Campaign created",
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("name", campaign.Name))

	resp := NewCampaignResponse(campaign)
	return &resp, nil
}

// Get returns a single campaign
func (s *CampaignService) Get(ctx context.Context, id uuid.UUID) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := NewCampaignResponse(campaign)
	return &resp, nil
}

// List returns campaigns matching the filter
func (s *CampaignService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[CampaignResponse], error) {
	campaigns, total, err := s.campaignRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]CampaignResponse, len(campaigns))
	for i := range campaigns {
		items[i] = NewCampaignResponse(&campaigns[i])
	}

	return &shared.Paginated[CampaignResponse]{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.Limit(),
	}, nil
}

// Update applies the non-nil fields of the request to the campaign
func (s *CampaignService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCampaignRequest) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		campaign.Name = *req.Name
	}
	if req.Description != nil {
		campaign.Description = *req.Description
	}
	if req.PointsValue != nil {
		if *req.PointsValue < 0 {
			return nil, shared.NewDomainError("INVALID_POINTS_VALUE", "Campaign points value cannot be negative")
		}
		campaign.PointsValue = *req.PointsValue
	}
	if req.RewardType != nil {
		rt := loyalty.RewardType(*req.RewardType)
		if !rt.Valid() {
			return nil, shared.NewDomainError("INVALID_REWARD_TYPE", "Reward type must be multiplier or bonus")
		}
		campaign.RewardType = rt
	}
	if req.Rules != nil {
		if err := validateRulesDocument(*req.Rules); err != nil {
			return nil, err
		}
		campaign.Rules = *req.Rules
	}
	if req.IsActive != nil {
		campaign.IsActive = *req.IsActive
	}

	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)

	resp := NewCampaignResponse(campaign)
	return &resp, nil
}

// Delete removes a campaign
func (s *CampaignService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.campaignRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, tenantID)

	s.logger.Info("Campaign deleted", zap.String("campaign_id", id.String()))
	return nil
}

func (s *CampaignService) invalidate(ctx context.Context, tenantID uuid.UUID) {
	if s.campaignCache == nil {
		return
	}
	if err := s.campaignCache.Invalidate(ctx, tenantID); err != nil {
		s.logger.Warn("Campaign cache invalidation failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
	}
}

// validateRulesDocument rejects rules that are not a JSON object. Unknown
// rule names inside the object are accepted; the rule engine ignores them.
func validateRulesDocument(rules string) error {
	if rules == "" {
		return nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rules), &doc); err != nil {
		return shared.NewDomainError("INVALID_RULES", "Campaign rules must be a JSON object")
	}
	return nil
}
