package loyalty

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/domain/shared"
)

// RewardService manages the reward catalog
type RewardService struct {
	rewardRepo loyalty.RewardRepository
	logger     *zap.Logger
}

// NewRewardService creates a new RewardService
func NewRewardService(rewardRepo loyalty.RewardRepository, logger *zap.Logger) *RewardService {
	return &RewardService{
		rewardRepo: rewardRepo,
		logger:     logger,
	}
}

// Create creates a new reward
func (s *RewardService) Create(ctx context.Context, tenantID uuid.UUID, req CreateRewardRequest) (*RewardResponse, error) {
	reward, err := loyalty.NewReward(tenantID, req.Name, req.Description, req.PointCost)
	if err != nil {
		return nil, err
	}

	if err := s.rewardRepo.Create(ctx, reward); err != nil {
		return nil, err
	}

	s.logger.Info("Reward created",
		zap.String("reward_id", reward.ID.String()),
		zap.String("name", reward.Name))

	resp := NewRewardResponse(reward)
	return &resp, nil
}

// Get returns a single reward
func (s *RewardService) Get(ctx context.Context, id uuid.UUID) (*RewardResponse, error) {
	reward, err := s.rewardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := NewRewardResponse(reward)
	return &resp, nil
}

// List returns rewards matching the filter
func (s *RewardService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[RewardResponse], error) {
	rewards, total, err := s.rewardRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]RewardResponse, len(rewards))
	for i := range rewards {
		items[i] = NewRewardResponse(&rewards[i])
	}

	return &shared.Paginated[RewardResponse]{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.Limit(),
	}, nil
}

// Update applies the non-nil fields of the request to the reward
func (s *RewardService) Update(ctx context.Context, id uuid.UUID, req UpdateRewardRequest) (*RewardResponse, error) {
	reward, err := s.rewardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		reward.Name = *req.Name
	}
	if req.Description != nil {
		reward.Description = *req.Description
	}
	if req.PointCost != nil {
		if *req.PointCost <= 0 {
			return nil, shared.NewDomainError("INVALID_POINT_COST", "Reward point cost must be positive")
		}
		reward.PointCost = *req.PointCost
	}
	if req.IsActive != nil {
		reward.IsActive = *req.IsActive
	}

	if err := s.rewardRepo.Save(ctx, reward); err != nil {
		return nil, err
	}

	resp := NewRewardResponse(reward)
	return &resp, nil
}

// Delete removes a reward
func (s *RewardService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.rewardRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Reward deleted", zap.String("reward_id", id.String()))
	return nil
}
