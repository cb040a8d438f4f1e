package loyalty

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/domain/shared"
)

// RedemptionService spends customer points, either against a catalog
// reward or as a free-form debit
type RedemptionService struct {
	customerRepo loyalty.CustomerRepository
	rewardRepo   loyalty.RewardRepository
	ledger       *LedgerService
	logger       *zap.Logger
}

// NewRedemptionService creates a new RedemptionService
func NewRedemptionService(
	customerRepo loyalty.CustomerRepository,
	rewardRepo loyalty.RewardRepository,
	ledger *LedgerService,
	logger *zap.Logger,
) *RedemptionService {
	return &RedemptionService{
		customerRepo: customerRepo,
		rewardRepo:   rewardRepo,
		ledger:       ledger,
		logger:       logger,
	}
}

// Redeem debits points from the customer, identified by internal ID or by
// the merchant's external ID. When a reward is given its point cost is
// charged; otherwise the requested point amount is. The debit is
// race-free: the ledger's balance guard rejects concurrent overdraws.
func (s *RedemptionService) Redeem(ctx context.Context, req RedemptionRequest) (*RedemptionResult, error) {
	customer, err := s.resolveCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	points := req.Points
	description := req.Description
	var rewardID *uuid.UUID
	var rewardName string

	if req.RewardID != nil {
		reward, err := s.rewardRepo.FindByID(ctx, *req.RewardID)
		if err != nil {
			return nil, err
		}
		if !reward.IsActive {
			return nil, shared.NewDomainError("REWARD_INACTIVE", "Reward is not available")
		}
		points = reward.PointCost
		rewardID = &reward.ID
		rewardName = reward.Name
		if description == "" {
			description = "Redemption: " + reward.Name
		}
	}

	if points <= 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Redemption requires a positive point amount")
	}
	if description == "" {
		description = "Points redemption"
	}

	entry, err := s.ledger.ProcessTransaction(ctx, customer.ID, -points, loyalty.KindSpend, description)
	if err != nil {
		return nil, err
	}
	customer.Balance -= points

	s.logger.Info("Redemption processed",
		zap.String("customer_id", customer.ID.String()),
		zap.Int64("points", points))

	return &RedemptionResult{
		Customer:    NewCustomerResponse(customer),
		PointsSpent: points,
		RewardID:    rewardID,
		RewardName:  rewardName,
		Transaction: NewTransactionResponse(entry),
	}, nil
}

func (s *RedemptionService) resolveCustomer(ctx context.Context, req RedemptionRequest) (*loyalty.Customer, error) {
	if req.CustomerID != uuid.Nil {
		return s.customerRepo.FindByID(ctx, req.CustomerID)
	}
	if req.CustomerExternalID != "" {
		return s.customerRepo.FindByExternalID(ctx, req.CustomerExternalID)
	}
	return nil, shared.NewDomainError("INVALID_CUSTOMER", "Either customer_id or customer_external_id is required")
}
