package loyalty

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/domain/shared"
)

// AccrualService records purchases and awards points for them
type AccrualService struct {
	customerRepo    loyalty.CustomerRepository
	transactionRepo loyalty.TransactionRepository
	calculator      *PointsCalculator
	ledger          *LedgerService
	logger          *zap.Logger
}

// NewAccrualService creates a new AccrualService
func NewAccrualService(
	customerRepo loyalty.CustomerRepository,
	transactionRepo loyalty.TransactionRepository,
	calculator *PointsCalculator,
	ledger *LedgerService,
	logger *zap.Logger,
) *AccrualService {
	return &AccrualService{
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		calculator:      calculator,
		ledger:          ledger,
		logger:          logger,
	}
}

// Accrue records a purchase for the customer identified by the merchant's
// external ID, provisioning the customer on first sight, and awards the
// points the campaign rule set yields. A purchase that yields zero points
// produces no ledger entry.
func (s *AccrualService) Accrue(ctx context.Context, tenantID uuid.UUID, req AccrualRequest) (*AccrualResult, error) {
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Purchase amount must be positive")
	}

	customer, created, err := s.findOrCreateCustomer(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	// A freshly provisioned customer has no history, so this purchase is
	// their first
	hasHistory := false
	if !created {
		hasHistory, err = s.transactionRepo.HasAnyForCustomer(ctx, customer.ID)
		if err != nil {
			return nil, err
		}
	}

	breakdown, err := s.calculator.Calculate(ctx, tenantID, req.Amount, loyalty.CustomerState{
		HasTransactions: hasHistory,
	}, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	result := &AccrualResult{
		PointsAwarded: breakdown.TotalPoints,
		BasePoints:    breakdown.BasePoints,
		CampaignID:    breakdown.CampaignID,
		CampaignName:  breakdown.CampaignName,
	}

	if breakdown.TotalPoints > 0 {
		description := req.Description
		if description == "" {
			description = "Purchase of " + req.Amount.StringFixed(2)
		}

		entry, err := s.ledger.ProcessTransaction(ctx, customer.ID, breakdown.TotalPoints, loyalty.KindEarn, description)
		if err != nil {
			return nil, err
		}
		txResp := NewTransactionResponse(entry)
		result.Transaction = &txResp
		customer.Balance += breakdown.TotalPoints
	}

	result.Customer = NewCustomerResponse(customer)

	s.logger.Info("Accrual processed",
		zap.String("customer_id", customer.ID.String()),
		zap.String("amount", req.Amount.String()),
		zap.Int64("points", breakdown.TotalPoints))

	return result, nil
}

func (s *AccrualService) findOrCreateCustomer(ctx context.Context, tenantID uuid.UUID, req AccrualRequest) (*loyalty.Customer, bool, error) {
	customer, err := s.customerRepo.FindByExternalID(ctx, req.ExternalID)
	if err == nil {
		return customer, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	customer, err = loyalty.NewCustomer(tenantID, req.ExternalID, req.Email)
	if err != nil {
		return nil, false, err
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		// A concurrent accrual may have created the customer first
		if existing, findErr := s.customerRepo.FindByExternalID(ctx, req.ExternalID); findErr == nil {
			return existing, false, nil
		}
		return nil, false, err
	}

	s.logger.Info("Customer provisioned",
		zap.String("customer_id", customer.ID.String()),
		zap.String("external_id", customer.ExternalID))

	return customer, true, nil
}
