package loyalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loyalty/backend/internal/domain/loyalty"
)

// AccrualRequest records a purchase and awards points for it. The customer
// is identified by the merchant's own external ID and is provisioned on
// first sight.
type AccrualRequest struct {
	ExternalID  string          `json:"external_id" binding:"required,max=255"`
	Email       string          `json:"email" binding:"omitempty,email"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"max=1000"`
}

// AccrualResult describes the outcome of an accrual
type AccrualResult struct {
	Customer      CustomerResponse     `json:"customer"`
	PointsAwarded int64                `json:"points_awarded"`
	BasePoints    int64                `json:"base_points"`
	CampaignID    *uuid.UUID           `json:"campaign_id,omitempty"`
	CampaignName  string               `json:"campaign_name,omitempty"`
	Transaction   *TransactionResponse `json:"transaction,omitempty"`
}

// RedemptionRequest spends points, either against a catalog reward or as a
// free-form debit. The customer is identified by internal ID or by the
// merchant's external ID; one of the two is required.
type RedemptionRequest struct {
	CustomerID         uuid.UUID  `json:"customer_id" binding:"omitempty"`
	CustomerExternalID string     `json:"customer_external_id" binding:"omitempty,max=255"`
	RewardID           *uuid.UUID `json:"reward_id"`
	Points             int64      `json:"points" binding:"omitempty,gt=0"`
	Description        string     `json:"description" binding:"max=1000"`
}

// RedemptionResult describes the outcome of a redemption
type RedemptionResult struct {
	Customer    CustomerResponse    `json:"customer"`
	PointsSpent int64               `json:"points_spent"`
	RewardID    *uuid.UUID          `json:"reward_id,omitempty"`
	RewardName  string              `json:"reward_name,omitempty"`
	Transaction TransactionResponse `json:"transaction"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email,omitempty"`
	JoinedAt   time.Time `json:"joined_at"`
	Balance    int64     `json:"balance"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewCustomerResponse maps a customer entity to its response form
func NewCustomerResponse(c *loyalty.Customer) CustomerResponse {
	return CustomerResponse{
		ID:         c.ID,
		ExternalID: c.ExternalID,
		Email:      c.Email,
		JoinedAt:   c.JoinedAt,
		Balance:    c.Balance,
		CreatedAt:  c.CreatedAt,
	}
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID          uuid.UUID               `json:"id"`
	CustomerID  uuid.UUID               `json:"customer_id"`
	Amount      int64                   `json:"amount"`
	Kind        loyalty.TransactionKind `json:"kind"`
	Description string                  `json:"description,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

// NewTransactionResponse maps a ledger entry to its response form
func NewTransactionResponse(tx *loyalty.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		CustomerID:  tx.CustomerID,
		Amount:      tx.Amount,
		Kind:        tx.Kind,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
}

// CreateCampaignRequest contains input for creating a campaign
type CreateCampaignRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=1000"`
	PointsValue int64  `json:"points_value" binding:"gte=0"`
	RewardType  string `json:"reward_type" binding:"required,oneof=multiplier bonus"`
	Rules       string `json:"rules"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateCampaignRequest contains input for updating a campaign.
// Nil fields are left unchanged.
type UpdateCampaignRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	PointsValue *int64  `json:"points_value" binding:"omitempty,gte=0"`
	RewardType  *string `json:"reward_type" binding:"omitempty,oneof=multiplier bonus"`
	Rules       *string `json:"rules"`
	IsActive    *bool   `json:"is_active"`
}

// CampaignResponse represents a campaign in API responses
type CampaignResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	PointsValue int64              `json:"points_value"`
	RewardType  loyalty.RewardType `json:"reward_type"`
	Rules       string             `json:"rules"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NewCampaignResponse maps a campaign entity to its response form
func NewCampaignResponse(c *loyalty.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		PointsValue: c.PointsValue,
		RewardType:  c.RewardType,
		Rules:       c.Rules,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateRewardRequest contains input for creating a reward
type CreateRewardRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=1000"`
	PointCost   int64  `json:"point_cost" binding:"required,gt=0"`
}

// UpdateRewardRequest contains input for updating a reward.
// Nil fields are left unchanged.
type UpdateRewardRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	PointCost   *int64  `json:"point_cost" binding:"omitempty,gt=0"`
	IsActive    *bool   `json:"is_active"`
}

// RewardResponse represents a reward in API responses
type RewardResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PointCost   int64     `json:"point_cost"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRewardResponse maps a reward entity to its response form
func NewRewardResponse(r *loyalty.Reward) RewardResponse {
	return RewardResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		PointCost:   r.PointCost,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// StatsResponse is the analytics payload for the dashboard
type StatsResponse struct {
	TotalCustomers   int64                 `json:"total_customers"`
	TotalIssued      int64                 `json:"total_issued"`
	TotalRedeemed    int64                 `json:"total_redeemed"`
	CurrentLiability int64                 `json:"current_liability"`
	RedemptionRate   float64               `json:"redemption_rate"`
	Timeline         []loyalty.TimelineRow `json:"timeline"`
	GeneratedAt      time.Time             `json:"generated_at"`
	Cached           bool                  `json:"cached"`
}

// ExpirationSummary reports the outcome of one expiration run
type ExpirationSummary struct {
	TargetYear        int   `json:"target_year"`
	TenantsProcessed  int   `json:"tenants_processed"`
	CustomersAffected int64 `json:"customers_affected"`
	TotalExpired      int64 `json:"total_expired"`
	Failures          int64 `json:"failures"`
}
