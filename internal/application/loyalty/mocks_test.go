package loyalty

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/loyalty/backend/internal/domain/identity"
	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/domain/shared"
)

type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) Create(ctx context.Context, campaign *loyalty.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *MockCampaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*loyalty.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loyalty.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindActive(ctx context.Context) ([]loyalty.Campaign, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]loyalty.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) List(ctx context.Context, filter shared.Filter) ([]loyalty.Campaign, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]loyalty.Campaign), args.Get(1).(int64), args.Error(2)
}

func (m *MockCampaignRepository) Save(ctx context.Context, campaign *loyalty.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCampaignCache struct {
	mock.Mock
}

func (m *MockCampaignCache) GetActive(ctx context.Context, tenantID uuid.UUID) ([]loyalty.Campaign, bool, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]loyalty.Campaign), args.Bool(1), args.Error(2)
}

func (m *MockCampaignCache) SetActive(ctx context.Context, tenantID uuid.UUID, campaigns []loyalty.Campaign, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, campaigns, ttl)
	return args.Error(0)
}

func (m *MockCampaignCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

type MockStatsCache struct {
	mock.Mock
}

func (m *MockStatsCache) Get(ctx context.Context, tenantID uuid.UUID) (*loyalty.StatsSnapshot, bool, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*loyalty.StatsSnapshot), args.Bool(1), args.Error(2)
}

func (m *MockStatsCache) Set(ctx context.Context, tenantID uuid.UUID, snapshot *loyalty.StatsSnapshot, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, snapshot, ttl)
	return args.Error(0)
}

func (m *MockStatsCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

type MockBalanceCache struct {
	mock.Mock
}

func (m *MockBalanceCache) Get(ctx context.Context, customerID uuid.UUID) (int64, bool, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockBalanceCache) Set(ctx context.Context, customerID uuid.UUID, balance int64, ttl time.Duration) error {
	args := m.Called(ctx, customerID, balance, ttl)
	return args.Error(0)
}

func (m *MockBalanceCache) Invalidate(ctx context.Context, customerID uuid.UUID) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) Create(ctx context.Context, reward *loyalty.Reward) error {
	args := m.Called(ctx, reward)
	return args.Error(0)
}

func (m *MockRewardRepository) FindByID(ctx context.Context, id uuid.UUID) (*loyalty.Reward, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loyalty.Reward), args.Error(1)
}

func (m *MockRewardRepository) List(ctx context.Context, filter shared.Filter) ([]loyalty.Reward, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]loyalty.Reward), args.Get(1).(int64), args.Error(2)
}

func (m *MockRewardRepository) Save(ctx context.Context, reward *loyalty.Reward) error {
	args := m.Called(ctx, reward)
	return args.Error(0)
}

func (m *MockRewardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindActive(ctx context.Context) ([]identity.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

type MockTransactionRepositoryAgg struct {
	mock.Mock
}

func (m *MockTransactionRepositoryAgg) Create(ctx context.Context, tx *loyalty.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepositoryAgg) List(ctx context.Context, filter loyalty.TransactionFilter) ([]loyalty.Transaction, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]loyalty.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepositoryAgg) HasAnyForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepositoryAgg) SumForCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepositoryAgg) SumEarnedThrough(ctx context.Context, customerID uuid.UUID, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, customerID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepositoryAgg) SumConsumedAllTime(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepositoryAgg) KPI(ctx context.Context) (loyalty.KPIRow, error) {
	args := m.Called(ctx)
	return args.Get(0).(loyalty.KPIRow), args.Error(1)
}

func (m *MockTransactionRepositoryAgg) Timeline(ctx context.Context, since time.Time) ([]loyalty.TimelineRow, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]loyalty.TimelineRow), args.Error(1)
}
