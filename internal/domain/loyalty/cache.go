package loyalty

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StatsSnapshot is the cached analytics payload for one tenant
type StatsSnapshot struct {
	KPI         KPIRow        `json:"kpi"`
	Timeline    []TimelineRow `json:"timeline"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// CampaignCache caches the active campaign set per tenant. The rule engine
// consults it on every accrual, so a miss falls through to storage and a
// write-side invalidation keeps awards honest.
type CampaignCache interface {
	GetActive(ctx context.Context, tenantID uuid.UUID) ([]Campaign, bool, error)
	SetActive(ctx context.Context, tenantID uuid.UUID, campaigns []Campaign, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// StatsCache caches the default analytics snapshot per tenant
type StatsCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*StatsSnapshot, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, snapshot *StatsSnapshot, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// BalanceCache caches customer point balances
type BalanceCache interface {
	Get(ctx context.Context, customerID uuid.UUID) (int64, bool, error)
	Set(ctx context.Context, customerID uuid.UUID, balance int64, ttl time.Duration) error
	Invalidate(ctx context.Context, customerID uuid.UUID) error
}
