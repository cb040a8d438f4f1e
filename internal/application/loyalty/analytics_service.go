package loyalty

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/loyalty"
)

// DefaultTimelineDays is the window length of the cached analytics snapshot
const DefaultTimelineDays = 30

// AnalyticsService computes dashboard statistics for a tenant. The default
// window is cached; ledger writes invalidate the snapshot so the dashboard
// never shows totals older than the last write.
type AnalyticsService struct {
	transactionRepo loyalty.TransactionRepository
	statsCache      loyalty.StatsCache
	cacheTTL        time.Duration
	logger          *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(
	transactionRepo loyalty.TransactionRepository,
	statsCache loyalty.StatsCache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		transactionRepo: transactionRepo,
		statsCache:      statsCache,
		cacheTTL:        cacheTTL,
		logger:          logger,
	}
}

// Stats returns the tenant's KPI block and daily activity timeline over
// the given number of days. Only the default window is cached; other
// windows are computed on demand.
func (s *AnalyticsService) Stats(ctx context.Context, tenantID uuid.UUID, days int) (*StatsResponse, error) {
	if days <= 0 {
		days = DefaultTimelineDays
	}

	cacheable := days == DefaultTimelineDays && s.statsCache != nil

	if cacheable {
		snapshot, ok, err := s.statsCache.Get(ctx, tenantID)
		if err != nil {
			s.logger.Warn("Stats cache read failed", zap.Error(err))
		} else if ok {
			return snapshotToResponse(snapshot, true), nil
		}
	}

	kpi, err := s.transactionRepo.KPI(ctx)
	if err != nil {
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	timeline, err := s.transactionRepo.Timeline(ctx, since)
	if err != nil {
		return nil, err
	}

	snapshot := &loyalty.StatsSnapshot{
		KPI:         kpi,
		Timeline:    timeline,
		GeneratedAt: time.Now().UTC(),
	}

	if cacheable {
		if err := s.statsCache.Set(ctx, tenantID, snapshot, s.cacheTTL); err != nil {
			s.logger.Warn("Stats cache write failed", zap.Error(err))
		}
	}

	return snapshotToResponse(snapshot, false), nil
}

func snapshotToResponse(snapshot *loyalty.StatsSnapshot, cached bool) *StatsResponse {
	timeline := snapshot.Timeline
	if timeline == nil {
		timeline = []loyalty.TimelineRow{}
	}
	return &StatsResponse{
		TotalCustomers:   snapshot.KPI.TotalCustomers,
		TotalIssued:      snapshot.KPI.TotalIssued,
		TotalRedeemed:    snapshot.KPI.TotalRedeemed,
		CurrentLiability: snapshot.KPI.CurrentLiability,
		RedemptionRate:   redemptionRate(snapshot.KPI),
		Timeline:         timeline,
		GeneratedAt:      snapshot.GeneratedAt,
		Cached:           cached,
	}
}

// redemptionRate is the share of issued points already redeemed, as a
// percentage. A tenant with no earn activity reports zero rather than
// dividing by it.
func redemptionRate(kpi loyalty.KPIRow) float64 {
	if kpi.TotalIssued <= 0 {
		return 0
	}
	return float64(kpi.TotalRedeemed) / float64(kpi.TotalIssued) * 100
}
