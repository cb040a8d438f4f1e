package loyalty

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/identity"
	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/infrastructure/logger"
)

// ExpirationJob runs the yearly points expiration across tenants. It is
// idempotent per target year: re-running expires nothing new. Per-customer
// failures are counted and logged but never stop the run.
type ExpirationJob struct {
	tenantRepo   identity.TenantRepository
	customerRepo loyalty.CustomerRepository
	ledger       *LedgerService
	batchSize    int
	logger       *zap.Logger
}

// NewExpirationJob creates a new ExpirationJob
func NewExpirationJob(
	tenantRepo identity.TenantRepository,
	customerRepo loyalty.CustomerRepository,
	ledger *LedgerService,
	batchSize int,
	log *zap.Logger,
) *ExpirationJob {
	if batchSize < 1 {
		batchSize = 1000
	}
	return &ExpirationJob{
		tenantRepo:   tenantRepo,
		customerRepo: customerRepo,
		ledger:       ledger,
		batchSize:    batchSize,
		logger:       log,
	}
}

// Dispatch runs the expiration for every active tenant
func (j *ExpirationJob) Dispatch(ctx context.Context, targetYear int) (*ExpirationSummary, error) {
	tenants, err := j.tenantRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	summary := &ExpirationSummary{TargetYear: targetYear}
	for i := range tenants {
		tenantSummary, err := j.RunTenant(ctx, tenants[i].ID, targetYear)
		if err != nil {
			j.logger.Error("Tenant expiration run failed",
				zap.String("tenant_id", tenants[i].ID.String()),
				zap.Error(err))
			summary.Failures++
			continue
		}
		summary.TenantsProcessed++
		summary.CustomersAffected += tenantSummary.CustomersAffected
		summary.TotalExpired += tenantSummary.TotalExpired
		summary.Failures += tenantSummary.Failures
	}

	j.logger.Info("Expiration dispatch finished",
		zap.Int("target_year", targetYear),
		zap.Int("tenants", summary.TenantsProcessed),
		zap.Int64("customers_affected", summary.CustomersAffected),
		zap.Int64("total_expired", summary.TotalExpired),
		zap.Int64("failures", summary.Failures))

	return summary, nil
}

// RunTenant streams the tenant's customers and expires each one's
// remainder for the target year
func (j *ExpirationJob) RunTenant(ctx context.Context, tenantID uuid.UUID, targetYear int) (*ExpirationSummary, error) {
	log := logger.FromContext(ctx)
	tenantCtx, log := logger.WithTenantID(ctx, log, tenantID.String())

	summary := &ExpirationSummary{TargetYear: targetYear}
	err := j.customerRepo.ForEach(tenantCtx, j.batchSize, func(customer *loyalty.Customer) error {
		expired, err := j.ledger.ExpireYearlyPoints(tenantCtx, customer.ID, targetYear)
		if err != nil {
			// One bad customer must not abort the batch
			j.logger.Error("Customer expiration failed",
				zap.String("customer_id", customer.ID.String()),
				zap.Error(err))
			summary.Failures++
			return nil
		}
		if expired > 0 {
			summary.CustomersAffected++
			summary.TotalExpired += expired
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Tenant expiration run finished",
		zap.Int("target_year", targetYear),
		zap.Int64("customers_affected", summary.CustomersAffected),
		zap.Int64("total_expired", summary.TotalExpired))

	return summary, nil
}
