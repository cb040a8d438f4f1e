package loyalty

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/identity"
	"github.com/loyalty/backend/internal/domain/loyalty"
)

func TestExpirationJob_Dispatch(t *testing.T) {
	ctx := context.Background()
	targetYear := 2024
	inYear := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	newTenant := func(name string) identity.Tenant {
		tenant, err := identity.NewTenant(name)
		require.NoError(t, err)
		return *tenant
	}

	t.Run("runs every active tenant and totals the results", func(t *testing.T) {
		ledger := newMemoryLedger()
		first := newTenant("First Shop")
		second := newTenant("Second Shop")

		customerA, err := loyalty.NewCustomer(first.ID, "a", "")
		require.NoError(t, err)
		ledger.addCustomer(customerA)
		seedEntry(t, ledger, customerA, 100, loyalty.KindEarn, inYear)

		customerB, err := loyalty.NewCustomer(second.ID, "b", "")
		require.NoError(t, err)
		ledger.addCustomer(customerB)
		seedEntry(t, ledger, customerB, 60, loyalty.KindEarn, inYear)
		seedEntry(t, ledger, customerB, -60, loyalty.KindSpend, inYear)

		tenantRepo := new(MockTenantRepository)
		tenantRepo.On("FindActive", ctx).Return([]identity.Tenant{first, second}, nil)

		log := zap.NewNop()
		ledgerService := NewLedgerService(&memoryUnitOfWork{ledger: ledger}, nil, nil, time.Minute, log)
		job := NewExpirationJob(tenantRepo, &memoryCustomerStore{ledger: ledger}, ledgerService, 100, log)

		summary, err := job.Dispatch(ctx, targetYear)

		require.NoError(t, err)
		assert.Equal(t, 2, summary.TenantsProcessed)
		// only customer A had an unspent remainder
		assert.Equal(t, int64(1), summary.CustomersAffected)
		assert.Equal(t, int64(100), summary.TotalExpired)
		assert.Equal(t, int64(0), summary.Failures)
		assert.Equal(t, int64(0), ledger.balance(customerA.ID))
	})

	t.Run("dispatch is idempotent per target year", func(t *testing.T) {
		ledger := newMemoryLedger()
		tenant := newTenant("Shop")
		customer, err := loyalty.NewCustomer(tenant.ID, "a", "")
		require.NoError(t, err)
		ledger.addCustomer(customer)
		seedEntry(t, ledger, customer, 80, loyalty.KindEarn, inYear)

		tenantRepo := new(MockTenantRepository)
		tenantRepo.On("FindActive", ctx).Return([]identity.Tenant{tenant}, nil)

		log := zap.NewNop()
		ledgerService := NewLedgerService(&memoryUnitOfWork{ledger: ledger}, nil, nil, time.Minute, log)
		job := NewExpirationJob(tenantRepo, &memoryCustomerStore{ledger: ledger}, ledgerService, 100, log)

		first, err := job.Dispatch(ctx, targetYear)
		require.NoError(t, err)
		assert.Equal(t, int64(80), first.TotalExpired)

		second, err := job.Dispatch(ctx, targetYear)
		require.NoError(t, err)
		assert.Equal(t, int64(0), second.TotalExpired)
		assert.Equal(t, int64(0), second.CustomersAffected)
	})

	t.Run("tenant listing failure aborts the dispatch", func(t *testing.T) {
		tenantRepo := new(MockTenantRepository)
		tenantRepo.On("FindActive", ctx).Return(nil, assert.AnError)

		log := zap.NewNop()
		ledger := newMemoryLedger()
		ledgerService := NewLedgerService(&memoryUnitOfWork{ledger: ledger}, nil, nil, time.Minute, log)
		job := NewExpirationJob(tenantRepo, &memoryCustomerStore{ledger: ledger}, ledgerService, 100, log)

		_, err := job.Dispatch(ctx, targetYear)

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestExpirationJob_RunTenant(t *testing.T) {
	ctx := context.Background()
	targetYear := 2024
	inYear := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("customers with nothing to expire are untouched", func(t *testing.T) {
		ledger := newMemoryLedger()
		tenant, err := identity.NewTenant("Shop")
		require.NoError(t, err)
		customer, err := loyalty.NewCustomer(tenant.ID, "a", "")
		require.NoError(t, err)
		ledger.addCustomer(customer)

		log := zap.NewNop()
		ledgerService := NewLedgerService(&memoryUnitOfWork{ledger: ledger}, nil, nil, time.Minute, log)
		job := NewExpirationJob(new(MockTenantRepository), &memoryCustomerStore{ledger: ledger}, ledgerService, 100, log)

		summary, err := job.RunTenant(ctx, tenant.ID, targetYear)

		require.NoError(t, err)
		assert.Equal(t, int64(0), summary.CustomersAffected)
		assert.Equal(t, 0, ledger.entryCount())
	})

	t.Run("expires each customer's remainder", func(t *testing.T) {
		ledger := newMemoryLedger()
		tenant, err := identity.NewTenant("Shop")
		require.NoError(t, err)

		for _, externalID := range []string{"a", "b"} {
			customer, err := loyalty.NewCustomer(tenant.ID, externalID, "")
			require.NoError(t, err)
			ledger.addCustomer(customer)
			seedEntry(t, ledger, customer, 50, loyalty.KindEarn, inYear)
		}

		log := zap.NewNop()
		ledgerService := NewLedgerService(&memoryUnitOfWork{ledger: ledger}, nil, nil, time.Minute, log)
		job := NewExpirationJob(new(MockTenantRepository), &memoryCustomerStore{ledger: ledger}, ledgerService, 100, log)

		summary, err := job.RunTenant(ctx, tenant.ID, targetYear)

		require.NoError(t, err)
		assert.Equal(t, int64(2), summary.CustomersAffected)
		assert.Equal(t, int64(100), summary.TotalExpired)
	})
}
