package loyalty

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/infrastructure/logger"
)

// LedgerService owns all writes to the points ledger. Every mutation flows
// through ProcessTransaction, which performs the balance guard, the ledger
// append, and the counter update in one storage transaction.
type LedgerService struct {
	uow          loyalty.UnitOfWork
	balanceCache loyalty.BalanceCache
	statsCache   loyalty.StatsCache
	balanceTTL   time.Duration
	logger       *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	uow loyalty.UnitOfWork,
	balanceCache loyalty.BalanceCache,
	statsCache loyalty.StatsCache,
	balanceTTL time.Duration,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		uow:          uow,
		balanceCache: balanceCache,
		statsCache:   statsCache,
		balanceTTL:   balanceTTL,
		logger:       logger,
	}
}

// ProcessTransaction appends a ledger entry for the customer and adjusts
// the balance counter atomically. A kind of "" infers earn or spend from
// the sign of the amount. A debit that would overdraw the balance fails
// with InsufficientFundsError and leaves no trace in the ledger.
func (s *LedgerService) ProcessTransaction(ctx context.Context, customerID uuid.UUID, amount int64, kind loyalty.TransactionKind, description string) (*loyalty.Transaction, error) {
	if kind == "" {
		kind = loyalty.InferKind(amount)
	}

	var entry *loyalty.Transaction
	err := s.uow.WithinTx(ctx, func(stores loyalty.LedgerStores) error {
		customer, err := stores.Customers.FindByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}

		entry, err = s.appendEntry(ctx, stores, customer, amount, kind, description)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, customerID)

	s.logger.Info("Ledger entry recorded",
		zap.String("customer_id", customerID.String()),
		zap.Int64("amount", amount),
		zap.String("kind", string(kind)))

	return entry, nil
}

// appendEntry performs the ledger append and the balance counter update.
// It must run inside a transaction that already holds the customer's row
// lock.
func (s *LedgerService) appendEntry(ctx context.Context, stores loyalty.LedgerStores, customer *loyalty.Customer, amount int64, kind loyalty.TransactionKind, description string) (*loyalty.Transaction, error) {
	entry, err := loyalty.NewTransaction(customer, amount, kind, description)
	if err != nil {
		return nil, err
	}

	ok, err := stores.Customers.ApplyBalanceDelta(ctx, customer.ID, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &loyalty.InsufficientFundsError{
			Balance:  customer.Balance,
			Required: -amount,
		}
	}

	if err := stores.Transactions.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetBalance returns the customer's current balance, served from cache
// when possible
func (s *LedgerService) GetBalance(ctx context.Context, customerID uuid.UUID) (int64, error) {
	if s.balanceCache != nil {
		balance, ok, err := s.balanceCache.Get(ctx, customerID)
		if err != nil {
			s.logger.Warn("Balance cache read failed", zap.Error(err))
		} else if ok {
			return balance, nil
		}
	}

	var balance int64
	err := s.uow.WithinTx(ctx, func(stores loyalty.LedgerStores) error {
		customer, err := stores.Customers.FindByID(ctx, customerID)
		if err != nil {
			return err
		}
		balance = customer.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}

	if s.balanceCache != nil {
		if err := s.balanceCache.Set(ctx, customerID, balance, s.balanceTTL); err != nil {
			s.logger.Warn("Balance cache write failed", zap.Error(err))
		}
	}

	return balance, nil
}

// RecomputeBalance audits the balance counter against the ledger sum and
// repairs any drift. Returns the authoritative ledger sum.
func (s *LedgerService) RecomputeBalance(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var sum int64
	err := s.uow.WithinTx(ctx, func(stores loyalty.LedgerStores) error {
		customer, err := stores.Customers.FindByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}

		sum, err = stores.Transactions.SumForCustomer(ctx, customerID)
		if err != nil {
			return err
		}

		if customer.Balance == sum {
			return nil
		}

		s.logger.Warn("Balance counter drift detected",
			zap.String("customer_id", customerID.String()),
			zap.Int64("counter", customer.Balance),
			zap.Int64("ledger_sum", sum))

		ok, err := stores.Customers.ApplyBalanceDelta(ctx, customerID, sum-customer.Balance)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("failed to repair balance for customer %s", customerID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if s.balanceCache != nil {
		_ = s.balanceCache.Invalidate(ctx, customerID)
	}
	return sum, nil
}

// ExpireYearlyPoints expires the unspent remainder of points the customer
// earned through the end of targetYear. Consumption is counted FIFO:
// everything ever spent or expired is deducted from the oldest points
// first, so only the surviving remainder expires. Running the same year
// twice is a no-op because the first run's expiration entry raises the
// consumed total by exactly the expired amount.
func (s *LedgerService) ExpireYearlyPoints(ctx context.Context, customerID uuid.UUID, targetYear int) (int64, error) {
	cutoff := yearCutoff(targetYear)

	// The sums and the expiration entry share one transaction under the
	// customer's row lock, so a concurrent spend cannot commit between
	// the remainder computation and the debit.
	var expired int64
	err := s.uow.WithinTx(ctx, func(stores loyalty.LedgerStores) error {
		customer, err := stores.Customers.FindByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}

		earned, err := stores.Transactions.SumEarnedThrough(ctx, customerID, cutoff)
		if err != nil {
			return err
		}
		consumed, err := stores.Transactions.SumConsumedAllTime(ctx, customerID)
		if err != nil {
			return err
		}

		remainder := earned - consumed
		if remainder <= 0 {
			return nil
		}

		description := fmt.Sprintf("Expiration of points earned through %d", targetYear)
		if _, err := s.appendEntry(ctx, stores, customer, -remainder, loyalty.KindExpiration, description); err != nil {
			return err
		}
		expired = remainder
		return nil
	})
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		s.invalidate(ctx, customerID)
		s.logger.Info("Ledger entry recorded",
			zap.String("customer_id", customerID.String()),
			zap.Int64("amount", -expired),
			zap.String("kind", string(loyalty.KindExpiration)))
	}

	return expired, nil
}

// yearCutoff returns the last representable instant of the target year in
// UTC
func yearCutoff(year int) time.Time {
	return time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Microsecond)
}

// invalidate drops the cache entries made stale by a ledger write
func (s *LedgerService) invalidate(ctx context.Context, customerID uuid.UUID) {
	if s.balanceCache != nil {
		if err := s.balanceCache.Invalidate(ctx, customerID); err != nil {
			s.logger.Warn("Balance cache invalidation failed", zap.Error(err))
		}
	}
	if s.statsCache != nil {
		if tenantID, err := uuid.Parse(logger.GetTenantID(ctx)); err == nil {
			if err := s.statsCache.Invalidate(ctx, tenantID); err != nil {
				s.logger.Warn("Stats cache invalidation failed", zap.Error(err))
			}
		}
	}
}
