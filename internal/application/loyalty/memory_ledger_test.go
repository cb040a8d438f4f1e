package loyalty

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/domain/shared"
	"github.com/loyalty/backend/internal/infrastructure/logger"
)

// memoryLedger is an in-memory stand-in for the customer and transaction
// stores, with the same balance-guard semantics as the SQL implementation.
type memoryLedger struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*loyalty.Customer
	entries   []*loyalty.Transaction
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{customers: make(map[uuid.UUID]*loyalty.Customer)}
}

func (l *memoryLedger) addCustomer(customer *loyalty.Customer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.customers[customer.ID] = customer
}

func (l *memoryLedger) addEntry(entry *loyalty.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func (l *memoryLedger) entryCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *memoryLedger) lastEntry() *loyalty.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return nil
	}
	return l.entries[len(l.entries)-1]
}

func (l *memoryLedger) balance(id uuid.UUID) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.customers[id].Balance
}

func (l *memoryLedger) setBalance(id uuid.UUID, balance int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.customers[id].Balance = balance
}

type memoryCustomerStore struct{ ledger *memoryLedger }

func (s *memoryCustomerStore) Create(_ context.Context, customer *loyalty.Customer) error {
	s.ledger.addCustomer(customer)
	return nil
}

func (s *memoryCustomerStore) FindByID(_ context.Context, id uuid.UUID) (*loyalty.Customer, error) {
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()
	customer, ok := s.ledger.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *customer
	return &copied, nil
}

func (s *memoryCustomerStore) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*loyalty.Customer, error) {
	return s.FindByID(ctx, id)
}

func (s *memoryCustomerStore) FindByExternalID(_ context.Context, externalID string) (*loyalty.Customer, error) {
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()
	for _, customer := range s.ledger.customers {
		if customer.ExternalID == externalID {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *memoryCustomerStore) ApplyBalanceDelta(_ context.Context, id uuid.UUID, delta int64) (bool, error) {
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()
	customer, ok := s.ledger.customers[id]
	if !ok {
		return false, nil
	}
	if customer.Balance+delta < 0 {
		return false, nil
	}
	customer.Balance += delta
	return true, nil
}

func (s *memoryCustomerStore) Search(_ context.Context, _ shared.Filter) ([]loyalty.Customer, int64, error) {
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()
	customers := make([]loyalty.Customer, 0, len(s.ledger.customers))
	for _, customer := range s.ledger.customers {
		customers = append(customers, *customer)
	}
	return customers, int64(len(customers)), nil
}

func (s *memoryCustomerStore) ForEach(ctx context.Context, _ int, fn func(customer *loyalty.Customer) error) error {
	tenantID := logger.GetTenantID(ctx)
	s.ledger.mu.Lock()
	customers := make([]*loyalty.Customer, 0, len(s.ledger.customers))
	for _, customer := range s.ledger.customers {
		if tenantID != "" && customer.TenantID.String() != tenantID {
			continue
		}
		copied := *customer
		customers = append(customers, &copied)
	}
	s.ledger.mu.Unlock()
	for _, customer := range customers {
		if err := fn(customer); err != nil {
			return err
		}
	}
	return nil
}

type memoryTransactionStore struct{ ledger *memoryLedger }

func (s *memoryTransactionStore) Create(_ context.Context, tx *loyalty.Transaction) error {
	s.ledger.addEntry(tx)
	return nil
}

func (s *memoryTransactionStore) List(_ context.Context, filter loyalty.TransactionFilter) ([]loyalty.Transaction, int64, error) {
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()
	var matched []loyalty.Transaction
	for _, entry := range s.ledger.entries {
		if filter.CustomerID != uuid.Nil && entry.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Kind != "" && entry.Kind != filter.Kind {
			continue
		}
		matched = append(matched, *entry)
	}
	return matched, int64(len(matched)), nil
}

func (s *memoryTransactionStore) HasAnyForCustomer(_ context.Context, customerID uuid.UUID) (bool, error) {
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()
	for _, entry := range s.ledger.entries {
		if entry.CustomerID == customerID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryTransactionStore) SumForCustomer(_ context.Context, customerID uuid.UUID) (int64, error) {
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()
	var sum int64
	for _, entry := range s.ledger.entries {
		if entry.CustomerID == customerID {
			sum += entry.Amount
		}
	}
	return sum, nil
}

func (s *memoryTransactionStore) SumEarnedThrough(_ context.Context, customerID uuid.UUID, cutoff time.Time) (int64, error) {
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()
	var sum int64
	for _, entry := range s.ledger.entries {
		if entry.CustomerID == customerID && entry.Kind == loyalty.KindEarn && !entry.CreatedAt.After(cutoff) {
			sum += entry.Amount
		}
	}
	return sum, nil
}

func (s *memoryTransactionStore) SumConsumedAllTime(_ context.Context, customerID uuid.UUID) (int64, error) {
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()
	var sum int64
	for _, entry := range s.ledger.entries {
		if entry.CustomerID == customerID && (entry.Kind == loyalty.KindSpend || entry.Kind == loyalty.KindExpiration) {
			sum += -entry.Amount
		}
	}
	return sum, nil
}

func (s *memoryTransactionStore) KPI(_ context.Context) (loyalty.KPIRow, error) {
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()
	var row loyalty.KPIRow
	seen := make(map[uuid.UUID]struct{})
	for _, entry := range s.ledger.entries {
		seen[entry.CustomerID] = struct{}{}
		row.CurrentLiability += entry.Amount
		if entry.Kind == loyalty.KindEarn {
			row.TotalIssued += entry.Amount
		}
		if entry.Kind == loyalty.KindSpend {
			row.TotalRedeemed += -entry.Amount
		}
	}
	row.TotalCustomers = int64(len(seen))
	return row, nil
}

func (s *memoryTransactionStore) Timeline(_ context.Context, _ time.Time) ([]loyalty.TimelineRow, error) {
	return nil, nil
}

// memoryUnitOfWork hands out stores over the shared in-memory ledger. The
// per-operation mutex in the stores stands in for row locking.
type memoryUnitOfWork struct{ ledger *memoryLedger }

func (u *memoryUnitOfWork) WithinTx(_ context.Context, fn func(stores loyalty.LedgerStores) error) error {
	return fn(loyalty.LedgerStores{
		Customers:    &memoryCustomerStore{ledger: u.ledger},
		Transactions: &memoryTransactionStore{ledger: u.ledger},
	})
}

// countingUnitOfWork records how many transactions an operation opens
type countingUnitOfWork struct {
	inner loyalty.UnitOfWork
	calls int
}

func (u *countingUnitOfWork) WithinTx(ctx context.Context, fn func(stores loyalty.LedgerStores) error) error {
	u.calls++
	return u.inner.WithinTx(ctx, fn)
}
