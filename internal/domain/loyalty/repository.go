package loyalty

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loyalty/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence.
// Reads are tenant-scoped through the isolation gate; FindByID with an
// unscoped context behaves in system mode.
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	// FindByIDForUpdate fetches the customer with a row-level write lock
	// where the dialect supports it. Must be called inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByExternalID(ctx context.Context, externalID string) (*Customer, error)
	// ApplyBalanceDelta atomically adjusts the cached balance, guarded so
	// the result can never go negative. Returns false when the guard
	// rejected the adjustment.
	ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta int64) (bool, error)
	Search(ctx context.Context, filter shared.Filter) ([]Customer, int64, error)
	// ForEach streams customers of the current tenant in batches, calling
	// fn once per customer. Used by batch jobs that must not load the full
	// customer set into memory.
	ForEach(ctx context.Context, batchSize int, fn func(customer *Customer) error) error
}

// TransactionFilter narrows ledger entry listings
type TransactionFilter struct {
	shared.Filter
	CustomerID uuid.UUID
	Kind       TransactionKind
}

// TransactionRepository defines the interface for ledger entry persistence.
// Entries are append-only: there is deliberately no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	List(ctx context.Context, filter TransactionFilter) ([]Transaction, int64, error)
	HasAnyForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error)
	// SumForCustomer aggregates all entry amounts for a customer; used for
	// balance reconciliation audits.
	SumForCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	// SumEarnedThrough aggregates earn entries created at or before cutoff.
	SumEarnedThrough(ctx context.Context, customerID uuid.UUID, cutoff time.Time) (int64, error)
	// SumConsumedAllTime aggregates spend and expiration entries over all
	// time, returned as a non-negative magnitude.
	SumConsumedAllTime(ctx context.Context, customerID uuid.UUID) (int64, error)
	KPI(ctx context.Context) (KPIRow, error)
	Timeline(ctx context.Context, since time.Time) ([]TimelineRow, error)
}

// KPIRow is the raw aggregate backing the dashboard KPI block.
// TotalCustomers counts distinct customers with ledger activity, and
// CurrentLiability is the signed sum of every entry, so expirations
// reduce it even though they are neither issued nor redeemed points.
type KPIRow struct {
	TotalCustomers   int64
	TotalIssued      int64
	TotalRedeemed    int64
	CurrentLiability int64
}

// TimelineRow is one calendar day of ledger activity
type TimelineRow struct {
	Date     string `json:"date"`
	Issued   int64  `json:"issued"`
	Redeemed int64  `json:"redeemed"`
}

// CampaignRepository defines the interface for campaign persistence
type CampaignRepository interface {
	Create(ctx context.Context, campaign *Campaign) error
	FindByID(ctx context.Context, id uuid.UUID) (*Campaign, error)
	FindActive(ctx context.Context) ([]Campaign, error)
	List(ctx context.Context, filter shared.Filter) ([]Campaign, int64, error)
	Save(ctx context.Context, campaign *Campaign) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RewardRepository defines the interface for reward persistence
type RewardRepository interface {
	Create(ctx context.Context, reward *Reward) error
	FindByID(ctx context.Context, id uuid.UUID) (*Reward, error)
	List(ctx context.Context, filter shared.Filter) ([]Reward, int64, error)
	Save(ctx context.Context, reward *Reward) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LedgerStores bundles the repositories that participate in a single ledger
// write. Inside a unit of work they are bound to the same database
// transaction, so the balance check, the ledger insert, and the counter
// update commit or roll back as one.
type LedgerStores struct {
	Customers    CustomerRepository
	Transactions TransactionRepository
}

// UnitOfWork runs a function within one storage transaction
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(stores LedgerStores) error) error
}
