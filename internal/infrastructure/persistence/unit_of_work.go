package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/loyalty/backend/internal/domain/loyalty"
)

// GormUnitOfWork implements loyalty.UnitOfWork over a GORM transaction.
// The repositories handed to the callback are bound to the same database
// transaction, so a balance guard, a ledger insert, and a counter update
// commit or roll back together.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// WithinTx runs fn inside a single database transaction
func (u *GormUnitOfWork) WithinTx(ctx context.Context, fn func(stores loyalty.LedgerStores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(loyalty.LedgerStores{
			Customers:    NewGormCustomerRepository(tx),
			Transactions: NewGormTransactionRepository(tx),
		})
	})
}

// Ensure GormUnitOfWork implements UnitOfWork
var _ loyalty.UnitOfWork = (*GormUnitOfWork)(nil)
