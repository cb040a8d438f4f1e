package loyalty

import (
	"github.com/google/uuid"
	"github.com/loyalty/backend/internal/domain/shared"
)

// TransactionKind tags a ledger entry with its origin
type TransactionKind string

const (
	KindEarn       TransactionKind = "earn"
	KindSpend      TransactionKind = "spend"
	KindExpiration TransactionKind = "expiration"
)

// Valid reports whether the kind is one of the known tags
func (k TransactionKind) Valid() bool {
	switch k {
	case KindEarn, KindSpend, KindExpiration:
		return true
	}
	return false
}

// InferKind derives the kind from the sign of the amount when the caller
// did not supply one: negative amounts are spends, everything else earns.
func InferKind(amount int64) TransactionKind {
	if amount < 0 {
		return KindSpend
	}
	return KindEarn
}

// Transaction is a single entry of the append-only points ledger.
// Positive amounts earn points, negative amounts spend or expire them.
// Entries are immutable once created; the customer's balance is the sum of
// all of their entries.
type Transaction struct {
	shared.TenantEntity
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_tx_customer_created,priority:1"`
	Amount      int64           `gorm:"not null"`
	Kind        TransactionKind `gorm:"type:varchar(20);not null;index"`
	Description string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction creates a ledger entry for the given customer
func NewTransaction(customer *Customer, amount int64, kind TransactionKind, description string) (*Transaction, error) {
	if customer == nil {
		return nil, shared.ErrNotFound
	}
	if !kind.Valid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_KIND", "Unknown transaction kind")
	}
	if amount == 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount cannot be zero")
	}
	return &Transaction{
		TenantEntity: shared.NewTenantEntity(customer.TenantID),
		CustomerID:   customer.ID,
		Amount:       amount,
		Kind:         kind,
		Description:  description,
	}, nil
}
