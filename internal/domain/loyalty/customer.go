package loyalty

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loyalty/backend/internal/domain/shared"
)

// Customer represents an end customer of a tenant's loyalty program.
// It is NOT a platform user: the tenant's own system identifies the customer
// by an external ID which is unique only within that tenant.
//
// Balance is a denormalized counter over the customer's ledger entries.
// It is refreshed in the same database transaction as every ledger insert
// and guarded by a CHECK (balance >= 0) constraint; the append-only ledger
// remains the source of truth.
type Customer struct {
	shared.TenantEntity
	ExternalID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_customer_tenant_external,priority:2"`
	Email      string    `gorm:"type:varchar(255)"`
	JoinedAt   time.Time `gorm:"not null"`
	Balance    int64     `gorm:"not null;default:0;check:balance >= 0"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with a zero balance
func NewCustomer(tenantID uuid.UUID, externalID, email string) (*Customer, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "Customer external ID is required")
	}
	if len(externalID) > 255 {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "Customer external ID cannot exceed 255 characters")
	}
	return &Customer{
		TenantEntity: shared.NewTenantEntity(tenantID),
		ExternalID:   externalID,
		Email:        strings.TrimSpace(email),
		JoinedAt:     time.Now().UTC(),
		Balance:      0,
	}, nil
}

// CanDebit reports whether the given (positive) number of points can be
// spent without overdrawing the balance.
func (c *Customer) CanDebit(points int64) bool {
	return points >= 0 && c.Balance >= points
}
