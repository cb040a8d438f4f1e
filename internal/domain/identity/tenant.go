package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/loyalty/backend/internal/domain/shared"
)

// Tenant represents an isolated business client of the platform.
// All loyalty data (customers, campaigns, rewards, ledger entries) is owned
// by exactly one tenant. Tenants are never physically deleted while they
// still own data; deactivation is a soft flag.
type Tenant struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(255);not null"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new active tenant
func NewTenant(name string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name is required")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot exceed 255 characters")
	}
	return &Tenant{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		IsActive:   true,
	}, nil
}

// Deactivate soft-disables the tenant. Its data remains in place but API
// credentials stop resolving and batch jobs skip it.
func (t *Tenant) Deactivate() {
	t.IsActive = false
}

// Activate re-enables a previously deactivated tenant
func (t *Tenant) Activate() {
	t.IsActive = true
}

// TenantID is a convenience alias used in context propagation helpers
func (t *Tenant) TenantID() uuid.UUID {
	return t.ID
}
