// Package tenant provides multi-tenant database scoping for GORM.
//
// This package implements automatic tenant_id filtering to prevent
// cross-tenant data access at the repository layer. It extracts the tenant
// ID from the request context and automatically applies WHERE tenant_id = ?
// conditions to queries, updates and deletes, and stamps tenant_id onto
// rows being created. EnableAutoTenantFilter installs the callbacks on a
// GORM instance.
//
// A context without a tenant ID is treated as system mode: no filter is
// applied and reads see all tenants. Creates are never allowed without a
// tenant: a write that cannot resolve a tenant from the entity or the
// context fails with ErrTenantIDRequired.
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when tenant_id is required but not found
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

// ErrInvalidTenantID is returned when tenant_id format is invalid
var ErrInvalidTenantID = errors.New("invalid tenant_id format")

// TenantScope applies an explicit tenant filter, for queries that target a
// tenant other than the one carried by the request context
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
