package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository defines the interface for tenant persistence.
// Tenants are not tenant-scoped themselves; these methods run in system mode.
type TenantRepository interface {
	Create(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindActive(ctx context.Context) ([]Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error
}

// APIKeyRepository defines the interface for API credential persistence
type APIKeyRepository interface {
	Create(ctx context.Context, key *APIKey) error
	// FindActiveByKey resolves a presented secret to its credential.
	// Inactive keys are not resolved.
	FindActiveByKey(ctx context.Context, key string) (*APIKey, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]APIKey, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*APIKey, error)
	Save(ctx context.Context, key *APIKey) error
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
