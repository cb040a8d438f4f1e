package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loyalty/backend/internal/domain/identity"
	"github.com/loyalty/backend/internal/domain/shared"
	"github.com/loyalty/backend/internal/infrastructure/persistence/tenant"
)

// GormAPIKeyRepository implements identity.APIKeyRepository using GORM
type GormAPIKeyRepository struct {
	db *gorm.DB
}

// NewGormAPIKeyRepository creates a new GormAPIKeyRepository
func NewGormAPIKeyRepository(db *gorm.DB) *GormAPIKeyRepository {
	return &GormAPIKeyRepository{db: db}
}

// Create inserts a new API key
func (r *GormAPIKeyRepository) Create(ctx context.Context, key *identity.APIKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

// FindActiveByKey resolves a presented secret to its credential. Resolution
// happens before any tenant is established, so the lookup runs in system
// mode against all tenants.
func (r *GormAPIKeyRepository) FindActiveByKey(ctx context.Context, key string) (*identity.APIKey, error) {
	var apiKey identity.APIKey
	if err := r.db.WithContext(ctx).
		Where("key = ? AND is_active = ?", key, true).
		First(&apiKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &apiKey, nil
}

// FindByTenant lists all API keys for a tenant
func (r *GormAPIKeyRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]identity.APIKey, error) {
	var keys []identity.APIKey
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Order("created_at ASC").
		Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// FindByIDForTenant finds an API key by ID within a tenant
func (r *GormAPIKeyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.APIKey, error) {
	var key identity.APIKey
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &key, nil
}

// Save persists changes to an existing API key
func (r *GormAPIKeyRepository) Save(ctx context.Context, key *identity.APIKey) error {
	return r.db.WithContext(ctx).Save(key).Error
}

// Ensure GormAPIKeyRepository implements APIKeyRepository
var _ identity.APIKeyRepository = (*GormAPIKeyRepository)(nil)
