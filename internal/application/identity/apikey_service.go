package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/identity"
)

// APIKeyService manages API credentials for a tenant
type APIKeyService struct {
	tenantRepo identity.TenantRepository
	apiKeyRepo identity.APIKeyRepository
	logger     *zap.Logger
}

// NewAPIKeyService creates a new APIKeyService
func NewAPIKeyService(
	tenantRepo identity.TenantRepository,
	apiKeyRepo identity.APIKeyRepository,
	logger *zap.Logger,
) *APIKeyService {
	return &APIKeyService{
		tenantRepo: tenantRepo,
		apiKeyRepo: apiKeyRepo,
		logger:     logger,
	}
}

// Create mints a new API key for the tenant
func (s *APIKeyService) Create(ctx context.Context, tenantID uuid.UUID, req CreateAPIKeyRequest) (*APIKeyResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	key, err := identity.NewAPIKey(tenant, req.Label)
	if err != nil {
		return nil, err
	}
	if err := s.apiKeyRepo.Create(ctx, key); err != nil {
		s.logger.Error("Failed to create API key",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("API key created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("key_id", key.ID.String()))

	resp := NewAPIKeyResponse(key)
	return &resp, nil
}

// List returns all API keys of the tenant
func (s *APIKeyService) List(ctx context.Context, tenantID uuid.UUID) ([]APIKeyResponse, error) {
	keys, err := s.apiKeyRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]APIKeyResponse, len(keys))
	for i := range keys {
		responses[i] = NewAPIKeyResponse(&keys[i])
	}
	return responses, nil
}

// Revoke deactivates an API key. Revocation is permanent; a revoked key is
// never resolved again.
func (s *APIKeyService) Revoke(ctx context.Context, tenantID, keyID uuid.UUID) error {
	key, err := s.apiKeyRepo.FindByIDForTenant(ctx, tenantID, keyID)
	if err != nil {
		return err
	}

	key.Revoke()
	if err := s.apiKeyRepo.Save(ctx, key); err != nil {
		s.logger.Error("Failed to revoke API key",
			zap.String("key_id", keyID.String()),
			zap.Error(err))
		return err
	}

	s.logger.Info("API key revoked",
		zap.String("tenant_id", tenantID.String()),
		zap.String("key_id", keyID.String()))
	return nil
}
