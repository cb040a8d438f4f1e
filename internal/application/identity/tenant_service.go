package identity

import (
	"context"

	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/identity"
	"github.com/loyalty/backend/internal/domain/shared"
)

// TenantService resolves API credentials to tenants and exposes tenant
// administration
type TenantService struct {
	tenantRepo identity.TenantRepository
	apiKeyRepo identity.APIKeyRepository
	logger     *zap.Logger
}

// NewTenantService creates a new TenantService
func NewTenantService(
	tenantRepo identity.TenantRepository,
	apiKeyRepo identity.APIKeyRepository,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		apiKeyRepo: apiKeyRepo,
		logger:     logger,
	}
}

// ResolveAPIKey maps a presented secret to its tenant. Unknown, revoked,
// and keys of deactivated tenants all resolve to ErrForbidden; the caller
// cannot distinguish them.
func (s *TenantService) ResolveAPIKey(ctx context.Context, key string) (*identity.Tenant, error) {
	apiKey, err := s.apiKeyRepo.FindActiveByKey(ctx, key)
	if err != nil {
		return nil, shared.ErrForbidden
	}

	tenant, err := s.tenantRepo.FindByID(ctx, apiKey.TenantID)
	if err != nil {
		s.logger.Error("API key references missing tenant",
			zap.String("key_id", apiKey.ID.String()),
			zap.Error(err))
		return nil, shared.ErrForbidden
	}
	if !tenant.IsActive {
		return nil, shared.ErrForbidden
	}

	return tenant, nil
}

// ListActive returns all active tenants. Used by the batch expiration job
// to fan out per-tenant runs.
func (s *TenantService) ListActive(ctx context.Context) ([]TenantResponse, error) {
	tenants, err := s.tenantRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]TenantResponse, len(tenants))
	for i, t := range tenants {
		responses[i] = TenantResponse{
			ID:        t.ID,
			Name:      t.Name,
			IsActive:  t.IsActive,
			CreatedAt: t.CreatedAt,
		}
	}
	return responses, nil
}
