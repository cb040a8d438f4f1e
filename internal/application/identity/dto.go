package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/loyalty/backend/internal/domain/identity"
	"github.com/loyalty/backend/internal/infrastructure/auth"
)

// RegisterTenantInput contains input for tenant registration
type RegisterTenantInput struct {
	TenantName string `json:"tenant_name" binding:"required,min=1,max=255"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
}

// LoginInput contains input for dashboard login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshInput contains input for token refresh
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResult is returned after registration or login
type AuthResult struct {
	TenantID uuid.UUID       `json:"tenant_id"`
	UserID   uuid.UUID       `json:"user_id"`
	Email    string          `json:"email"`
	Tokens   *auth.TokenPair `json:"tokens"`
	// APIKey is only populated on registration, when the first credential
	// is minted alongside the tenant
	APIKey string `json:"api_key,omitempty"`
}

// ProfileResponse describes the authenticated user
type ProfileResponse struct {
	UserID     uuid.UUID `json:"user_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	TenantName string    `json:"tenant_name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateAPIKeyRequest contains input for minting a new API key
type CreateAPIKeyRequest struct {
	Label string `json:"label" binding:"max=255"`
}

// APIKeyResponse describes an API credential
type APIKeyResponse struct {
	ID        uuid.UUID `json:"id"`
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAPIKeyResponse maps an API key entity to its response form
func NewAPIKeyResponse(key *identity.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:        key.ID,
		Key:       key.Key,
		Label:     key.Label,
		IsActive:  key.IsActive,
		CreatedAt: key.CreatedAt,
	}
}

// TenantResponse describes a tenant
type TenantResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
