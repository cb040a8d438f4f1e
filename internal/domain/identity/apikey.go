package identity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/loyalty/backend/internal/domain/shared"
)

const apiKeyByteLength = 32

// APIKey is a machine-to-machine credential belonging to exactly one tenant.
// A tenant may hold several live keys at once so that keys can be rotated
// without downtime. Revocation flips the active flag; the row is kept for
// audit purposes.
type APIKey struct {
	shared.TenantEntity
	Key      string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Label    string `gorm:"type:varchar(100)"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (APIKey) TableName() string {
	return "api_keys"
}

// NewAPIKey creates a new active API key with a freshly generated secret
func NewAPIKey(tenant *Tenant, label string) (*APIKey, error) {
	if tenant == nil {
		return nil, shared.ErrMissingTenantContext
	}
	secret, err := generateSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate api key secret: %w", err)
	}
	label = strings.TrimSpace(label)
	if len(label) > 100 {
		return nil, shared.NewDomainError("INVALID_KEY_LABEL", "Key label cannot exceed 100 characters")
	}
	return &APIKey{
		TenantEntity: shared.NewTenantEntity(tenant.ID),
		Key:          secret,
		Label:        label,
		IsActive:     true,
	}, nil
}

// Revoke deactivates the key. Revoked keys never resolve again.
func (k *APIKey) Revoke() {
	k.IsActive = false
}

// generateSecret returns a 64-character hex token
func generateSecret() (string, error) {
	buf := make([]byte, apiKeyByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
