package identity

import (
	"net/mail"
	"strings"

	"github.com/loyalty/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// User is a human principal that can log in to the dashboard. A user belongs
// to exactly one tenant; authenticating as a user resolves that tenant for
// the duration of a request.
type User struct {
	shared.TenantEntity
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	IsActive     bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user with a bcrypt-hashed password
func NewUser(tenant *Tenant, email, password string) (*User, error) {
	if tenant == nil {
		return nil, shared.ErrMissingTenantContext
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &User{
		TenantEntity: shared.NewTenantEntity(tenant.ID),
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
