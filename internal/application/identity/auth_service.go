package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/identity"
	"github.com/loyalty/backend/internal/domain/shared"
	"github.com/loyalty/backend/internal/infrastructure/auth"
)

// AuthService handles dashboard authentication operations
type AuthService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	apiKeyRepo identity.APIKeyRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	apiKeyRepo identity.APIKeyRepository,
	jwtService *auth.JWTService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		apiKeyRepo: apiKeyRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// RegisterTenant provisions a new tenant with its owner account and first
// API credential
func (s *AuthService) RegisterTenant(ctx context.Context, input RegisterTenantInput) (*AuthResult, error) {
	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	tenant, err := identity.NewTenant(input.TenantName)
	if err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		s.logger.Error("Failed to create tenant", zap.Error(err))
		return nil, err
	}

	user, err := identity.NewUser(tenant, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create owner user",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err))
		return nil, err
	}

	apiKey, err := identity.NewAPIKey(tenant, "default")
	if err != nil {
		return nil, err
	}
	if err := s.apiKeyRepo.Create(ctx, apiKey); err != nil {
		s.logger.Error("Failed to create initial API key",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err))
		return nil, err
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: tenant.ID,
		UserID:   user.ID,
		Email:    user.Email,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	s.logger.Info("Tenant registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("tenant_name", tenant.Name))

	return &AuthResult{
		TenantID: tenant.ID,
		UserID:   user.ID,
		Email:    user.Email,
		Tokens:   tokens,
		APIKey:   apiKey.Key,
	}, nil
}

// Login authenticates a dashboard user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.CheckPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, user.TenantID)
	if err != nil || !tenant.IsActive {
		return nil, shared.NewDomainError("TENANT_INACTIVE", "Tenant is not active")
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()))

	return &AuthResult{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
		Tokens:   tokens,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*auth.TokenPair, error) {
	tokens, err := s.jwtService.RefreshTokenPair(input.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}
	return tokens, nil
}

// GetProfile returns the authenticated user's profile
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		UserID:     user.ID,
		TenantID:   user.TenantID,
		TenantName: tenant.Name,
		Email:      user.Email,
		CreatedAt:  user.CreatedAt,
	}, nil
}
