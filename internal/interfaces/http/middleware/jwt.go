package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/infrastructure/auth"
	"github.com/loyalty/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTAuth authenticates dashboard requests with a bearer access token.
// On success the token's tenant is bound to the request context the same
// way API key auth binds it.
func JWTAuth(jwtService *auth.JWTService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(header, BearerPrefix)
		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
			}
			abortUnauthorized(c, code, "Token validation failed")
			return
		}

		tenantID, err := claims.GetTenantUUID()
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Token carries no tenant")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		bindTenant(c, tenantID, log)
		c.Next()
	}
}

// OptionalJWTAuth binds the bearer token's identity when one is presented
// and valid, and otherwise lets the request through anonymously. A
// malformed or expired token on an optional-auth path is treated the same
// as no token at all, never as a fatal error.
func OptionalJWTAuth(jwtService *auth.JWTService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" || !strings.HasPrefix(header, BearerPrefix) {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateAccessToken(strings.TrimPrefix(header, BearerPrefix))
		if err != nil {
			log.Debug("Ignoring invalid bearer token on optional-auth path",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err))
			c.Next()
			return
		}

		tenantID, err := claims.GetTenantUUID()
		if err != nil {
			c.Next()
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		bindTenant(c, tenantID, log)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		code,
		message,
		GetRequestID(c),
	))
}

// GetJWTClaims returns the validated claims of the current request, if any
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	raw, exists := c.Get(JWTClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := raw.(*auth.Claims)
	return claims, ok
}

// GetJWTUserID returns the authenticated user's ID, if any
func GetJWTUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(JWTUserIDKey)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
