package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loyalty/backend/internal/domain/identity"
	"github.com/loyalty/backend/internal/infrastructure/logger"
	"github.com/loyalty/backend/internal/interfaces/http/dto"
)

// APIKeyHeader carries the machine-to-machine credential
const APIKeyHeader = "X-API-Key"

// APIKeyResolver maps a presented API key secret to its tenant
type APIKeyResolver interface {
	ResolveAPIKey(ctx context.Context, key string) (*identity.Tenant, error)
}

// APIKeyAuth authenticates merchant API requests. A missing key is a 401;
// a key that does not resolve (unknown, revoked, or owned by a deactivated
// tenant) is a 403 with no further detail. On success the tenant ID is
// bound to the request context so tenant scoping applies downstream.
func APIKeyAuth(resolver APIKeyResolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized,
				"API key is required",
				GetRequestID(c),
			))
			return
		}

		tenant, err := resolver.ResolveAPIKey(c.Request.Context(), key)
		if err != nil {
			log.Warn("API key rejected", zap.String("request_id", GetRequestID(c)))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden,
				"Invalid API key",
				GetRequestID(c),
			))
			return
		}

		bindTenant(c, tenant.ID, log)
		c.Next()
	}
}

// bindTenant stores the tenant on the gin context and the request context.
// The request context copy is what the persistence layer's tenant scoping
// reads.
func bindTenant(c *gin.Context, tenantID uuid.UUID, log *zap.Logger) {
	c.Set(TenantIDKey, tenantID.String())
	ctx, _ := logger.WithTenantID(c.Request.Context(), log, tenantID.String())
	c.Request = c.Request.WithContext(ctx)
}

// GetTenantID returns the authenticated tenant's ID, if any
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(TenantIDKey)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
