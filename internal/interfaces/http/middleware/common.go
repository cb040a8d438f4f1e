package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/gin-gonic/gin"
)

// Context keys shared across middleware and handlers
const (
	RequestIDKey       = "request_id"
	RequestIDHeaderKey = "X-Request-ID"
	TenantIDKey        = "tenant_id"
)

// RequestID adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeaderKey)
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeaderKey, requestID)
		c.Next()
	}
}

// GetRequestID returns the request correlation ID, if any
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// generateRequestID generates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return time.Now().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(bytes)
}
