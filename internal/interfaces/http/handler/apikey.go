package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/loyalty/backend/internal/application/identity"
)

// APIKeyHandler manages a tenant's API credentials from the dashboard
type APIKeyHandler struct {
	BaseHandler
	apiKeyService *identityapp.APIKeyService
}

// NewAPIKeyHandler creates a new APIKeyHandler
func NewAPIKeyHandler(apiKeyService *identityapp.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{apiKeyService: apiKeyService}
}

// Create mints a new API key for the authenticated tenant
// POST /api/v1/api-keys
func (h *APIKeyHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req identityapp.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	key, err := h.apiKeyService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, key)
}

// List returns the tenant's API keys
// GET /api/v1/api-keys
func (h *APIKeyHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	keys, err := h.apiKeyService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, keys)
}

// Revoke permanently deactivates an API key
// DELETE /api/v1/api-keys/:id
func (h *APIKeyHandler) Revoke(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	keyID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid API key ID")
		return
	}

	if err := h.apiKeyService.Revoke(c.Request.Context(), tenantID, keyID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
