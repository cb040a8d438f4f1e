package handler

import (
	"github.com/gin-gonic/gin"

	loyaltyapp "github.com/loyalty/backend/internal/application/loyalty"
)

// CampaignHandler manages a tenant's promotional campaigns
type CampaignHandler struct {
	BaseHandler
	campaignService *loyaltyapp.CampaignService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService *loyaltyapp.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// Create adds a campaign
// POST /api/v1/campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req loyaltyapp.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	campaign, err := h.campaignService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, campaign)
}

// List returns the tenant's campaigns
// GET /api/v1/campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.campaignService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns a single campaign
// GET /api/v1/campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid campaign ID")
		return
	}

	campaign, err := h.campaignService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// Update patches a campaign; nil fields are left unchanged
// PUT /api/v1/campaigns/:id
func (h *CampaignHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid campaign ID")
		return
	}

	var req loyaltyapp.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	campaign, err := h.campaignService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// Delete removes a campaign
// DELETE /api/v1/campaigns/:id
func (h *CampaignHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid campaign ID")
		return
	}

	if err := h.campaignService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
