package handler

import (
	"github.com/gin-gonic/gin"

	loyaltyapp "github.com/loyalty/backend/internal/application/loyalty"
)

// RewardHandler manages a tenant's reward catalog
type RewardHandler struct {
	BaseHandler
	rewardService *loyaltyapp.RewardService
}

// NewRewardHandler creates a new RewardHandler
func NewRewardHandler(rewardService *loyaltyapp.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// Create adds a reward
// POST /api/v1/rewards
func (h *RewardHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req loyaltyapp.CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reward, err := h.rewardService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, reward)
}

// List returns the tenant's rewards
// GET /api/v1/rewards
func (h *RewardHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.rewardService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns a single reward
// GET /api/v1/rewards/:id
func (h *RewardHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid reward ID")
		return
	}

	reward, err := h.rewardService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reward)
}

// Update patches a reward; nil fields are left unchanged
// PUT /api/v1/rewards/:id
func (h *RewardHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid reward ID")
		return
	}

	var req loyaltyapp.UpdateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reward, err := h.rewardService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reward)
}

// Delete removes a reward
// DELETE /api/v1/rewards/:id
func (h *RewardHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid reward ID")
		return
	}

	if err := h.rewardService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
