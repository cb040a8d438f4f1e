package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	loyaltyapp "github.com/loyalty/backend/internal/application/loyalty"
)

// StatsHandler serves the dashboard analytics block
type StatsHandler struct {
	BaseHandler
	analyticsService *loyaltyapp.AnalyticsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(analyticsService *loyaltyapp.AnalyticsService) *StatsHandler {
	return &StatsHandler{analyticsService: analyticsService}
}

// Get returns the tenant's KPI block and daily activity timeline
// GET /api/v1/stats?days=30
func (h *StatsHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	days := loyaltyapp.DefaultTimelineDays
	if raw := c.Query("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 || days > 365 {
			h.BadRequest(c, "days must be an integer between 1 and 365")
			return
		}
	}

	stats, err := h.analyticsService.Stats(c.Request.Context(), tenantID, days)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}
