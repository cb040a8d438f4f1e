package handler

import (
	"github.com/gin-gonic/gin"

	loyaltyapp "github.com/loyalty/backend/internal/application/loyalty"
)

// PointsHandler handles the merchant-facing ledger operations: accruals
// and redemptions.
type PointsHandler struct {
	BaseHandler
	accrualService    *loyaltyapp.AccrualService
	redemptionService *loyaltyapp.RedemptionService
	ledgerService     *loyaltyapp.LedgerService
}

// NewPointsHandler creates a new PointsHandler
func NewPointsHandler(
	accrualService *loyaltyapp.AccrualService,
	redemptionService *loyaltyapp.RedemptionService,
	ledgerService *loyaltyapp.LedgerService,
) *PointsHandler {
	return &PointsHandler{
		accrualService:    accrualService,
		redemptionService: redemptionService,
		ledgerService:     ledgerService,
	}
}

// Accrue records a purchase and awards points
// POST /api/v1/accruals
func (h *PointsHandler) Accrue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req loyaltyapp.AccrualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.accrualService.Accrue(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Redeem spends points against a reward or as a free-form debit
// POST /api/v1/redemption
func (h *PointsHandler) Redeem(c *gin.Context) {
	if _, err := getTenantID(c); err != nil {
		h.HandleError(c, err)
		return
	}

	var req loyaltyapp.RedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.redemptionService.Redeem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Balance returns a customer's current point balance
// GET /api/v1/customers/:id/balance
func (h *PointsHandler) Balance(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"customer_id": id, "balance": balance})
}
