package handler

import (
	"github.com/gin-gonic/gin"

	loyaltyapp "github.com/loyalty/backend/internal/application/loyalty"
	"github.com/loyalty/backend/internal/domain/loyalty"
)

// CustomerHandler exposes read access to a tenant's customers. Customers
// are provisioned through accruals; there is no create or delete endpoint.
type CustomerHandler struct {
	BaseHandler
	customerService *loyaltyapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *loyaltyapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List returns the tenant's customers, paginated and searchable
// GET /api/v1/customers
func (h *CustomerHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns a single customer
// GET /api/v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// GetByExternalID resolves a customer by the merchant's own identifier
// GET /api/v1/customers/external/:external_id
func (h *CustomerHandler) GetByExternalID(c *gin.Context) {
	externalID := c.Param("external_id")
	if externalID == "" {
		h.BadRequest(c, "External ID is required")
		return
	}

	customer, err := h.customerService.GetByExternalID(c.Request.Context(), externalID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// ListAllTransactions returns the tenant's full ledger history, newest
// first by default
// GET /api/v1/transactions
func (h *CustomerHandler) ListAllTransactions(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	txFilter := loyalty.TransactionFilter{
		Filter: filter,
		Kind:   loyalty.TransactionKind(c.Query("kind")),
	}
	if txFilter.Kind != "" && !txFilter.Kind.Valid() {
		h.BadRequest(c, "Unknown transaction kind")
		return
	}

	page, err := h.customerService.ListTransactions(c.Request.Context(), txFilter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListTransactions returns a customer's ledger history
// GET /api/v1/customers/:id/transactions
func (h *CustomerHandler) ListTransactions(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	txFilter := loyalty.TransactionFilter{
		Filter:     filter,
		CustomerID: id,
		Kind:       loyalty.TransactionKind(c.Query("kind")),
	}
	if txFilter.Kind != "" && !txFilter.Kind.Valid() {
		h.BadRequest(c, "Unknown transaction kind")
		return
	}

	page, err := h.customerService.ListTransactions(c.Request.Context(), txFilter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// NotAllowed rejects direct customer lifecycle operations
func (h *CustomerHandler) NotAllowed(c *gin.Context) {
	h.MethodNotAllowed(c, "Customers are managed through accruals and cannot be created or deleted directly")
}
