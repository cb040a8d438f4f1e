package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is empty or not whitelisted.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"external_id": true,
	"email":       true,
	"joined_at":   true,
	"balance":     true,
}

// TransactionSortFields contains allowed sort fields for ledger entries
var TransactionSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"amount":     true,
	"kind":       true,
}

// CampaignSortFields contains allowed sort fields for campaigns
var CampaignSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"points_value": true,
	"is_active":    true,
}

// RewardSortFields contains allowed sort fields for rewards
var RewardSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"point_cost": true,
	"is_active":  true,
}
