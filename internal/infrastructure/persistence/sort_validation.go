package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
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

// InvestorSortFields contains allowed sort fields for investors
var InvestorSortFields = map[string]bool{
	"investor_id": true,
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"username":    true,
	"email":       true,
}

// FinancialRecordSortFields contains allowed sort fields for financial records
var FinancialRecordSortFields = map[string]bool{
	"year":           true,
	"month":          true,
	"created_at":     true,
	"updated_at":     true,
	"total_income":   true,
	"total_expenses": true,
	"is_closed":      true,
}
