package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"asc", "ASC"},
		{"  ASC ", "ASC"},
		{"desc", "DESC"},
		{"sideways", "DESC"},
		{"ASC; DROP TABLE investors;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		whitelist map[string]bool
		expected  string
	}{
		{"investor name", "name", InvestorSortFields, "name"},
		{"trimmed", " email ", InvestorSortFields, "email"},
		{"record period", "month", FinancialRecordSortFields, "month"},
		{"record totals", "total_income", FinancialRecordSortFields, "total_income"},
		{"field of another table", "total_income", InvestorSortFields, "created_at"},
		{"case sensitive", "NAME", InvestorSortFields, "created_at"},
		{"empty", "", FinancialRecordSortFields, "created_at"},
		{"injection", "name; DROP TABLE investors;--", InvestorSortFields, "created_at"},
		{"subquery", "year, (SELECT 1)", FinancialRecordSortFields, "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, tt.whitelist, "created_at"))
		})
	}
}
