package ledger

import (
	"strings"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RosterShare is an investor's share of the property as captured when the record closed
type RosterShare struct {
	InvestorID   string          `json:"investor_id"`
	InvestorName string          `json:"investor_name"`
	Percentage   decimal.Decimal `json:"percentage"`
}

func validateRoster(roster []RosterShare) error {
	seen := make(map[string]struct{}, len(roster))
	for _, s := range roster {
		id := strings.TrimSpace(s.InvestorID)
		if id == "" {
			return shared.NewValidationError("INVALID_INVESTOR", "Investor ID cannot be empty")
		}
		if _, dup := seen[id]; dup {
			return shared.NewDomainError(shared.CodeDuplicateAssoc, "Investor "+id+" appears twice in the roster")
		}
		seen[id] = struct{}{}
		if s.Percentage.IsNegative() || s.Percentage.GreaterThan(decimal.NewFromInt(100)) {
			return shared.NewValidationError("INVALID_PERCENTAGE", "Percentage must be between 0 and 100")
		}
	}
	return nil
}
