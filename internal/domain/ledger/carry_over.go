package ledger

import "github.com/shopspring/decimal"

// InvestorCarryOver holds amounts settled with an investor outside the ledger for a period
type InvestorCarryOver struct {
	InvestorID      string          `json:"investor_id"`
	AlreadyPaid     decimal.Decimal `json:"already_paid"`
	AlreadyReceived decimal.Decimal `json:"already_received"`
}

// IsZero reports whether both amounts are zero
func (c InvestorCarryOver) IsZero() bool {
	return c.AlreadyPaid.IsZero() && c.AlreadyReceived.IsZero()
}
