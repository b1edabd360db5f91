package ledger

import (
	"fmt"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
)

const (
	minYear = 2000
	maxYear = 2100
)

// Period is a calendar month
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// NewPeriod validates year and month
func NewPeriod(year, month int) (Period, error) {
	if year < minYear || year > maxYear {
		return Period{}, shared.NewValidationError("INVALID_PERIOD",
			fmt.Sprintf("Year must be between %d and %d", minYear, maxYear))
	}
	if month < 1 || month > 12 {
		return Period{}, shared.NewValidationError("INVALID_PERIOD", "Month must be between 1 and 12")
	}
	return Period{Year: year, Month: month}, nil
}

// String formats the period as YYYY-MM
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
