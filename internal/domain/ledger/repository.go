package ledger

import (
	"context"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
)

// FinancialRecordRepository defines persistence operations for financial records
type FinancialRecordRepository interface {
	// FindByPeriod loads the full record of a property for a month.
	// Returns shared.ErrNotFound when no record exists yet.
	FindByPeriod(ctx context.Context, propertyID string, period Period) (*FinancialRecord, error)

	// FindByProperty lists records of a property without their transactions, newest period first
	FindByProperty(ctx context.Context, propertyID string, filter shared.Filter) ([]FinancialRecord, int64, error)

	// Create inserts a new, empty record.
	// Returns shared.ErrAlreadyExists if the period already has a record.
	Create(ctx context.Context, record *FinancialRecord) error

	// Update locks the record row, applies fn and persists the result in one transaction.
	// If fn returns an error nothing is written.
	Update(ctx context.Context, propertyID string, period Period, fn func(*FinancialRecord) error) (*FinancialRecord, error)
}
