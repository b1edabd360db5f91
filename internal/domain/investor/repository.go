package investor

import (
	"context"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
)

// Filter defines filtering options for investor queries
type Filter struct {
	shared.Filter
	PropertyID string
}

// InvestorRepository defines persistence operations for investors
type InvestorRepository interface {
	// FindByID finds an investor with its property shares
	FindByID(ctx context.Context, investorID string) (*Investor, error)

	// FindAll lists investors matching the filter
	FindAll(ctx context.Context, filter Filter) ([]*Investor, int64, error)

	// FindByProperty lists investors holding a share of the property, oldest first
	FindByProperty(ctx context.Context, propertyID string) ([]*Investor, error)

	// ListAll returns every investor in creation order
	ListAll(ctx context.Context) ([]*Investor, error)

	// ListIDs returns every investor id in use
	ListIDs(ctx context.Context) ([]string, error)

	// Create inserts a new investor with its property shares.
	// A taken investor id is ErrAlreadyExists; the existing investor is left untouched.
	Create(ctx context.Context, inv *Investor) error

	// Save updates an existing investor and replaces its property shares
	Save(ctx context.Context, inv *Investor) error

	// Delete removes an investor and its property shares
	Delete(ctx context.Context, investorID string) error
}
