package ledger

import (
	"fmt"
	"strings"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
)

// PayerKind distinguishes who paid an income transaction
type PayerKind string

const (
	PayerKindInvestor PayerKind = "investor"
	PayerKindTenant   PayerKind = "tenant"
)

// IsValid checks if the payer kind is known
func (k PayerKind) IsValid() bool {
	return k == PayerKindInvestor || k == PayerKindTenant
}

// PayerRef references the investor or tenant who paid an income item
type PayerRef struct {
	Kind PayerKind `json:"kind"`
	ID   string    `json:"id"`
}

// InvestorPayer returns a PayerRef for an investor
func InvestorPayer(investorID string) PayerRef {
	return PayerRef{Kind: PayerKindInvestor, ID: investorID}
}

// TenantPayer returns a PayerRef for a tenant
func TenantPayer(tenantID string) PayerRef {
	return PayerRef{Kind: PayerKindTenant, ID: tenantID}
}

// ParsePayerRef parses the prefixed form used by older clients,
// e.g. "tenant_42" or "investor_7".
func ParsePayerRef(raw string) (PayerRef, error) {
	raw = strings.TrimSpace(raw)
	kind, id, ok := strings.Cut(raw, "_")
	if !ok {
		return PayerRef{}, shared.NewValidationError("INVALID_PAID_BY",
			fmt.Sprintf("paidBy %q must be prefixed with investor_ or tenant_", raw))
	}
	ref := PayerRef{Kind: PayerKind(kind), ID: id}
	if err := ref.Validate(); err != nil {
		return PayerRef{}, err
	}
	return ref, nil
}

// Validate checks kind and id
func (p PayerRef) Validate() error {
	if !p.Kind.IsValid() {
		return shared.NewValidationError("INVALID_PAID_BY",
			fmt.Sprintf("paidBy kind %q must be investor or tenant", p.Kind))
	}
	if strings.TrimSpace(p.ID) == "" {
		return shared.NewValidationError("INVALID_PAID_BY", "paidBy id cannot be empty")
	}
	return nil
}

// IsInvestor reports whether the payer is an investor
func (p PayerRef) IsInvestor() bool {
	return p.Kind == PayerKindInvestor
}

// IsTenant reports whether the payer is a tenant
func (p PayerRef) IsTenant() bool {
	return p.Kind == PayerKindTenant
}

// String returns the prefixed form, e.g. "tenant_42"
func (p PayerRef) String() string {
	return string(p.Kind) + "_" + p.ID
}
