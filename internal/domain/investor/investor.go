package investor

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeInvestor is the aggregate type name used in domain events
const AggregateTypeInvestor = "Investor"

var hundred = decimal.NewFromInt(100)

// PropertyShare is an investor's percentage of one property's net profit
type PropertyShare struct {
	PropertyID string          `json:"property_id"`
	Percentage decimal.Decimal `json:"percentage"`
}

// PercentageScale is the number of decimal places a share can be stored with
const PercentageScale = 6

// ValidatePercentage checks that a share lies within [0, 100] and fits PercentageScale
func ValidatePercentage(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return shared.NewValidationError("INVALID_PERCENTAGE", "Percentage must be between 0 and 100")
	}
	if !p.Equal(p.Truncate(PercentageScale)) {
		return shared.NewValidationError("INVALID_PERCENTAGE",
			fmt.Sprintf("Percentage cannot have more than %d decimal places", PercentageScale))
	}
	return nil
}

// RemovalAction reports what happened when an investor left a property
type RemovalAction string

const (
	ActionRemovedFromProperty RemovalAction = "removed_from_property"
	ActionDeletedCompletely   RemovalAction = "deleted_completely"
)

// Profile holds the investor's contact details
type Profile struct {
	Name     string
	Username string
	Phone    string
	Email    string
	Avatar   string
}

// Investor is a person holding shares in one or more properties
type Investor struct {
	shared.EventRecorder
	InvestorID string          `json:"investor_id"`
	Name       string          `json:"name"`
	Username   string          `json:"username"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	Avatar     string          `json:"avatar"`
	Properties []PropertyShare `json:"properties"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewInvestor creates an investor without any property association
func NewInvestor(investorID string, profile Profile) (*Investor, error) {
	if strings.TrimSpace(investorID) == "" {
		return nil, shared.NewValidationError("INVALID_INVESTOR_ID", "Investor ID cannot be empty")
	}
	if err := profile.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &Investor{
		InvestorID: investorID,
		Properties: make([]PropertyShare, 0),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	inv.applyProfile(profile)
	return inv, nil
}

func (p Profile) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return shared.NewValidationError("INVALID_NAME", "Investor name cannot be empty")
	}
	if len(p.Name) > 100 {
		return shared.NewValidationError("INVALID_NAME", "Investor name cannot exceed 100 characters")
	}
	if email := strings.TrimSpace(p.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewValidationError("INVALID_EMAIL", fmt.Sprintf("Invalid email address %q", email))
		}
	}
	return nil
}

func (i *Investor) applyProfile(p Profile) {
	i.Name = strings.TrimSpace(p.Name)
	i.Username = strings.TrimSpace(p.Username)
	i.Phone = strings.TrimSpace(p.Phone)
	i.Email = strings.TrimSpace(p.Email)
	i.Avatar = strings.TrimSpace(p.Avatar)
}

// UpdateProfile replaces the contact details
func (i *Investor) UpdateProfile(p Profile) error {
	if err := p.validate(); err != nil {
		return err
	}
	i.applyProfile(p)
	i.UpdatedAt = time.Now()
	return nil
}

// ShareFor returns the investor's percentage for a property
func (i *Investor) ShareFor(propertyID string) (decimal.Decimal, bool) {
	for _, s := range i.Properties {
		if s.PropertyID == propertyID {
			return s.Percentage, true
		}
	}
	return decimal.Zero, false
}

// HasProperty reports whether the investor holds a share of the property
func (i *Investor) HasProperty(propertyID string) bool {
	_, ok := i.ShareFor(propertyID)
	return ok
}

// AttachProperty adds a share in a property
func (i *Investor) AttachProperty(propertyID string, percentage decimal.Decimal) error {
	propertyID = strings.TrimSpace(propertyID)
	if propertyID == "" {
		return shared.NewValidationError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	if err := ValidatePercentage(percentage); err != nil {
		return err
	}
	if i.HasProperty(propertyID) {
		return shared.NewDomainError(shared.CodeDuplicateAssoc,
			fmt.Sprintf("Investor %s is already associated with property %s", i.InvestorID, propertyID))
	}

	i.Properties = append(i.Properties, PropertyShare{PropertyID: propertyID, Percentage: percentage})
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(NewInvestorAttachedEvent(i, propertyID, percentage))

	return nil
}

// UpdateShare changes the percentage held in a property
func (i *Investor) UpdateShare(propertyID string, percentage decimal.Decimal) error {
	if err := ValidatePercentage(percentage); err != nil {
		return err
	}
	for idx := range i.Properties {
		if i.Properties[idx].PropertyID == propertyID {
			i.Properties[idx].Percentage = percentage
			i.UpdatedAt = time.Now()
			return nil
		}
	}
	return propertyNotAssociated(i.InvestorID, propertyID)
}

// DetachProperty removes the share in a property.
// When no shares remain the investor should be deleted, signalled by ActionDeletedCompletely.
func (i *Investor) DetachProperty(propertyID string) (RemovalAction, error) {
	remaining := make([]PropertyShare, 0, len(i.Properties))
	found := false
	for _, s := range i.Properties {
		if s.PropertyID == propertyID {
			found = true
			continue
		}
		remaining = append(remaining, s)
	}
	if !found {
		return "", propertyNotAssociated(i.InvestorID, propertyID)
	}

	i.Properties = remaining
	i.UpdatedAt = time.Now()

	action := ActionRemovedFromProperty
	if len(remaining) == 0 {
		action = ActionDeletedCompletely
	}
	i.AddDomainEvent(NewInvestorDetachedEvent(i, propertyID, action))

	return action, nil
}

func propertyNotAssociated(investorID, propertyID string) error {
	return shared.NewDomainError("PROPERTY_NOT_ASSOCIATED",
		fmt.Sprintf("Investor %s is not associated with property %s", investorID, propertyID))
}
