package investor

import (
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypeInvestorAttached = "InvestorAttachedToProperty"
	EventTypeInvestorDetached = "InvestorDetachedFromProperty"
	EventTypeInvestorDeleted  = "InvestorDeleted"
)

// InvestorAttachedEvent is raised when an investor gains a share in a property
type InvestorAttachedEvent struct {
	shared.BaseDomainEvent
	InvestorID string          `json:"investor_id"`
	Name       string          `json:"name"`
	PropertyID string          `json:"property_id"`
	Percentage decimal.Decimal `json:"percentage"`
}

// NewInvestorAttachedEvent creates an InvestorAttachedEvent
func NewInvestorAttachedEvent(i *Investor, propertyID string, percentage decimal.Decimal) *InvestorAttachedEvent {
	return &InvestorAttachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvestorAttached, AggregateTypeInvestor, i.InvestorID),
		InvestorID:      i.InvestorID,
		Name:            i.Name,
		PropertyID:      propertyID,
		Percentage:      percentage,
	}
}

// InvestorDetachedEvent is raised when an investor's share in a property is removed
type InvestorDetachedEvent struct {
	shared.BaseDomainEvent
	InvestorID string        `json:"investor_id"`
	PropertyID string        `json:"property_id"`
	Action     RemovalAction `json:"action"`
}

// NewInvestorDetachedEvent creates an InvestorDetachedEvent
func NewInvestorDetachedEvent(i *Investor, propertyID string, action RemovalAction) *InvestorDetachedEvent {
	return &InvestorDetachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvestorDetached, AggregateTypeInvestor, i.InvestorID),
		InvestorID:      i.InvestorID,
		PropertyID:      propertyID,
		Action:          action,
	}
}

// InvestorDeletedEvent is raised when an investor is removed from the roster
type InvestorDeletedEvent struct {
	shared.BaseDomainEvent
	InvestorID string `json:"investor_id"`
	Name       string `json:"name"`
}

// NewInvestorDeletedEvent creates an InvestorDeletedEvent
func NewInvestorDeletedEvent(i *Investor) *InvestorDeletedEvent {
	return &InvestorDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvestorDeleted, AggregateTypeInvestor, i.InvestorID),
		InvestorID:      i.InvestorID,
		Name:            i.Name,
	}
}
