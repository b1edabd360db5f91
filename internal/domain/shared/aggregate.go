package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and audit timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventRecorder collects the domain events raised by an aggregate until the
// service that saved it publishes them
type EventRecorder struct {
	domainEvents []DomainEvent
}

// AddDomainEvent records an event
func (r *EventRecorder) AddDomainEvent(event DomainEvent) {
	r.domainEvents = append(r.domainEvents, event)
}

// GetDomainEvents returns the pending events in the order they were raised
func (r *EventRecorder) GetDomainEvents() []DomainEvent {
	return r.domainEvents
}

// ClearDomainEvents drops the pending events
func (r *EventRecorder) ClearDomainEvents() {
	r.domainEvents = nil
}

// BaseAggregateRoot is an entity with pending events and a version that
// increases on every saved mutation
type BaseAggregateRoot struct {
	BaseEntity
	EventRecorder
	Version int
}

// IncrementVersion bumps the version
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot returns a version 1 root with a fresh id
func NewBaseAggregateRoot() BaseAggregateRoot {
	now := time.Now()
	return BaseAggregateRoot{
		BaseEntity: BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Version:    1,
	}
}
