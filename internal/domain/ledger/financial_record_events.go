package ledger

import (
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypeTransactionAdded   = "TransactionAdded"
	EventTypeTransactionUpdated = "TransactionUpdated"
	EventTypeTransactionRemoved = "TransactionRemoved"
	EventTypeCarryOverSet       = "CarryOverSet"
	EventTypeRecordClosed       = "FinancialRecordClosed"
	EventTypeRecordReopened     = "FinancialRecordReopened"
)

// RecordRef identifies the record an event belongs to
type RecordRef struct {
	PropertyID string `json:"property_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
}

func refOf(r *FinancialRecord) RecordRef {
	return RecordRef{PropertyID: r.PropertyID, Year: r.Period.Year, Month: r.Period.Month}
}

// TransactionEvent is raised when a transaction is added, updated or removed
type TransactionEvent struct {
	shared.BaseDomainEvent
	RecordRef
	Bucket        Bucket          `json:"bucket"`
	TransactionID string          `json:"transaction_id"`
	Position      int             `json:"position"`
	Item          string          `json:"item"`
	Amount        decimal.Decimal `json:"amount"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
}

func newTransactionEvent(eventType string, r *FinancialRecord, bucket Bucket, tx Transaction, position int) *TransactionEvent {
	return &TransactionEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeFinancialRecord, r.ID.String()),
		RecordRef:       refOf(r),
		Bucket:          bucket,
		TransactionID:   tx.ID.String(),
		Position:        position,
		Item:            tx.Item,
		Amount:          tx.Amount,
		TotalIncome:     r.TotalIncome,
		TotalExpenses:   r.TotalExpenses,
	}
}

// NewTransactionAddedEvent creates a TransactionAdded event
func NewTransactionAddedEvent(r *FinancialRecord, bucket Bucket, tx Transaction, position int) *TransactionEvent {
	return newTransactionEvent(EventTypeTransactionAdded, r, bucket, tx, position)
}

// NewTransactionUpdatedEvent creates a TransactionUpdated event
func NewTransactionUpdatedEvent(r *FinancialRecord, bucket Bucket, tx Transaction, position int) *TransactionEvent {
	return newTransactionEvent(EventTypeTransactionUpdated, r, bucket, tx, position)
}

// NewTransactionRemovedEvent creates a TransactionRemoved event
func NewTransactionRemovedEvent(r *FinancialRecord, bucket Bucket, tx Transaction, position int) *TransactionEvent {
	return newTransactionEvent(EventTypeTransactionRemoved, r, bucket, tx, position)
}

// CarryOverSetEvent is raised when an investor's carry-over amounts change
type CarryOverSetEvent struct {
	shared.BaseDomainEvent
	RecordRef
	InvestorID      string          `json:"investor_id"`
	AlreadyPaid     decimal.Decimal `json:"already_paid"`
	AlreadyReceived decimal.Decimal `json:"already_received"`
}

// NewCarryOverSetEvent creates a CarryOverSet event
func NewCarryOverSetEvent(r *FinancialRecord, entry InvestorCarryOver) *CarryOverSetEvent {
	return &CarryOverSetEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCarryOverSet, AggregateTypeFinancialRecord, r.ID.String()),
		RecordRef:       refOf(r),
		InvestorID:      entry.InvestorID,
		AlreadyPaid:     entry.AlreadyPaid,
		AlreadyReceived: entry.AlreadyReceived,
	}
}

// RecordStateEvent is raised when a record is closed or reopened
type RecordStateEvent struct {
	shared.BaseDomainEvent
	RecordRef
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
}

// NewRecordClosedEvent creates a FinancialRecordClosed event
func NewRecordClosedEvent(r *FinancialRecord) *RecordStateEvent {
	return &RecordStateEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordClosed, AggregateTypeFinancialRecord, r.ID.String()),
		RecordRef:       refOf(r),
		TotalIncome:     r.TotalIncome,
		TotalExpenses:   r.TotalExpenses,
	}
}

// NewRecordReopenedEvent creates a FinancialRecordReopened event
func NewRecordReopenedEvent(r *FinancialRecord) *RecordStateEvent {
	return &RecordStateEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordReopened, AggregateTypeFinancialRecord, r.ID.String()),
		RecordRef:       refOf(r),
		TotalIncome:     r.TotalIncome,
		TotalExpenses:   r.TotalExpenses,
	}
}
