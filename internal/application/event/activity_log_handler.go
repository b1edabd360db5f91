// Package event holds application-level domain event handlers.
package event

import (
	"context"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/investor"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/ledger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ActivityLogHandler writes one structured audit line per domain event
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates an ActivityLogHandler
func NewActivityLogHandler(log *zap.Logger) *ActivityLogHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ActivityLogHandler{logger: log.Named("activity")}
}

// EventTypes returns nil so the handler receives every event
func (h *ActivityLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event with its payload fields
func (h *ActivityLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.Time("occurred_at", event.OccurredAt()),
	}
	fields = append(fields, payloadFields(event)...)

	logger.LOr(ctx, h.logger).Info("activity", fields...)
	return nil
}

func payloadFields(event shared.DomainEvent) []zap.Field {
	switch e := event.(type) {
	case *ledger.TransactionEvent:
		return append(recordFields(e.RecordRef),
			zap.String("bucket", e.Bucket.String()),
			zap.String("transaction_id", e.TransactionID),
			zap.Int("position", e.Position),
			zap.String("item", e.Item),
			zap.Stringer("amount", e.Amount),
			zap.Stringer("total_income", e.TotalIncome),
			zap.Stringer("total_expenses", e.TotalExpenses),
		)
	case *ledger.CarryOverSetEvent:
		return append(recordFields(e.RecordRef),
			zap.String("investor_id", e.InvestorID),
			zap.Stringer("already_paid", e.AlreadyPaid),
			zap.Stringer("already_received", e.AlreadyReceived),
		)
	case *ledger.RecordStateEvent:
		return append(recordFields(e.RecordRef),
			zap.Stringer("total_income", e.TotalIncome),
			zap.Stringer("total_expenses", e.TotalExpenses),
		)
	case *investor.InvestorAttachedEvent:
		return []zap.Field{
			zap.String("investor_id", e.InvestorID),
			zap.String("name", e.Name),
			zap.String("property_id", e.PropertyID),
			zap.Stringer("percentage", e.Percentage),
		}
	case *investor.InvestorDetachedEvent:
		return []zap.Field{
			zap.String("investor_id", e.InvestorID),
			zap.String("property_id", e.PropertyID),
			zap.String("action", string(e.Action)),
		}
	case *investor.InvestorDeletedEvent:
		return []zap.Field{
			zap.String("investor_id", e.InvestorID),
			zap.String("name", e.Name),
		}
	}
	return nil
}

func recordFields(ref ledger.RecordRef) []zap.Field {
	return []zap.Field{
		zap.String("property_id", ref.PropertyID),
		zap.Int("year", ref.Year),
		zap.Int("month", ref.Month),
	}
}

var _ shared.EventHandler = (*ActivityLogHandler)(nil)
