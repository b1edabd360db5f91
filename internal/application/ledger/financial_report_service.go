// Package ledger holds the use cases around a property's monthly financial record.
package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/investor"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/ledger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/settlement"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// RosterSource lists the investors holding a share of a property in roster order
type RosterSource interface {
	FindByProperty(ctx context.Context, propertyID string) ([]*investor.Investor, error)
}

// FinancialReportService handles the monthly ledger of properties
type FinancialReportService struct {
	repo           ledger.FinancialRecordRepository
	roster         RosterSource
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewFinancialReportService creates a new FinancialReportService
func NewFinancialReportService(repo ledger.FinancialRecordRepository, log *zap.Logger) *FinancialReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FinancialReportService{
		repo:   repo,
		logger: log,
	}
}

// SetEventPublisher sets the publisher that receives domain events after a successful save
func (s *FinancialReportService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetRosterSource sets where Close reads the roster it snapshots.
// Without one, records close with an empty roster.
func (s *FinancialReportService) SetRosterSource(roster RosterSource) {
	s.roster = roster
}

// LoadRecord returns the record for the key, creating an empty one on first access
func (s *FinancialReportService) LoadRecord(ctx context.Context, key RecordKey) (*ledger.FinancialRecord, error) {
	period, err := key.Period()
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindByPeriod(ctx, key.PropertyID, period)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	record, err = ledger.NewFinancialRecord(key.PropertyID, period)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, record); err != nil {
		// a concurrent first access created it
		if errors.Is(err, shared.ErrAlreadyExists) {
			return s.repo.FindByPeriod(ctx, key.PropertyID, period)
		}
		return nil, err
	}

	s.log(ctx).Info("Financial record created",
		zap.String("property_id", key.PropertyID),
		zap.Int("year", period.Year),
		zap.Int("month", period.Month),
	)
	return record, nil
}

// GetOrCreate returns the record for the key, creating it lazily
func (s *FinancialReportService) GetOrCreate(ctx context.Context, key RecordKey) (*FinancialRecordResponse, error) {
	record, err := s.LoadRecord(ctx, key)
	if err != nil {
		return nil, err
	}
	return ToFinancialRecordResponse(record), nil
}

// ListByProperty lists the months recorded for a property, newest first
func (s *FinancialReportService) ListByProperty(ctx context.Context, propertyID string, filter shared.Filter) (shared.Paginated[FinancialRecordSummary], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 24
	}

	records, total, err := s.repo.FindByProperty(ctx, propertyID, filter)
	if err != nil {
		return shared.Paginated[FinancialRecordSummary]{}, err
	}

	items := make([]FinancialRecordSummary, len(records))
	for i, r := range records {
		items[i] = ToFinancialRecordSummary(r)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// AddTransaction appends a transaction to a bucket
func (s *FinancialReportService) AddTransaction(ctx context.Context, key RecordKey, bucket ledger.Bucket, req TransactionRequest) (*FinancialRecordResponse, error) {
	in, err := req.ToInput()
	if err != nil {
		return nil, err
	}
	var added ledger.Transaction
	return s.mutate(ctx, key, "Transaction added", func(r *ledger.FinancialRecord) error {
		var err error
		added, err = r.AddTransaction(bucket, in)
		return err
	}, zap.String("bucket", bucket.String()), txIDField(&added))
}

// UpdateTransaction replaces the transaction at a position
func (s *FinancialReportService) UpdateTransaction(ctx context.Context, key RecordKey, bucket ledger.Bucket, index int, req TransactionRequest) (*FinancialRecordResponse, error) {
	in, err := req.ToInput()
	if err != nil {
		return nil, err
	}
	var updated ledger.Transaction
	return s.mutate(ctx, key, "Transaction updated", func(r *ledger.FinancialRecord) error {
		var err error
		updated, err = r.UpdateTransaction(bucket, index, in)
		return err
	}, zap.String("bucket", bucket.String()), zap.Int("index", index), txIDField(&updated))
}

// UpdateTransactionByID replaces the transaction with the given id
func (s *FinancialReportService) UpdateTransactionByID(ctx context.Context, key RecordKey, bucket ledger.Bucket, txID uuid.UUID, req TransactionRequest) (*FinancialRecordResponse, error) {
	in, err := req.ToInput()
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, key, "Transaction updated", func(r *ledger.FinancialRecord) error {
		_, err := r.UpdateTransactionByID(bucket, txID, in)
		return err
	}, zap.String("bucket", bucket.String()), zap.String("transaction_id", txID.String()))
}

// RemoveTransaction deletes the transaction at a position
func (s *FinancialReportService) RemoveTransaction(ctx context.Context, key RecordKey, bucket ledger.Bucket, index int) (*FinancialRecordResponse, error) {
	var removed ledger.Transaction
	return s.mutate(ctx, key, "Transaction removed", func(r *ledger.FinancialRecord) error {
		var err error
		removed, err = r.RemoveTransaction(bucket, index)
		return err
	}, zap.String("bucket", bucket.String()), zap.Int("index", index), txIDField(&removed))
}

// RemoveTransactionByID deletes the transaction with the given id
func (s *FinancialReportService) RemoveTransactionByID(ctx context.Context, key RecordKey, bucket ledger.Bucket, txID uuid.UUID) (*FinancialRecordResponse, error) {
	return s.mutate(ctx, key, "Transaction removed", func(r *ledger.FinancialRecord) error {
		_, err := r.RemoveTransactionByID(bucket, txID)
		return err
	}, zap.String("bucket", bucket.String()), zap.String("transaction_id", txID.String()))
}

// SetCarryOver records what was already paid to or received from an investor
func (s *FinancialReportService) SetCarryOver(ctx context.Context, key RecordKey, investorID string, req CarryOverRequest) (*FinancialRecordResponse, error) {
	return s.mutate(ctx, key, "Carry-over set", func(r *ledger.FinancialRecord) error {
		return r.SetCarryOver(investorID, req.AlreadyPaid, req.AlreadyReceived)
	}, zap.String("investor_id", investorID))
}

// Close locks the record and snapshots the property's current roster into it
func (s *FinancialReportService) Close(ctx context.Context, key RecordKey) (*FinancialRecordResponse, error) {
	if _, err := key.Period(); err != nil {
		return nil, err
	}
	roster := make([]ledger.RosterShare, 0)
	if s.roster != nil {
		investors, err := s.roster.FindByProperty(ctx, key.PropertyID)
		if err != nil {
			return nil, err
		}
		roster = settlement.RosterShares(key.PropertyID, investors)
	}
	return s.mutate(ctx, key, "Financial record closed", func(r *ledger.FinancialRecord) error {
		return r.Close(roster)
	}, zap.Int("roster_size", len(roster)))
}

// Reopen unlocks a closed record
func (s *FinancialReportService) Reopen(ctx context.Context, key RecordKey) (*FinancialRecordResponse, error) {
	return s.mutate(ctx, key, "Financial record reopened", func(r *ledger.FinancialRecord) error {
		return r.Reopen()
	})
}

// mutate applies fn to the locked record and persists it, creating the record first if needed.
// Events are published only after the write committed.
func (s *FinancialReportService) mutate(ctx context.Context, key RecordKey, msg string, fn func(*ledger.FinancialRecord) error, fields ...zap.Field) (*FinancialRecordResponse, error) {
	period, err := key.Period()
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Update(ctx, key.PropertyID, period, fn)
	if errors.Is(err, shared.ErrNotFound) {
		if _, err = s.LoadRecord(ctx, key); err != nil {
			return nil, err
		}
		record, err = s.repo.Update(ctx, key.PropertyID, period, fn)
	}
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, record)

	s.log(ctx).Info(msg, append([]zap.Field{
		zap.String("property_id", key.PropertyID),
		zap.Int("year", period.Year),
		zap.Int("month", period.Month),
		zap.Int("version", record.Version),
	}, fields...)...)

	return ToFinancialRecordResponse(record), nil
}

func (s *FinancialReportService) publishEvents(ctx context.Context, record *ledger.FinancialRecord) {
	events := record.GetDomainEvents()
	record.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.log(ctx).Warn("Failed to publish financial record events", zap.Error(err))
	}
}

func (s *FinancialReportService) log(ctx context.Context) *logger.ContextLogger {
	return logger.LOr(ctx, s.logger)
}

// txIDField logs the id of a transaction that fn fills in before the log line is written
func txIDField(tx *ledger.Transaction) zap.Field {
	return zap.Stringer("transaction_id", txIDStringer{tx})
}

type txIDStringer struct{ tx *ledger.Transaction }

func (t txIDStringer) String() string { return t.tx.ID.String() }
