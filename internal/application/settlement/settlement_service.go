// Package settlement exposes investor settlements of a month as data and as PDF statements.
package settlement

import (
	"context"
	"fmt"
	"strings"
	"time"

	ledgerapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/ledger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/investor"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/ledger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/settlement"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/logger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const (
	// StatementPrefix is the storage key prefix of stored statements
	StatementPrefix = "statements"
	// PDFContentType is the content type of exported statements
	PDFContentType = "application/pdf"
)

// RecordLoader loads a financial record, creating it on first access
type RecordLoader interface {
	LoadRecord(ctx context.Context, key ledgerapp.RecordKey) (*ledger.FinancialRecord, error)
}

// InvestorFinder lists the investors holding a share of a property in roster order
type InvestorFinder interface {
	FindByProperty(ctx context.Context, propertyID string) ([]*investor.Investor, error)
}

// StatementDocument is what gets rendered into a PDF statement
type StatementDocument struct {
	Statement   settlement.Statement
	Currency    string
	GeneratedAt time.Time
}

// StatementRenderer turns a statement into a PDF
type StatementRenderer interface {
	RenderStatement(ctx context.Context, doc StatementDocument) ([]byte, error)
}

// StatementStore keeps exported statements
type StatementStore interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// ExportedStatement is a rendered PDF statement
type ExportedStatement struct {
	FileName    string
	ContentType string
	Data        []byte
}

// StoredStatement points at a statement kept in object storage
type StoredStatement struct {
	FileName    string    `json:"file_name"`
	StorageKey  string    `json:"storage_key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ServiceConfig holds configuration for the settlement service
type ServiceConfig struct {
	Currency          string
	DownloadURLExpiry time.Duration
}

// Service computes settlements and exports statements.
// JSON and PDF output are built from the same settlement.Statement.
type Service struct {
	records   RecordLoader
	investors InvestorFinder
	renderer  StatementRenderer
	store     StatementStore
	config    ServiceConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new settlement Service.
// renderer and store may be nil when export or statement storage is disabled.
func NewService(records RecordLoader, investors InvestorFinder, renderer StatementRenderer, store StatementStore, config ServiceConfig, log *zap.Logger) *Service {
	if config.Currency == "" {
		config.Currency = settlement.DefaultCurrency
	}
	if config.DownloadURLExpiry <= 0 {
		config.DownloadURLExpiry = time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		records:   records,
		investors: investors,
		renderer:  renderer,
		store:     store,
		config:    config,
		logger:    log,
		now:       time.Now,
	}
}

// Statement computes the settlement of a property's month.
// A closed month settles against the roster captured when it closed.
func (s *Service) Statement(ctx context.Context, key ledgerapp.RecordKey) (settlement.Statement, error) {
	record, err := s.records.LoadRecord(ctx, key)
	if err != nil {
		return settlement.Statement{}, err
	}
	if record.IsClosed {
		return settlement.Compute(record, nil), nil
	}
	investors, err := s.investors.FindByProperty(ctx, key.PropertyID)
	if err != nil {
		return settlement.Statement{}, err
	}
	return settlement.Compute(record, investors), nil
}

// Compute returns the settlement with display strings
func (s *Service) Compute(ctx context.Context, key ledgerapp.RecordKey) (*StatementResponse, error) {
	stmt, err := s.Statement(ctx, key)
	if err != nil {
		return nil, err
	}
	return ToStatementResponse(stmt, s.config.Currency), nil
}

// Export renders the settlement as a PDF statement
func (s *Service) Export(ctx context.Context, key ledgerapp.RecordKey) (_ *ExportedStatement, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "settlement", "export",
		"property_id", key.PropertyID, "year", key.Year, "month", key.Month)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	if s.renderer == nil {
		return nil, shared.NewDomainError("EXPORT_UNAVAILABLE", "PDF export is not configured")
	}
	stmt, err := s.Statement(ctx, key)
	if err != nil {
		return nil, err
	}

	telemetry.SetAttributes(span, "lines", len(stmt.Lines))
	data, err := s.renderer.RenderStatement(ctx, StatementDocument{
		Statement:   stmt,
		Currency:    s.config.Currency,
		GeneratedAt: s.now(),
	})
	if err != nil {
		s.log(ctx).Error("Failed to render settlement statement",
			zap.String("property_id", key.PropertyID),
			zap.String("period", stmt.Period.String()),
			zap.Error(err),
		)
		return nil, shared.NewDomainError("RENDER_FAILED", "Failed to render settlement statement")
	}

	return &ExportedStatement{
		FileName:    StatementFileName(stmt),
		ContentType: PDFContentType,
		Data:        data,
	}, nil
}

// ExportAndStore renders the statement, uploads it and returns a download URL
func (s *Service) ExportAndStore(ctx context.Context, key ledgerapp.RecordKey) (*StoredStatement, error) {
	if s.store == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Statement storage is not configured")
	}
	exported, err := s.Export(ctx, key)
	if err != nil {
		return nil, err
	}

	storageKey := fmt.Sprintf("%s/%s/%04d-%02d/%s", StatementPrefix, safeSegment(key.PropertyID), key.Year, key.Month, exported.FileName)
	if err := s.store.Upload(ctx, storageKey, exported.Data, exported.ContentType); err != nil {
		s.log(ctx).Error("Failed to store settlement statement", zap.String("storage_key", storageKey), zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_FAILED", "Failed to store settlement statement")
	}

	url, expiresAt, err := s.store.GenerateDownloadURL(ctx, storageKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_FAILED", "Failed to generate download URL")
	}

	s.log(ctx).Info("Settlement statement stored",
		zap.String("property_id", key.PropertyID),
		zap.Int("year", key.Year),
		zap.Int("month", key.Month),
		zap.String("storage_key", storageKey),
		zap.Int("bytes", len(exported.Data)),
	)
	return &StoredStatement{
		FileName:    exported.FileName,
		StorageKey:  storageKey,
		DownloadURL: url,
		ExpiresAt:   expiresAt,
	}, nil
}

// StatementFileName names the PDF of a statement, e.g. settlement-prop-1-2025-07.pdf
func StatementFileName(stmt settlement.Statement) string {
	return fmt.Sprintf("settlement-%s-%s.pdf", safeSegment(stmt.PropertyID), stmt.Period)
}

var segmentReplacer = strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_")

func safeSegment(s string) string {
	return segmentReplacer.Replace(strings.TrimSpace(s))
}

func (s *Service) log(ctx context.Context) *logger.ContextLogger {
	return logger.LOr(ctx, s.logger)
}
