package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/ledger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ensure GormFinancialRecordRepository implements FinancialRecordRepository
var _ ledger.FinancialRecordRepository = (*GormFinancialRecordRepository)(nil)

// GormFinancialRecordRepository implements FinancialRecordRepository using GORM
type GormFinancialRecordRepository struct {
	db *gorm.DB
}

// NewGormFinancialRecordRepository creates a new GormFinancialRecordRepository
func NewGormFinancialRecordRepository(db *gorm.DB) *GormFinancialRecordRepository {
	return &GormFinancialRecordRepository{db: db}
}

// FindByPeriod loads a record with its transactions and carry-overs
func (r *GormFinancialRecordRepository) FindByPeriod(ctx context.Context, propertyID string, period ledger.Period) (*ledger.FinancialRecord, error) {
	var model models.FinancialRecordModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ? AND year = ? AND month = ?", propertyID, period.Year, period.Month).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := loadChildren(r.db.WithContext(ctx), &model); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProperty lists record headers of a property, newest period first by default
func (r *GormFinancialRecordRepository) FindByProperty(ctx context.Context, propertyID string, filter shared.Filter) ([]ledger.FinancialRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FinancialRecordModel{}).
		Where("property_id = ?", propertyID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.OrderBy == "" {
		query = query.Order("year DESC").Order("month DESC")
	} else {
		sortField := ValidateSortField(filter.OrderBy, FinancialRecordSortFields, "year")
		query = query.Order(fmt.Sprintf("%s %s", sortField, ValidateSortOrder(filter.OrderDir)))
	}
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := filter.Offset(); offset > 0 {
			query = query.Offset(offset)
		}
	}

	var recordModels []models.FinancialRecordModel
	if err := query.Find(&recordModels).Error; err != nil {
		return nil, 0, err
	}
	records := make([]ledger.FinancialRecord, len(recordModels))
	for i := range recordModels {
		records[i] = *recordModels[i].ToDomain()
	}
	return records, total, nil
}

// Create inserts a new record together with any transactions it already holds
func (r *GormFinancialRecordRepository) Create(ctx context.Context, record *ledger.FinancialRecord) error {
	model := models.FinancialRecordModelFromDomain(record)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		return insertChildren(tx, model)
	})
	if isUniqueViolation(err) {
		return shared.NewDomainError(shared.CodeAlreadyExists,
			fmt.Sprintf("Financial record for property %s and period %s already exists", record.PropertyID, record.Period))
	}
	return err
}

// Update locks the record row, applies fn and rewrites the record in one transaction.
// The returned record carries the domain events raised by fn.
func (r *GormFinancialRecordRepository) Update(ctx context.Context, propertyID string, period ledger.Period, fn func(*ledger.FinancialRecord) error) (*ledger.FinancialRecord, error) {
	var updated *ledger.FinancialRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("property_id = ? AND year = ? AND month = ?", propertyID, period.Year, period.Month)
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var model models.FinancialRecordModel
		if err := query.First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if err := loadChildren(tx, &model); err != nil {
			return err
		}

		record := model.ToDomain()
		if err := fn(record); err != nil {
			return err
		}

		record.Version = model.Version + 1
		if record.UpdatedAt.IsZero() {
			record.UpdatedAt = time.Now()
		}
		if err := rewrite(tx, record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// loadChildren fills transactions in display order, carry-overs and the roster snapshot of a record model
func loadChildren(db *gorm.DB, model *models.FinancialRecordModel) error {
	if err := db.Where("record_id = ?", model.ID).
		Order("bucket ASC").Order("position ASC").
		Find(&model.Transactions).Error; err != nil {
		return err
	}
	if err := db.Where("record_id = ?", model.ID).
		Order("investor_id ASC").
		Find(&model.CarryOvers).Error; err != nil {
		return err
	}
	return db.Where("record_id = ?", model.ID).
		Order("position ASC").
		Find(&model.RosterShares).Error
}

// rewrite updates the record header and replaces all of its children
func rewrite(tx *gorm.DB, record *ledger.FinancialRecord) error {
	model := models.FinancialRecordModelFromDomain(record)

	if err := tx.Model(&models.FinancialRecordModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"total_income":   model.TotalIncome,
			"total_expenses": model.TotalExpenses,
			"is_closed":      model.IsClosed,
			"closed_at":      model.ClosedAt,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		}).Error; err != nil {
		return err
	}

	if err := tx.Where("record_id = ?", model.ID).Delete(&models.LedgerTransactionModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("record_id = ?", model.ID).Delete(&models.InvestorCarryOverModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("record_id = ?", model.ID).Delete(&models.RecordRosterShareModel{}).Error; err != nil {
		return err
	}
	return insertChildren(tx, model)
}

func insertChildren(tx *gorm.DB, model *models.FinancialRecordModel) error {
	if len(model.Transactions) > 0 {
		if err := tx.CreateInBatches(model.Transactions, 100).Error; err != nil {
			return err
		}
	}
	if len(model.CarryOvers) > 0 {
		if err := tx.Create(model.CarryOvers).Error; err != nil {
			return err
		}
	}
	if len(model.RosterShares) > 0 {
		if err := tx.Create(model.RosterShares).Error; err != nil {
			return err
		}
	}
	return nil
}

// isUniqueViolation detects unique constraint errors across drivers
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
