package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/investor"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ensure GormInvestorRepository implements InvestorRepository
var _ investor.InvestorRepository = (*GormInvestorRepository)(nil)

// GormInvestorRepository implements InvestorRepository using GORM
type GormInvestorRepository struct {
	db *gorm.DB
}

// NewGormInvestorRepository creates a new GormInvestorRepository
func NewGormInvestorRepository(db *gorm.DB) *GormInvestorRepository {
	return &GormInvestorRepository{db: db}
}

func preloadShares(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID finds an investor by its investor id
func (r *GormInvestorRepository) FindByID(ctx context.Context, investorID string) (*investor.Investor, error) {
	var model models.InvestorModel
	if err := r.db.WithContext(ctx).
		Preload("Properties", preloadShares).
		Where("investor_id = ?", investorID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists investors with search, property scoping, sorting and pagination
func (r *GormInvestorRepository) FindAll(ctx context.Context, filter investor.Filter) ([]*investor.Investor, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvestorModel{})

	if filter.PropertyID != "" {
		query = query.Where("investor_id IN (?)", r.holdersOf(ctx, filter.PropertyID))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(username) LIKE ? OR LOWER(email) LIKE ?)", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, InvestorSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	if filter.OrderDir == "" {
		sortOrder = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder)).Order("investor_id ASC")

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := filter.Offset(); offset > 0 {
			query = query.Offset(offset)
		}
	}

	var investorModels []models.InvestorModel
	if err := query.Preload("Properties", preloadShares).Find(&investorModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainInvestors(investorModels), total, nil
}

// FindByProperty lists the investors holding a share of the property in roster order
func (r *GormInvestorRepository) FindByProperty(ctx context.Context, propertyID string) ([]*investor.Investor, error) {
	var investorModels []models.InvestorModel
	if err := r.db.WithContext(ctx).
		Preload("Properties", preloadShares).
		Where("investor_id IN (?)", r.holdersOf(ctx, propertyID)).
		Order("created_at ASC").Order("investor_id ASC").
		Find(&investorModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvestors(investorModels), nil
}

// ListAll returns every investor in creation order
func (r *GormInvestorRepository) ListAll(ctx context.Context) ([]*investor.Investor, error) {
	var investorModels []models.InvestorModel
	if err := r.db.WithContext(ctx).
		Preload("Properties", preloadShares).
		Order("created_at ASC").Order("investor_id ASC").
		Find(&investorModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvestors(investorModels), nil
}

// ListIDs returns every investor id in use
func (r *GormInvestorRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.InvestorModel{}).
		Pluck("investor_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Create inserts a new investor and its property shares.
// It never overwrites: a taken investor id is reported as already exists.
func (r *GormInvestorRepository) Create(ctx context.Context, inv *investor.Investor) error {
	model := models.InvestorModelFromDomain(inv)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.Properties) == 0 {
			return nil
		}
		return tx.Create(model.Properties).Error
	})
	if isUniqueViolation(err) {
		return shared.NewDomainError(shared.CodeAlreadyExists,
			fmt.Sprintf("Investor %s already exists", inv.InvestorID))
	}
	return err
}

// Save updates the investor and replaces its property shares
func (r *GormInvestorRepository) Save(ctx context.Context, inv *investor.Investor) error {
	model := models.InvestorModelFromDomain(inv)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("investor_id = ?", model.InvestorID).
			Delete(&models.InvestorPropertyModel{}).Error; err != nil {
			return err
		}
		if len(model.Properties) == 0 {
			return nil
		}
		return tx.Create(model.Properties).Error
	})
}

// Delete removes an investor and its property shares
func (r *GormInvestorRepository) Delete(ctx context.Context, investorID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("investor_id = ?", investorID).
			Delete(&models.InvestorPropertyModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("investor_id = ?", investorID).Delete(&models.InvestorModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// holdersOf is a subquery selecting the investor ids associated with a property
func (r *GormInvestorRepository) holdersOf(ctx context.Context, propertyID string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.InvestorPropertyModel{}).
		Select("investor_id").
		Where("property_id = ?", propertyID)
}

func toDomainInvestors(investorModels []models.InvestorModel) []*investor.Investor {
	investors := make([]*investor.Investor, len(investorModels))
	for i := range investorModels {
		investors[i] = investorModels[i].ToDomain()
	}
	return investors
}
