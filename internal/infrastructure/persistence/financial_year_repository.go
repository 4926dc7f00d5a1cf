package persistence

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFinancialYearRepository implements FinancialYearRepository using GORM
type GormFinancialYearRepository struct {
	tenantRepository[organization.FinancialYear, models.FinancialYearModel, *models.FinancialYearModel]
}

// NewGormFinancialYearRepository creates a new GormFinancialYearRepository
func NewGormFinancialYearRepository(db *gorm.DB) *GormFinancialYearRepository {
	return &GormFinancialYearRepository{
		tenantRepository: newTenantRepository[organization.FinancialYear, models.FinancialYearModel](db, tableOptions{
			resource:    "financial year",
			searchCols:  []string{"code"},
			filterCols:  map[string]bool{"is_closed": true},
			sortFields:  FinancialYearSortFields,
			defaultSort: "start_date",
		}),
	}
}

// FindOverlapping returns the years sharing at least one day with [start, end]
func (r *GormFinancialYearRepository) FindOverlapping(ctx context.Context, companyID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]organization.FinancialYear, error) {
	query := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var rows []models.FinancialYearModel
	if err := query.Order("start_date").Find(&rows).Error; err != nil {
		return nil, err
	}
	years := make([]organization.FinancialYear, len(rows))
	for i := range rows {
		years[i] = *rows[i].ToDomain()
	}
	return years, nil
}

var _ organization.FinancialYearRepository = (*GormFinancialYearRepository)(nil)
