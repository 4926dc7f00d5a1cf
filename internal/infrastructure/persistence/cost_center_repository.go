package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCostCenterRepository implements CostCenterRepository using GORM
type GormCostCenterRepository struct {
	tenantRepository[ledger.CostCenter, models.CostCenterModel, *models.CostCenterModel]
}

// NewGormCostCenterRepository creates a new GormCostCenterRepository
func NewGormCostCenterRepository(db *gorm.DB) *GormCostCenterRepository {
	return &GormCostCenterRepository{
		tenantRepository: newTenantRepository[ledger.CostCenter, models.CostCenterModel](db, tableOptions{
			resource:   "cost center",
			searchCols: []string{"code", "name"},
			filterCols: map[string]bool{"type": true},
		}),
	}
}

// FindByKind lists parent or child centers; parentID narrows children
func (r *GormCostCenterRepository) FindByKind(ctx context.Context, companyID uuid.UUID, kind ledger.CostCenterKind, parentID *uuid.UUID, filter shared.Filter) ([]ledger.CostCenter, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CostCenterModel{}).
		Scopes(companyScope(companyID)).
		Where("kind = ?", kind)
	if parentID != nil && kind == ledger.CostCenterChild {
		query = query.Where("parent_id = ?", *parentID)
	}
	return r.page(query, filter)
}

var _ ledger.CostCenterRepository = (*GormCostCenterRepository)(nil)
