package persistence

import (
	"github.com/erp/ledger/internal/domain/catalog"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUnitRepository implements UnitRepository using GORM
type GormUnitRepository struct {
	tenantRepository[catalog.Unit, models.UnitModel, *models.UnitModel]
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{
		tenantRepository: newTenantRepository[catalog.Unit, models.UnitModel](db, tableOptions{
			resource:   "unit",
			searchCols: []string{"code", "name"},
		}),
	}
}

var _ catalog.UnitRepository = (*GormUnitRepository)(nil)
