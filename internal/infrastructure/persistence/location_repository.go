package persistence

import (
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLocationRepository implements LocationRepository using GORM
type GormLocationRepository struct {
	tenantRepository[organization.Location, models.LocationModel, *models.LocationModel]
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{
		tenantRepository: newTenantRepository[organization.Location, models.LocationModel](db, tableOptions{
			resource:   "location",
			searchCols: []string{"code", "name"},
		}),
	}
}

var _ organization.LocationRepository = (*GormLocationRepository)(nil)
