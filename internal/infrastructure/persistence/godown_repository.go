package persistence

import (
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormGodownRepository implements GodownRepository using GORM
type GormGodownRepository struct {
	tenantRepository[partner.Godown, models.GodownModel, *models.GodownModel]
}

// NewGormGodownRepository creates a new GormGodownRepository
func NewGormGodownRepository(db *gorm.DB) *GormGodownRepository {
	return &GormGodownRepository{
		tenantRepository: newTenantRepository[partner.Godown, models.GodownModel](db, tableOptions{
			resource:   "godown",
			searchCols: []string{"code", "name"},
			filterCols: map[string]bool{"location_id": true},
		}),
	}
}

var _ partner.GodownRepository = (*GormGodownRepository)(nil)
