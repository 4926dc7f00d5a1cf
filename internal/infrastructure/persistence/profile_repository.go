package persistence

import (
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProfileRepository implements ProfileRepository using GORM
type GormProfileRepository struct {
	tenantRepository[partner.Profile, models.ProfileModel, *models.ProfileModel]
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{
		tenantRepository: newTenantRepository[partner.Profile, models.ProfileModel](db, tableOptions{
			resource:   "profile",
			searchCols: []string{"code", "name", "contact_person", "phone", "ntn"},
			filterCols: map[string]bool{
				"type":        true,
				"province_id": true,
				"city_id":     true,
				"account_id":  true,
			},
		}),
	}
}

var _ partner.ProfileRepository = (*GormProfileRepository)(nil)
