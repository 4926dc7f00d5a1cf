package persistence

import (
	"github.com/erp/ledger/internal/domain/geo"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProvinceRepository implements ProvinceRepository using GORM
type GormProvinceRepository struct {
	tenantRepository[geo.Province, models.ProvinceModel, *models.ProvinceModel]
}

// NewGormProvinceRepository creates a new GormProvinceRepository
func NewGormProvinceRepository(db *gorm.DB) *GormProvinceRepository {
	return &GormProvinceRepository{
		tenantRepository: newTenantRepository[geo.Province, models.ProvinceModel](db, tableOptions{
			resource:   "province",
			searchCols: []string{"code", "name"},
		}),
	}
}

// GormCityRepository implements CityRepository using GORM
type GormCityRepository struct {
	tenantRepository[geo.City, models.CityModel, *models.CityModel]
}

// NewGormCityRepository creates a new GormCityRepository
func NewGormCityRepository(db *gorm.DB) *GormCityRepository {
	return &GormCityRepository{
		tenantRepository: newTenantRepository[geo.City, models.CityModel](db, tableOptions{
			resource:   "city",
			searchCols: []string{"code", "name"},
			filterCols: map[string]bool{"province_id": true},
		}),
	}
}

var (
	_ geo.ProvinceRepository = (*GormProvinceRepository)(nil)
	_ geo.CityRepository     = (*GormCityRepository)(nil)
)
