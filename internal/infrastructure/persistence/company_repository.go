package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCompanyRepository implements CompanyRepository using GORM. Companies
// are the tenants themselves, so listing is not scoped.
type GormCompanyRepository struct {
	tenantRepository[organization.Company, models.CompanyModel, *models.CompanyModel]
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{
		tenantRepository: newTenantRepository[organization.Company, models.CompanyModel](db, tableOptions{
			resource:   "company",
			searchCols: []string{"code", "name", "ntn"},
			filterCols: map[string]bool{"status": true},
		}),
	}
}

// FindAll returns one page of companies and the total count
func (r *GormCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]organization.Company, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&models.CompanyModel{}), filter)
}

var _ organization.CompanyRepository = (*GormCompanyRepository)(nil)
