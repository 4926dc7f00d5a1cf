package persistence

import (
	"context"
	"fmt"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	tenantRepository[ledger.Account, models.AccountModel, *models.AccountModel]
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{
		tenantRepository: newTenantRepository[ledger.Account, models.AccountModel](db, tableOptions{
			resource:    "account",
			searchCols:  []string{"full_code", "name"},
			filterCols:  map[string]bool{"level": true, "nature": true},
			sortFields:  AccountSortFields,
			defaultSort: "full_code",
		}),
	}
}

// FindByLevel lists one level of the chart. A parent narrows the list to
// the direct children of that account.
func (r *GormAccountRepository) FindByLevel(ctx context.Context, companyID uuid.UUID, level int, parentID *uuid.UUID, filter shared.Filter) ([]ledger.Account, int64, error) {
	if !ledger.ValidLevel(level) {
		return nil, 0, shared.NewDomainError("INVALID_LEVEL", "Account level must be between 1 and 4")
	}
	query := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Scopes(companyScope(companyID)).
		Where("level = ?", level)
	if parentID != nil && level > ledger.Level1 {
		query = query.Where(fmt.Sprintf("level%d_id = ?", level-1), *parentID)
	}
	return r.page(query, filter)
}

var _ ledger.AccountRepository = (*GormAccountRepository)(nil)
