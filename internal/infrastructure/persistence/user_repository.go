package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/ledger/internal/domain/identity"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	tenantRepository[identity.User, models.UserModel, *models.UserModel]
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{
		tenantRepository: newTenantRepository[identity.User, models.UserModel](db, tableOptions{
			resource:    "user",
			searchCols:  []string{"username", "display_name", "email"},
			filterCols:  map[string]bool{"is_active": true},
			sortFields:  UserSortFields,
			defaultSort: "username",
		}),
	}
}

// FindByUsername finds a user by username, case-insensitively
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var m models.UserModel
	if err := r.db.WithContext(ctx).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("user")
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
