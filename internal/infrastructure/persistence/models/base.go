package models

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null"`
}

// LockKey returns the primary key and the version the row is written with
func (m *AggregateModel) LockKey() (uuid.UUID, int) {
	return m.ID, m.Version
}

func (m *AggregateModel) fromAggregate(a shared.BaseAggregateRoot) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
	m.Version = a.Version
}

func (m *AggregateModel) toAggregate() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Version: m.Version,
	}
}

// AuditModel adds the creator and last modifier. The company column is
// declared on each model so it can lead that model's unique index.
type AuditModel struct {
	AggregateModel
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
}

func (m *AuditModel) fromTenant(t shared.TenantAggregateRoot) {
	m.fromAggregate(t.BaseAggregateRoot)
	m.CreatedBy = t.CreatedBy
	m.UpdatedBy = t.UpdatedBy
}

func (m *AuditModel) toTenant(companyID uuid.UUID) shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: m.toAggregate(),
		CompanyID:         companyID,
		CreatedBy:         m.CreatedBy,
		UpdatedBy:         m.UpdatedBy,
	}
}

// All returns one zero value of every model, in dependency order. It feeds
// AutoMigrate for sqlite and the tests.
func All() []any {
	return []any{
		&CompanyModel{},
		&UserModel{},
		&LocationModel{},
		&FinancialYearModel{},
		&AccountModel{},
		&CostCenterModel{},
		&ProvinceModel{},
		&CityModel{},
		&UnitModel{},
		&GodownModel{},
		&ProfileModel{},
		&VoucherModel{},
		&VoucherEntryModel{},
		&VoucherItemModel{},
	}
}
