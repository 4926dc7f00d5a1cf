package models

import (
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/google/uuid"
)

// AccountModel stores all four chart-of-accounts levels in one table.
// Full codes are unique per company across levels.
type AccountModel struct {
	AuditModel
	CompanyID uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_accounts_company_full_code,priority:1"`
	Level     int                  `gorm:"not null;index"`
	Code      string               `gorm:"type:varchar(4);not null"`
	FullCode  string               `gorm:"type:varchar(10);not null;uniqueIndex:idx_accounts_company_full_code,priority:2"`
	Name      string               `gorm:"type:varchar(200);not null"`
	Nature    ledger.AccountNature `gorm:"type:varchar(20);not null"`
	Level1ID  *uuid.UUID           `gorm:"column:level1_id;type:uuid;index"`
	Level2ID  *uuid.UUID           `gorm:"column:level2_id;type:uuid;index"`
	Level3ID  *uuid.UUID           `gorm:"column:level3_id;type:uuid;index"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account.
func (m *AccountModel) ToDomain() *ledger.Account {
	return &ledger.Account{
		TenantAggregateRoot: m.toTenant(m.CompanyID),
		Level:               m.Level,
		Code:                m.Code,
		FullCode:            m.FullCode,
		Name:                m.Name,
		Nature:              m.Nature,
		Level1ID:            m.Level1ID,
		Level2ID:            m.Level2ID,
		Level3ID:            m.Level3ID,
	}
}

// FromDomain populates the persistence model from a domain Account.
func (m *AccountModel) FromDomain(a *ledger.Account) {
	m.fromTenant(a.TenantAggregateRoot)
	m.CompanyID = a.CompanyID
	m.Level = a.Level
	m.Code = a.Code
	m.FullCode = a.FullCode
	m.Name = a.Name
	m.Nature = a.Nature
	m.Level1ID = a.Level1ID
	m.Level2ID = a.Level2ID
	m.Level3ID = a.Level3ID
}

// CostCenterModel stores parent and child centers in one table.
type CostCenterModel struct {
	AuditModel
	CompanyID uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_cost_centers_company_code,priority:1"`
	Kind      ledger.CostCenterKind `gorm:"type:varchar(10);not null;index"`
	Type      ledger.CostCenterType `gorm:"type:varchar(10);not null"`
	Code      string                `gorm:"type:varchar(20);not null;uniqueIndex:idx_cost_centers_company_code,priority:2"`
	Name      string                `gorm:"type:varchar(200);not null"`
	ParentID  *uuid.UUID            `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CostCenterModel) TableName() string {
	return "cost_centers"
}

// ToDomain converts the persistence model to a domain CostCenter.
func (m *CostCenterModel) ToDomain() *ledger.CostCenter {
	return &ledger.CostCenter{
		TenantAggregateRoot: m.toTenant(m.CompanyID),
		Kind:                m.Kind,
		Type:                m.Type,
		Code:                m.Code,
		Name:                m.Name,
		ParentID:            m.ParentID,
	}
}

// FromDomain populates the persistence model from a domain CostCenter.
func (m *CostCenterModel) FromDomain(c *ledger.CostCenter) {
	m.fromTenant(c.TenantAggregateRoot)
	m.CompanyID = c.CompanyID
	m.Kind = c.Kind
	m.Type = c.Type
	m.Code = c.Code
	m.Name = c.Name
	m.ParentID = c.ParentID
}
