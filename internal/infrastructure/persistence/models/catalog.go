package models

import (
	"github.com/erp/ledger/internal/domain/catalog"
	"github.com/erp/ledger/internal/domain/geo"
	"github.com/google/uuid"
)

// UnitModel is the persistence model for a unit of measurement.
type UnitModel struct {
	AuditModel
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_units_company_code,priority:1"`
	Code        string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_units_company_code,priority:2"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the persistence model to a domain Unit.
func (m *UnitModel) ToDomain() *catalog.Unit {
	return &catalog.Unit{
		TenantAggregateRoot: m.toTenant(m.CompanyID),
		Code:                m.Code,
		Name:                m.Name,
		Description:         m.Description,
	}
}

// FromDomain populates the persistence model from a domain Unit.
func (m *UnitModel) FromDomain(u *catalog.Unit) {
	m.fromTenant(u.TenantAggregateRoot)
	m.CompanyID = u.CompanyID
	m.Code = u.Code
	m.Name = u.Name
	m.Description = u.Description
}

// ProvinceModel is the persistence model for Province.
type ProvinceModel struct {
	AuditModel
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_provinces_company_code,priority:1"`
	Code      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_provinces_company_code,priority:2"`
	Name      string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (ProvinceModel) TableName() string {
	return "provinces"
}

// ToDomain converts the persistence model to a domain Province.
func (m *ProvinceModel) ToDomain() *geo.Province {
	return &geo.Province{
		TenantAggregateRoot: m.toTenant(m.CompanyID),
		Code:                m.Code,
		Name:                m.Name,
	}
}

// FromDomain populates the persistence model from a domain Province.
func (m *ProvinceModel) FromDomain(p *geo.Province) {
	m.fromTenant(p.TenantAggregateRoot)
	m.CompanyID = p.CompanyID
	m.Code = p.Code
	m.Name = p.Name
}

// CityModel is the persistence model for City.
type CityModel struct {
	AuditModel
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cities_company_code,priority:1"`
	ProvinceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Code       string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_cities_company_code,priority:2"`
	Name       string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (CityModel) TableName() string {
	return "cities"
}

// ToDomain converts the persistence model to a domain City.
func (m *CityModel) ToDomain() *geo.City {
	return &geo.City{
		TenantAggregateRoot: m.toTenant(m.CompanyID),
		ProvinceID:          m.ProvinceID,
		Code:                m.Code,
		Name:                m.Name,
	}
}

// FromDomain populates the persistence model from a domain City.
func (m *CityModel) FromDomain(c *geo.City) {
	m.fromTenant(c.TenantAggregateRoot)
	m.CompanyID = c.CompanyID
	m.ProvinceID = c.ProvinceID
	m.Code = c.Code
	m.Name = c.Name
}
