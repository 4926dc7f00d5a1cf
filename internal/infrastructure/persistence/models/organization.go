package models

import (
	"time"

	"github.com/erp/ledger/internal/domain/organization"
	"github.com/google/uuid"
)

// CompanyModel is the persistence model for the Company tenant root.
type CompanyModel struct {
	AuditModel
	Code    string                     `gorm:"type:varchar(20);not null;uniqueIndex:idx_companies_code"`
	Name    string                     `gorm:"type:varchar(200);not null"`
	NTN     string                     `gorm:"column:ntn;type:varchar(50)"`
	STRN    string                     `gorm:"column:strn;type:varchar(50)"`
	Address string                     `gorm:"type:text"`
	Phone   string                     `gorm:"type:varchar(50)"`
	Email   string                     `gorm:"type:varchar(200)"`
	Status  organization.CompanyStatus `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company.
func (m *CompanyModel) ToDomain() *organization.Company {
	return &organization.Company{
		BaseAggregateRoot: m.toAggregate(),
		Code:              m.Code,
		Name:              m.Name,
		NTN:               m.NTN,
		STRN:              m.STRN,
		Address:           m.Address,
		Phone:             m.Phone,
		Email:             m.Email,
		Status:            m.Status,
		CreatedBy:         m.CreatedBy,
		UpdatedBy:         m.UpdatedBy,
	}
}

// FromDomain populates the persistence model from a domain Company.
func (m *CompanyModel) FromDomain(c *organization.Company) {
	m.fromAggregate(c.BaseAggregateRoot)
	m.CreatedBy = c.CreatedBy
	m.UpdatedBy = c.UpdatedBy
	m.Code = c.Code
	m.Name = c.Name
	m.NTN = c.NTN
	m.STRN = c.STRN
	m.Address = c.Address
	m.Phone = c.Phone
	m.Email = c.Email
	m.Status = c.Status
}

// LocationModel is the persistence model for Location.
type LocationModel struct {
	AuditModel
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_locations_company_code,priority:1"`
	Code      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_locations_company_code,priority:2"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Address   string    `gorm:"type:text"`
	Phone     string    `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (LocationModel) TableName() string {
	return "locations"
}

// ToDomain converts the persistence model to a domain Location.
func (m *LocationModel) ToDomain() *organization.Location {
	return &organization.Location{
		TenantAggregateRoot: m.toTenant(m.CompanyID),
		Code:                m.Code,
		Name:                m.Name,
		Address:             m.Address,
		Phone:               m.Phone,
	}
}

// FromDomain populates the persistence model from a domain Location.
func (m *LocationModel) FromDomain(l *organization.Location) {
	m.fromTenant(l.TenantAggregateRoot)
	m.CompanyID = l.CompanyID
	m.Code = l.Code
	m.Name = l.Name
	m.Address = l.Address
	m.Phone = l.Phone
}

// FinancialYearModel is the persistence model for FinancialYear.
type FinancialYearModel struct {
	AuditModel
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_financial_years_company_code,priority:1"`
	Code      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_financial_years_company_code,priority:2"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	IsClosed  bool      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FinancialYearModel) TableName() string {
	return "financial_years"
}

// ToDomain converts the persistence model to a domain FinancialYear.
func (m *FinancialYearModel) ToDomain() *organization.FinancialYear {
	return &organization.FinancialYear{
		TenantAggregateRoot: m.toTenant(m.CompanyID),
		Code:                m.Code,
		StartDate:           m.StartDate.UTC(),
		EndDate:             m.EndDate.UTC(),
		IsClosed:            m.IsClosed,
	}
}

// FromDomain populates the persistence model from a domain FinancialYear.
func (m *FinancialYearModel) FromDomain(f *organization.FinancialYear) {
	m.fromTenant(f.TenantAggregateRoot)
	m.CompanyID = f.CompanyID
	m.Code = f.Code
	m.StartDate = f.StartDate
	m.EndDate = f.EndDate
	m.IsClosed = f.IsClosed
}
