package models

import (
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfileModel is the persistence model for the Profile domain entity.
type ProfileModel struct {
	AuditModel
	CompanyID     uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_profiles_company_code,priority:1"`
	Type          partner.ProfileType `gorm:"type:varchar(20);not null"`
	Code          string              `gorm:"type:varchar(20);not null;uniqueIndex:idx_profiles_company_code,priority:2"`
	Name          string              `gorm:"type:varchar(200);not null"`
	ContactPerson string              `gorm:"type:varchar(100)"`
	Phone         string              `gorm:"type:varchar(20)"`
	Email         string              `gorm:"type:varchar(200)"`
	Address       string              `gorm:"type:text"`
	ProvinceID    *uuid.UUID          `gorm:"type:uuid;index"`
	CityID        *uuid.UUID          `gorm:"type:uuid;index"`
	NTN           string              `gorm:"column:ntn;type:varchar(50)"`
	STRN          string              `gorm:"column:strn;type:varchar(50)"`
	CNIC          string              `gorm:"column:cnic;type:varchar(20)"`
	AccountID     *uuid.UUID          `gorm:"type:uuid;index"`
	CreditLimit   decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile.
func (m *ProfileModel) ToDomain() *partner.Profile {
	return &partner.Profile{
		TenantAggregateRoot: m.toTenant(m.CompanyID),
		Type:                m.Type,
		Code:                m.Code,
		Name:                m.Name,
		ContactPerson:       m.ContactPerson,
		Phone:               m.Phone,
		Email:               m.Email,
		Address:             m.Address,
		ProvinceID:          m.ProvinceID,
		CityID:              m.CityID,
		NTN:                 m.NTN,
		STRN:                m.STRN,
		CNIC:                m.CNIC,
		AccountID:           m.AccountID,
		CreditLimit:         m.CreditLimit,
	}
}

// FromDomain populates the persistence model from a domain Profile.
func (m *ProfileModel) FromDomain(p *partner.Profile) {
	m.fromTenant(p.TenantAggregateRoot)
	m.CompanyID = p.CompanyID
	m.Type = p.Type
	m.Code = p.Code
	m.Name = p.Name
	m.ContactPerson = p.ContactPerson
	m.Phone = p.Phone
	m.Email = p.Email
	m.Address = p.Address
	m.ProvinceID = p.ProvinceID
	m.CityID = p.CityID
	m.NTN = p.NTN
	m.STRN = p.STRN
	m.CNIC = p.CNIC
	m.AccountID = p.AccountID
	m.CreditLimit = p.CreditLimit
}

// GodownModel is the persistence model for the Godown domain entity.
type GodownModel struct {
	AuditModel
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_godowns_company_code,priority:1"`
	Code       string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_godowns_company_code,priority:2"`
	Name       string     `gorm:"type:varchar(200);not null"`
	LocationID *uuid.UUID `gorm:"type:uuid;index"`
	Address    string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (GodownModel) TableName() string {
	return "godowns"
}

// ToDomain converts the persistence model to a domain Godown.
func (m *GodownModel) ToDomain() *partner.Godown {
	return &partner.Godown{
		TenantAggregateRoot: m.toTenant(m.CompanyID),
		Code:                m.Code,
		Name:                m.Name,
		LocationID:          m.LocationID,
		Address:             m.Address,
	}
}

// FromDomain populates the persistence model from a domain Godown.
func (m *GodownModel) FromDomain(g *partner.Godown) {
	m.fromTenant(g.TenantAggregateRoot)
	m.CompanyID = g.CompanyID
	m.Code = g.Code
	m.Name = g.Name
	m.LocationID = g.LocationID
	m.Address = g.Address
}
