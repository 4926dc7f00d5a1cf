package models

import (
	"time"

	"github.com/erp/ledger/internal/domain/voucher"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherModel is the persistence model for the Voucher aggregate.
// Entries and items live in child tables and are rewritten on every update.
type VoucherModel struct {
	AuditModel
	CompanyID       uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_vouchers_company_number,priority:1;index:idx_vouchers_sequence,priority:1"`
	FinancialYearID uuid.UUID           `gorm:"type:uuid;not null;index:idx_vouchers_sequence,priority:2"`
	Type            voucher.Type        `gorm:"type:varchar(5);not null;index:idx_vouchers_sequence,priority:3"`
	Number          string              `gorm:"type:varchar(40);not null;uniqueIndex:idx_vouchers_company_number,priority:2"`
	Sequence        int                 `gorm:"not null"`
	Date            time.Time           `gorm:"type:date;not null"`
	LocationID      *uuid.UUID          `gorm:"type:uuid;index"`
	ProfileID       *uuid.UUID          `gorm:"type:uuid;index"`
	Narration       string              `gorm:"type:text"`
	Status          voucher.Status      `gorm:"type:varchar(10);not null"`
	PostedAt        *time.Time          `gorm:"column:posted_at"`
	PostedBy        *uuid.UUID          `gorm:"type:uuid"`
	TotalDebit      decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	TotalCredit     decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	GrossAmount     decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	TaxAmount       decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	NetAmount       decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Entries         []VoucherEntryModel `gorm:"foreignKey:VoucherID;constraint:OnDelete:CASCADE"`
	Items           []VoucherItemModel  `gorm:"foreignKey:VoucherID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (VoucherModel) TableName() string {
	return "vouchers"
}

// VoucherEntryModel is one debit/credit row.
type VoucherEntryModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VoucherID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo       int             `gorm:"not null"`
	AccountID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostCenterID *uuid.UUID      `gorm:"type:uuid;index"`
	Description  string          `gorm:"type:varchar(500)"`
	Debit        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Credit       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (VoucherEntryModel) TableName() string {
	return "voucher_entries"
}

// ToDomain converts the row to a domain Entry.
func (m *VoucherEntryModel) ToDomain() voucher.Entry {
	return voucher.Entry{
		ID:           m.ID,
		LineNo:       m.LineNo,
		AccountID:    m.AccountID,
		CostCenterID: m.CostCenterID,
		Description:  m.Description,
		Debit:        m.Debit,
		Credit:       m.Credit,
	}
}

// VoucherItemModel is one stock line of a sales or purchase voucher.
type VoucherItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VoucherID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo      int             `gorm:"not null"`
	GodownID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	GrossAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	NetAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (VoucherItemModel) TableName() string {
	return "voucher_items"
}

// ToDomain converts the row to a domain Item.
func (m *VoucherItemModel) ToDomain() voucher.Item {
	return voucher.Item{
		ID:          m.ID,
		LineNo:      m.LineNo,
		GodownID:    m.GodownID,
		UnitID:      m.UnitID,
		Description: m.Description,
		Quantity:    m.Quantity,
		Rate:        m.Rate,
		TaxRate:     m.TaxRate,
		GrossAmount: m.GrossAmount,
		TaxAmount:   m.TaxAmount,
		NetAmount:   m.NetAmount,
	}
}

// ToDomain converts the persistence model to a domain Voucher. Lines are
// included when they were preloaded.
func (m *VoucherModel) ToDomain() *voucher.Voucher {
	v := &voucher.Voucher{
		TenantAggregateRoot: m.toTenant(m.CompanyID),
		Type:                m.Type,
		Number:              m.Number,
		Sequence:            m.Sequence,
		Date:                m.Date.UTC(),
		FinancialYearID:     m.FinancialYearID,
		LocationID:          m.LocationID,
		ProfileID:           m.ProfileID,
		Narration:           m.Narration,
		Status:              m.Status,
		PostedAt:            m.PostedAt,
		PostedBy:            m.PostedBy,
		TotalDebit:          m.TotalDebit,
		TotalCredit:         m.TotalCredit,
		GrossAmount:         m.GrossAmount,
		TaxAmount:           m.TaxAmount,
		NetAmount:           m.NetAmount,
		Entries:             make([]voucher.Entry, len(m.Entries)),
		Items:               make([]voucher.Item, len(m.Items)),
	}
	for i := range m.Entries {
		v.Entries[i] = m.Entries[i].ToDomain()
	}
	for i := range m.Items {
		v.Items[i] = m.Items[i].ToDomain()
	}
	return v
}

// FromDomain populates the persistence model, lines included.
func (m *VoucherModel) FromDomain(v *voucher.Voucher) {
	m.fromTenant(v.TenantAggregateRoot)
	m.CompanyID = v.CompanyID
	m.FinancialYearID = v.FinancialYearID
	m.Type = v.Type
	m.Number = v.Number
	m.Sequence = v.Sequence
	m.Date = v.Date
	m.LocationID = v.LocationID
	m.ProfileID = v.ProfileID
	m.Narration = v.Narration
	m.Status = v.Status
	m.PostedAt = v.PostedAt
	m.PostedBy = v.PostedBy
	m.TotalDebit = v.TotalDebit
	m.TotalCredit = v.TotalCredit
	m.GrossAmount = v.GrossAmount
	m.TaxAmount = v.TaxAmount
	m.NetAmount = v.NetAmount

	m.Entries = make([]VoucherEntryModel, len(v.Entries))
	for i, e := range v.Entries {
		m.Entries[i] = VoucherEntryModel{
			ID:           e.ID,
			VoucherID:    v.ID,
			LineNo:       e.LineNo,
			AccountID:    e.AccountID,
			CostCenterID: e.CostCenterID,
			Description:  e.Description,
			Debit:        e.Debit,
			Credit:       e.Credit,
		}
	}
	m.Items = make([]VoucherItemModel, len(v.Items))
	for i, it := range v.Items {
		m.Items[i] = VoucherItemModel{
			ID:          it.ID,
			VoucherID:   v.ID,
			LineNo:      it.LineNo,
			GodownID:    it.GodownID,
			UnitID:      it.UnitID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			TaxRate:     it.TaxRate,
			GrossAmount: it.GrossAmount,
			TaxAmount:   it.TaxAmount,
			NetAmount:   it.NetAmount,
		}
	}
}
