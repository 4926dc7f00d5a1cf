package mongostore

import (
	"time"

	"github.com/erp/ledger/internal/domain/catalog"
	"github.com/erp/ledger/internal/domain/geo"
	"github.com/erp/ledger/internal/domain/identity"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/voucher"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// document is the mapper contract of every stored aggregate
type document[D any, T any] interface {
	*T
	toDomain() *D
	fromDomain(*D)
	lockKey() (string, int)
}

// BaseDocument holds the identity and version of a stored aggregate.
// The embedded document types are exported so the bson codec inlines them.
type BaseDocument struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
	Version   int       `bson:"version"`
}

func (d *BaseDocument) lockKey() (string, int) {
	return d.ID, d.Version
}

func (d *BaseDocument) fromAggregate(a shared.BaseAggregateRoot) {
	d.ID = a.ID.String()
	d.CreatedAt = a.CreatedAt.UTC()
	d.UpdatedAt = a.UpdatedAt.UTC()
	d.Version = a.Version
}

func (d *BaseDocument) toAggregate() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: shared.BaseEntity{ID: parseID(d.ID), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		Version:    d.Version,
	}
}

// TenantDocument carries the partition key and audit fields
type TenantDocument struct {
	BaseDocument `bson:",inline"`
	CompanyID    string  `bson:"company_id"`
	CreatedBy    *string `bson:"created_by,omitempty"`
	UpdatedBy    *string `bson:"updated_by,omitempty"`
}

func (d *TenantDocument) fromTenant(t shared.TenantAggregateRoot) {
	d.fromAggregate(t.BaseAggregateRoot)
	d.CompanyID = t.CompanyID.String()
	d.CreatedBy = optID(t.CreatedBy)
	d.UpdatedBy = optID(t.UpdatedBy)
}

func (d *TenantDocument) toTenant() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: d.toAggregate(),
		CompanyID:         parseID(d.CompanyID),
		CreatedBy:         parseOptID(d.CreatedBy),
		UpdatedBy:         parseOptID(d.UpdatedBy),
	}
}

type companyDoc struct {
	BaseDocument `bson:",inline"`
	Code         string  `bson:"code"`
	Name         string  `bson:"name"`
	NTN          string  `bson:"ntn"`
	STRN         string  `bson:"strn"`
	Address      string  `bson:"address"`
	Phone        string  `bson:"phone"`
	Email        string  `bson:"email"`
	Status       string  `bson:"status"`
	CreatedBy    *string `bson:"created_by,omitempty"`
	UpdatedBy    *string `bson:"updated_by,omitempty"`
}

func (d *companyDoc) fromDomain(c *organization.Company) {
	d.fromAggregate(c.BaseAggregateRoot)
	d.Code, d.Name = c.Code, c.Name
	d.NTN, d.STRN = c.NTN, c.STRN
	d.Address, d.Phone, d.Email = c.Address, c.Phone, c.Email
	d.Status = string(c.Status)
	d.CreatedBy, d.UpdatedBy = optID(c.CreatedBy), optID(c.UpdatedBy)
}

func (d *companyDoc) toDomain() *organization.Company {
	return &organization.Company{
		BaseAggregateRoot: d.toAggregate(),
		Code:              d.Code,
		Name:              d.Name,
		NTN:               d.NTN,
		STRN:              d.STRN,
		Address:           d.Address,
		Phone:             d.Phone,
		Email:             d.Email,
		Status:            organization.CompanyStatus(d.Status),
		CreatedBy:         parseOptID(d.CreatedBy),
		UpdatedBy:         parseOptID(d.UpdatedBy),
	}
}

type locationDoc struct {
	TenantDocument `bson:",inline"`
	Code           string `bson:"code"`
	Name           string `bson:"name"`
	Address        string `bson:"address"`
	Phone          string `bson:"phone"`
}

func (d *locationDoc) fromDomain(l *organization.Location) {
	d.fromTenant(l.TenantAggregateRoot)
	d.Code, d.Name, d.Address, d.Phone = l.Code, l.Name, l.Address, l.Phone
}

func (d *locationDoc) toDomain() *organization.Location {
	return &organization.Location{
		TenantAggregateRoot: d.toTenant(),
		Code:                d.Code,
		Name:                d.Name,
		Address:             d.Address,
		Phone:               d.Phone,
	}
}

type financialYearDoc struct {
	TenantDocument `bson:",inline"`
	Code           string    `bson:"code"`
	StartDate      time.Time `bson:"start_date"`
	EndDate        time.Time `bson:"end_date"`
	IsClosed       bool      `bson:"is_closed"`
}

func (d *financialYearDoc) fromDomain(f *organization.FinancialYear) {
	d.fromTenant(f.TenantAggregateRoot)
	d.Code, d.StartDate, d.EndDate, d.IsClosed = f.Code, f.StartDate, f.EndDate, f.IsClosed
}

func (d *financialYearDoc) toDomain() *organization.FinancialYear {
	return &organization.FinancialYear{
		TenantAggregateRoot: d.toTenant(),
		Code:                d.Code,
		StartDate:           d.StartDate.UTC(),
		EndDate:             d.EndDate.UTC(),
		IsClosed:            d.IsClosed,
	}
}

type accountDoc struct {
	TenantDocument `bson:",inline"`
	Level          int     `bson:"level"`
	Code           string  `bson:"code"`
	FullCode       string  `bson:"full_code"`
	Name           string  `bson:"name"`
	Nature         string  `bson:"nature"`
	Level1ID       *string `bson:"level1_id,omitempty"`
	Level2ID       *string `bson:"level2_id,omitempty"`
	Level3ID       *string `bson:"level3_id,omitempty"`
}

func (d *accountDoc) fromDomain(a *ledger.Account) {
	d.fromTenant(a.TenantAggregateRoot)
	d.Level, d.Code, d.FullCode, d.Name = a.Level, a.Code, a.FullCode, a.Name
	d.Nature = string(a.Nature)
	d.Level1ID, d.Level2ID, d.Level3ID = optID(a.Level1ID), optID(a.Level2ID), optID(a.Level3ID)
}

func (d *accountDoc) toDomain() *ledger.Account {
	return &ledger.Account{
		TenantAggregateRoot: d.toTenant(),
		Level:               d.Level,
		Code:                d.Code,
		FullCode:            d.FullCode,
		Name:                d.Name,
		Nature:              ledger.AccountNature(d.Nature),
		Level1ID:            parseOptID(d.Level1ID),
		Level2ID:            parseOptID(d.Level2ID),
		Level3ID:            parseOptID(d.Level3ID),
	}
}

type costCenterDoc struct {
	TenantDocument `bson:",inline"`
	Kind           string  `bson:"kind"`
	Type           string  `bson:"type"`
	Code           string  `bson:"code"`
	Name           string  `bson:"name"`
	ParentID       *string `bson:"parent_id,omitempty"`
}

func (d *costCenterDoc) fromDomain(c *ledger.CostCenter) {
	d.fromTenant(c.TenantAggregateRoot)
	d.Kind, d.Type = string(c.Kind), string(c.Type)
	d.Code, d.Name, d.ParentID = c.Code, c.Name, optID(c.ParentID)
}

func (d *costCenterDoc) toDomain() *ledger.CostCenter {
	return &ledger.CostCenter{
		TenantAggregateRoot: d.toTenant(),
		Kind:                ledger.CostCenterKind(d.Kind),
		Type:                ledger.CostCenterType(d.Type),
		Code:                d.Code,
		Name:                d.Name,
		ParentID:            parseOptID(d.ParentID),
	}
}

type profileDoc struct {
	TenantDocument `bson:",inline"`
	Type           string               `bson:"type"`
	Code           string               `bson:"code"`
	Name           string               `bson:"name"`
	ContactPerson  string               `bson:"contact_person"`
	Phone          string               `bson:"phone"`
	Email          string               `bson:"email"`
	Address        string               `bson:"address"`
	ProvinceID     *string              `bson:"province_id,omitempty"`
	CityID         *string              `bson:"city_id,omitempty"`
	NTN            string               `bson:"ntn"`
	STRN           string               `bson:"strn"`
	CNIC           string               `bson:"cnic"`
	AccountID      *string              `bson:"account_id,omitempty"`
	CreditLimit    primitive.Decimal128 `bson:"credit_limit"`
}

func (d *profileDoc) fromDomain(p *partner.Profile) {
	d.fromTenant(p.TenantAggregateRoot)
	d.Type, d.Code, d.Name = string(p.Type), p.Code, p.Name
	d.ContactPerson, d.Phone, d.Email, d.Address = p.ContactPerson, p.Phone, p.Email, p.Address
	d.ProvinceID, d.CityID = optID(p.ProvinceID), optID(p.CityID)
	d.NTN, d.STRN, d.CNIC = p.NTN, p.STRN, p.CNIC
	d.AccountID = optID(p.AccountID)
	d.CreditLimit = toDecimal128(p.CreditLimit)
}

func (d *profileDoc) toDomain() *partner.Profile {
	return &partner.Profile{
		TenantAggregateRoot: d.toTenant(),
		Type:                partner.ProfileType(d.Type),
		Code:                d.Code,
		Name:                d.Name,
		ContactPerson:       d.ContactPerson,
		Phone:               d.Phone,
		Email:               d.Email,
		Address:             d.Address,
		ProvinceID:          parseOptID(d.ProvinceID),
		CityID:              parseOptID(d.CityID),
		NTN:                 d.NTN,
		STRN:                d.STRN,
		CNIC:                d.CNIC,
		AccountID:           parseOptID(d.AccountID),
		CreditLimit:         fromDecimal128(d.CreditLimit),
	}
}

type godownDoc struct {
	TenantDocument `bson:",inline"`
	Code           string  `bson:"code"`
	Name           string  `bson:"name"`
	LocationID     *string `bson:"location_id,omitempty"`
	Address        string  `bson:"address"`
}

func (d *godownDoc) fromDomain(g *partner.Godown) {
	d.fromTenant(g.TenantAggregateRoot)
	d.Code, d.Name, d.LocationID, d.Address = g.Code, g.Name, optID(g.LocationID), g.Address
}

func (d *godownDoc) toDomain() *partner.Godown {
	return &partner.Godown{
		TenantAggregateRoot: d.toTenant(),
		Code:                d.Code,
		Name:                d.Name,
		LocationID:          parseOptID(d.LocationID),
		Address:             d.Address,
	}
}

type unitDoc struct {
	TenantDocument `bson:",inline"`
	Code           string `bson:"code"`
	Name           string `bson:"name"`
	Description    string `bson:"description"`
}

func (d *unitDoc) fromDomain(u *catalog.Unit) {
	d.fromTenant(u.TenantAggregateRoot)
	d.Code, d.Name, d.Description = u.Code, u.Name, u.Description
}

func (d *unitDoc) toDomain() *catalog.Unit {
	return &catalog.Unit{
		TenantAggregateRoot: d.toTenant(),
		Code:                d.Code,
		Name:                d.Name,
		Description:         d.Description,
	}
}

type provinceDoc struct {
	TenantDocument `bson:",inline"`
	Code           string `bson:"code"`
	Name           string `bson:"name"`
}

func (d *provinceDoc) fromDomain(p *geo.Province) {
	d.fromTenant(p.TenantAggregateRoot)
	d.Code, d.Name = p.Code, p.Name
}

func (d *provinceDoc) toDomain() *geo.Province {
	return &geo.Province{TenantAggregateRoot: d.toTenant(), Code: d.Code, Name: d.Name}
}

type cityDoc struct {
	TenantDocument `bson:",inline"`
	ProvinceID     string `bson:"province_id"`
	Code           string `bson:"code"`
	Name           string `bson:"name"`
}

func (d *cityDoc) fromDomain(c *geo.City) {
	d.fromTenant(c.TenantAggregateRoot)
	d.ProvinceID, d.Code, d.Name = c.ProvinceID.String(), c.Code, c.Name
}

func (d *cityDoc) toDomain() *geo.City {
	return &geo.City{
		TenantAggregateRoot: d.toTenant(),
		ProvinceID:          parseID(d.ProvinceID),
		Code:                d.Code,
		Name:                d.Name,
	}
}

type userDoc struct {
	TenantDocument `bson:",inline"`
	Username       string     `bson:"username"`
	PasswordHash   string     `bson:"password_hash"`
	DisplayName    string     `bson:"display_name"`
	Email          string     `bson:"email"`
	IsActive       bool       `bson:"is_active"`
	LastLoginAt    *time.Time `bson:"last_login_at,omitempty"`
}

func (d *userDoc) fromDomain(u *identity.User) {
	d.fromTenant(u.TenantAggregateRoot)
	d.Username, d.PasswordHash = u.Username, u.PasswordHash
	d.DisplayName, d.Email, d.IsActive = u.DisplayName, u.Email, u.IsActive
	d.LastLoginAt = u.LastLoginAt
}

func (d *userDoc) toDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: d.toTenant(),
		Username:            d.Username,
		PasswordHash:        d.PasswordHash,
		DisplayName:         d.DisplayName,
		Email:               d.Email,
		IsActive:            d.IsActive,
		LastLoginAt:         d.LastLoginAt,
	}
}

type entryDoc struct {
	ID           string               `bson:"id"`
	LineNo       int                  `bson:"line_no"`
	AccountID    string               `bson:"account_id"`
	CostCenterID *string              `bson:"cost_center_id,omitempty"`
	Description  string               `bson:"description"`
	Debit        primitive.Decimal128 `bson:"debit"`
	Credit       primitive.Decimal128 `bson:"credit"`
}

func (d *entryDoc) toDomain() voucher.Entry {
	return voucher.Entry{
		ID:           parseID(d.ID),
		LineNo:       d.LineNo,
		AccountID:    parseID(d.AccountID),
		CostCenterID: parseOptID(d.CostCenterID),
		Description:  d.Description,
		Debit:        fromDecimal128(d.Debit),
		Credit:       fromDecimal128(d.Credit),
	}
}

type itemDoc struct {
	ID          string               `bson:"id"`
	LineNo      int                  `bson:"line_no"`
	GodownID    string               `bson:"godown_id"`
	UnitID      string               `bson:"unit_id"`
	Description string               `bson:"description"`
	Quantity    primitive.Decimal128 `bson:"quantity"`
	Rate        primitive.Decimal128 `bson:"rate"`
	TaxRate     primitive.Decimal128 `bson:"tax_rate"`
	GrossAmount primitive.Decimal128 `bson:"gross_amount"`
	TaxAmount   primitive.Decimal128 `bson:"tax_amount"`
	NetAmount   primitive.Decimal128 `bson:"net_amount"`
}

type voucherDoc struct {
	TenantDocument  `bson:",inline"`
	Type            string               `bson:"type"`
	Number          string               `bson:"number"`
	Sequence        int                  `bson:"sequence"`
	Date            time.Time            `bson:"date"`
	FinancialYearID string               `bson:"financial_year_id"`
	LocationID      *string              `bson:"location_id,omitempty"`
	ProfileID       *string              `bson:"profile_id,omitempty"`
	Narration       string               `bson:"narration"`
	Status          string               `bson:"status"`
	PostedAt        *time.Time           `bson:"posted_at,omitempty"`
	PostedBy        *string              `bson:"posted_by,omitempty"`
	Entries         []entryDoc           `bson:"entries"`
	Items           []itemDoc            `bson:"items"`
	TotalDebit      primitive.Decimal128 `bson:"total_debit"`
	TotalCredit     primitive.Decimal128 `bson:"total_credit"`
	GrossAmount     primitive.Decimal128 `bson:"gross_amount"`
	TaxAmount       primitive.Decimal128 `bson:"tax_amount"`
	NetAmount       primitive.Decimal128 `bson:"net_amount"`
}

func (d *voucherDoc) fromDomain(v *voucher.Voucher) {
	d.fromTenant(v.TenantAggregateRoot)
	d.Type, d.Number, d.Sequence = string(v.Type), v.Number, v.Sequence
	d.Date = v.Date.UTC()
	d.FinancialYearID = v.FinancialYearID.String()
	d.LocationID, d.ProfileID = optID(v.LocationID), optID(v.ProfileID)
	d.Narration, d.Status = v.Narration, string(v.Status)
	d.PostedAt, d.PostedBy = v.PostedAt, optID(v.PostedBy)
	d.TotalDebit, d.TotalCredit = toDecimal128(v.TotalDebit), toDecimal128(v.TotalCredit)
	d.GrossAmount, d.TaxAmount, d.NetAmount = toDecimal128(v.GrossAmount), toDecimal128(v.TaxAmount), toDecimal128(v.NetAmount)

	d.Entries = make([]entryDoc, len(v.Entries))
	for i, e := range v.Entries {
		d.Entries[i] = entryDoc{
			ID:           e.ID.String(),
			LineNo:       e.LineNo,
			AccountID:    e.AccountID.String(),
			CostCenterID: optID(e.CostCenterID),
			Description:  e.Description,
			Debit:        toDecimal128(e.Debit),
			Credit:       toDecimal128(e.Credit),
		}
	}
	d.Items = make([]itemDoc, len(v.Items))
	for i, it := range v.Items {
		d.Items[i] = itemDoc{
			ID:          it.ID.String(),
			LineNo:      it.LineNo,
			GodownID:    it.GodownID.String(),
			UnitID:      it.UnitID.String(),
			Description: it.Description,
			Quantity:    toDecimal128(it.Quantity),
			Rate:        toDecimal128(it.Rate),
			TaxRate:     toDecimal128(it.TaxRate),
			GrossAmount: toDecimal128(it.GrossAmount),
			TaxAmount:   toDecimal128(it.TaxAmount),
			NetAmount:   toDecimal128(it.NetAmount),
		}
	}
}

func (d *voucherDoc) toDomain() *voucher.Voucher {
	v := &voucher.Voucher{
		TenantAggregateRoot: d.toTenant(),
		Type:                voucher.Type(d.Type),
		Number:              d.Number,
		Sequence:            d.Sequence,
		Date:                d.Date.UTC(),
		FinancialYearID:     parseID(d.FinancialYearID),
		LocationID:          parseOptID(d.LocationID),
		ProfileID:           parseOptID(d.ProfileID),
		Narration:           d.Narration,
		Status:              voucher.Status(d.Status),
		PostedAt:            d.PostedAt,
		PostedBy:            parseOptID(d.PostedBy),
		TotalDebit:          fromDecimal128(d.TotalDebit),
		TotalCredit:         fromDecimal128(d.TotalCredit),
		GrossAmount:         fromDecimal128(d.GrossAmount),
		TaxAmount:           fromDecimal128(d.TaxAmount),
		NetAmount:           fromDecimal128(d.NetAmount),
		Entries:             make([]voucher.Entry, len(d.Entries)),
		Items:               make([]voucher.Item, len(d.Items)),
	}
	for i := range d.Entries {
		v.Entries[i] = d.Entries[i].toDomain()
	}
	for i, it := range d.Items {
		v.Items[i] = voucher.Item{
			ID:          parseID(it.ID),
			LineNo:      it.LineNo,
			GodownID:    parseID(it.GodownID),
			UnitID:      parseID(it.UnitID),
			Description: it.Description,
			Quantity:    fromDecimal128(it.Quantity),
			Rate:        fromDecimal128(it.Rate),
			TaxRate:     fromDecimal128(it.TaxRate),
			GrossAmount: fromDecimal128(it.GrossAmount),
			TaxAmount:   fromDecimal128(it.TaxAmount),
			NetAmount:   fromDecimal128(it.NetAmount),
		}
	}
	return v
}
