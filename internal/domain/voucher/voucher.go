package voucher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the kind of voucher. It prefixes the voucher number.
type Type string

const (
	TypeJournal     Type = "JV"
	TypeCashPayment Type = "CPV"
	TypeCashReceipt Type = "CRV"
	TypeBankPayment Type = "BPV"
	TypeBankReceipt Type = "BRV"
	TypeSales       Type = "SV"
	TypePurchase    Type = "PV"
)

// IsValid reports whether t is a known voucher type
func (t Type) IsValid() bool {
	switch t {
	case TypeJournal, TypeCashPayment, TypeCashReceipt, TypeBankPayment, TypeBankReceipt, TypeSales, TypePurchase:
		return true
	}
	return false
}

// CarriesItems reports whether the type records stock items
func (t Type) CarriesItems() bool {
	return t == TypeSales || t == TypePurchase
}

// Status of a voucher
type Status string

const (
	StatusDraft  Status = "draft"
	StatusPosted Status = "posted"
)

// Voucher is a double-entry accounting document. Sales and purchase
// vouchers carry stock items whose net total must equal the debit side.
type Voucher struct {
	shared.TenantAggregateRoot
	Type            Type
	Number          string
	Sequence        int
	Date            time.Time
	FinancialYearID uuid.UUID
	LocationID      *uuid.UUID
	ProfileID       *uuid.UUID
	Narration       string
	Status          Status
	PostedAt        *time.Time
	PostedBy        *uuid.UUID
	Entries         []Entry
	Items           []Item
	TotalDebit      decimal.Decimal
	TotalCredit     decimal.Decimal
	GrossAmount     decimal.Decimal
	TaxAmount       decimal.Decimal
	NetAmount       decimal.Decimal
}

// NewVoucher creates a draft voucher dated inside year
func NewVoucher(year *organization.FinancialYear, voucherType Type, date time.Time, narration string, createdBy *uuid.UUID) (*Voucher, error) {
	if !voucherType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown voucher type")
	}
	if err := checkYear(year, date); err != nil {
		return nil, err
	}
	return &Voucher{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(year.CompanyID, createdBy),
		Type:                voucherType,
		Date:                dateOnly(date),
		FinancialYearID:     year.ID,
		Narration:           strings.TrimSpace(narration),
		Status:              StatusDraft,
		TotalDebit:          decimal.Zero,
		TotalCredit:         decimal.Zero,
		GrossAmount:         decimal.Zero,
		TaxAmount:           decimal.Zero,
		NetAmount:           decimal.Zero,
	}, nil
}

// AssignNumber sets the sequence and the display number <TYPE>-<YEAR>-<seq>
func (v *Voucher) AssignNumber(yearCode string, sequence int) {
	v.Sequence = sequence
	v.Number = fmt.Sprintf("%s-%s-%05d", v.Type, yearCode, sequence)
}

// Reschedule moves the voucher to another date, possibly in another year
func (v *Voucher) Reschedule(year *organization.FinancialYear, date time.Time) error {
	if err := v.EnsureEditable(); err != nil {
		return err
	}
	if err := checkYear(year, date); err != nil {
		return err
	}
	if year.CompanyID != v.CompanyID {
		return shared.NewDomainError("INVALID_FINANCIAL_YEAR", "Financial year does not exist in this company")
	}
	v.FinancialYearID = year.ID
	v.Date = dateOnly(date)
	return nil
}

// SetParties sets the optional location and profile
func (v *Voucher) SetParties(locationID, profileID *uuid.UUID) {
	v.LocationID = locationID
	v.ProfileID = profileID
}

// SetNarration sets the free-text narration
func (v *Voucher) SetNarration(narration string) {
	v.Narration = strings.TrimSpace(narration)
}

// SetLines replaces entries and items, numbers them, recomputes the totals
// and validates that the voucher balances.
func (v *Voucher) SetLines(entries []Entry, items []Item) error {
	if err := v.EnsureEditable(); err != nil {
		return err
	}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for i := range entries {
		// validate what will be stored
		entries[i].Debit = entries[i].Debit.Round(2)
		entries[i].Credit = entries[i].Credit.Round(2)
		if err := entries[i].validate(); err != nil {
			return shared.NewDomainError("INVALID_ENTRY", fmt.Sprintf("Entry %d: %s", i+1, err.Error()))
		}
		if entries[i].ID == uuid.Nil {
			entries[i].ID = uuid.New()
		}
		entries[i].LineNo = i + 1
		totalDebit = totalDebit.Add(entries[i].Debit)
		totalCredit = totalCredit.Add(entries[i].Credit)
	}

	gross, tax, net := decimal.Zero, decimal.Zero, decimal.Zero
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].LineNo = i + 1
		gross = gross.Add(items[i].GrossAmount)
		tax = tax.Add(items[i].TaxAmount)
		net = net.Add(items[i].NetAmount)
	}

	if len(entries) < 2 {
		return shared.NewDomainError("UNBALANCED_VOUCHER", "A voucher needs at least two entries")
	}
	if !totalDebit.Equal(totalCredit) {
		return shared.NewDomainError("UNBALANCED_VOUCHER",
			fmt.Sprintf("Total debit %s does not equal total credit %s", totalDebit.StringFixed(2), totalCredit.StringFixed(2)))
	}
	if v.Type.CarriesItems() && len(items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", fmt.Sprintf("%s vouchers need at least one item", v.Type))
	}
	if !v.Type.CarriesItems() && len(items) > 0 {
		return shared.NewDomainError("INVALID_ITEMS", fmt.Sprintf("%s vouchers cannot carry items", v.Type))
	}
	if len(items) > 0 && !net.Equal(totalDebit) {
		return shared.NewDomainError("UNBALANCED_VOUCHER",
			fmt.Sprintf("Item net amount %s does not equal total debit %s", net.StringFixed(2), totalDebit.StringFixed(2)))
	}

	v.Entries = entries
	v.Items = items
	v.TotalDebit = totalDebit
	v.TotalCredit = totalCredit
	v.GrossAmount = gross
	v.TaxAmount = tax
	v.NetAmount = net
	return nil
}

// Post freezes the voucher
func (v *Voucher) Post(by *uuid.UUID) error {
	if v.Status == StatusPosted {
		return shared.NewDomainError("INVALID_STATE", "Voucher is already posted")
	}
	now := time.Now()
	v.Status = StatusPosted
	v.PostedAt = &now
	v.PostedBy = by
	return nil
}

// EnsureEditable fails for posted vouchers
func (v *Voucher) EnsureEditable() error {
	if v.Status == StatusPosted {
		return shared.NewDomainError("INVALID_STATE", "Posted vouchers cannot be changed")
	}
	return nil
}

// AccountIDs returns the distinct accounts referenced by the entries
func (v *Voucher) AccountIDs() []uuid.UUID {
	return distinct(len(v.Entries), func(i int) *uuid.UUID { id := v.Entries[i].AccountID; return &id })
}

// CostCenterIDs returns the distinct cost centers referenced by the entries
func (v *Voucher) CostCenterIDs() []uuid.UUID {
	return distinct(len(v.Entries), func(i int) *uuid.UUID { return v.Entries[i].CostCenterID })
}

// GodownIDs returns the distinct godowns referenced by the items
func (v *Voucher) GodownIDs() []uuid.UUID {
	return distinct(len(v.Items), func(i int) *uuid.UUID { id := v.Items[i].GodownID; return &id })
}

// UnitIDs returns the distinct units referenced by the items
func (v *Voucher) UnitIDs() []uuid.UUID {
	return distinct(len(v.Items), func(i int) *uuid.UUID { id := v.Items[i].UnitID; return &id })
}

func distinct(n int, at func(int) *uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, n)
	out := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		id := at(i)
		if id == nil {
			continue
		}
		if _, ok := seen[*id]; ok {
			continue
		}
		seen[*id] = struct{}{}
		out = append(out, *id)
	}
	return out
}

func checkYear(year *organization.FinancialYear, date time.Time) error {
	if year == nil {
		return shared.NewDomainError("INVALID_FINANCIAL_YEAR", "Financial year is required")
	}
	if year.IsClosed {
		return shared.NewDomainError("INVALID_STATE", "Financial year "+year.Code+" is closed")
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Voucher date is required")
	}
	if !year.Contains(date) {
		return shared.NewDomainError("INVALID_DATE", "Voucher date is outside financial year "+year.Code)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Repository defines persistence for vouchers
type Repository interface {
	shared.TenantRepository[Voucher]

	// NextSequence returns one past the highest sequence used for the
	// company, year and type
	NextSequence(ctx context.Context, companyID, financialYearID uuid.UUID, voucherType Type) (int, error)

	// FindPostedEntries returns the entries of posted vouchers, optionally
	// restricted to one financial year
	FindPostedEntries(ctx context.Context, companyID uuid.UUID, financialYearID *uuid.UUID) ([]Entry, error)

	// CountOutside counts the vouchers filed under a financial year that
	// are dated before start or after end
	CountOutside(ctx context.Context, financialYearID uuid.UUID, start, end time.Time) (int64, error)
}
