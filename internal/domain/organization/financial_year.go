package organization

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// FinancialYear is an accounting period of a company. Vouchers are dated
// inside exactly one financial year.
type FinancialYear struct {
	shared.TenantAggregateRoot
	Code      string // e.g. 2025-26
	StartDate time.Time
	EndDate   time.Time
	IsClosed  bool
}

// NewFinancialYear creates an open financial year
func NewFinancialYear(companyID uuid.UUID, code string, start, end time.Time, createdBy *uuid.UUID) (*FinancialYear, error) {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return nil, err
	}
	start, end = truncateDay(start), truncateDay(end)
	if err := validatePeriod(start, end); err != nil {
		return nil, err
	}
	return &FinancialYear{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID, createdBy),
		Code:                code,
		StartDate:           start,
		EndDate:             end,
	}, nil
}

// SetCode changes the year code
func (f *FinancialYear) SetCode(code string) error {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return err
	}
	f.Code = code
	return nil
}

// Reschedule changes the period. The end must fall after the start.
func (f *FinancialYear) Reschedule(start, end time.Time) error {
	start, end = truncateDay(start), truncateDay(end)
	if err := validatePeriod(start, end); err != nil {
		return err
	}
	f.StartDate = start
	f.EndDate = end
	return nil
}

// Close marks the year closed; closed years reject new vouchers
func (f *FinancialYear) Close() {
	f.IsClosed = true
}

// Reopen clears the closed flag
func (f *FinancialYear) Reopen() {
	f.IsClosed = false
}

// Contains reports whether date falls within the period, inclusive
func (f *FinancialYear) Contains(date time.Time) bool {
	d := truncateDay(date)
	return !d.Before(f.StartDate) && !d.After(f.EndDate)
}

// Overlaps reports whether the two periods share at least one day
func (f *FinancialYear) Overlaps(start, end time.Time) bool {
	return !truncateDay(start).After(f.EndDate) && !truncateDay(end).Before(f.StartDate)
}

func validatePeriod(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return shared.NewDomainError("INVALID_PERIOD", "Start and end dates are required")
	}
	if !end.After(start) {
		return shared.NewDomainError("INVALID_PERIOD", "End date must be after start date")
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FinancialYearRepository defines persistence for financial years
type FinancialYearRepository interface {
	shared.TenantRepository[FinancialYear]

	// FindOverlapping returns the years of a company sharing a day with
	// [start, end], excluding excludeID when it is not uuid.Nil
	FindOverlapping(ctx context.Context, companyID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]FinancialYear, error)
}

// FinancialYearReferences are the collections pointing at a financial year
var FinancialYearReferences = []shared.ReferenceRule{
	{Label: "voucher(s)", Table: "vouchers", Column: "financial_year_id"},
}
