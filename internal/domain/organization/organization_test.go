package organization

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewCompany(t *testing.T) {
	t.Run("creates active company with normalized code", func(t *testing.T) {
		c, err := NewCompany(" acme ", "Acme Traders", nil)
		require.NoError(t, err)
		assert.Equal(t, "ACME", c.Code)
		assert.Equal(t, "Acme Traders", c.Name)
		assert.True(t, c.IsActive())
		assert.Equal(t, 1, c.Version)
		assert.Equal(t, c.ID, c.GetCompanyID())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		c, err := NewCompany("ACME", "  ", nil)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "Name cannot be empty")
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		c, err := NewCompany("ACME", "Acme", nil)
		require.NoError(t, err)
		err = c.SetContact("Lahore", "042", "not-an-email")
		assert.Error(t, err)
	})

	t.Run("touch bumps version", func(t *testing.T) {
		c, _ := NewCompany("ACME", "Acme", nil)
		user := uuid.New()
		c.Touch(&user)
		assert.Equal(t, 2, c.Version)
		assert.Equal(t, &user, c.UpdatedBy)
	})
}

type stubCompanyRepo struct {
	company *Company
}

func (s stubCompanyRepo) FindByID(_ context.Context, _ uuid.UUID) (*Company, error) {
	if s.company == nil {
		return nil, shared.NotFound("Company")
	}
	return s.company, nil
}
func (s stubCompanyRepo) FindAll(context.Context, shared.Filter) ([]Company, int64, error) {
	return nil, 0, nil
}
func (s stubCompanyRepo) Create(context.Context, *Company) error { return nil }
func (s stubCompanyRepo) Update(context.Context, *Company) error { return nil }
func (s stubCompanyRepo) Delete(context.Context, uuid.UUID) error { return nil }

func TestRequireActiveCompany(t *testing.T) {
	ctx := context.Background()

	_, err := RequireActiveCompany(ctx, stubCompanyRepo{}, uuid.New())
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_COMPANY", de.Code)

	c, _ := NewCompany("ACME", "Acme", nil)
	require.NoError(t, c.SetStatus(CompanyStatusInactive))
	_, err = RequireActiveCompany(ctx, stubCompanyRepo{company: c}, c.ID)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_STATE", de.Code)

	require.NoError(t, c.SetStatus(CompanyStatusActive))
	got, err := RequireActiveCompany(ctx, stubCompanyRepo{company: c}, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestNewFinancialYear(t *testing.T) {
	companyID := uuid.New()

	t.Run("creates open year", func(t *testing.T) {
		fy, err := NewFinancialYear(companyID, "2025-26", date(2025, 7, 1), date(2026, 6, 30), nil)
		require.NoError(t, err)
		assert.Equal(t, companyID, fy.CompanyID)
		assert.Equal(t, "2025-26", fy.Code)
		assert.False(t, fy.IsClosed)
	})

	t.Run("rejects end equal to start", func(t *testing.T) {
		fy, err := NewFinancialYear(companyID, "X", date(2025, 7, 1), date(2025, 7, 1), nil)
		assert.Nil(t, fy)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_PERIOD", de.Code)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := NewFinancialYear(companyID, "X", date(2025, 7, 1), date(2024, 7, 1), nil)
		assert.Error(t, err)
	})

	t.Run("rejects missing dates", func(t *testing.T) {
		_, err := NewFinancialYear(companyID, "X", time.Time{}, date(2024, 7, 1), nil)
		assert.Error(t, err)
	})

	t.Run("time of day does not split a single day", func(t *testing.T) {
		start := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
		end := time.Date(2025, 7, 1, 20, 0, 0, 0, time.UTC)
		_, err := NewFinancialYear(companyID, "X", start, end, nil)
		assert.Error(t, err)
	})
}

func TestFinancialYear_Reschedule(t *testing.T) {
	fy, err := NewFinancialYear(uuid.New(), "2025-26", date(2025, 7, 1), date(2026, 6, 30), nil)
	require.NoError(t, err)

	err = fy.Reschedule(date(2026, 6, 30), date(2025, 7, 1))
	assert.Error(t, err)
	assert.Equal(t, date(2025, 7, 1), fy.StartDate, "failed reschedule must not change the period")

	require.NoError(t, fy.Reschedule(date(2025, 1, 1), date(2025, 12, 31)))
	assert.Equal(t, date(2025, 12, 31), fy.EndDate)
}

func TestFinancialYear_ContainsAndOverlaps(t *testing.T) {
	fy, err := NewFinancialYear(uuid.New(), "2025-26", date(2025, 7, 1), date(2026, 6, 30), nil)
	require.NoError(t, err)

	assert.True(t, fy.Contains(date(2025, 7, 1)))
	assert.True(t, fy.Contains(time.Date(2026, 6, 30, 23, 59, 0, 0, time.UTC)))
	assert.False(t, fy.Contains(date(2026, 7, 1)))

	assert.True(t, fy.Overlaps(date(2026, 6, 30), date(2027, 6, 30)))
	assert.False(t, fy.Overlaps(date(2026, 7, 1), date(2027, 6, 30)))
	assert.True(t, fy.Overlaps(date(2024, 1, 1), date(2030, 1, 1)))
}

func TestNewLocation(t *testing.T) {
	loc, err := NewLocation(uuid.New(), "hq", "Head Office", nil)
	require.NoError(t, err)
	assert.Equal(t, "HQ", loc.Code)

	_, err = NewLocation(uuid.New(), "", "Head Office", nil)
	assert.Error(t, err)
}
