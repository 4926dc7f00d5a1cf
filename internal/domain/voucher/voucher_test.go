package voucher

import (
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func openYear(t *testing.T) *organization.FinancialYear {
	t.Helper()
	fy, err := organization.NewFinancialYear(uuid.New(), "2025-26",
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	return fy
}

func inYear() time.Time {
	return time.Date(2025, 8, 15, 10, 30, 0, 0, time.UTC)
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

func TestNewItem_Amounts(t *testing.T) {
	item, err := NewItem(uuid.New(), uuid.New(), "Rice", d("3"), d("33.335"), d("17"))
	require.NoError(t, err)
	assert.Equal(t, "100.01", item.GrossAmount.StringFixed(2))
	assert.Equal(t, "17.00", item.TaxAmount.StringFixed(2))
	assert.Equal(t, "117.01", item.NetAmount.StringFixed(2))

	_, err = NewItem(uuid.New(), uuid.New(), "", d("0"), d("10"), d("0"))
	requireCode(t, err, "INVALID_ITEM")
	_, err = NewItem(uuid.New(), uuid.New(), "", d("1"), d("10"), d("101"))
	requireCode(t, err, "INVALID_ITEM")
	_, err = NewItem(uuid.Nil, uuid.New(), "", d("1"), d("10"), d("0"))
	requireCode(t, err, "INVALID_ITEM")
}

func TestNewVoucher(t *testing.T) {
	fy := openYear(t)

	t.Run("creates draft in year", func(t *testing.T) {
		v, err := NewVoucher(fy, TypeJournal, inYear(), " opening ", nil)
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, v.Status)
		assert.Equal(t, fy.CompanyID, v.CompanyID)
		assert.Equal(t, fy.ID, v.FinancialYearID)
		assert.Equal(t, "opening", v.Narration)
		assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), v.Date)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewVoucher(fy, Type("XV"), inYear(), "", nil)
		requireCode(t, err, "INVALID_TYPE")
	})

	t.Run("rejects date outside year", func(t *testing.T) {
		_, err := NewVoucher(fy, TypeJournal, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), "", nil)
		requireCode(t, err, "INVALID_DATE")
	})

	t.Run("rejects closed year", func(t *testing.T) {
		closed := openYear(t)
		closed.Close()
		_, err := NewVoucher(closed, TypeJournal, inYear(), "", nil)
		requireCode(t, err, "INVALID_STATE")
	})
}

func TestAssignNumber(t *testing.T) {
	v, err := NewVoucher(openYear(t), TypeCashPayment, inYear(), "", nil)
	require.NoError(t, err)
	v.AssignNumber("2025-26", 42)
	assert.Equal(t, "CPV-2025-26-00042", v.Number)
	assert.Equal(t, 42, v.Sequence)
}

func TestSetLines_Journal(t *testing.T) {
	cash, sales := uuid.New(), uuid.New()

	t.Run("balanced", func(t *testing.T) {
		v, _ := NewVoucher(openYear(t), TypeJournal, inYear(), "", nil)
		err := v.SetLines([]Entry{
			NewEntry(cash, nil, "cash", d("250.50"), decimal.Zero),
			NewEntry(sales, nil, "sales", decimal.Zero, d("250.50")),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "250.50", v.TotalDebit.StringFixed(2))
		assert.True(t, v.TotalDebit.Equal(v.TotalCredit))
		assert.Equal(t, 1, v.Entries[0].LineNo)
		assert.Equal(t, 2, v.Entries[1].LineNo)
		assert.NotEqual(t, uuid.Nil, v.Entries[0].ID)
		assert.ElementsMatch(t, []uuid.UUID{cash, sales}, v.AccountIDs())
	})

	t.Run("unbalanced", func(t *testing.T) {
		v, _ := NewVoucher(openYear(t), TypeJournal, inYear(), "", nil)
		err := v.SetLines([]Entry{
			NewEntry(cash, nil, "", d("100"), decimal.Zero),
			NewEntry(sales, nil, "", decimal.Zero, d("99.99")),
		}, nil)
		requireCode(t, err, "UNBALANCED_VOUCHER")
		assert.Empty(t, v.Entries)
	})

	t.Run("single entry", func(t *testing.T) {
		v, _ := NewVoucher(openYear(t), TypeJournal, inYear(), "", nil)
		err := v.SetLines([]Entry{NewEntry(cash, nil, "", d("1"), decimal.Zero)}, nil)
		requireCode(t, err, "UNBALANCED_VOUCHER")
	})

	t.Run("both sides on one entry", func(t *testing.T) {
		v, _ := NewVoucher(openYear(t), TypeJournal, inYear(), "", nil)
		err := v.SetLines([]Entry{
			NewEntry(cash, nil, "", d("1"), d("1")),
			NewEntry(sales, nil, "", decimal.Zero, d("0")),
		}, nil)
		requireCode(t, err, "INVALID_ENTRY")
	})

	t.Run("negative amount", func(t *testing.T) {
		v, _ := NewVoucher(openYear(t), TypeJournal, inYear(), "", nil)
		err := v.SetLines([]Entry{
			NewEntry(cash, nil, "", d("-5"), decimal.Zero),
			NewEntry(sales, nil, "", decimal.Zero, d("-5")),
		}, nil)
		requireCode(t, err, "INVALID_ENTRY")
	})

	t.Run("amounts are checked after rounding", func(t *testing.T) {
		tests := []struct {
			name    string
			entries []Entry
			wantErr bool
			total   string
		}{
			{
				name: "sub-cent debit rounds to zero",
				entries: []Entry{
					NewEntry(cash, nil, "", d("10"), decimal.Zero),
					NewEntry(sales, nil, "", decimal.Zero, d("10")),
					NewEntry(cash, nil, "", d("0.004"), decimal.Zero),
				},
				wantErr: true,
			},
			{
				name: "sub-cent credit beside a debit",
				entries: []Entry{
					NewEntry(cash, nil, "", d("10"), d("0.001")),
					NewEntry(sales, nil, "", decimal.Zero, d("10")),
				},
				total: "10.00",
			},
			{
				name: "half cent rounds up",
				entries: []Entry{
					NewEntry(cash, nil, "", d("10.005"), decimal.Zero),
					NewEntry(sales, nil, "", decimal.Zero, d("10.01")),
				},
				total: "10.01",
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				v, _ := NewVoucher(openYear(t), TypeJournal, inYear(), "", nil)
				err := v.SetLines(tt.entries, nil)
				if tt.wantErr {
					requireCode(t, err, "INVALID_ENTRY")
					assert.Contains(t, err.Error(), "Entry 3")
					assert.Empty(t, v.Entries)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.total, v.TotalDebit.StringFixed(2))
				for _, e := range v.Entries {
					assert.NotEqual(t, e.Debit.IsPositive(), e.Credit.IsPositive())
				}
			})
		}
	})

	t.Run("journal cannot carry items", func(t *testing.T) {
		v, _ := NewVoucher(openYear(t), TypeJournal, inYear(), "", nil)
		item, err := NewItem(uuid.New(), uuid.New(), "", d("1"), d("10"), d("0"))
		require.NoError(t, err)
		err = v.SetLines([]Entry{
			NewEntry(cash, nil, "", d("10"), decimal.Zero),
			NewEntry(sales, nil, "", decimal.Zero, d("10")),
		}, []Item{item})
		requireCode(t, err, "INVALID_ITEMS")
	})
}

func TestSetLines_Sales(t *testing.T) {
	customer, revenue, tax := uuid.New(), uuid.New(), uuid.New()
	godown, unit := uuid.New(), uuid.New()

	item, err := NewItem(godown, unit, "Widget", d("10"), d("100"), d("17"))
	require.NoError(t, err)
	require.Equal(t, "1170.00", item.NetAmount.StringFixed(2))

	t.Run("debit matches net", func(t *testing.T) {
		v, _ := NewVoucher(openYear(t), TypeSales, inYear(), "", nil)
		err := v.SetLines([]Entry{
			NewEntry(customer, nil, "", d("1170"), decimal.Zero),
			NewEntry(revenue, nil, "", decimal.Zero, d("1000")),
			NewEntry(tax, nil, "", decimal.Zero, d("170")),
		}, []Item{item})
		require.NoError(t, err)
		assert.Equal(t, "1000.00", v.GrossAmount.StringFixed(2))
		assert.Equal(t, "170.00", v.TaxAmount.StringFixed(2))
		assert.Equal(t, "1170.00", v.NetAmount.StringFixed(2))
		assert.Equal(t, []uuid.UUID{godown}, v.GodownIDs())
		assert.Equal(t, []uuid.UUID{unit}, v.UnitIDs())
	})

	t.Run("debit differs from net", func(t *testing.T) {
		v, _ := NewVoucher(openYear(t), TypeSales, inYear(), "", nil)
		err := v.SetLines([]Entry{
			NewEntry(customer, nil, "", d("1000"), decimal.Zero),
			NewEntry(revenue, nil, "", decimal.Zero, d("1000")),
		}, []Item{item})
		requireCode(t, err, "UNBALANCED_VOUCHER")
	})

	t.Run("sales needs items", func(t *testing.T) {
		v, _ := NewVoucher(openYear(t), TypeSales, inYear(), "", nil)
		err := v.SetLines([]Entry{
			NewEntry(customer, nil, "", d("10"), decimal.Zero),
			NewEntry(revenue, nil, "", decimal.Zero, d("10")),
		}, nil)
		requireCode(t, err, "INVALID_ITEMS")
	})
}

func TestPost(t *testing.T) {
	v, _ := NewVoucher(openYear(t), TypeJournal, inYear(), "", nil)
	require.NoError(t, v.SetLines([]Entry{
		NewEntry(uuid.New(), nil, "", d("5"), decimal.Zero),
		NewEntry(uuid.New(), nil, "", decimal.Zero, d("5")),
	}, nil))

	user := uuid.New()
	require.NoError(t, v.Post(&user))
	assert.Equal(t, StatusPosted, v.Status)
	assert.NotNil(t, v.PostedAt)
	assert.Equal(t, &user, v.PostedBy)

	requireCode(t, v.Post(&user), "INVALID_STATE")
	requireCode(t, v.EnsureEditable(), "INVALID_STATE")
	requireCode(t, v.SetLines(v.Entries, nil), "INVALID_STATE")
	requireCode(t, v.Reschedule(openYear(t), inYear()), "INVALID_STATE")
}

func TestReschedule(t *testing.T) {
	fy := openYear(t)
	v, _ := NewVoucher(fy, TypeJournal, inYear(), "", nil)

	next, err := organization.NewFinancialYear(fy.CompanyID, "2026-27",
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)

	require.NoError(t, v.Reschedule(next, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, next.ID, v.FinancialYearID)

	requireCode(t, v.Reschedule(next, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)), "INVALID_DATE")

	foreign := openYear(t)
	requireCode(t, v.Reschedule(foreign, inYear()), "INVALID_FINANCIAL_YEAR")
}

func TestCostCenterIDs_SkipsNil(t *testing.T) {
	center := uuid.New()
	v := &Voucher{Entries: []Entry{
		{AccountID: uuid.New(), CostCenterID: &center},
		{AccountID: uuid.New()},
		{AccountID: uuid.New(), CostCenterID: &center},
	}}
	assert.Equal(t, []uuid.UUID{center}, v.CostCenterIDs())
}
