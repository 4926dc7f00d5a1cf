package mongostore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/catalog"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/voucher"
	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// newTestStore starts a mongo container and creates the indexes. Skipped
// when docker is not reachable.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	store, err := Connect(ctx, &config.DatabaseConfig{
		MongoURI:      fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
		MongoDatabase: "ledger_test",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	require.NoError(t, store.EnsureIndexes(ctx))
	return store
}

func TestConnect_RequiresDatabase(t *testing.T) {
	_, err := Connect(context.Background(), &config.DatabaseConfig{MongoURI: "mongodb://localhost:1"}, zap.NewNop())
	assert.Error(t, err)
}

func TestMongoStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	companies := NewCompanyRepository(store)
	company, err := organization.NewCompany("ACME", "Acme Traders", nil)
	require.NoError(t, err)
	require.NoError(t, companies.Create(ctx, company))

	t.Run("duplicate code in one company is rejected", func(t *testing.T) {
		godowns := NewGodownRepository(store)
		first, err := partner.NewGodown(company.ID, "G1", "Main", nil)
		require.NoError(t, err)
		require.NoError(t, godowns.Create(ctx, first))

		second, err := partner.NewGodown(company.ID, "g1", "Again", nil)
		require.NoError(t, err)
		assert.True(t, shared.IsAlreadyExists(godowns.Create(ctx, second)))

		other, err := partner.NewGodown(uuid.New(), "G1", "Elsewhere", nil)
		require.NoError(t, err)
		assert.NoError(t, godowns.Create(ctx, other))
	})

	t.Run("stale update is a conflict", func(t *testing.T) {
		units := NewUnitRepository(store)
		unit, err := catalog.NewUnit(company.ID, "KG", "Kilogram", nil)
		require.NoError(t, err)
		require.NoError(t, units.Create(ctx, unit))

		fresh, err := units.FindByID(ctx, unit.ID)
		require.NoError(t, err)
		stale := *fresh

		require.NoError(t, fresh.Rename("Kilograms"))
		fresh.Touch(nil)
		require.NoError(t, units.Update(ctx, fresh))

		require.NoError(t, stale.Rename("Kilo"))
		stale.Touch(nil)
		assert.ErrorIs(t, units.Update(ctx, &stale), shared.ErrConcurrencyConflict)

		got, err := units.FindByID(ctx, unit.ID)
		require.NoError(t, err)
		assert.Equal(t, "Kilograms", got.Name)
		assert.Equal(t, 2, got.Version)
	})

	t.Run("list is scoped, searched and paged", func(t *testing.T) {
		locations := NewLocationRepository(store)
		for _, code := range []string{"LHR", "KHI", "ISB"} {
			loc, err := organization.NewLocation(company.ID, code, "Branch "+code, nil)
			require.NoError(t, err)
			require.NoError(t, locations.Create(ctx, loc))
		}

		all, total, err := locations.FindAllForCompany(ctx, company.ID, shared.Filter{PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, all, 2)
		assert.Equal(t, "ISB", all[0].Code)

		found, total, err := locations.FindAllForCompany(ctx, company.ID, shared.Filter{Search: "khi"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "KHI", found[0].Code)

		_, total, err = locations.FindAllForCompany(ctx, uuid.New(), shared.Filter{})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("vouchers sequence, report and block deletes", func(t *testing.T) {
		years := NewFinancialYearRepository(store)
		year, err := organization.NewFinancialYear(company.ID, "FY25",
			time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), nil)
		require.NoError(t, err)
		require.NoError(t, years.Create(ctx, year))

		overlapping, err := years.FindOverlapping(ctx, company.ID,
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), uuid.Nil)
		require.NoError(t, err)
		require.Len(t, overlapping, 1)

		units := NewUnitRepository(store)
		unit, err := catalog.NewUnit(company.ID, "PCS", "Pieces", nil)
		require.NoError(t, err)
		require.NoError(t, units.Create(ctx, unit))
		godown, err := partner.NewGodown(company.ID, "G9", "Store", nil)
		require.NoError(t, err)
		require.NoError(t, NewGodownRepository(store).Create(ctx, godown))

		vouchers := NewVoucherRepository(store)
		seq, err := vouchers.NextSequence(ctx, company.ID, year.ID, voucher.TypeSales)
		require.NoError(t, err)
		assert.Equal(t, 1, seq)

		v, err := voucher.NewVoucher(year, voucher.TypeSales, time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC), "Sale", nil)
		require.NoError(t, err)
		item, err := voucher.NewItem(godown.ID, unit.ID, "Widgets", decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(17))
		require.NoError(t, err)
		sample, err := voucher.NewItem(godown.ID, unit.ID, "Sample", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero)
		require.NoError(t, err)
		total := item.NetAmount.Add(sample.NetAmount)
		receivable, revenue := uuid.New(), uuid.New()
		require.NoError(t, v.SetLines([]voucher.Entry{
			voucher.NewEntry(receivable, nil, "", total, decimal.Zero),
			voucher.NewEntry(revenue, nil, "", decimal.Zero, total),
		}, []voucher.Item{item, sample}))
		v.AssignNumber(year.Code, seq)
		require.NoError(t, vouchers.Create(ctx, v))

		seq, err = vouchers.NextSequence(ctx, company.ID, year.ID, voucher.TypeSales)
		require.NoError(t, err)
		assert.Equal(t, 2, seq)

		loaded, err := vouchers.FindByID(ctx, v.ID)
		require.NoError(t, err)
		require.Len(t, loaded.Items, 2)
		assert.True(t, loaded.Items[0].NetAmount.Equal(decimal.NewFromInt(1170)))

		entries, err := vouchers.FindPostedEntries(ctx, company.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, entries, "drafts are not reported")

		require.NoError(t, loaded.Post(nil))
		loaded.Touch(nil)
		require.NoError(t, vouchers.Update(ctx, loaded))
		entries, err = vouchers.FindPostedEntries(ctx, company.ID, &year.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		err = shared.EnsureNotReferenced(ctx, NewReferenceCounter(store), "Unit", unit.ID, catalog.UnitReferences)
		var refErr *shared.ReferencedError
		require.ErrorAs(t, err, &refErr)
		// both lines of the one voucher are counted
		assert.Equal(t, []shared.Reference{{Resource: "voucher_items", Label: "voucher item(s)", Count: 2}}, refErr.References)

		outside, err := vouchers.CountOutside(ctx, year.ID, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), year.EndDate)
		require.NoError(t, err)
		assert.Equal(t, int64(1), outside)
		outside, err = vouchers.CountOutside(ctx, year.ID, year.StartDate, year.EndDate)
		require.NoError(t, err)
		assert.Zero(t, outside)

		require.NoError(t, vouchers.Delete(ctx, v.ID))
		assert.True(t, shared.IsNotFound(vouchers.Delete(ctx, v.ID)))
	})
}
