package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/catalog"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/erp/ledger/internal/infrastructure/migration"
	"github.com/erp/ledger/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
)

// newPostgresDB starts a postgres container and applies the embedded
// migrations. Skipped when docker is not reachable.
func newPostgresDB(t *testing.T) *Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := open(gormpostgres.Open(dsn), &config.DatabaseConfig{Driver: config.DriverPostgres, MaxOpenConns: 5, MaxIdleConns: 2}, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return db
}

func TestPostgres_UniqueIndexes(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	companies := NewGormCompanyRepository(db.DB)
	company, err := organization.NewCompany("ACME", "Acme Traders", nil)
	require.NoError(t, err)
	require.NoError(t, companies.Create(ctx, company))

	godowns := NewGormGodownRepository(db.DB)
	first, err := partner.NewGodown(company.ID, "G1", "Main", nil)
	require.NoError(t, err)
	require.NoError(t, godowns.Create(ctx, first))

	second, err := partner.NewGodown(company.ID, "g1", "Duplicate", nil)
	require.NoError(t, err)
	err = godowns.Create(ctx, second)
	assert.True(t, shared.IsAlreadyExists(err), "got %v", err)
}

func TestPostgres_ForeignKeyIsReferenced(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	companies := NewGormCompanyRepository(db.DB)
	company, err := organization.NewCompany("ACME", "Acme Traders", nil)
	require.NoError(t, err)
	require.NoError(t, companies.Create(ctx, company))

	units := NewGormUnitRepository(db.DB)
	unit, err := catalog.NewUnit(company.ID, "KG", "Kilogram", nil)
	require.NoError(t, err)
	require.NoError(t, units.Create(ctx, unit))

	err = companies.Delete(ctx, company.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "REFERENCED", domainErr.Code)
}

func TestPostgres_MigrateDown(t *testing.T) {
	db := newPostgresDB(t)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	require.NoError(t, m.Down())
	assert.False(t, db.DB.Migrator().HasTable("vouchers"))
}
