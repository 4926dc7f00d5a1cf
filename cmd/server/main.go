package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/erp/ledger/internal/application/catalog"
	geoapp "github.com/erp/ledger/internal/application/geo"
	identityapp "github.com/erp/ledger/internal/application/identity"
	ledgerapp "github.com/erp/ledger/internal/application/ledger"
	orgapp "github.com/erp/ledger/internal/application/organization"
	partnerapp "github.com/erp/ledger/internal/application/partner"
	reportapp "github.com/erp/ledger/internal/application/report"
	voucherapp "github.com/erp/ledger/internal/application/voucher"
	"github.com/erp/ledger/internal/domain/catalog"
	"github.com/erp/ledger/internal/domain/geo"
	"github.com/erp/ledger/internal/domain/identity"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/voucher"
	"github.com/erp/ledger/internal/infrastructure/auth"
	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/infrastructure/migration"
	"github.com/erp/ledger/internal/infrastructure/persistence"
	"github.com/erp/ledger/internal/infrastructure/persistence/mongostore"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/erp/ledger/internal/interfaces/http/handler"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/erp/ledger/internal/interfaces/http/router"
	"github.com/erp/ledger/migrations"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

// repositories is the storage backend the services run against
type repositories struct {
	companies   organization.CompanyRepository
	locations   organization.LocationRepository
	years       organization.FinancialYearRepository
	accounts    ledger.AccountRepository
	costCenters ledger.CostCenterRepository
	provinces   geo.ProvinceRepository
	cities      geo.CityRepository
	units       catalog.UnitRepository
	godowns     partner.GodownRepository
	profiles    partner.ProfileRepository
	users       identity.UserRepository
	vouchers    voucher.Repository
	refs        shared.ReferenceCounter
	store       handler.Pinger
	close       func(ctx context.Context) error
}

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		panic("Failed to read .env: " + err.Error())
	}

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	// Telemetry providers are no-ops unless enabled
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		log = loggerProvider.Bridge(log, serviceName, zapcore.InfoLevel)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for name, shutdown := range map[string]func(context.Context) error{
			"tracer": tracerProvider.Shutdown,
			"meter":  meterProvider.Shutdown,
			"logger": loggerProvider.Shutdown,
		} {
			if err := shutdown(shutdownCtx); err != nil {
				log.Error("Telemetry shutdown failed", zap.String("provider", name), zap.Error(err))
			}
		}
	}()

	log.Info("Starting ledger API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("driver", cfg.Database.Driver),
	)

	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repos.close(closeCtx); err != nil {
			log.Error("Error closing storage", zap.Error(err))
		}
	}()

	var metrics *telemetry.LedgerMetrics
	if meterProvider.IsEnabled() {
		metrics, err = telemetry.NewLedgerMetrics(meterProvider.Meter("ledger"))
		if err != nil {
			log.Fatal("Failed to register ledger metrics", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			_ = redisBlacklist.Close()
		}()
		blacklist = redisBlacklist
		log.Info("Token blacklist backed by redis", zap.String("addr", cfg.Redis.Addr()))
	}

	// Application services
	companyService := orgapp.NewCompanyService(repos.companies, repos.refs, metrics)
	locationService := orgapp.NewLocationService(repos.locations, repos.companies, repos.refs, metrics)
	yearService := orgapp.NewFinancialYearService(repos.years, repos.companies, repos.vouchers, repos.refs, metrics)
	accountService := ledgerapp.NewAccountService(repos.accounts, repos.companies, repos.refs, metrics)
	costCenterService := ledgerapp.NewCostCenterService(repos.costCenters, repos.companies, repos.refs, metrics)
	regionService := geoapp.NewRegionService(repos.provinces, repos.cities, repos.companies, repos.refs, metrics)
	unitService := catalogapp.NewUnitService(repos.units, repos.companies, repos.refs, metrics)
	godownService := partnerapp.NewGodownService(repos.godowns, repos.companies, repos.locations, repos.refs, metrics)
	profileService := partnerapp.NewProfileService(partnerapp.ProfileServiceDeps{
		Profiles:  repos.profiles,
		Companies: repos.companies,
		Provinces: repos.provinces,
		Cities:    repos.cities,
		Accounts:  repos.accounts,
		Refs:      repos.refs,
		Metrics:   metrics,
	}, cfg.Profile.PhoneRegion)
	voucherService := voucherapp.NewService(voucherapp.Deps{
		Vouchers:    repos.vouchers,
		Companies:   repos.companies,
		Years:       repos.years,
		Locations:   repos.locations,
		Accounts:    repos.accounts,
		CostCenters: repos.costCenters,
		Profiles:    repos.profiles,
		Godowns:     repos.godowns,
		Units:       repos.units,
		Refs:        repos.refs,
		Metrics:     metrics,
	})
	trialBalanceService := reportapp.NewTrialBalanceService(repos.vouchers, repos.accounts, repos.years)
	userService := identityapp.NewUserService(repos.users, repos.companies, metrics).
		WithSessionRevocation(blacklist, cfg.JWT.RefreshTokenExpiration)
	authService := identityapp.NewAuthService(repos.users, jwtService, blacklist)

	accountHandlers := make([]*handler.AccountHandler, 0, ledger.Level4)
	for level := ledger.Level1; level <= ledger.Level4; level++ {
		accountHandlers = append(accountHandlers, handler.NewAccountHandler(accountService, level))
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, repos.store)
	handlers := router.Handlers{
		Companies:         handler.NewCompanyHandler(companyService),
		Locations:         handler.NewLocationHandler(locationService),
		FinancialYears:    handler.NewFinancialYearHandler(yearService),
		Accounts:          accountHandlers,
		ParentCostCenters: handler.NewCostCenterHandler(costCenterService, ledger.CostCenterParent),
		ChildCostCenters:  handler.NewCostCenterHandler(costCenterService, ledger.CostCenterChild),
		Profiles:          handler.NewProfileHandler(profileService),
		Godowns:           handler.NewGodownHandler(godownService),
		Units:             handler.NewUnitHandler(unitService),
		Regions:           handler.NewRegionHandler(regionService),
		Vouchers:          handler.NewVoucherHandler(voucherService),
		Reports:           handler.NewReportHandler(trialBalanceService),
		Users:             handler.NewUserHandler(userService),
		Auth:              handler.NewAuthHandler(authService),
		System:            systemHandler,
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	// 8. Tracing - Root span per request (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: serviceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	if meterProvider.IsEnabled() {
		httpMetrics, err := middleware.HTTPMetrics(meterProvider.Meter("ledger.http"))
		if err != nil {
			log.Fatal("Failed to register HTTP metrics", zap.Error(err))
		}
		engine.Use(httpMetrics)
	}

	// Health check sits outside the API group
	engine.GET("/health", systemHandler.Health)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Required = cfg.Auth.Required
	jwtConfig.Logger = log

	router.NewRouter(engine).
		Use(middleware.JWTAuthMiddleware(jwtConfig), middleware.SpanAttributes(), middleware.SpanErrorMarker()).
		Register(router.LedgerRoutes(handlers)...).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// openRepositories connects the configured driver and bootstraps its
// schema when auto_migrate is set
func openRepositories(ctx context.Context, cfg *config.Config, log *zap.Logger) (*repositories, error) {
	if cfg.Database.Driver == config.DriverMongo {
		return openMongo(ctx, cfg, log)
	}

	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:        log,
		LogLevel:      cfg.Log.Level,
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
		Tracing:       telemetry.DBTracingConfigFrom(cfg.Telemetry, cfg.Database.DBName),
	})
	if err != nil {
		return nil, err
	}
	log.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := migrateSQL(cfg, db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &repositories{
		companies:   persistence.NewGormCompanyRepository(db.DB),
		locations:   persistence.NewGormLocationRepository(db.DB),
		years:       persistence.NewGormFinancialYearRepository(db.DB),
		accounts:    persistence.NewGormAccountRepository(db.DB),
		costCenters: persistence.NewGormCostCenterRepository(db.DB),
		provinces:   persistence.NewGormProvinceRepository(db.DB),
		cities:      persistence.NewGormCityRepository(db.DB),
		units:       persistence.NewGormUnitRepository(db.DB),
		godowns:     persistence.NewGormGodownRepository(db.DB),
		profiles:    persistence.NewGormProfileRepository(db.DB),
		users:       persistence.NewGormUserRepository(db.DB),
		vouchers:    persistence.NewGormVoucherRepository(db.DB),
		refs:        persistence.NewGormReferenceCounter(db.DB),
		store:       db,
		close:       func(context.Context) error { return db.Close() },
	}, nil
}

// migrateSQL runs the embedded versioned schema on postgres and gorm's
// AutoMigrate on sqlite
func migrateSQL(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if cfg.Database.Driver == config.DriverSQLite {
		return db.AutoMigrate()
	}

	// the migrator closes the connection it is given, so it gets its own
	conn, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	m, err := migration.New(conn, migrations.FS, log)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return m.Up()
}

func openMongo(ctx context.Context, cfg *config.Config, log *zap.Logger) (*repositories, error) {
	store, err := mongostore.Connect(ctx, &cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
	}

	return &repositories{
		companies:   mongostore.NewCompanyRepository(store),
		locations:   mongostore.NewLocationRepository(store),
		years:       mongostore.NewFinancialYearRepository(store),
		accounts:    mongostore.NewAccountRepository(store),
		costCenters: mongostore.NewCostCenterRepository(store),
		provinces:   mongostore.NewProvinceRepository(store),
		cities:      mongostore.NewCityRepository(store),
		units:       mongostore.NewUnitRepository(store),
		godowns:     mongostore.NewGodownRepository(store),
		profiles:    mongostore.NewProfileRepository(store),
		users:       mongostore.NewUserRepository(store),
		vouchers:    mongostore.NewVoucherRepository(store),
		refs:        mongostore.NewReferenceCounter(store),
		store:       store,
		close:       store.Close,
	}, nil
}
