package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	catalogapp "github.com/erp/ledger/internal/application/catalog"
	geoapp "github.com/erp/ledger/internal/application/geo"
	identityapp "github.com/erp/ledger/internal/application/identity"
	ledgerapp "github.com/erp/ledger/internal/application/ledger"
	orgapp "github.com/erp/ledger/internal/application/organization"
	partnerapp "github.com/erp/ledger/internal/application/partner"
	reportapp "github.com/erp/ledger/internal/application/report"
	voucherapp "github.com/erp/ledger/internal/application/voucher"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/infrastructure/auth"
	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/erp/ledger/internal/infrastructure/persistence"
	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testServer wires the handlers over an in-memory sqlite database the
// same way the server binary does
type testServer struct {
	engine *gin.Engine
	db     *persistence.Database
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	middleware.SetupValidator()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	}, persistence.Options{Logger: zap.NewNop(), LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	companies := persistence.NewGormCompanyRepository(db.DB)
	locations := persistence.NewGormLocationRepository(db.DB)
	years := persistence.NewGormFinancialYearRepository(db.DB)
	accounts := persistence.NewGormAccountRepository(db.DB)
	centers := persistence.NewGormCostCenterRepository(db.DB)
	provinces := persistence.NewGormProvinceRepository(db.DB)
	cities := persistence.NewGormCityRepository(db.DB)
	units := persistence.NewGormUnitRepository(db.DB)
	godowns := persistence.NewGormGodownRepository(db.DB)
	profiles := persistence.NewGormProfileRepository(db.DB)
	users := persistence.NewGormUserRepository(db.DB)
	vouchers := persistence.NewGormVoucherRepository(db.DB)
	refs := persistence.NewGormReferenceCounter(db.DB)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-key-32-chars!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "ledger-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	accountService := ledgerapp.NewAccountService(accounts, companies, refs, nil)
	centerService := ledgerapp.NewCostCenterService(centers, companies, refs, nil)
	regionService := geoapp.NewRegionService(provinces, cities, companies, refs, nil)
	companyH := NewCompanyHandler(orgapp.NewCompanyService(companies, refs, nil))
	locationH := NewLocationHandler(orgapp.NewLocationService(locations, companies, refs, nil))
	yearH := NewFinancialYearHandler(orgapp.NewFinancialYearService(years, companies, vouchers, refs, nil))
	unitH := NewUnitHandler(catalogapp.NewUnitService(units, companies, refs, nil))
	regionH := NewRegionHandler(regionService)
	godownH := NewGodownHandler(partnerapp.NewGodownService(godowns, companies, locations, refs, nil))
	profileH := NewProfileHandler(partnerapp.NewProfileService(partnerapp.ProfileServiceDeps{
		Profiles: profiles, Companies: companies, Provinces: provinces, Cities: cities, Accounts: accounts, Refs: refs,
	}, "PK"))
	voucherH := NewVoucherHandler(voucherapp.NewService(voucherapp.Deps{
		Vouchers: vouchers, Companies: companies, Years: years, Locations: locations, Accounts: accounts,
		CostCenters: centers, Profiles: profiles, Godowns: godowns, Units: units, Refs: refs,
	}))
	reportH := NewReportHandler(reportapp.NewTrialBalanceService(vouchers, accounts, years))
	userH := NewUserHandler(identityapp.NewUserService(users, companies, nil).WithSessionRevocation(blacklist, time.Hour))
	authH := NewAuthHandler(identityapp.NewAuthService(users, jwtService, blacklist))

	engine := gin.New()
	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.TokenBlacklist = blacklist
	engine.Use(middleware.RequestID(), middleware.JWTAuthMiddleware(jwtCfg))

	api := engine.Group("/api")
	mount := func(prefix string, create, list, update, remove gin.HandlerFunc) *gin.RouterGroup {
		g := api.Group(prefix)
		g.POST("", create)
		g.GET("/:companyId", list)
		g.PUT("/:id", update)
		g.DELETE("/:id", remove)
		return g
	}
	companiesGroup := api.Group("/companies")
	companiesGroup.POST("", companyH.Create)
	companiesGroup.GET("", companyH.List)
	companiesGroup.GET("/:id", companyH.GetByID)
	companiesGroup.PUT("/:id", companyH.Update)
	companiesGroup.DELETE("/:id", companyH.Delete)
	mount("/locations", locationH.Create, locationH.List, locationH.Update, locationH.Delete)
	mount("/financial-years", yearH.Create, yearH.List, yearH.Update, yearH.Delete)
	for level := ledger.Level1; level <= ledger.Level4; level++ {
		h := NewAccountHandler(accountService, level)
		mount("/account-level"+strconv.Itoa(level), h.Create, h.List, h.Update, h.Delete)
	}
	parents := NewCostCenterHandler(centerService, ledger.CostCenterParent)
	children := NewCostCenterHandler(centerService, ledger.CostCenterChild)
	mount("/parent-cost-centers", parents.Create, parents.List, parents.Update, parents.Delete)
	mount("/child-cost-centers", children.Create, children.List, children.Update, children.Delete)
	mount("/units", unitH.Create, unitH.List, unitH.Update, unitH.Delete)
	mount("/godowns", godownH.Create, godownH.List, godownH.Update, godownH.Delete)
	mount("/provinces", regionH.CreateProvince, regionH.ListProvinces, regionH.UpdateProvince, regionH.DeleteProvince)
	mount("/cities", regionH.CreateCity, regionH.ListCities, regionH.UpdateCity, regionH.DeleteCity)
	mount("/profiles", profileH.Create, profileH.List, profileH.Update, profileH.Delete).
		GET("/:companyId/:id", profileH.GetByID)
	voucherGroup := mount("/vouchers", voucherH.Create, voucherH.List, voucherH.Update, voucherH.Delete)
	voucherGroup.GET("/:companyId/:id", voucherH.GetByID)
	voucherGroup.POST("/:id/post", voucherH.Post)
	api.GET("/reports/trial-balance/:companyId", reportH.TrialBalance)
	api.POST("/users", userH.Create)
	api.GET("/users/:companyId", userH.List)
	api.PUT("/users/:id", userH.Update)
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/refresh", authH.Refresh)
	api.POST("/auth/logout", authH.Logout)

	return &testServer{engine: engine, db: db}
}

// apiResponse is dto.Response with the data and details left raw
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string          `json:"code"`
		Message   string          `json:"message"`
		RequestID string          `json:"request_id"`
		Details   json.RawMessage `json:"details"`
	} `json:"error"`
	Meta *dto.Meta `json:"meta"`
}

// do sends body as JSON and decodes the envelope
func (s *testServer) do(t *testing.T, method, path string, body any, token ...string) (int, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if len(token) > 0 {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token[0])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w.Code, resp
}

// create posts body and decodes the created record into out
func (s *testServer) create(t *testing.T, path string, body, out any, token ...string) {
	t.Helper()
	status, resp := s.do(t, http.MethodPost, path, body, token...)
	require.Equal(t, http.StatusCreated, status, "%+v", resp.Error)
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

type record struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
}

// fixture is a company with an open year and a minimal stock setup
type fixture struct {
	company  string
	year     string
	cash     string
	sales    string
	godown   string
	unit     string
	location string
}

// newFixture builds a company, its 2025/26 year, two postable accounts
// under 1-01-001, a godown and a unit
func (s *testServer) newFixture(t *testing.T, code string) fixture {
	t.Helper()
	var f fixture
	var rec record

	s.create(t, "/api/companies", gin.H{"code": code, "name": "Company " + code}, &rec)
	f.company = rec.ID
	s.create(t, "/api/financial-years", gin.H{
		"companyId": f.company, "code": "FY25", "startDate": "2025-07-01", "endDate": "2026-06-30",
	}, &rec)
	f.year = rec.ID

	s.create(t, "/api/account-level1", gin.H{"companyId": f.company, "code": "1", "name": "Assets", "nature": "asset"}, &rec)
	s.create(t, "/api/account-level2", gin.H{"companyId": f.company, "parentId": rec.ID, "code": "01", "name": "Current Assets"}, &rec)
	s.create(t, "/api/account-level3", gin.H{"companyId": f.company, "parentId": rec.ID, "code": "001", "name": "Cash and Bank"}, &rec)
	level3 := rec.ID
	s.create(t, "/api/account-level4", gin.H{"companyId": f.company, "parentId": level3, "code": "0001", "name": "Cash in Hand"}, &rec)
	f.cash = rec.ID
	s.create(t, "/api/account-level4", gin.H{"companyId": f.company, "parentId": level3, "code": "0002", "name": "Sales Clearing"}, &rec)
	f.sales = rec.ID

	s.create(t, "/api/locations", gin.H{"companyId": f.company, "code": "LHR", "name": "Lahore"}, &rec)
	f.location = rec.ID
	s.create(t, "/api/godowns", gin.H{"companyId": f.company, "code": "MAIN", "name": "Main Godown", "locationId": f.location}, &rec)
	f.godown = rec.ID
	s.create(t, "/api/units", gin.H{"companyId": f.company, "code": "KG", "name": "Kilogram"}, &rec)
	f.unit = rec.ID
	return f
}

// salesVoucher is a balanced SV of 10 KG at 5.00
func (f fixture) salesVoucher() gin.H {
	return gin.H{
		"companyId":       f.company,
		"type":            "SV",
		"date":            "2025-08-15",
		"financialYearId": f.year,
		"narration":       "Cash sale",
		"entries": []gin.H{
			{"accountId": f.cash, "debit": "50", "credit": "0"},
			{"accountId": f.sales, "debit": "0", "credit": "50"},
		},
		"items": []gin.H{
			{"godownId": f.godown, "unitId": f.unit, "quantity": "10", "rate": "5", "taxRate": "0"},
		},
	}
}
