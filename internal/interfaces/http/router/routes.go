package router

import (
	"fmt"

	"github.com/erp/ledger/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every handler the ledger API mounts
type Handlers struct {
	Companies         *handler.CompanyHandler
	Locations         *handler.LocationHandler
	FinancialYears    *handler.FinancialYearHandler
	Accounts          []*handler.AccountHandler
	ParentCostCenters *handler.CostCenterHandler
	ChildCostCenters  *handler.CostCenterHandler
	Profiles          *handler.ProfileHandler
	Godowns           *handler.GodownHandler
	Units             *handler.UnitHandler
	Regions           *handler.RegionHandler
	Vouchers          *handler.VoucherHandler
	Reports           *handler.ReportHandler
	Users             *handler.UserHandler
	Auth              *handler.AuthHandler
	System            *handler.SystemHandler
}

// masterData mounts the uniform list/create/update/delete routes of a
// tenant-scoped resource
func masterData(name string, create, list, update, remove gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup(name, "/"+name)
	g.POST("", create).
		GET("/:companyId", list).
		PUT("/:id", update).
		DELETE("/:id", remove)
	return g
}

// LedgerRoutes builds the route groups of the ledger API
func LedgerRoutes(h Handlers) []RouteRegistrar {
	companies := NewDomainGroup("companies", "/companies")
	companies.POST("", h.Companies.Create).
		GET("", h.Companies.List).
		GET("/:id", h.Companies.GetByID).
		PUT("/:id", h.Companies.Update).
		DELETE("/:id", h.Companies.Delete)

	groups := []RouteRegistrar{
		companies,
		masterData("locations", h.Locations.Create, h.Locations.List, h.Locations.Update, h.Locations.Delete),
		masterData("financial-years", h.FinancialYears.Create, h.FinancialYears.List, h.FinancialYears.Update, h.FinancialYears.Delete),
	}

	for _, accounts := range h.Accounts {
		groups = append(groups, masterData(fmt.Sprintf("account-level%d", accounts.Level()),
			accounts.Create, accounts.List, accounts.Update, accounts.Delete))
	}

	profiles := masterData("profiles", h.Profiles.Create, h.Profiles.List, h.Profiles.Update, h.Profiles.Delete)
	profiles.GET("/:companyId/:id", h.Profiles.GetByID)

	vouchers := masterData("vouchers", h.Vouchers.Create, h.Vouchers.List, h.Vouchers.Update, h.Vouchers.Delete)
	vouchers.GET("/:companyId/:id", h.Vouchers.GetByID).
		POST("/:id/post", h.Vouchers.Post)

	reports := NewDomainGroup("reports", "/reports")
	reports.GET("/trial-balance/:companyId", h.Reports.TrialBalance)

	users := NewDomainGroup("users", "/users")
	users.POST("", h.Users.Create).
		GET("/:companyId", h.Users.List).
		PUT("/:id", h.Users.Update)

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.Refresh).
		POST("/logout", h.Auth.Logout)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	return append(groups,
		masterData("parent-cost-centers", h.ParentCostCenters.Create, h.ParentCostCenters.List, h.ParentCostCenters.Update, h.ParentCostCenters.Delete),
		masterData("child-cost-centers", h.ChildCostCenters.Create, h.ChildCostCenters.List, h.ChildCostCenters.Update, h.ChildCostCenters.Delete),
		profiles,
		masterData("godowns", h.Godowns.Create, h.Godowns.List, h.Godowns.Update, h.Godowns.Delete),
		masterData("units", h.Units.Create, h.Units.List, h.Units.Update, h.Units.Delete),
		masterData("provinces", h.Regions.CreateProvince, h.Regions.ListProvinces, h.Regions.UpdateProvince, h.Regions.DeleteProvince),
		masterData("cities", h.Regions.CreateCity, h.Regions.ListCities, h.Regions.UpdateCity, h.Regions.DeleteCity),
		vouchers,
		reports,
		users,
		auth,
		system,
	)
}
