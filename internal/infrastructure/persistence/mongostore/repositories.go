package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/catalog"
	"github.com/erp/ledger/internal/domain/geo"
	"github.com/erp/ledger/internal/domain/identity"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CompanyRepository stores companies. Companies are not partitioned.
type CompanyRepository struct {
	tenantCollection[organization.Company, companyDoc, *companyDoc]
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(s *Store) *CompanyRepository {
	return &CompanyRepository{newTenantCollection[organization.Company, companyDoc](s.db.Collection(CollCompanies), collectionOptions{
		resource:     "company",
		searchFields: []string{"code", "name", "ntn"},
		filterFields: map[string]bool{"status": true},
	})}
}

// FindAll returns one page of companies
func (r *CompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]organization.Company, int64, error) {
	return r.page(ctx, bson.M{}, filter)
}

// LocationRepository stores locations
type LocationRepository struct {
	tenantCollection[organization.Location, locationDoc, *locationDoc]
}

// NewLocationRepository creates a new LocationRepository
func NewLocationRepository(s *Store) *LocationRepository {
	return &LocationRepository{newTenantCollection[organization.Location, locationDoc](s.db.Collection(CollLocations), collectionOptions{
		resource:     "location",
		searchFields: []string{"code", "name"},
	})}
}

// FinancialYearRepository stores financial years
type FinancialYearRepository struct {
	tenantCollection[organization.FinancialYear, financialYearDoc, *financialYearDoc]
}

// NewFinancialYearRepository creates a new FinancialYearRepository
func NewFinancialYearRepository(s *Store) *FinancialYearRepository {
	return &FinancialYearRepository{newTenantCollection[organization.FinancialYear, financialYearDoc](s.db.Collection(CollFinancialYears), collectionOptions{
		resource:     "financial year",
		searchFields: []string{"code"},
		filterFields: map[string]bool{"is_closed": true},
		sortFields:   persistence.FinancialYearSortFields,
		defaultSort:  "start_date",
	})}
}

// FindOverlapping returns the company's years sharing a day with [start, end]
func (r *FinancialYearRepository) FindOverlapping(ctx context.Context, companyID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]organization.FinancialYear, error) {
	query := byCompany(companyID)
	query["start_date"] = bson.M{"$lte": end}
	query["end_date"] = bson.M{"$gte": start}
	if excludeID != uuid.Nil {
		query["_id"] = bson.M{"$ne": excludeID.String()}
	}
	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []financialYearDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]organization.FinancialYear, len(docs))
	for i := range docs {
		out[i] = *docs[i].toDomain()
	}
	return out, nil
}

// AccountRepository stores the chart of accounts
type AccountRepository struct {
	tenantCollection[ledger.Account, accountDoc, *accountDoc]
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(s *Store) *AccountRepository {
	return &AccountRepository{newTenantCollection[ledger.Account, accountDoc](s.db.Collection(CollAccounts), collectionOptions{
		resource:     "account",
		searchFields: []string{"full_code", "name"},
		filterFields: map[string]bool{"level": true, "nature": true},
		sortFields:   persistence.AccountSortFields,
		defaultSort:  "full_code",
	})}
}

// FindByLevel lists one level, optionally under a parent of the level above
func (r *AccountRepository) FindByLevel(ctx context.Context, companyID uuid.UUID, level int, parentID *uuid.UUID, filter shared.Filter) ([]ledger.Account, int64, error) {
	if !ledger.ValidLevel(level) {
		return nil, 0, shared.NewDomainError("INVALID_LEVEL", "Level must be between 1 and 4")
	}
	query := byCompany(companyID)
	query["level"] = level
	if parentID != nil && level > ledger.Level1 {
		query[fmt.Sprintf("level%d_id", level-1)] = parentID.String()
	}
	return r.page(ctx, query, filter)
}

// CostCenterRepository stores cost centers
type CostCenterRepository struct {
	tenantCollection[ledger.CostCenter, costCenterDoc, *costCenterDoc]
}

// NewCostCenterRepository creates a new CostCenterRepository
func NewCostCenterRepository(s *Store) *CostCenterRepository {
	return &CostCenterRepository{newTenantCollection[ledger.CostCenter, costCenterDoc](s.db.Collection(CollCostCenters), collectionOptions{
		resource:     "cost center",
		searchFields: []string{"code", "name"},
		filterFields: map[string]bool{"type": true},
	})}
}

// FindByKind lists parent or child centers
func (r *CostCenterRepository) FindByKind(ctx context.Context, companyID uuid.UUID, kind ledger.CostCenterKind, parentID *uuid.UUID, filter shared.Filter) ([]ledger.CostCenter, int64, error) {
	query := byCompany(companyID)
	query["kind"] = string(kind)
	if kind == ledger.CostCenterChild && parentID != nil {
		query["parent_id"] = parentID.String()
	}
	return r.page(ctx, query, filter)
}

// ProfileRepository stores customer and supplier profiles
type ProfileRepository struct {
	tenantCollection[partner.Profile, profileDoc, *profileDoc]
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(s *Store) *ProfileRepository {
	return &ProfileRepository{newTenantCollection[partner.Profile, profileDoc](s.db.Collection(CollProfiles), collectionOptions{
		resource:     "profile",
		searchFields: []string{"code", "name", "contact_person", "phone", "ntn"},
		filterFields: map[string]bool{"type": true, "province_id": true, "city_id": true, "account_id": true},
	})}
}

// GodownRepository stores godowns
type GodownRepository struct {
	tenantCollection[partner.Godown, godownDoc, *godownDoc]
}

// NewGodownRepository creates a new GodownRepository
func NewGodownRepository(s *Store) *GodownRepository {
	return &GodownRepository{newTenantCollection[partner.Godown, godownDoc](s.db.Collection(CollGodowns), collectionOptions{
		resource:     "godown",
		searchFields: []string{"code", "name"},
		filterFields: map[string]bool{"location_id": true},
	})}
}

// UnitRepository stores units of measurement
type UnitRepository struct {
	tenantCollection[catalog.Unit, unitDoc, *unitDoc]
}

// NewUnitRepository creates a new UnitRepository
func NewUnitRepository(s *Store) *UnitRepository {
	return &UnitRepository{newTenantCollection[catalog.Unit, unitDoc](s.db.Collection(CollUnits), collectionOptions{
		resource:     "unit",
		searchFields: []string{"code", "name"},
	})}
}

// ProvinceRepository stores provinces
type ProvinceRepository struct {
	tenantCollection[geo.Province, provinceDoc, *provinceDoc]
}

// NewProvinceRepository creates a new ProvinceRepository
func NewProvinceRepository(s *Store) *ProvinceRepository {
	return &ProvinceRepository{newTenantCollection[geo.Province, provinceDoc](s.db.Collection(CollProvinces), collectionOptions{
		resource:     "province",
		searchFields: []string{"code", "name"},
	})}
}

// CityRepository stores cities
type CityRepository struct {
	tenantCollection[geo.City, cityDoc, *cityDoc]
}

// NewCityRepository creates a new CityRepository
func NewCityRepository(s *Store) *CityRepository {
	return &CityRepository{newTenantCollection[geo.City, cityDoc](s.db.Collection(CollCities), collectionOptions{
		resource:     "city",
		searchFields: []string{"code", "name"},
		filterFields: map[string]bool{"province_id": true},
	})}
}

// UserRepository stores users
type UserRepository struct {
	tenantCollection[identity.User, userDoc, *userDoc]
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{newTenantCollection[identity.User, userDoc](s.db.Collection(CollUsers), collectionOptions{
		resource:     "user",
		searchFields: []string{"username", "display_name", "email"},
		filterFields: map[string]bool{"is_active": true},
		sortFields:   persistence.UserSortFields,
		defaultSort:  "username",
	})}
}

// FindByUsername looks a user up across companies
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, bson.M{"username": strings.ToLower(strings.TrimSpace(username))}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.NotFound("user")
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

var (
	_ organization.CompanyRepository       = (*CompanyRepository)(nil)
	_ organization.LocationRepository      = (*LocationRepository)(nil)
	_ organization.FinancialYearRepository = (*FinancialYearRepository)(nil)
	_ ledger.AccountRepository             = (*AccountRepository)(nil)
	_ ledger.CostCenterRepository          = (*CostCenterRepository)(nil)
	_ partner.ProfileRepository            = (*ProfileRepository)(nil)
	_ partner.GodownRepository             = (*GodownRepository)(nil)
	_ catalog.UnitRepository               = (*UnitRepository)(nil)
	_ geo.ProvinceRepository               = (*ProvinceRepository)(nil)
	_ geo.CityRepository                   = (*CityRepository)(nil)
	_ identity.UserRepository              = (*UserRepository)(nil)
)
