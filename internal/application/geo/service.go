// Package geo serves the province and city lists profiles are tagged with.
package geo

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/geo"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// CreateProvinceRequest represents a request to create a province
type CreateProvinceRequest struct {
	CompanyID uuid.UUID `json:"companyId" binding:"required"`
	Code      string    `json:"code" binding:"required,max=20"`
	Name      string    `json:"name" binding:"required,max=100"`
}

// CreateCityRequest represents a request to create a city
type CreateCityRequest struct {
	CompanyID  uuid.UUID `json:"companyId" binding:"required"`
	ProvinceID uuid.UUID `json:"provinceId" binding:"required"`
	Code       string    `json:"code" binding:"required,max=20"`
	Name       string    `json:"name" binding:"required,max=100"`
}

// UpdateRegionRequest represents a request to update a province or city.
// ProvinceID only applies to cities.
type UpdateRegionRequest struct {
	Code       *string    `json:"code" binding:"omitempty,min=1,max=20"`
	Name       *string    `json:"name" binding:"omitempty,min=1,max=100"`
	ProvinceID *uuid.UUID `json:"provinceId"`
	Version    *int       `json:"version"`
}

// CityListFilter represents filter options for the city list
type CityListFilter struct {
	common.ListQuery
	ProvinceID string `form:"provinceId" binding:"omitempty,uuid"`
}

// RegionResponse represents a province or city in API responses
type RegionResponse struct {
	ID         uuid.UUID  `json:"id"`
	CompanyID  uuid.UUID  `json:"companyId"`
	ProvinceID *uuid.UUID `json:"provinceId,omitempty"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	CreatedBy  *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedBy  *uuid.UUID `json:"updatedBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Version    int        `json:"version"`
}

func toProvinceResponse(p *geo.Province) RegionResponse {
	return RegionResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		Code:      p.Code,
		Name:      p.Name,
		CreatedBy: p.CreatedBy,
		UpdatedBy: p.UpdatedBy,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Version:   p.Version,
	}
}

func toCityResponse(c *geo.City) RegionResponse {
	provinceID := c.ProvinceID
	return RegionResponse{
		ID:         c.ID,
		CompanyID:  c.CompanyID,
		ProvinceID: &provinceID,
		Code:       c.Code,
		Name:       c.Name,
		CreatedBy:  c.CreatedBy,
		UpdatedBy:  c.UpdatedBy,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Version:    c.Version,
	}
}

// RegionService handles provinces and cities
type RegionService struct {
	provinceRepo geo.ProvinceRepository
	cityRepo     geo.CityRepository
	companyRepo  organization.CompanyRepository
	provinces    common.Guard
	cities       common.Guard
}

// NewRegionService creates a new RegionService
func NewRegionService(
	provinceRepo geo.ProvinceRepository,
	cityRepo geo.CityRepository,
	companyRepo organization.CompanyRepository,
	refs shared.ReferenceCounter,
	metrics *telemetry.LedgerMetrics,
) *RegionService {
	return &RegionService{
		provinceRepo: provinceRepo,
		cityRepo:     cityRepo,
		companyRepo:  companyRepo,
		provinces:    common.Guard{Resource: "province", Refs: refs, Metrics: metrics},
		cities:       common.Guard{Resource: "city", Refs: refs, Metrics: metrics},
	}
}

// CreateProvince creates a new province
func (s *RegionService) CreateProvince(ctx context.Context, actor shared.Actor, req CreateProvinceRequest) (*RegionResponse, error) {
	if err := common.Authorize(actor, req.CompanyID); err != nil {
		return nil, err
	}
	if _, err := organization.RequireActiveCompany(ctx, s.companyRepo, req.CompanyID); err != nil {
		return nil, err
	}

	province, err := geo.NewProvince(req.CompanyID, req.Code, req.Name, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.provinces.Observe(ctx, s.provinceRepo.Create(ctx, province)); err != nil {
		return nil, err
	}

	response := toProvinceResponse(province)
	return &response, nil
}

// ListProvinces retrieves the provinces of a company
func (s *RegionService) ListProvinces(ctx context.Context, actor shared.Actor, companyID uuid.UUID, query common.ListQuery) ([]RegionResponse, int64, error) {
	if err := common.Authorize(actor, companyID); err != nil {
		return nil, 0, err
	}

	provinces, total, err := s.provinceRepo.FindAllForCompany(ctx, companyID, query.Filter())
	if err != nil {
		return nil, 0, err
	}

	responses := make([]RegionResponse, len(provinces))
	for i := range provinces {
		responses[i] = toProvinceResponse(&provinces[i])
	}
	return responses, total, nil
}

// UpdateProvince updates a province
func (s *RegionService) UpdateProvince(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateRegionRequest) (*RegionResponse, error) {
	province, err := common.Owned(ctx, s.provinceRepo.FindByID, actor, id, "Province")
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(province.Version, req.Version); err != nil {
		return nil, err
	}

	if req.Code != nil {
		if err := province.SetCode(*req.Code); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if err := province.Rename(*req.Name); err != nil {
			return nil, err
		}
	}

	province.Touch(actor.UserID)
	if err := s.provinces.Observe(ctx, s.provinceRepo.Update(ctx, province)); err != nil {
		return nil, err
	}

	response := toProvinceResponse(province)
	return &response, nil
}

// DeleteProvince deletes a province without cities or profiles
func (s *RegionService) DeleteProvince(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	province, err := common.Owned(ctx, s.provinceRepo.FindByID, actor, id, "Province")
	if err != nil {
		return err
	}
	if err := s.provinces.EnsureDeletable(ctx, "Province "+province.Code, province.ID, geo.ProvinceReferences); err != nil {
		return err
	}
	return s.provinceRepo.Delete(ctx, province.ID)
}

// CreateCity creates a city inside a province of the same company
func (s *RegionService) CreateCity(ctx context.Context, actor shared.Actor, req CreateCityRequest) (*RegionResponse, error) {
	if err := common.Authorize(actor, req.CompanyID); err != nil {
		return nil, err
	}
	if _, err := organization.RequireActiveCompany(ctx, s.companyRepo, req.CompanyID); err != nil {
		return nil, err
	}

	province, err := shared.FindInCompany(ctx, s.provinceRepo.FindByID, req.ProvinceID, req.CompanyID, "INVALID_PROVINCE", "Province")
	if err != nil {
		return nil, err
	}
	city, err := geo.NewCity(province, req.Code, req.Name, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.cities.Observe(ctx, s.cityRepo.Create(ctx, city)); err != nil {
		return nil, err
	}

	response := toCityResponse(city)
	return &response, nil
}

// ListCities retrieves the cities of a company, optionally of one province
func (s *RegionService) ListCities(ctx context.Context, actor shared.Actor, companyID uuid.UUID, filter CityListFilter) ([]RegionResponse, int64, error) {
	if err := common.Authorize(actor, companyID); err != nil {
		return nil, 0, err
	}

	domainFilter := filter.Filter()
	if filter.ProvinceID != "" {
		domainFilter.Filters["province_id"] = filter.ProvinceID
	}

	cities, total, err := s.cityRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]RegionResponse, len(cities))
	for i := range cities {
		responses[i] = toCityResponse(&cities[i])
	}
	return responses, total, nil
}

// UpdateCity updates a city, optionally moving it to another province
func (s *RegionService) UpdateCity(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateRegionRequest) (*RegionResponse, error) {
	city, err := common.Owned(ctx, s.cityRepo.FindByID, actor, id, "City")
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(city.Version, req.Version); err != nil {
		return nil, err
	}

	if req.Code != nil {
		if err := city.SetCode(*req.Code); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if err := city.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ProvinceID != nil {
		province, err := shared.FindInCompany(ctx, s.provinceRepo.FindByID, *req.ProvinceID, city.CompanyID, "INVALID_PROVINCE", "Province")
		if err != nil {
			return nil, err
		}
		if province.ID != city.ProvinceID {
			// profiles hold the province next to the city
			if err := s.cities.EnsureUnreferenced(ctx, "City "+city.Code+" cannot move to another province",
				city.ID, geo.CityReferences); err != nil {
				return nil, err
			}
		}
		if err := city.MoveTo(province); err != nil {
			return nil, err
		}
	}

	city.Touch(actor.UserID)
	if err := s.cities.Observe(ctx, s.cityRepo.Update(ctx, city)); err != nil {
		return nil, err
	}

	response := toCityResponse(city)
	return &response, nil
}

// DeleteCity deletes a city no profile refers to
func (s *RegionService) DeleteCity(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	city, err := common.Owned(ctx, s.cityRepo.FindByID, actor, id, "City")
	if err != nil {
		return err
	}
	if err := s.cities.EnsureDeletable(ctx, "City "+city.Code, city.ID, geo.CityReferences); err != nil {
		return err
	}
	return s.cityRepo.Delete(ctx, city.ID)
}
