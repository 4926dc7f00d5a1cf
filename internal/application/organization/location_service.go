package organization

import (
	"context"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// LocationService handles location-related business operations
type LocationService struct {
	locationRepo organization.LocationRepository
	companyRepo  organization.CompanyRepository
	guard        common.Guard
}

// NewLocationService creates a new LocationService
func NewLocationService(
	locationRepo organization.LocationRepository,
	companyRepo organization.CompanyRepository,
	refs shared.ReferenceCounter,
	metrics *telemetry.LedgerMetrics,
) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
		companyRepo:  companyRepo,
		guard:        common.Guard{Resource: "location", Refs: refs, Metrics: metrics},
	}
}

// Create creates a new location
func (s *LocationService) Create(ctx context.Context, actor shared.Actor, req CreateLocationRequest) (*LocationResponse, error) {
	if err := common.Authorize(actor, req.CompanyID); err != nil {
		return nil, err
	}
	if _, err := organization.RequireActiveCompany(ctx, s.companyRepo, req.CompanyID); err != nil {
		return nil, err
	}

	location, err := organization.NewLocation(req.CompanyID, req.Code, req.Name, actor.UserID)
	if err != nil {
		return nil, err
	}
	location.SetContact(req.Address, req.Phone)

	if err := s.guard.Observe(ctx, s.locationRepo.Create(ctx, location)); err != nil {
		return nil, err
	}

	response := ToLocationResponse(location)
	return &response, nil
}

// List retrieves the locations of a company
func (s *LocationService) List(ctx context.Context, actor shared.Actor, companyID uuid.UUID, query common.ListQuery) ([]LocationResponse, int64, error) {
	if err := common.Authorize(actor, companyID); err != nil {
		return nil, 0, err
	}

	locations, total, err := s.locationRepo.FindAllForCompany(ctx, companyID, query.Filter())
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LocationResponse, len(locations))
	for i := range locations {
		responses[i] = ToLocationResponse(&locations[i])
	}
	return responses, total, nil
}

// Update updates a location
func (s *LocationService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	location, err := common.Owned(ctx, s.locationRepo.FindByID, actor, id, "Location")
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(location.Version, req.Version); err != nil {
		return nil, err
	}

	if req.Code != nil {
		if err := location.SetCode(*req.Code); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if err := location.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Address != nil || req.Phone != nil {
		address, phone := location.Address, location.Phone
		if req.Address != nil {
			address = *req.Address
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		location.SetContact(address, phone)
	}

	location.Touch(actor.UserID)
	if err := s.guard.Observe(ctx, s.locationRepo.Update(ctx, location)); err != nil {
		return nil, err
	}

	response := ToLocationResponse(location)
	return &response, nil
}

// Delete deletes a location not used by godowns or vouchers
func (s *LocationService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	location, err := common.Owned(ctx, s.locationRepo.FindByID, actor, id, "Location")
	if err != nil {
		return err
	}
	if err := s.guard.EnsureDeletable(ctx, "Location", location.ID, organization.LocationReferences); err != nil {
		return err
	}
	return s.locationRepo.Delete(ctx, location.ID)
}
