package partner

import (
	"context"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// GodownService handles godowns
type GodownService struct {
	godownRepo   partner.GodownRepository
	companyRepo  organization.CompanyRepository
	locationRepo organization.LocationRepository
	guard        common.Guard
}

// NewGodownService creates a new GodownService
func NewGodownService(
	godownRepo partner.GodownRepository,
	companyRepo organization.CompanyRepository,
	locationRepo organization.LocationRepository,
	refs shared.ReferenceCounter,
	metrics *telemetry.LedgerMetrics,
) *GodownService {
	return &GodownService{
		godownRepo:   godownRepo,
		companyRepo:  companyRepo,
		locationRepo: locationRepo,
		guard:        common.Guard{Resource: "godown", Refs: refs, Metrics: metrics},
	}
}

// Create creates a new godown
func (s *GodownService) Create(ctx context.Context, actor shared.Actor, req CreateGodownRequest) (*GodownResponse, error) {
	if err := common.Authorize(actor, req.CompanyID); err != nil {
		return nil, err
	}
	if _, err := organization.RequireActiveCompany(ctx, s.companyRepo, req.CompanyID); err != nil {
		return nil, err
	}

	godown, err := partner.NewGodown(req.CompanyID, req.Code, req.Name, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.applyLocation(ctx, godown, req.LocationID); err != nil {
		return nil, err
	}
	godown.SetAddress(req.Address)

	if err := s.guard.Observe(ctx, s.godownRepo.Create(ctx, godown)); err != nil {
		return nil, err
	}

	response := ToGodownResponse(godown)
	return &response, nil
}

// List retrieves the godowns of a company
func (s *GodownService) List(ctx context.Context, actor shared.Actor, companyID uuid.UUID, filter GodownListFilter) ([]GodownResponse, int64, error) {
	if err := common.Authorize(actor, companyID); err != nil {
		return nil, 0, err
	}

	domainFilter := filter.Filter()
	if filter.LocationID != "" {
		domainFilter.Filters["location_id"] = filter.LocationID
	}

	godowns, total, err := s.godownRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]GodownResponse, len(godowns))
	for i := range godowns {
		responses[i] = ToGodownResponse(&godowns[i])
	}
	return responses, total, nil
}

// Update updates a godown
func (s *GodownService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateGodownRequest) (*GodownResponse, error) {
	godown, err := common.Owned(ctx, s.godownRepo.FindByID, actor, id, "Godown")
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(godown.Version, req.Version); err != nil {
		return nil, err
	}

	if req.Code != nil {
		if err := godown.SetCode(*req.Code); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if err := godown.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.LocationID != nil {
		if err := s.applyLocation(ctx, godown, req.LocationID); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		godown.SetAddress(*req.Address)
	}

	godown.Touch(actor.UserID)
	if err := s.guard.Observe(ctx, s.godownRepo.Update(ctx, godown)); err != nil {
		return nil, err
	}

	response := ToGodownResponse(godown)
	return &response, nil
}

// Delete deletes a godown no voucher item refers to
func (s *GodownService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	godown, err := common.Owned(ctx, s.godownRepo.FindByID, actor, id, "Godown")
	if err != nil {
		return err
	}
	if err := s.guard.EnsureDeletable(ctx, "Godown "+godown.Code, godown.ID, partner.GodownReferences); err != nil {
		return err
	}
	return s.godownRepo.Delete(ctx, godown.ID)
}

func (s *GodownService) applyLocation(ctx context.Context, godown *partner.Godown, locationID *uuid.UUID) error {
	if locationID == nil {
		godown.SetLocation(nil)
		return nil
	}
	location, err := shared.FindInCompany(ctx, s.locationRepo.FindByID, *locationID, godown.CompanyID, "INVALID_LOCATION", "Location")
	if err != nil {
		return err
	}
	godown.SetLocation(&location.ID)
	return nil
}
