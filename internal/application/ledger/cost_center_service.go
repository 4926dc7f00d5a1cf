package ledger

import (
	"context"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// CostCenterService handles parent and child cost/revenue centers
type CostCenterService struct {
	centerRepo  ledger.CostCenterRepository
	companyRepo organization.CompanyRepository
	guard       common.Guard
}

// NewCostCenterService creates a new CostCenterService
func NewCostCenterService(
	centerRepo ledger.CostCenterRepository,
	companyRepo organization.CompanyRepository,
	refs shared.ReferenceCounter,
	metrics *telemetry.LedgerMetrics,
) *CostCenterService {
	return &CostCenterService{
		centerRepo:  centerRepo,
		companyRepo: companyRepo,
		guard:       common.Guard{Resource: "cost_center", Refs: refs, Metrics: metrics},
	}
}

// Create creates a center of the given kind. A child needs a parent
// center of the same company.
func (s *CostCenterService) Create(ctx context.Context, actor shared.Actor, kind ledger.CostCenterKind, req CreateCostCenterRequest) (*CostCenterResponse, error) {
	if err := common.Authorize(actor, req.CompanyID); err != nil {
		return nil, err
	}
	if _, err := organization.RequireActiveCompany(ctx, s.companyRepo, req.CompanyID); err != nil {
		return nil, err
	}

	var (
		center *ledger.CostCenter
		err    error
	)
	switch kind {
	case ledger.CostCenterParent:
		center, err = ledger.NewParentCostCenter(req.CompanyID, req.Code, req.Name, ledger.CostCenterType(req.Type), actor.UserID)
	case ledger.CostCenterChild:
		var parent *ledger.CostCenter
		parent, err = s.parent(ctx, req.CompanyID, req.ParentID)
		if err != nil {
			return nil, err
		}
		center, err = ledger.NewChildCostCenter(parent, req.Code, req.Name, actor.UserID)
	default:
		return nil, shared.NewDomainError("INVALID_KIND", "Kind must be parent or child")
	}
	if err != nil {
		return nil, err
	}

	if err := s.guard.Observe(ctx, s.centerRepo.Create(ctx, center)); err != nil {
		return nil, err
	}

	response := ToCostCenterResponse(center)
	return &response, nil
}

// List retrieves the centers of one kind
func (s *CostCenterService) List(ctx context.Context, actor shared.Actor, kind ledger.CostCenterKind, companyID uuid.UUID, filter CostCenterListFilter) ([]CostCenterResponse, int64, error) {
	if err := common.Authorize(actor, companyID); err != nil {
		return nil, 0, err
	}

	var parentID *uuid.UUID
	if filter.ParentID != "" {
		id, err := uuid.Parse(filter.ParentID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_PARENT", "Invalid parent center ID")
		}
		parentID = &id
	}
	domainFilter := filter.Filter()
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}

	centers, total, err := s.centerRepo.FindByKind(ctx, companyID, kind, parentID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CostCenterResponse, len(centers))
	for i := range centers {
		responses[i] = ToCostCenterResponse(&centers[i])
	}
	return responses, total, nil
}

// Update updates a center. Child centers may move to another parent.
func (s *CostCenterService) Update(ctx context.Context, actor shared.Actor, kind ledger.CostCenterKind, id uuid.UUID, req UpdateCostCenterRequest) (*CostCenterResponse, error) {
	center, err := s.find(ctx, actor, kind, id)
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(center.Version, req.Version); err != nil {
		return nil, err
	}

	if req.Code != nil {
		if err := center.SetCode(*req.Code); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if err := center.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ParentID != nil {
		parent, err := s.parent(ctx, center.CompanyID, req.ParentID)
		if err != nil {
			return nil, err
		}
		if err := center.MoveTo(parent); err != nil {
			return nil, err
		}
	}

	center.Touch(actor.UserID)
	if err := s.guard.Observe(ctx, s.centerRepo.Update(ctx, center)); err != nil {
		return nil, err
	}

	response := ToCostCenterResponse(center)
	return &response, nil
}

// Delete deletes a center. Parents are blocked by their children, children
// by voucher entries tagged with them.
func (s *CostCenterService) Delete(ctx context.Context, actor shared.Actor, kind ledger.CostCenterKind, id uuid.UUID) error {
	center, err := s.find(ctx, actor, kind, id)
	if err != nil {
		return err
	}
	entity := "Cost center " + center.Code
	if err := s.guard.EnsureDeletable(ctx, entity, center.ID, ledger.CostCenterReferences(center.Kind)); err != nil {
		return err
	}
	return s.centerRepo.Delete(ctx, center.ID)
}

func (s *CostCenterService) find(ctx context.Context, actor shared.Actor, kind ledger.CostCenterKind, id uuid.UUID) (*ledger.CostCenter, error) {
	center, err := common.Owned(ctx, s.centerRepo.FindByID, actor, id, "Cost center")
	if err != nil {
		return nil, err
	}
	if center.Kind != kind {
		return nil, shared.NotFound("Cost center")
	}
	return center, nil
}

func (s *CostCenterService) parent(ctx context.Context, companyID uuid.UUID, parentID *uuid.UUID) (*ledger.CostCenter, error) {
	if parentID == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Child centers need a parent center")
	}
	return shared.FindInCompany(ctx, s.centerRepo.FindByID, *parentID, companyID, "INVALID_PARENT", "Parent center")
}
