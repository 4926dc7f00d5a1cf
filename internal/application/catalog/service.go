// Package catalog serves units of measure.
package catalog

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/catalog"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// CreateUnitRequest represents a request to create a unit
type CreateUnitRequest struct {
	CompanyID   uuid.UUID `json:"companyId" binding:"required"`
	Code        string    `json:"code" binding:"required,max=20"`
	Name        string    `json:"name" binding:"required,max=100"`
	Description string    `json:"description" binding:"max=500"`
}

// UpdateUnitRequest represents a request to update a unit
type UpdateUnitRequest struct {
	Code        *string `json:"code" binding:"omitempty,min=1,max=20"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Version     *int    `json:"version"`
}

// UnitResponse represents a unit in API responses
type UnitResponse struct {
	ID          uuid.UUID  `json:"id"`
	CompanyID   uuid.UUID  `json:"companyId"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedBy   *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedBy   *uuid.UUID `json:"updatedBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Version     int        `json:"version"`
}

// ToUnitResponse converts a domain Unit to UnitResponse
func ToUnitResponse(u *catalog.Unit) UnitResponse {
	return UnitResponse{
		ID:          u.ID,
		CompanyID:   u.CompanyID,
		Code:        u.Code,
		Name:        u.Name,
		Description: u.Description,
		CreatedBy:   u.CreatedBy,
		UpdatedBy:   u.UpdatedBy,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		Version:     u.Version,
	}
}

// UnitService handles units of measure
type UnitService struct {
	unitRepo    catalog.UnitRepository
	companyRepo organization.CompanyRepository
	guard       common.Guard
}

// NewUnitService creates a new UnitService
func NewUnitService(
	unitRepo catalog.UnitRepository,
	companyRepo organization.CompanyRepository,
	refs shared.ReferenceCounter,
	metrics *telemetry.LedgerMetrics,
) *UnitService {
	return &UnitService{
		unitRepo:    unitRepo,
		companyRepo: companyRepo,
		guard:       common.Guard{Resource: "unit", Refs: refs, Metrics: metrics},
	}
}

// Create creates a new unit
func (s *UnitService) Create(ctx context.Context, actor shared.Actor, req CreateUnitRequest) (*UnitResponse, error) {
	if err := common.Authorize(actor, req.CompanyID); err != nil {
		return nil, err
	}
	if _, err := organization.RequireActiveCompany(ctx, s.companyRepo, req.CompanyID); err != nil {
		return nil, err
	}

	unit, err := catalog.NewUnit(req.CompanyID, req.Code, req.Name, actor.UserID)
	if err != nil {
		return nil, err
	}
	unit.SetDescription(req.Description)

	if err := s.guard.Observe(ctx, s.unitRepo.Create(ctx, unit)); err != nil {
		return nil, err
	}

	response := ToUnitResponse(unit)
	return &response, nil
}

// List retrieves the units of a company
func (s *UnitService) List(ctx context.Context, actor shared.Actor, companyID uuid.UUID, query common.ListQuery) ([]UnitResponse, int64, error) {
	if err := common.Authorize(actor, companyID); err != nil {
		return nil, 0, err
	}

	units, total, err := s.unitRepo.FindAllForCompany(ctx, companyID, query.Filter())
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UnitResponse, len(units))
	for i := range units {
		responses[i] = ToUnitResponse(&units[i])
	}
	return responses, total, nil
}

// Update updates a unit
func (s *UnitService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateUnitRequest) (*UnitResponse, error) {
	unit, err := common.Owned(ctx, s.unitRepo.FindByID, actor, id, "Unit")
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(unit.Version, req.Version); err != nil {
		return nil, err
	}

	if req.Code != nil {
		if err := unit.SetCode(*req.Code); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if err := unit.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		unit.SetDescription(*req.Description)
	}

	unit.Touch(actor.UserID)
	if err := s.guard.Observe(ctx, s.unitRepo.Update(ctx, unit)); err != nil {
		return nil, err
	}

	response := ToUnitResponse(unit)
	return &response, nil
}

// Delete deletes a unit no voucher item refers to
func (s *UnitService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	unit, err := common.Owned(ctx, s.unitRepo.FindByID, actor, id, "Unit")
	if err != nil {
		return err
	}
	if err := s.guard.EnsureDeletable(ctx, "Unit "+unit.Code, unit.ID, catalog.UnitReferences); err != nil {
		return err
	}
	return s.unitRepo.Delete(ctx, unit.ID)
}
