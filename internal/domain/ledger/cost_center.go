package ledger

import (
	"context"
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// CostCenterKind separates parent centers from the child centers that
// vouchers are tagged with
type CostCenterKind string

const (
	CostCenterParent CostCenterKind = "parent"
	CostCenterChild  CostCenterKind = "child"
)

// CostCenterType marks a center as tracking cost or revenue
type CostCenterType string

const (
	CostCenterTypeCost    CostCenterType = "cost"
	CostCenterTypeRevenue CostCenterType = "revenue"
)

// CostCenter is a cost/revenue center used for management reporting
type CostCenter struct {
	shared.TenantAggregateRoot
	Kind     CostCenterKind
	Type     CostCenterType
	Code     string
	Name     string
	ParentID *uuid.UUID
}

// NewParentCostCenter creates a top-level center
func NewParentCostCenter(companyID uuid.UUID, code, name string, centerType CostCenterType, createdBy *uuid.UUID) (*CostCenter, error) {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return nil, err
	}
	if err := shared.ValidateName(name, 200); err != nil {
		return nil, err
	}
	if centerType == "" {
		centerType = CostCenterTypeCost
	}
	if centerType != CostCenterTypeCost && centerType != CostCenterTypeRevenue {
		return nil, shared.NewDomainError("INVALID_TYPE", "Type must be cost or revenue")
	}
	return &CostCenter{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID, createdBy),
		Kind:                CostCenterParent,
		Type:                centerType,
		Code:                code,
		Name:                strings.TrimSpace(name),
	}, nil
}

// NewChildCostCenter creates a center under parent; the type is inherited
func NewChildCostCenter(parent *CostCenter, code, name string, createdBy *uuid.UUID) (*CostCenter, error) {
	if err := checkParent(parent); err != nil {
		return nil, err
	}
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return nil, err
	}
	if err := shared.ValidateName(name, 200); err != nil {
		return nil, err
	}
	parentID := parent.ID
	return &CostCenter{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(parent.CompanyID, createdBy),
		Kind:                CostCenterChild,
		Type:                parent.Type,
		Code:                code,
		Name:                strings.TrimSpace(name),
		ParentID:            &parentID,
	}, nil
}

// SetCode changes the center code
func (c *CostCenter) SetCode(code string) error {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return err
	}
	c.Code = code
	return nil
}

// Rename changes the center name
func (c *CostCenter) Rename(name string) error {
	if err := shared.ValidateName(name, 200); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	return nil
}

// MoveTo attaches a child center to another parent
func (c *CostCenter) MoveTo(parent *CostCenter) error {
	if c.Kind != CostCenterChild {
		return shared.NewDomainError("INVALID_STATE", "Only child centers have a parent")
	}
	if err := checkParent(parent); err != nil {
		return err
	}
	if parent.CompanyID != c.CompanyID {
		return shared.NewDomainError("INVALID_PARENT", "Parent center does not exist in this company")
	}
	id := parent.ID
	c.ParentID = &id
	c.Type = parent.Type
	return nil
}

func checkParent(parent *CostCenter) error {
	if parent == nil {
		return shared.NewDomainError("INVALID_PARENT", "Parent center is required")
	}
	if parent.Kind != CostCenterParent {
		return shared.NewDomainError("INVALID_PARENT", "Parent must be a parent cost center")
	}
	return nil
}

// CostCenterRepository defines persistence for cost centers
type CostCenterRepository interface {
	shared.TenantRepository[CostCenter]

	// FindByKind lists centers of one kind, optionally under a parent
	FindByKind(ctx context.Context, companyID uuid.UUID, kind CostCenterKind, parentID *uuid.UUID, filter shared.Filter) ([]CostCenter, int64, error)
}

// CostCenterReferences returns the delete rules for a center of kind
func CostCenterReferences(kind CostCenterKind) []shared.ReferenceRule {
	if kind == CostCenterParent {
		return []shared.ReferenceRule{{Label: "child cost center(s)", Table: "cost_centers", Column: "parent_id"}}
	}
	return []shared.ReferenceRule{
		{Label: "voucher entry(ies)", Table: "voucher_entries", Column: "cost_center_id", Collection: "vouchers", Field: "entries.cost_center_id"},
	}
}
