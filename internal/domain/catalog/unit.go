package catalog

import (
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Unit is a unit of measurement used on voucher items
type Unit struct {
	shared.TenantAggregateRoot
	Code        string
	Name        string
	Description string
}

// NewUnit creates a unit of measurement
func NewUnit(companyID uuid.UUID, code, name string, createdBy *uuid.UUID) (*Unit, error) {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return nil, err
	}
	if err := shared.ValidateName(name, 100); err != nil {
		return nil, err
	}
	return &Unit{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID, createdBy),
		Code:                code,
		Name:                strings.TrimSpace(name),
	}, nil
}

// SetCode changes the unit code
func (u *Unit) SetCode(code string) error {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return err
	}
	u.Code = code
	return nil
}

// Rename changes the unit name
func (u *Unit) Rename(name string) error {
	if err := shared.ValidateName(name, 100); err != nil {
		return err
	}
	u.Name = strings.TrimSpace(name)
	return nil
}

// SetDescription sets the free-text description
func (u *Unit) SetDescription(description string) {
	u.Description = strings.TrimSpace(description)
}

// UnitRepository defines persistence for units of measurement
type UnitRepository interface {
	shared.TenantRepository[Unit]
}

// UnitReferences are the collections pointing at a unit
var UnitReferences = []shared.ReferenceRule{
	{Label: "voucher item(s)", Table: "voucher_items", Column: "unit_id", Collection: "vouchers", Field: "items.unit_id"},
}
