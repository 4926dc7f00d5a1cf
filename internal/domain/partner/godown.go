package partner

import (
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Godown is a warehouse or storage location of a company
type Godown struct {
	shared.TenantAggregateRoot
	Code       string
	Name       string
	LocationID *uuid.UUID
	Address    string
}

// NewGodown creates a godown
func NewGodown(companyID uuid.UUID, code, name string, createdBy *uuid.UUID) (*Godown, error) {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return nil, err
	}
	if err := shared.ValidateName(name, 200); err != nil {
		return nil, err
	}
	return &Godown{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID, createdBy),
		Code:                code,
		Name:                strings.TrimSpace(name),
	}, nil
}

// SetCode changes the godown code
func (g *Godown) SetCode(code string) error {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return err
	}
	g.Code = code
	return nil
}

// Rename changes the godown name
func (g *Godown) Rename(name string) error {
	if err := shared.ValidateName(name, 200); err != nil {
		return err
	}
	g.Name = strings.TrimSpace(name)
	return nil
}

// SetLocation assigns the godown to a location, or clears it with nil
func (g *Godown) SetLocation(locationID *uuid.UUID) {
	g.LocationID = locationID
}

// SetAddress sets the street address
func (g *Godown) SetAddress(address string) {
	g.Address = strings.TrimSpace(address)
}

// GodownRepository defines persistence for godowns
type GodownRepository interface {
	shared.TenantRepository[Godown]
}

// GodownReferences are the collections pointing at a godown
var GodownReferences = []shared.ReferenceRule{
	{Label: "voucher item(s)", Table: "voucher_items", Column: "godown_id", Collection: "vouchers", Field: "items.godown_id"},
}
