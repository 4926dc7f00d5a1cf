package organization

import (
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Location is a branch or site of a company
type Location struct {
	shared.TenantAggregateRoot
	Code    string
	Name    string
	Address string
	Phone   string
}

// NewLocation creates a new location
func NewLocation(companyID uuid.UUID, code, name string, createdBy *uuid.UUID) (*Location, error) {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return nil, err
	}
	if err := shared.ValidateName(name, 200); err != nil {
		return nil, err
	}
	return &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID, createdBy),
		Code:                code,
		Name:                strings.TrimSpace(name),
	}, nil
}

// SetCode changes the location code
func (l *Location) SetCode(code string) error {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return err
	}
	l.Code = code
	return nil
}

// Rename changes the location name
func (l *Location) Rename(name string) error {
	if err := shared.ValidateName(name, 200); err != nil {
		return err
	}
	l.Name = strings.TrimSpace(name)
	return nil
}

// SetContact sets address and phone
func (l *Location) SetContact(address, phone string) {
	l.Address = strings.TrimSpace(address)
	l.Phone = strings.TrimSpace(phone)
}

// LocationRepository defines persistence for locations
type LocationRepository interface {
	shared.TenantRepository[Location]
}

// LocationReferences are the collections pointing at a location
var LocationReferences = []shared.ReferenceRule{
	{Label: "godown(s)", Table: "godowns", Column: "location_id"},
	{Label: "voucher(s)", Table: "vouchers", Column: "location_id"},
}
