package geo

import (
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Province is a first-level administrative region
type Province struct {
	shared.TenantAggregateRoot
	Code string
	Name string
}

// NewProvince creates a province
func NewProvince(companyID uuid.UUID, code, name string, createdBy *uuid.UUID) (*Province, error) {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return nil, err
	}
	if err := shared.ValidateName(name, 100); err != nil {
		return nil, err
	}
	return &Province{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID, createdBy),
		Code:                code,
		Name:                strings.TrimSpace(name),
	}, nil
}

// SetCode changes the province code
func (p *Province) SetCode(code string) error {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return err
	}
	p.Code = code
	return nil
}

// Rename changes the province name
func (p *Province) Rename(name string) error {
	if err := shared.ValidateName(name, 100); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	return nil
}

// City belongs to exactly one province
type City struct {
	shared.TenantAggregateRoot
	ProvinceID uuid.UUID
	Code       string
	Name       string
}

// NewCity creates a city within province
func NewCity(province *Province, code, name string, createdBy *uuid.UUID) (*City, error) {
	if province == nil {
		return nil, shared.NewDomainError("INVALID_PROVINCE", "Province is required")
	}
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return nil, err
	}
	if err := shared.ValidateName(name, 100); err != nil {
		return nil, err
	}
	return &City{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(province.CompanyID, createdBy),
		ProvinceID:          province.ID,
		Code:                code,
		Name:                strings.TrimSpace(name),
	}, nil
}

// SetCode changes the city code
func (c *City) SetCode(code string) error {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return err
	}
	c.Code = code
	return nil
}

// Rename changes the city name
func (c *City) Rename(name string) error {
	if err := shared.ValidateName(name, 100); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	return nil
}

// MoveTo moves the city to another province of the same company
func (c *City) MoveTo(province *Province) error {
	if province == nil || province.CompanyID != c.CompanyID {
		return shared.NewDomainError("INVALID_PROVINCE", "Province does not exist in this company")
	}
	c.ProvinceID = province.ID
	return nil
}

// ProvinceRepository defines persistence for provinces
type ProvinceRepository interface {
	shared.TenantRepository[Province]
}

// CityRepository defines persistence for cities
type CityRepository interface {
	shared.TenantRepository[City]
}

// ProvinceReferences are the collections pointing at a province
var ProvinceReferences = []shared.ReferenceRule{
	{Label: "city(ies)", Table: "cities", Column: "province_id"},
	{Label: "profile(s)", Table: "profiles", Column: "province_id"},
}

// CityReferences are the collections pointing at a city
var CityReferences = []shared.ReferenceRule{
	{Label: "profile(s)", Table: "profiles", Column: "city_id"},
}
