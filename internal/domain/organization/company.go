package organization

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyStatus represents the status of a company
type CompanyStatus string

const (
	CompanyStatusActive   CompanyStatus = "active"
	CompanyStatusInactive CompanyStatus = "inactive"
)

// Company is the tenant root. Every other record is partitioned by its ID.
type Company struct {
	shared.BaseAggregateRoot
	Code      string
	Name      string
	NTN       string // national tax number
	STRN      string // sales tax registration number
	Address   string
	Phone     string
	Email     string
	Status    CompanyStatus
	CreatedBy *uuid.UUID
	UpdatedBy *uuid.UUID
}

// NewCompany creates a new active company
func NewCompany(code, name string, createdBy *uuid.UUID) (*Company, error) {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return nil, err
	}
	if err := shared.ValidateName(name, 200); err != nil {
		return nil, err
	}
	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(name),
		Status:            CompanyStatusActive,
		CreatedBy:         createdBy,
		UpdatedBy:         createdBy,
	}, nil
}

// GetCompanyID returns the company's own ID so a company can be checked
// like any other scoped record.
func (c Company) GetCompanyID() uuid.UUID {
	return c.ID
}

// SetCode changes the company code
func (c *Company) SetCode(code string) error {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return err
	}
	c.Code = code
	return nil
}

// Rename changes the company name
func (c *Company) Rename(name string) error {
	if err := shared.ValidateName(name, 200); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	return nil
}

// SetTaxNumbers sets the NTN and STRN registrations
func (c *Company) SetTaxNumbers(ntn, strn string) {
	c.NTN = strings.TrimSpace(ntn)
	c.STRN = strings.TrimSpace(strn)
}

// SetContact sets address, phone and email
func (c *Company) SetContact(address, phone, email string) error {
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	c.Address = strings.TrimSpace(address)
	c.Phone = strings.TrimSpace(phone)
	c.Email = strings.TrimSpace(email)
	return nil
}

// SetStatus activates or deactivates the company
func (c *Company) SetStatus(status CompanyStatus) error {
	if status != CompanyStatusActive && status != CompanyStatusInactive {
		return shared.NewDomainError("INVALID_STATUS", "Status must be active or inactive")
	}
	c.Status = status
	return nil
}

// IsActive returns true if the company accepts new records
func (c *Company) IsActive() bool {
	return c.Status == CompanyStatusActive
}

// Touch records a modification
func (c *Company) Touch(updatedBy *uuid.UUID) {
	c.UpdatedAt = time.Now()
	c.UpdatedBy = updatedBy
	c.IncrementVersion()
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// CompanyRepository defines persistence for companies
type CompanyRepository interface {
	// FindByID finds a company by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	// FindAll returns one page of companies and the total count
	FindAll(ctx context.Context, filter shared.Filter) ([]Company, int64, error)
	// Create inserts a company; a duplicate code yields ErrAlreadyExists
	Create(ctx context.Context, company *Company) error
	// Update persists a modified company with an optimistic version check
	Update(ctx context.Context, company *Company) error
	// Delete removes a company
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompanyReferences lists every collection partitioned by company. A
// company with any record left cannot be deleted.
var CompanyReferences = []shared.ReferenceRule{
	{Label: "user(s)", Table: "users", Column: "company_id"},
	{Label: "location(s)", Table: "locations", Column: "company_id"},
	{Label: "financial year(s)", Table: "financial_years", Column: "company_id"},
	{Label: "account(s)", Table: "accounts", Column: "company_id"},
	{Label: "cost center(s)", Table: "cost_centers", Column: "company_id"},
	{Label: "godown(s)", Table: "godowns", Column: "company_id"},
	{Label: "unit(s) of measurement", Table: "units", Column: "company_id"},
	{Label: "province(s)", Table: "provinces", Column: "company_id"},
	{Label: "city(ies)", Table: "cities", Column: "company_id"},
	{Label: "profile(s)", Table: "profiles", Column: "company_id"},
	{Label: "voucher(s)", Table: "vouchers", Column: "company_id"},
}

// RequireActiveCompany loads a company and fails unless it exists and is active.
func RequireActiveCompany(ctx context.Context, repo CompanyRepository, id uuid.UUID) (*Company, error) {
	company, err := repo.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_COMPANY", "Company does not exist")
		}
		return nil, err
	}
	if !company.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Company is inactive")
	}
	return company, nil
}
