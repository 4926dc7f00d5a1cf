package partner

import (
	"regexp"
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfileType says whether a party buys from us, sells to us, or both
type ProfileType string

const (
	ProfileTypeCustomer ProfileType = "customer"
	ProfileTypeSupplier ProfileType = "supplier"
	ProfileTypeBoth     ProfileType = "both"
)

// IsValid reports whether t is a known profile type
func (t ProfileType) IsValid() bool {
	return t == ProfileTypeCustomer || t == ProfileTypeSupplier || t == ProfileTypeBoth
}

// Profile is a customer or supplier of a company
type Profile struct {
	shared.TenantAggregateRoot
	Type          ProfileType
	Code          string
	Name          string
	ContactPerson string
	Phone         string // E.164
	Email         string
	Address       string
	ProvinceID    *uuid.UUID
	CityID        *uuid.UUID
	NTN           string
	STRN          string
	CNIC          string
	AccountID     *uuid.UUID // level 4 receivable/payable account
	CreditLimit   decimal.Decimal
}

// NewProfile creates a profile
func NewProfile(companyID uuid.UUID, profileType ProfileType, code, name string, createdBy *uuid.UUID) (*Profile, error) {
	if !profileType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Type must be customer, supplier or both")
	}
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return nil, err
	}
	if err := shared.ValidateName(name, 200); err != nil {
		return nil, err
	}
	return &Profile{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID, createdBy),
		Type:                profileType,
		Code:                code,
		Name:                strings.TrimSpace(name),
		CreditLimit:         decimal.Zero,
	}, nil
}

// SetType changes the profile type
func (p *Profile) SetType(profileType ProfileType) error {
	if !profileType.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Type must be customer, supplier or both")
	}
	p.Type = profileType
	return nil
}

// SetCode changes the profile code
func (p *Profile) SetCode(code string) error {
	code = shared.NormalizeCode(code)
	if err := shared.ValidateCode(code, 20); err != nil {
		return err
	}
	p.Code = code
	return nil
}

// Rename changes the profile name
func (p *Profile) Rename(name string) error {
	if err := shared.ValidateName(name, 200); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	return nil
}

// SetContact sets contact details. The phone must already be normalized.
func (p *Profile) SetContact(contactPerson, phone, email, address string) error {
	email = strings.TrimSpace(email)
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	p.ContactPerson = strings.TrimSpace(contactPerson)
	p.Phone = phone
	p.Email = email
	p.Address = strings.TrimSpace(address)
	return nil
}

// SetRegion sets province and city. A city without a province is rejected.
func (p *Profile) SetRegion(provinceID, cityID *uuid.UUID) error {
	if cityID != nil && provinceID == nil {
		return shared.NewDomainError("INVALID_CITY", "City requires a province")
	}
	p.ProvinceID = provinceID
	p.CityID = cityID
	return nil
}

// SetTaxIdentity sets the NTN, STRN and CNIC registrations
func (p *Profile) SetTaxIdentity(ntn, strn, cnic string) error {
	cnic = strings.TrimSpace(cnic)
	if cnic != "" && !cnicPattern.MatchString(cnic) {
		return shared.NewDomainError("INVALID_CNIC", "CNIC must be 13 digits, optionally formatted as 00000-0000000-0")
	}
	p.NTN = strings.TrimSpace(ntn)
	p.STRN = strings.TrimSpace(strn)
	p.CNIC = cnic
	return nil
}

// SetAccount links the profile to its ledger account
func (p *Profile) SetAccount(accountID *uuid.UUID) {
	p.AccountID = accountID
}

// SetCreditLimit sets the credit limit; negative limits are rejected
func (p *Profile) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	p.CreditLimit = limit.Round(2)
	return nil
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	cnicPattern  = regexp.MustCompile(`^(\d{13}|\d{5}-\d{7}-\d)$`)
)

// ProfileRepository defines persistence for profiles
type ProfileRepository interface {
	shared.TenantRepository[Profile]
}

// ProfileReferences are the collections pointing at a profile
var ProfileReferences = []shared.ReferenceRule{
	{Label: "voucher(s)", Table: "vouchers", Column: "profile_id"},
}
