package shared

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Actor identifies the caller of an operation. Both fields are nil for
// anonymous requests when authentication is optional.
type Actor struct {
	UserID    *uuid.UUID
	CompanyID *uuid.UUID
}

// Anonymous is the actor of an unauthenticated request
var Anonymous = Actor{}

// CanAccess reports whether the actor may touch records of companyID.
// Anonymous actors are not bound to a company.
func (a Actor) CanAccess(companyID uuid.UUID) bool {
	return a.CompanyID == nil || *a.CompanyID == companyID
}

// CompanyScoped is implemented by every record carrying a company key
type CompanyScoped interface {
	GetCompanyID() uuid.UUID
}

// FindInCompany loads a record through find and checks that it belongs to
// companyID. A missing record or one from another company yields a
// domain error with the given code.
func FindInCompany[T CompanyScoped](
	ctx context.Context,
	find func(context.Context, uuid.UUID) (T, error),
	id, companyID uuid.UUID,
	code, label string,
) (T, error) {
	var zero T
	rec, err := find(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return zero, NewDomainError(code, label+" does not exist in this company")
		}
		return zero, err
	}
	if rec.GetCompanyID() != companyID {
		return zero, NewDomainError(code, label+" does not exist in this company")
	}
	return rec, nil
}

// NormalizeCode trims and upper-cases a business code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCode checks a normalized code is present and within maxLen runes
func ValidateCode(code string, maxLen int) error {
	if code == "" {
		return NewDomainError("INVALID_CODE", "Code cannot be empty")
	}
	if utf8.RuneCountInString(code) > maxLen {
		return NewDomainError("INVALID_CODE", "Code is too long")
	}
	return nil
}

// ValidateName checks a trimmed name is present and within maxLen runes
func ValidateName(name string, maxLen int) error {
	if strings.TrimSpace(name) == "" {
		return NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxLen {
		return NewDomainError("INVALID_NAME", "Name is too long")
	}
	return nil
}
