package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountNature is the accounting class of an account. It is chosen on the
// level 1 head and inherited by every descendant.
type AccountNature string

const (
	NatureAsset     AccountNature = "asset"
	NatureLiability AccountNature = "liability"
	NatureEquity    AccountNature = "equity"
	NatureRevenue   AccountNature = "revenue"
	NatureExpense   AccountNature = "expense"
)

// IsValid reports whether n is a known nature
func (n AccountNature) IsValid() bool {
	switch n {
	case NatureAsset, NatureLiability, NatureEquity, NatureRevenue, NatureExpense:
		return true
	}
	return false
}

// DebitNormal reports whether the nature carries a debit balance
func (n AccountNature) DebitNormal() bool {
	return n == NatureAsset || n == NatureExpense
}

// Levels of the chart of accounts
const (
	Level1 = 1 // main head
	Level2 = 2 // control head
	Level3 = 3 // sub head
	Level4 = 4 // ledger account, the only postable level
)

// codeWidths is the fixed number of digits of a code at each level. Fixed
// widths make the concatenated full code unambiguous.
var codeWidths = map[int]int{Level1: 1, Level2: 2, Level3: 3, Level4: 4}

// CodeWidth returns the code width of a level, or 0 for an invalid level
func CodeWidth(level int) int {
	return codeWidths[level]
}

// ValidLevel reports whether level is 1..4
func ValidLevel(level int) bool {
	_, ok := codeWidths[level]
	return ok
}

// Account is one node of the four-level chart of accounts.
// FullCode is the parent's FullCode followed by Code, fixed at creation.
type Account struct {
	shared.TenantAggregateRoot
	Level    int
	Code     string
	FullCode string
	Name     string
	Nature   AccountNature
	Level1ID *uuid.UUID
	Level2ID *uuid.UUID
	Level3ID *uuid.UUID
}

// NewMainAccount creates a level 1 account
func NewMainAccount(companyID uuid.UUID, code, name string, nature AccountNature, createdBy *uuid.UUID) (*Account, error) {
	code = strings.TrimSpace(code)
	if err := validateAccountCode(Level1, code); err != nil {
		return nil, err
	}
	if err := shared.ValidateName(name, 200); err != nil {
		return nil, err
	}
	if !nature.IsValid() {
		return nil, shared.NewDomainError("INVALID_NATURE", "Nature must be one of asset, liability, equity, revenue, expense")
	}
	return &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID, createdBy),
		Level:               Level1,
		Code:                code,
		FullCode:            code,
		Name:                strings.TrimSpace(name),
		Nature:              nature,
	}, nil
}

// NewChildAccount creates an account one level below parent
func NewChildAccount(parent *Account, code, name string, createdBy *uuid.UUID) (*Account, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent account is required")
	}
	level := parent.Level + 1
	if !ValidLevel(level) {
		return nil, shared.NewDomainError("INVALID_PARENT", "Level 4 accounts cannot have children")
	}
	code = strings.TrimSpace(code)
	if err := validateAccountCode(level, code); err != nil {
		return nil, err
	}
	if err := shared.ValidateName(name, 200); err != nil {
		return nil, err
	}

	acc := &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(parent.CompanyID, createdBy),
		Level:               level,
		Code:                code,
		FullCode:            parent.FullCode + code,
		Name:                strings.TrimSpace(name),
		Nature:              parent.Nature,
		Level1ID:            parent.Level1ID,
		Level2ID:            parent.Level2ID,
		Level3ID:            parent.Level3ID,
	}
	parentID := parent.ID
	switch parent.Level {
	case Level1:
		acc.Level1ID = &parentID
	case Level2:
		acc.Level2ID = &parentID
	case Level3:
		acc.Level3ID = &parentID
	}
	return acc, nil
}

// ParentID returns the direct parent, nil for level 1
func (a *Account) ParentID() *uuid.UUID {
	switch a.Level {
	case Level2:
		return a.Level1ID
	case Level3:
		return a.Level2ID
	case Level4:
		return a.Level3ID
	}
	return nil
}

// IsPostable reports whether vouchers may post to the account
func (a *Account) IsPostable() bool {
	return a.Level == Level4
}

// ChangeCode replaces the code and rebuilds the full code from the parent
// prefix. Accounts with descendants keep their code, since stored
// descendant full codes embed it.
func (a *Account) ChangeCode(code string, hasDescendants bool) error {
	code = strings.TrimSpace(code)
	if code == a.Code {
		return nil
	}
	if hasDescendants {
		return shared.NewDomainError("INVALID_STATE", "Code cannot change while child accounts exist")
	}
	if err := validateAccountCode(a.Level, code); err != nil {
		return err
	}
	prefix := strings.TrimSuffix(a.FullCode, a.Code)
	a.Code = code
	a.FullCode = prefix + code
	return nil
}

// Rename changes the account name
func (a *Account) Rename(name string) error {
	if err := shared.ValidateName(name, 200); err != nil {
		return err
	}
	a.Name = strings.TrimSpace(name)
	return nil
}

// ChangeNature is only allowed on a level 1 account with no descendants
func (a *Account) ChangeNature(nature AccountNature, hasDescendants bool) error {
	if nature == a.Nature {
		return nil
	}
	if a.Level != Level1 {
		return shared.NewDomainError("INVALID_STATE", "Nature is inherited from the level 1 account")
	}
	if hasDescendants {
		return shared.NewDomainError("INVALID_STATE", "Nature cannot change while child accounts exist")
	}
	if !nature.IsValid() {
		return shared.NewDomainError("INVALID_NATURE", "Nature must be one of asset, liability, equity, revenue, expense")
	}
	a.Nature = nature
	return nil
}

func validateAccountCode(level int, code string) error {
	width := CodeWidth(level)
	if width == 0 {
		return shared.NewDomainError("INVALID_LEVEL", "Level must be between 1 and 4")
	}
	if len(code) != width {
		return shared.NewDomainError("INVALID_CODE", fmt.Sprintf("Level %d code must be exactly %d digit(s)", level, width))
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return shared.NewDomainError("INVALID_CODE", "Account code must contain digits only")
		}
	}
	return nil
}

// AccountRepository defines persistence for the chart of accounts
type AccountRepository interface {
	shared.TenantRepository[Account]

	// FindByLevel lists the accounts of one level, optionally under a parent
	FindByLevel(ctx context.Context, companyID uuid.UUID, level int, parentID *uuid.UUID, filter shared.Filter) ([]Account, int64, error)
}

// AccountReferences returns the delete rules for an account of level
func AccountReferences(level int) []shared.ReferenceRule {
	switch level {
	case Level1:
		return []shared.ReferenceRule{{Label: "child account(s)", Table: "accounts", Column: "level1_id"}}
	case Level2:
		return []shared.ReferenceRule{{Label: "child account(s)", Table: "accounts", Column: "level2_id"}}
	case Level3:
		return []shared.ReferenceRule{{Label: "child account(s)", Table: "accounts", Column: "level3_id"}}
	case Level4:
		return []shared.ReferenceRule{
			{Label: "voucher entry(ies)", Table: "voucher_entries", Column: "account_id", Collection: "vouchers", Field: "entries.account_id"},
			{Label: "profile(s)", Table: "profiles", Column: "account_id"},
		}
	}
	return nil
}

// DescendantRule returns the rule counting descendants of a non-leaf account
func DescendantRule(level int) []shared.ReferenceRule {
	if level == Level4 {
		return nil
	}
	return AccountReferences(level)
}
