package ledger

import (
	"context"
	"fmt"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// AccountService handles the chart of accounts. Every method takes the
// level addressed by the route; an account of another level is not found.
type AccountService struct {
	accountRepo ledger.AccountRepository
	companyRepo organization.CompanyRepository
	refs        shared.ReferenceCounter
	guard       common.Guard
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accountRepo ledger.AccountRepository,
	companyRepo organization.CompanyRepository,
	refs shared.ReferenceCounter,
	metrics *telemetry.LedgerMetrics,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		companyRepo: companyRepo,
		refs:        refs,
		guard:       common.Guard{Resource: "account", Refs: refs, Metrics: metrics},
	}
}

// Create creates an account at level. The full code is the parent's full
// code followed by the new code.
func (s *AccountService) Create(ctx context.Context, actor shared.Actor, level int, req CreateAccountRequest) (*AccountResponse, error) {
	if !ledger.ValidLevel(level) {
		return nil, shared.NewDomainError("INVALID_LEVEL", "Level must be between 1 and 4")
	}
	if err := common.Authorize(actor, req.CompanyID); err != nil {
		return nil, err
	}
	if _, err := organization.RequireActiveCompany(ctx, s.companyRepo, req.CompanyID); err != nil {
		return nil, err
	}

	var (
		account *ledger.Account
		err     error
	)
	if level == ledger.Level1 {
		account, err = ledger.NewMainAccount(req.CompanyID, req.Code, req.Name, ledger.AccountNature(req.Nature), actor.UserID)
	} else {
		var parent *ledger.Account
		parent, err = s.parent(ctx, req.CompanyID, level, req.ParentID)
		if err != nil {
			return nil, err
		}
		account, err = ledger.NewChildAccount(parent, req.Code, req.Name, actor.UserID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.guard.Observe(ctx, s.accountRepo.Create(ctx, account)); err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// List retrieves the accounts of one level, optionally under a parent
func (s *AccountService) List(ctx context.Context, actor shared.Actor, level int, companyID uuid.UUID, filter AccountListFilter) ([]AccountResponse, int64, error) {
	if !ledger.ValidLevel(level) {
		return nil, 0, shared.NewDomainError("INVALID_LEVEL", "Level must be between 1 and 4")
	}
	if err := common.Authorize(actor, companyID); err != nil {
		return nil, 0, err
	}

	var parentID *uuid.UUID
	if filter.ParentID != "" {
		id, err := uuid.Parse(filter.ParentID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_PARENT", "Invalid parent account ID")
		}
		parentID = &id
	}
	domainFilter := filter.Filter()
	if filter.Nature != "" {
		domainFilter.Filters["nature"] = filter.Nature
	}

	accounts, total, err := s.accountRepo.FindByLevel(ctx, companyID, level, parentID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses, total, nil
}

// Update updates an account. Code and nature changes are refused while
// the account has children.
func (s *AccountService) Update(ctx context.Context, actor shared.Actor, level int, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.find(ctx, actor, level, id)
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(account.Version, req.Version); err != nil {
		return nil, err
	}

	if req.Code != nil || req.Nature != nil {
		hasDescendants, err := s.hasDescendants(ctx, account)
		if err != nil {
			return nil, err
		}
		if req.Code != nil {
			if err := account.ChangeCode(*req.Code, hasDescendants); err != nil {
				return nil, err
			}
		}
		if req.Nature != nil {
			if err := account.ChangeNature(ledger.AccountNature(*req.Nature), hasDescendants); err != nil {
				return nil, err
			}
		}
	}
	if req.Name != nil {
		if err := account.Rename(*req.Name); err != nil {
			return nil, err
		}
	}

	account.Touch(actor.UserID)
	if err := s.guard.Observe(ctx, s.accountRepo.Update(ctx, account)); err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// Delete deletes an account. Levels 1 to 3 are blocked by child accounts,
// level 4 by voucher entries and profiles.
func (s *AccountService) Delete(ctx context.Context, actor shared.Actor, level int, id uuid.UUID) error {
	account, err := s.find(ctx, actor, level, id)
	if err != nil {
		return err
	}
	entity := fmt.Sprintf("Level %d account %s", account.Level, account.FullCode)
	if err := s.guard.EnsureDeletable(ctx, entity, account.ID, ledger.AccountReferences(account.Level)); err != nil {
		return err
	}
	return s.accountRepo.Delete(ctx, account.ID)
}

func (s *AccountService) find(ctx context.Context, actor shared.Actor, level int, id uuid.UUID) (*ledger.Account, error) {
	account, err := common.Owned(ctx, s.accountRepo.FindByID, actor, id, "Account")
	if err != nil {
		return nil, err
	}
	if account.Level != level {
		return nil, shared.NotFound(fmt.Sprintf("Level %d account", level))
	}
	return account, nil
}

// parent loads the account one level up, which must share the company
func (s *AccountService) parent(ctx context.Context, companyID uuid.UUID, level int, parentID *uuid.UUID) (*ledger.Account, error) {
	if parentID == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", fmt.Sprintf("Level %d accounts need a level %d parent", level, level-1))
	}
	parent, err := shared.FindInCompany(ctx, s.accountRepo.FindByID, *parentID, companyID, "INVALID_PARENT", "Parent account")
	if err != nil {
		return nil, err
	}
	if parent.Level != level-1 {
		return nil, shared.NewDomainError("INVALID_PARENT", fmt.Sprintf("Parent must be a level %d account", level-1))
	}
	return parent, nil
}

func (s *AccountService) hasDescendants(ctx context.Context, account *ledger.Account) (bool, error) {
	rules := ledger.DescendantRule(account.Level)
	if len(rules) == 0 {
		return false, nil
	}
	refs, err := s.refs.CountReferences(ctx, account.ID, rules)
	if err != nil {
		return false, err
	}
	return len(refs) > 0, nil
}
