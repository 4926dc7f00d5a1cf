package ledger

import (
	"context"
	"testing"

	"github.com/erp/ledger/internal/application/apptest"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type accountFixture struct {
	accounts  *apptest.MockAccountRepository
	companies *apptest.MockCompanyRepository
	refs      *apptest.MockReferenceCounter
	service   *AccountService
	companyID uuid.UUID
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	f := &accountFixture{
		accounts:  new(apptest.MockAccountRepository),
		companies: new(apptest.MockCompanyRepository),
		refs:      new(apptest.MockReferenceCounter),
		companyID: uuid.New(),
	}
	f.service = NewAccountService(f.accounts, f.companies, f.refs, nil)
	f.companies.On("FindByID", mock.Anything, f.companyID).Return(apptest.ActiveCompany(f.companyID), nil).Maybe()
	return f
}

// chain builds a level 1..3 branch 1-01-001
func (f *accountFixture) chain(t *testing.T) []*ledger.Account {
	t.Helper()
	l1, err := ledger.NewMainAccount(f.companyID, "1", "Assets", ledger.NatureAsset, nil)
	require.NoError(t, err)
	l2, err := ledger.NewChildAccount(l1, "01", "Current Assets", nil)
	require.NoError(t, err)
	l3, err := ledger.NewChildAccount(l2, "001", "Cash and Bank", nil)
	require.NoError(t, err)
	return []*ledger.Account{l1, l2, l3}
}

func TestAccountService_Create_Level1RequiresNature(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.service.Create(context.Background(), shared.Anonymous, ledger.Level1, CreateAccountRequest{
		CompanyID: f.companyID,
		Code:      "1",
		Name:      "Assets",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_NATURE", domainErr.Code)
}

func TestAccountService_Create_Level4ComposesFullCode(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	chain := f.chain(t)
	l3 := chain[2]

	f.accounts.On("FindByID", ctx, l3.ID).Return(l3, nil)
	f.accounts.On("Create", ctx, mock.AnythingOfType("*ledger.Account")).Return(nil)

	result, err := f.service.Create(ctx, shared.Anonymous, ledger.Level4, CreateAccountRequest{
		CompanyID: f.companyID,
		ParentID:  &l3.ID,
		Code:      "0001",
		Name:      "Cash in Hand",
	})

	require.NoError(t, err)
	assert.Equal(t, 4, result.Level)
	assert.Equal(t, "1010010001", result.FullCode)
	assert.Equal(t, "asset", result.Nature)
	assert.Equal(t, &chain[0].ID, result.Level1ID)
	assert.Equal(t, &chain[1].ID, result.Level2ID)
	assert.Equal(t, &l3.ID, result.ParentID)
}

func TestAccountService_Create_ParentErrors(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	chain := f.chain(t)
	foreign, err := ledger.NewMainAccount(uuid.New(), "2", "Liabilities", ledger.NatureLiability, nil)
	require.NoError(t, err)
	missing := uuid.New()

	f.accounts.On("FindByID", ctx, chain[0].ID).Return(chain[0], nil)
	f.accounts.On("FindByID", ctx, foreign.ID).Return(foreign, nil)
	f.accounts.On("FindByID", ctx, missing).Return(nil, shared.NotFound("account"))

	tests := []struct {
		name     string
		parentID *uuid.UUID
	}{
		{"missing parent", nil},
		{"unknown parent", &missing},
		{"parent of another company", &foreign.ID},
		{"parent two levels up", &chain[0].ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(ctx, shared.Anonymous, ledger.Level3, CreateAccountRequest{
				CompanyID: f.companyID,
				ParentID:  tt.parentID,
				Code:      "001",
				Name:      "Cash",
			})

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_PARENT", domainErr.Code)
		})
	}
	f.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_Create_DuplicateFullCode(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	f.accounts.On("Create", ctx, mock.Anything).Return(shared.AlreadyExists("account"))

	_, err := f.service.Create(ctx, shared.Anonymous, ledger.Level1, CreateAccountRequest{
		CompanyID: f.companyID,
		Code:      "1",
		Name:      "Assets",
		Nature:    "asset",
	})

	assert.True(t, shared.IsAlreadyExists(err))
}

func TestAccountService_Update_CodeBlockedByChildren(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	l2 := f.chain(t)[1]
	code := "02"

	f.accounts.On("FindByID", ctx, l2.ID).Return(l2, nil)
	f.refs.On("CountReferences", ctx, l2.ID, ledger.DescendantRule(ledger.Level2)).
		Return([]shared.Reference{{Resource: "accounts", Label: "child account(s)", Count: 1}}, nil)

	_, err := f.service.Update(ctx, shared.Anonymous, ledger.Level2, l2.ID, UpdateAccountRequest{Code: &code})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	f.accounts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAccountService_Update_LeafCodeRebuildsFullCode(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	l3 := f.chain(t)[2]
	leaf, err := ledger.NewChildAccount(l3, "0001", "Cash in Hand", nil)
	require.NoError(t, err)
	code := "0002"

	f.accounts.On("FindByID", ctx, leaf.ID).Return(leaf, nil)
	f.accounts.On("Update", ctx, leaf).Return(nil)

	result, err := f.service.Update(ctx, shared.Anonymous, ledger.Level4, leaf.ID, UpdateAccountRequest{Code: &code})

	require.NoError(t, err)
	assert.Equal(t, "1010010002", result.FullCode)
	f.refs.AssertNotCalled(t, "CountReferences", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountService_WrongLevelIsNotFound(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	l1 := f.chain(t)[0]

	f.accounts.On("FindByID", ctx, l1.ID).Return(l1, nil)

	err := f.service.Delete(ctx, shared.Anonymous, ledger.Level2, l1.ID)

	assert.True(t, shared.IsNotFound(err))
}

func TestAccountService_Delete_Level4BlockedByEntries(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	leaf, err := ledger.NewChildAccount(f.chain(t)[2], "0001", "Cash in Hand", nil)
	require.NoError(t, err)

	f.accounts.On("FindByID", ctx, leaf.ID).Return(leaf, nil)
	f.refs.On("CountReferences", ctx, leaf.ID, ledger.AccountReferences(ledger.Level4)).Return([]shared.Reference{
		{Resource: "voucher_entries", Label: "voucher entry(ies)", Count: 4},
		{Resource: "profiles", Label: "profile(s)", Count: 1},
	}, nil)

	err = f.service.Delete(ctx, shared.Anonymous, ledger.Level4, leaf.ID)

	var refErr *shared.ReferencedError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "Level 4 account 1010010001 cannot be deleted: referenced by 4 voucher entry(ies), 1 profile(s)", refErr.Error())
}

func TestAccountService_List_ParsesParent(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	parentID := uuid.New()

	f.accounts.On("FindByLevel", ctx, f.companyID, ledger.Level2, &parentID, mock.Anything).
		Return([]ledger.Account{}, int64(0), nil)

	_, _, err := f.service.List(ctx, shared.Anonymous, ledger.Level2, f.companyID, AccountListFilter{ParentID: parentID.String()})

	require.NoError(t, err)
	f.accounts.AssertExpectations(t)
}

func TestAccountService_List_ForbiddenForOtherCompany(t *testing.T) {
	f := newAccountFixture(t)

	_, _, err := f.service.List(context.Background(), apptest.ActorOf(uuid.New()), ledger.Level1, f.companyID, AccountListFilter{})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

// =============================================================================
// CostCenterService
// =============================================================================

func TestCostCenterService_Create_ChildInheritsType(t *testing.T) {
	centers := new(apptest.MockCostCenterRepository)
	companies := new(apptest.MockCompanyRepository)
	service := NewCostCenterService(centers, companies, new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()
	companyID := uuid.New()
	parent, err := ledger.NewParentCostCenter(companyID, "SALES", "Sales", ledger.CostCenterTypeRevenue, nil)
	require.NoError(t, err)

	companies.On("FindByID", ctx, companyID).Return(apptest.ActiveCompany(companyID), nil)
	centers.On("FindByID", ctx, parent.ID).Return(parent, nil)
	centers.On("Create", ctx, mock.AnythingOfType("*ledger.CostCenter")).Return(nil)

	result, err := service.Create(ctx, shared.Anonymous, ledger.CostCenterChild, CreateCostCenterRequest{
		CompanyID: companyID,
		ParentID:  &parent.ID,
		Code:      "north",
		Name:      "North Region",
	})

	require.NoError(t, err)
	assert.Equal(t, "child", result.Kind)
	assert.Equal(t, "revenue", result.Type)
	assert.Equal(t, "NORTH", result.Code)
	assert.Equal(t, &parent.ID, result.ParentID)
}

func TestCostCenterService_Create_ChildUnderChildRejected(t *testing.T) {
	centers := new(apptest.MockCostCenterRepository)
	companies := new(apptest.MockCompanyRepository)
	service := NewCostCenterService(centers, companies, new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()
	companyID := uuid.New()
	parent, err := ledger.NewParentCostCenter(companyID, "SALES", "Sales", "", nil)
	require.NoError(t, err)
	child, err := ledger.NewChildCostCenter(parent, "NORTH", "North", nil)
	require.NoError(t, err)

	companies.On("FindByID", ctx, companyID).Return(apptest.ActiveCompany(companyID), nil)
	centers.On("FindByID", ctx, child.ID).Return(child, nil)

	_, err = service.Create(ctx, shared.Anonymous, ledger.CostCenterChild, CreateCostCenterRequest{
		CompanyID: companyID,
		ParentID:  &child.ID,
		Code:      "EAST",
		Name:      "East",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PARENT", domainErr.Code)
}

func TestCostCenterService_Delete_ParentBlockedByChildren(t *testing.T) {
	centers := new(apptest.MockCostCenterRepository)
	refs := new(apptest.MockReferenceCounter)
	service := NewCostCenterService(centers, new(apptest.MockCompanyRepository), refs, nil)
	ctx := context.Background()
	parent, err := ledger.NewParentCostCenter(uuid.New(), "SALES", "Sales", "", nil)
	require.NoError(t, err)

	centers.On("FindByID", ctx, parent.ID).Return(parent, nil)
	refs.On("CountReferences", ctx, parent.ID, ledger.CostCenterReferences(ledger.CostCenterParent)).
		Return([]shared.Reference{{Resource: "cost_centers", Label: "child cost center(s)", Count: 2}}, nil)

	err = service.Delete(ctx, shared.Anonymous, ledger.CostCenterParent, parent.ID)

	var refErr *shared.ReferencedError
	require.ErrorAs(t, err, &refErr)
	assert.Contains(t, refErr.Error(), "2 child cost center(s)")
}

func TestCostCenterService_KindMismatchIsNotFound(t *testing.T) {
	centers := new(apptest.MockCostCenterRepository)
	service := NewCostCenterService(centers, new(apptest.MockCompanyRepository), new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()
	parent, err := ledger.NewParentCostCenter(uuid.New(), "SALES", "Sales", "", nil)
	require.NoError(t, err)

	centers.On("FindByID", ctx, parent.ID).Return(parent, nil)

	_, err = service.Update(ctx, shared.Anonymous, ledger.CostCenterChild, parent.ID, UpdateCostCenterRequest{})

	assert.True(t, shared.IsNotFound(err))
}
