package ledger

import (
	"testing"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildChart(t *testing.T) (l1, l2, l3, l4 *Account) {
	t.Helper()
	var err error
	l1, err = NewMainAccount(uuid.New(), "1", "Assets", NatureAsset, nil)
	require.NoError(t, err)
	l2, err = NewChildAccount(l1, "01", "Current Assets", nil)
	require.NoError(t, err)
	l3, err = NewChildAccount(l2, "001", "Cash and Bank", nil)
	require.NoError(t, err)
	l4, err = NewChildAccount(l3, "0001", "Cash in Hand", nil)
	require.NoError(t, err)
	return l1, l2, l3, l4
}

func TestAccountHierarchy(t *testing.T) {
	l1, l2, l3, l4 := buildChart(t)

	assert.Equal(t, "1", l1.FullCode)
	assert.Equal(t, "101", l2.FullCode)
	assert.Equal(t, "101001", l3.FullCode)
	assert.Equal(t, "1010010001", l4.FullCode)

	assert.Equal(t, Level4, l4.Level)
	assert.Equal(t, NatureAsset, l4.Nature)
	assert.Equal(t, l1.CompanyID, l4.CompanyID)

	require.NotNil(t, l4.Level1ID)
	require.NotNil(t, l4.Level2ID)
	require.NotNil(t, l4.Level3ID)
	assert.Equal(t, l1.ID, *l4.Level1ID)
	assert.Equal(t, l2.ID, *l4.Level2ID)
	assert.Equal(t, l3.ID, *l4.Level3ID)

	assert.Nil(t, l1.ParentID())
	assert.Equal(t, l3.ID, *l4.ParentID())
	assert.True(t, l4.IsPostable())
	assert.False(t, l3.IsPostable())

	_, err := NewChildAccount(l4, "1", "Too deep", nil)
	assert.Error(t, err)
}

func TestAccountCodeValidation(t *testing.T) {
	companyID := uuid.New()
	l1, err := NewMainAccount(companyID, "2", "Liabilities", NatureLiability, nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{"exact width", "05", true},
		{"too short", "5", false},
		{"too long", "005", false},
		{"letters", "AB", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChildAccount(l1, tt.code, "Payables", nil)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				var de *shared.DomainError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, "INVALID_CODE", de.Code)
			}
		})
	}

	_, err = NewMainAccount(companyID, "3", "Equity", AccountNature("other"), nil)
	assert.Error(t, err)
}

func TestAccount_ChangeCode(t *testing.T) {
	_, l2, _, l4 := buildChart(t)

	err := l2.ChangeCode("02", true)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_STATE", de.Code)
	assert.Equal(t, "101", l2.FullCode)

	require.NoError(t, l4.ChangeCode("0009", false))
	assert.Equal(t, "0009", l4.Code)
	assert.Equal(t, "1010010009", l4.FullCode)

	// unchanged code passes even with descendants
	assert.NoError(t, l2.ChangeCode("01", true))
}

func TestAccount_ChangeNature(t *testing.T) {
	l1, l2, _, _ := buildChart(t)

	assert.Error(t, l2.ChangeNature(NatureExpense, false))
	assert.Error(t, l1.ChangeNature(NatureExpense, true))
	require.NoError(t, l1.ChangeNature(NatureExpense, false))
	assert.Equal(t, NatureExpense, l1.Nature)
}

func TestAccountReferences(t *testing.T) {
	assert.Equal(t, "level1_id", AccountReferences(Level1)[0].Column)
	assert.Equal(t, "level3_id", AccountReferences(Level3)[0].Column)

	leaf := AccountReferences(Level4)
	require.Len(t, leaf, 2)
	assert.Equal(t, "vouchers", leaf[0].DocumentCollection())
	assert.Equal(t, "entries.account_id", leaf[0].DocumentField())
	assert.Nil(t, DescendantRule(Level4))
}

func TestCostCenters(t *testing.T) {
	companyID := uuid.New()

	parent, err := NewParentCostCenter(companyID, "adm", "Administration", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "ADM", parent.Code)
	assert.Equal(t, CostCenterTypeCost, parent.Type)
	assert.Nil(t, parent.ParentID)

	revenue, err := NewParentCostCenter(companyID, "SAL", "Sales", CostCenterTypeRevenue, nil)
	require.NoError(t, err)

	child, err := NewChildCostCenter(parent, "hr", "Human Resources", nil)
	require.NoError(t, err)
	assert.Equal(t, CostCenterChild, child.Kind)
	assert.Equal(t, parent.ID, *child.ParentID)
	assert.Equal(t, companyID, child.CompanyID)

	_, err = NewChildCostCenter(child, "X", "Grandchild", nil)
	assert.Error(t, err, "a child cannot be a parent")

	require.NoError(t, child.MoveTo(revenue))
	assert.Equal(t, revenue.ID, *child.ParentID)
	assert.Equal(t, CostCenterTypeRevenue, child.Type)

	other, _ := NewParentCostCenter(uuid.New(), "OTH", "Other company", "", nil)
	assert.Error(t, child.MoveTo(other))
	assert.Error(t, parent.MoveTo(revenue))

	_, err = NewParentCostCenter(companyID, "BAD", "Bad", CostCenterType("profit"), nil)
	assert.Error(t, err)

	assert.Equal(t, "parent_id", CostCenterReferences(CostCenterParent)[0].Column)
	assert.Equal(t, "voucher_entries", CostCenterReferences(CostCenterChild)[0].Table)
}
