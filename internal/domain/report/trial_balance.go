// Package report derives read models from posted vouchers.
package report

import (
	"sort"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/voucher"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrialBalanceLine is the movement of one level 4 account
type TrialBalanceLine struct {
	AccountID uuid.UUID
	FullCode  string
	Name      string
	Nature    ledger.AccountNature
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	// Balance is debit minus credit; negative for credit balances
	Balance decimal.Decimal
}

// NormalBalance is the balance on the side the account's nature carries:
// debit for assets and expenses, credit for the rest. A negative value
// means the account runs against its nature. Lines of unknown accounts
// report the debit balance.
func (l TrialBalanceLine) NormalBalance() decimal.Decimal {
	if l.Nature == "" || l.Nature.DebitNormal() {
		return l.Balance
	}
	return l.Balance.Neg()
}

// TrialBalance lists every account with posted movement, ordered by full
// code, and the grand totals.
type TrialBalance struct {
	Lines       []TrialBalanceLine
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// IsBalanced reports whether grand debit equals grand credit
func (tb *TrialBalance) IsBalanced() bool {
	return tb.TotalDebit.Equal(tb.TotalCredit)
}

// BuildTrialBalance sums entries per account. accounts resolves the
// account of each entry; entries of unknown accounts keep an empty code.
func BuildTrialBalance(entries []voucher.Entry, accounts map[uuid.UUID]*ledger.Account) *TrialBalance {
	byAccount := make(map[uuid.UUID]*TrialBalanceLine)
	tb := &TrialBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}

	for _, e := range entries {
		line, ok := byAccount[e.AccountID]
		if !ok {
			line = &TrialBalanceLine{AccountID: e.AccountID, Debit: decimal.Zero, Credit: decimal.Zero}
			if account, found := accounts[e.AccountID]; found {
				line.FullCode = account.FullCode
				line.Name = account.Name
				line.Nature = account.Nature
			}
			byAccount[e.AccountID] = line
		}
		line.Debit = line.Debit.Add(e.Debit)
		line.Credit = line.Credit.Add(e.Credit)
		tb.TotalDebit = tb.TotalDebit.Add(e.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(e.Credit)
	}

	tb.Lines = make([]TrialBalanceLine, 0, len(byAccount))
	for _, line := range byAccount {
		line.Balance = line.Debit.Sub(line.Credit)
		tb.Lines = append(tb.Lines, *line)
	}
	sort.Slice(tb.Lines, func(i, j int) bool {
		if tb.Lines[i].FullCode != tb.Lines[j].FullCode {
			return tb.Lines[i].FullCode < tb.Lines[j].FullCode
		}
		return tb.Lines[i].AccountID.String() < tb.Lines[j].AccountID.String()
	})
	return tb
}
