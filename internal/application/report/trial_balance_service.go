// Package report serves ledger reports built from posted vouchers.
package report

import (
	"context"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/report"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/voucher"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// TrialBalanceQuery selects the entries a trial balance covers
type TrialBalanceQuery struct {
	FinancialYearID string `form:"financialYearId" binding:"omitempty,uuid"`
}

// TrialBalanceLineResponse is one account row of a trial balance.
// NormalBalance is Balance seen from the side the account normally carries.
type TrialBalanceLineResponse struct {
	AccountID     uuid.UUID       `json:"accountId"`
	FullCode      string          `json:"fullCode"`
	Name          string          `json:"name"`
	Nature        string          `json:"nature"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
	NormalBalance decimal.Decimal `json:"normalBalance"`
}

// TrialBalanceResponse represents a trial balance in API responses
type TrialBalanceResponse struct {
	CompanyID       uuid.UUID                  `json:"companyId"`
	FinancialYearID *uuid.UUID                 `json:"financialYearId,omitempty"`
	Lines           []TrialBalanceLineResponse `json:"lines"`
	TotalDebit      decimal.Decimal            `json:"totalDebit"`
	TotalCredit     decimal.Decimal            `json:"totalCredit"`
	Balanced        bool                       `json:"balanced"`
}

// TrialBalanceService builds trial balances
type TrialBalanceService struct {
	vouchers voucher.Repository
	accounts ledger.AccountRepository
	years    organization.FinancialYearRepository
}

// NewTrialBalanceService creates a new TrialBalanceService
func NewTrialBalanceService(
	vouchers voucher.Repository,
	accounts ledger.AccountRepository,
	years organization.FinancialYearRepository,
) *TrialBalanceService {
	return &TrialBalanceService{vouchers: vouchers, accounts: accounts, years: years}
}

// Get sums the posted entries of a company per level 4 account, for one
// financial year when the query names it.
func (s *TrialBalanceService) Get(ctx context.Context, actor shared.Actor, companyID uuid.UUID, query TrialBalanceQuery) (_ *TrialBalanceResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "trial_balance", attribute.String("company_id", companyID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := common.Authorize(actor, companyID); err != nil {
		return nil, err
	}

	var yearID *uuid.UUID
	if query.FinancialYearID != "" {
		id, err := uuid.Parse(query.FinancialYearID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_FINANCIAL_YEAR", "Invalid financial year ID")
		}
		year, err := shared.FindInCompany(ctx, s.years.FindByID, id, companyID, "INVALID_FINANCIAL_YEAR", "Financial year")
		if err != nil {
			return nil, err
		}
		yearID = &year.ID
	}

	entries, err := s.vouchers.FindPostedEntries(ctx, companyID, yearID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.postableAccounts(ctx, companyID)
	if err != nil {
		return nil, err
	}

	tb := report.BuildTrialBalance(entries, accounts)
	lines := make([]TrialBalanceLineResponse, len(tb.Lines))
	for i, l := range tb.Lines {
		lines[i] = TrialBalanceLineResponse{
			AccountID:     l.AccountID,
			FullCode:      l.FullCode,
			Name:          l.Name,
			Nature:        string(l.Nature),
			Debit:         l.Debit,
			Credit:        l.Credit,
			Balance:       l.Balance,
			NormalBalance: l.NormalBalance(),
		}
	}
	return &TrialBalanceResponse{
		CompanyID:       companyID,
		FinancialYearID: yearID,
		Lines:           lines,
		TotalDebit:      tb.TotalDebit,
		TotalCredit:     tb.TotalCredit,
		Balanced:        tb.IsBalanced(),
	}, nil
}

// postableAccounts pages through the level 4 accounts of a company
func (s *TrialBalanceService) postableAccounts(ctx context.Context, companyID uuid.UUID) (map[uuid.UUID]*ledger.Account, error) {
	out := make(map[uuid.UUID]*ledger.Account)
	filter := shared.Filter{PageSize: shared.MaxPageSize, OrderBy: "full_code"}.Normalize()
	for {
		page, total, err := s.accounts.FindByLevel(ctx, companyID, ledger.Level4, nil, filter)
		if err != nil {
			return nil, err
		}
		for i := range page {
			out[page[i].ID] = &page[i]
		}
		if len(page) < filter.PageSize || int64(len(out)) >= total {
			return out, nil
		}
		filter.Page++
	}
}
