package organization

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// VoucherPeriods finds vouchers a rescheduled year would no longer contain
type VoucherPeriods interface {
	CountOutside(ctx context.Context, financialYearID uuid.UUID, start, end time.Time) (int64, error)
}

// FinancialYearService handles financial year business operations
type FinancialYearService struct {
	yearRepo    organization.FinancialYearRepository
	companyRepo organization.CompanyRepository
	vouchers    VoucherPeriods
	guard       common.Guard
}

// NewFinancialYearService creates a new FinancialYearService
func NewFinancialYearService(
	yearRepo organization.FinancialYearRepository,
	companyRepo organization.CompanyRepository,
	vouchers VoucherPeriods,
	refs shared.ReferenceCounter,
	metrics *telemetry.LedgerMetrics,
) *FinancialYearService {
	return &FinancialYearService{
		yearRepo:    yearRepo,
		companyRepo: companyRepo,
		vouchers:    vouchers,
		guard:       common.Guard{Resource: "financial_year", Refs: refs, Metrics: metrics},
	}
}

// Create creates a new financial year. The period must end after it
// starts and must not overlap another year of the company.
func (s *FinancialYearService) Create(ctx context.Context, actor shared.Actor, req CreateFinancialYearRequest) (*FinancialYearResponse, error) {
	if err := common.Authorize(actor, req.CompanyID); err != nil {
		return nil, err
	}
	start, end, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	year, err := organization.NewFinancialYear(req.CompanyID, req.Code, start, end, actor.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := organization.RequireActiveCompany(ctx, s.companyRepo, req.CompanyID); err != nil {
		return nil, err
	}
	if err := s.ensureNoOverlap(ctx, year); err != nil {
		return nil, err
	}

	if err := s.guard.Observe(ctx, s.yearRepo.Create(ctx, year)); err != nil {
		return nil, err
	}

	response := ToFinancialYearResponse(year)
	return &response, nil
}

// List retrieves the financial years of a company
func (s *FinancialYearService) List(ctx context.Context, actor shared.Actor, companyID uuid.UUID, filter FinancialYearListFilter) ([]FinancialYearResponse, int64, error) {
	if err := common.Authorize(actor, companyID); err != nil {
		return nil, 0, err
	}

	domainFilter := filter.Filter()
	if filter.IsClosed != nil {
		domainFilter.Filters["is_closed"] = *filter.IsClosed
	}

	years, total, err := s.yearRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]FinancialYearResponse, len(years))
	for i := range years {
		responses[i] = ToFinancialYearResponse(&years[i])
	}
	return responses, total, nil
}

// Update updates a financial year. Changing either date revalidates the
// whole period, and the new period must still contain every voucher filed
// under the year.
func (s *FinancialYearService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateFinancialYearRequest) (*FinancialYearResponse, error) {
	year, err := common.Owned(ctx, s.yearRepo.FindByID, actor, id, "Financial year")
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(year.Version, req.Version); err != nil {
		return nil, err
	}

	if req.Code != nil {
		if err := year.SetCode(*req.Code); err != nil {
			return nil, err
		}
	}
	if req.StartDate != nil || req.EndDate != nil {
		startValue := year.StartDate.Format(common.DateLayout)
		endValue := year.EndDate.Format(common.DateLayout)
		if req.StartDate != nil {
			startValue = *req.StartDate
		}
		if req.EndDate != nil {
			endValue = *req.EndDate
		}
		start, end, err := parsePeriod(startValue, endValue)
		if err != nil {
			return nil, err
		}
		if err := year.Reschedule(start, end); err != nil {
			return nil, err
		}
		if err := s.ensureNoOverlap(ctx, year); err != nil {
			return nil, err
		}
		if err := s.ensureVouchersInside(ctx, year); err != nil {
			return nil, err
		}
	}
	if req.IsClosed != nil {
		if *req.IsClosed {
			year.Close()
		} else {
			year.Reopen()
		}
	}

	year.Touch(actor.UserID)
	if err := s.guard.Observe(ctx, s.yearRepo.Update(ctx, year)); err != nil {
		return nil, err
	}

	response := ToFinancialYearResponse(year)
	return &response, nil
}

// Delete deletes a financial year without vouchers
func (s *FinancialYearService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	year, err := common.Owned(ctx, s.yearRepo.FindByID, actor, id, "Financial year")
	if err != nil {
		return err
	}
	if err := s.guard.EnsureDeletable(ctx, "Financial year", year.ID, organization.FinancialYearReferences); err != nil {
		return err
	}
	return s.yearRepo.Delete(ctx, year.ID)
}

func (s *FinancialYearService) ensureNoOverlap(ctx context.Context, year *organization.FinancialYear) error {
	overlapping, err := s.yearRepo.FindOverlapping(ctx, year.CompanyID, year.StartDate, year.EndDate, year.ID)
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		return shared.NewDomainError("INVALID_PERIOD", "Period overlaps financial year "+overlapping[0].Code)
	}
	return nil
}

func (s *FinancialYearService) ensureVouchersInside(ctx context.Context, year *organization.FinancialYear) error {
	outside, err := s.vouchers.CountOutside(ctx, year.ID, year.StartDate, year.EndDate)
	if err != nil {
		return err
	}
	if outside > 0 {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Financial year %s has %d voucher(s) dated outside the new period", year.Code, outside))
	}
	return nil
}

func parsePeriod(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := common.ParseDate("startDate", startValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := common.ParseDate("endDate", endValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
