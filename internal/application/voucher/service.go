// Package voucher serves double-entry vouchers: drafting, numbering and
// posting.
package voucher

import (
	"context"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/catalog"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/voucher"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// numberAttempts bounds the retries when a concurrent writer takes the
// sequence we read
const numberAttempts = 3

// Deps groups the repositories a Service resolves voucher references against
type Deps struct {
	Vouchers    voucher.Repository
	Companies   organization.CompanyRepository
	Years       organization.FinancialYearRepository
	Locations   organization.LocationRepository
	Accounts    ledger.AccountRepository
	CostCenters ledger.CostCenterRepository
	Profiles    partner.ProfileRepository
	Godowns     partner.GodownRepository
	Units       catalog.UnitRepository
	Refs        shared.ReferenceCounter
	Metrics     *telemetry.LedgerMetrics
}

// Service handles voucher business operations
type Service struct {
	deps  Deps
	guard common.Guard
}

// NewService creates a new voucher Service
func NewService(deps Deps) *Service {
	return &Service{
		deps:  deps,
		guard: common.Guard{Resource: "voucher", Refs: deps.Refs, Metrics: deps.Metrics},
	}
}

// Create validates and stores a draft voucher, assigning the next number
// of its company, year and type series.
func (s *Service) Create(ctx context.Context, actor shared.Actor, req CreateVoucherRequest) (_ *VoucherResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "voucher", "create",
		attribute.String("company_id", req.CompanyID.String()),
		attribute.String("voucher_type", req.Type),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := common.Authorize(actor, req.CompanyID); err != nil {
		return nil, err
	}
	date, err := common.ParseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if _, err := organization.RequireActiveCompany(ctx, s.deps.Companies, req.CompanyID); err != nil {
		return nil, err
	}
	year, err := s.year(ctx, req.CompanyID, req.FinancialYearID)
	if err != nil {
		return nil, err
	}

	v, err := voucher.NewVoucher(year, voucher.Type(req.Type), date, req.Narration, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.applyParties(ctx, v, req.LocationID, req.ProfileID); err != nil {
		return nil, err
	}
	if err := s.applyLines(ctx, v, req.Entries, req.Items); err != nil {
		return nil, err
	}

	if err := s.saveNumbered(ctx, v, year.Code, s.deps.Vouchers.Create); err != nil {
		return nil, err
	}
	s.deps.Metrics.VoucherCreated(ctx, v.CompanyID, string(v.Type))

	response := ToVoucherResponse(v)
	return &response, nil
}

// GetByID retrieves one voucher of a company with its lines
func (s *Service) GetByID(ctx context.Context, actor shared.Actor, companyID, id uuid.UUID) (*VoucherResponse, error) {
	if err := common.Authorize(actor, companyID); err != nil {
		return nil, err
	}
	v, err := common.Owned(ctx, s.deps.Vouchers.FindByID, actor, id, "Voucher")
	if err != nil {
		return nil, err
	}
	if v.CompanyID != companyID {
		return nil, shared.NotFound("Voucher")
	}
	response := ToVoucherResponse(v)
	return &response, nil
}

// List retrieves the vouchers of a company, newest first by default
func (s *Service) List(ctx context.Context, actor shared.Actor, companyID uuid.UUID, filter VoucherListFilter) ([]VoucherResponse, int64, error) {
	if err := common.Authorize(actor, companyID); err != nil {
		return nil, 0, err
	}

	domainFilter := filter.Filter()
	for column, value := range map[string]string{
		"type":              filter.Type,
		"status":            filter.Status,
		"financial_year_id": filter.FinancialYearID,
		"profile_id":        filter.ProfileID,
		"location_id":       filter.LocationID,
	} {
		if value != "" {
			domainFilter.Filters[column] = value
		}
	}

	vouchers, total, err := s.deps.Vouchers.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]VoucherResponse, len(vouchers))
	for i := range vouchers {
		responses[i] = ToVoucherResponse(&vouchers[i])
	}
	return responses, total, nil
}

// Update changes a draft voucher. Moving it to another financial year
// renumbers it in that year's series.
func (s *Service) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateVoucherRequest) (_ *VoucherResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "voucher", "update", attribute.String("voucher_id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	v, err := common.Owned(ctx, s.deps.Vouchers.FindByID, actor, id, "Voucher")
	if err != nil {
		return nil, err
	}
	if err := v.EnsureEditable(); err != nil {
		return nil, err
	}
	if err := common.CheckVersion(v.Version, req.Version); err != nil {
		return nil, err
	}

	var newYear *organization.FinancialYear
	if req.Date != nil || req.FinancialYearID != nil {
		yearID, date := v.FinancialYearID, v.Date
		if req.FinancialYearID != nil {
			yearID = *req.FinancialYearID
		}
		if req.Date != nil {
			if date, err = common.ParseDate("date", *req.Date); err != nil {
				return nil, err
			}
		}
		year, err := s.year(ctx, v.CompanyID, yearID)
		if err != nil {
			return nil, err
		}
		previousYear := v.FinancialYearID
		if err := v.Reschedule(year, date); err != nil {
			return nil, err
		}
		if year.ID != previousYear {
			newYear = year
		}
	}

	if req.LocationID != nil || req.ProfileID != nil {
		locationID, profileID := v.LocationID, v.ProfileID
		if req.LocationID != nil {
			locationID = req.LocationID
		}
		if req.ProfileID != nil {
			profileID = req.ProfileID
		}
		if err := s.applyParties(ctx, v, locationID, profileID); err != nil {
			return nil, err
		}
	}
	if req.Narration != nil {
		v.SetNarration(*req.Narration)
	}
	if req.Entries != nil || req.Items != nil {
		entries, items := req.Entries, req.Items
		if entries == nil {
			entries = entryRequests(v.Entries)
		}
		if items == nil {
			items = itemRequests(v.Items)
		}
		if err := s.applyLines(ctx, v, entries, items); err != nil {
			return nil, err
		}
	}

	v.Touch(actor.UserID)
	if newYear != nil {
		err = s.saveNumbered(ctx, v, newYear.Code, s.deps.Vouchers.Update)
	} else {
		err = s.guard.Observe(ctx, s.deps.Vouchers.Update(ctx, v))
	}
	if err != nil {
		return nil, err
	}

	response := ToVoucherResponse(v)
	return &response, nil
}

// Post moves a draft voucher to posted. The year must still be open.
func (s *Service) Post(ctx context.Context, actor shared.Actor, id uuid.UUID) (_ *VoucherResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "voucher", "post", attribute.String("voucher_id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	v, err := common.Owned(ctx, s.deps.Vouchers.FindByID, actor, id, "Voucher")
	if err != nil {
		return nil, err
	}
	year, err := s.year(ctx, v.CompanyID, v.FinancialYearID)
	if err != nil {
		return nil, err
	}
	if year.IsClosed {
		return nil, shared.NewDomainError("INVALID_STATE", "Financial year "+year.Code+" is closed")
	}
	if err := v.Post(actor.UserID); err != nil {
		return nil, err
	}

	v.Touch(actor.UserID)
	if err := s.deps.Vouchers.Update(ctx, v); err != nil {
		return nil, err
	}
	s.deps.Metrics.VoucherPosted(ctx, v.CompanyID, string(v.Type), v.TotalDebit.InexactFloat64())

	response := ToVoucherResponse(v)
	return &response, nil
}

// Delete deletes a draft voucher
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	v, err := common.Owned(ctx, s.deps.Vouchers.FindByID, actor, id, "Voucher")
	if err != nil {
		return err
	}
	if err := v.EnsureEditable(); err != nil {
		return err
	}
	return s.deps.Vouchers.Delete(ctx, v.ID)
}

// saveNumbered assigns the next sequence and writes the voucher, reading
// the sequence again when a concurrent writer took it first.
func (s *Service) saveNumbered(ctx context.Context, v *voucher.Voucher, yearCode string, write func(context.Context, *voucher.Voucher) error) error {
	var err error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		seq, seqErr := s.deps.Vouchers.NextSequence(ctx, v.CompanyID, v.FinancialYearID, v.Type)
		if seqErr != nil {
			return seqErr
		}
		v.AssignNumber(yearCode, seq)
		err = write(ctx, v)
		if !shared.IsAlreadyExists(err) {
			return err
		}
	}
	return s.guard.Observe(ctx, err)
}

func (s *Service) year(ctx context.Context, companyID, yearID uuid.UUID) (*organization.FinancialYear, error) {
	return shared.FindInCompany(ctx, s.deps.Years.FindByID, yearID, companyID, "INVALID_FINANCIAL_YEAR", "Financial year")
}

func (s *Service) applyParties(ctx context.Context, v *voucher.Voucher, locationID, profileID *uuid.UUID) error {
	if locationID != nil {
		if _, err := shared.FindInCompany(ctx, s.deps.Locations.FindByID, *locationID, v.CompanyID, "INVALID_LOCATION", "Location"); err != nil {
			return err
		}
	}
	if profileID != nil {
		if _, err := shared.FindInCompany(ctx, s.deps.Profiles.FindByID, *profileID, v.CompanyID, "INVALID_PROFILE", "Profile"); err != nil {
			return err
		}
	}
	v.SetParties(locationID, profileID)
	return nil
}

// applyLines builds the lines, balances them, then checks every account,
// cost center, godown and unit they name against the voucher's company.
func (s *Service) applyLines(ctx context.Context, v *voucher.Voucher, entryReqs []EntryRequest, itemReqs []ItemRequest) error {
	entries := make([]voucher.Entry, len(entryReqs))
	for i, e := range entryReqs {
		entries[i] = voucher.NewEntry(e.AccountID, e.CostCenterID, e.Description, e.Debit, e.Credit)
	}
	items := make([]voucher.Item, len(itemReqs))
	for i, it := range itemReqs {
		item, err := voucher.NewItem(it.GodownID, it.UnitID, it.Description, it.Quantity, it.Rate, it.TaxRate)
		if err != nil {
			return err
		}
		items[i] = item
	}
	if err := v.SetLines(entries, items); err != nil {
		return err
	}

	for _, id := range v.AccountIDs() {
		account, err := shared.FindInCompany(ctx, s.deps.Accounts.FindByID, id, v.CompanyID, "INVALID_ACCOUNT", "Account")
		if err != nil {
			return err
		}
		if !account.IsPostable() {
			return shared.NewDomainError("INVALID_ACCOUNT", "Account "+account.FullCode+" is not a level 4 account")
		}
	}
	for _, id := range v.CostCenterIDs() {
		center, err := shared.FindInCompany(ctx, s.deps.CostCenters.FindByID, id, v.CompanyID, "INVALID_COST_CENTER", "Cost center")
		if err != nil {
			return err
		}
		if center.Kind != ledger.CostCenterChild {
			return shared.NewDomainError("INVALID_COST_CENTER", "Entries are tagged with child cost centers only")
		}
	}
	for _, id := range v.GodownIDs() {
		if _, err := shared.FindInCompany(ctx, s.deps.Godowns.FindByID, id, v.CompanyID, "INVALID_GODOWN", "Godown"); err != nil {
			return err
		}
	}
	for _, id := range v.UnitIDs() {
		if _, err := shared.FindInCompany(ctx, s.deps.Units.FindByID, id, v.CompanyID, "INVALID_UNIT", "Unit"); err != nil {
			return err
		}
	}
	return nil
}

func entryRequests(entries []voucher.Entry) []EntryRequest {
	out := make([]EntryRequest, len(entries))
	for i, e := range entries {
		out[i] = EntryRequest{
			AccountID:    e.AccountID,
			CostCenterID: e.CostCenterID,
			Description:  e.Description,
			Debit:        e.Debit,
			Credit:       e.Credit,
		}
	}
	return out
}

func itemRequests(items []voucher.Item) []ItemRequest {
	out := make([]ItemRequest, len(items))
	for i, it := range items {
		out[i] = ItemRequest{
			GodownID:    it.GodownID,
			UnitID:      it.UnitID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			TaxRate:     it.TaxRate,
		}
	}
	return out
}
