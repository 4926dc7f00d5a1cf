package organization

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ledger/internal/application/apptest"
	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockLocationRepository struct {
	apptest.MockTenantRepository[organization.Location]
}

type MockFinancialYearRepository struct {
	apptest.MockTenantRepository[organization.FinancialYear]
}

func (m *MockFinancialYearRepository) FindOverlapping(ctx context.Context, companyID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]organization.FinancialYear, error) {
	args := m.Called(ctx, companyID, start, end, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]organization.FinancialYear), args.Error(1)
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func date(s string) time.Time {
	d, _ := time.Parse(common.DateLayout, s)
	return d
}

// =============================================================================
// CompanyService
// =============================================================================

func TestCompanyService_Create_Success(t *testing.T) {
	companies := new(apptest.MockCompanyRepository)
	service := NewCompanyService(companies, new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()

	companies.On("Create", ctx, mock.AnythingOfType("*organization.Company")).Return(nil)

	result, err := service.Create(ctx, shared.Anonymous, CreateCompanyRequest{
		Code:  " acme ",
		Name:  "Acme Traders",
		NTN:   "1234567-8",
		Email: "accounts@acme.pk",
	})

	require.NoError(t, err)
	assert.Equal(t, "ACME", result.Code)
	assert.Equal(t, "active", result.Status)
	assert.Equal(t, "1234567-8", result.NTN)
	companies.AssertExpectations(t)
}

func TestCompanyService_Create_DuplicateCode(t *testing.T) {
	companies := new(apptest.MockCompanyRepository)
	service := NewCompanyService(companies, new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()

	companies.On("Create", ctx, mock.Anything).Return(shared.AlreadyExists("Company"))

	result, err := service.Create(ctx, shared.Anonymous, CreateCompanyRequest{Code: "ACME", Name: "Acme"})

	assert.Nil(t, result)
	assert.Equal(t, "ALREADY_EXISTS", domainCode(t, err))
}

func TestCompanyService_GetByID_OtherCompanyIsNotFound(t *testing.T) {
	companies := new(apptest.MockCompanyRepository)
	service := NewCompanyService(companies, new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()
	id := uuid.New()

	companies.On("FindByID", ctx, id).Return(apptest.ActiveCompany(id), nil)

	_, err := service.GetByID(ctx, apptest.ActorOf(uuid.New()), id)

	assert.True(t, shared.IsNotFound(err))
}

func TestCompanyService_List_BoundActorSeesOwnCompany(t *testing.T) {
	companies := new(apptest.MockCompanyRepository)
	service := NewCompanyService(companies, new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()
	id := uuid.New()

	companies.On("FindByID", ctx, id).Return(apptest.ActiveCompany(id), nil)

	items, total, err := service.List(ctx, apptest.ActorOf(id), CompanyListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	companies.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestCompanyService_List_PassesStatusFilter(t *testing.T) {
	companies := new(apptest.MockCompanyRepository)
	service := NewCompanyService(companies, new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()

	companies.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "inactive" && f.PageSize == shared.DefaultPageSize
	})).Return([]organization.Company{}, int64(0), nil)

	_, _, err := service.List(ctx, shared.Anonymous, CompanyListFilter{Status: "inactive"})

	require.NoError(t, err)
	companies.AssertExpectations(t)
}

func TestCompanyService_Update_StaleVersion(t *testing.T) {
	companies := new(apptest.MockCompanyRepository)
	service := NewCompanyService(companies, new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()
	id := uuid.New()
	stale := 0

	companies.On("FindByID", ctx, id).Return(apptest.ActiveCompany(id), nil)

	_, err := service.Update(ctx, shared.Anonymous, id, UpdateCompanyRequest{Version: &stale})

	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	companies.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCompanyService_Update_Status(t *testing.T) {
	companies := new(apptest.MockCompanyRepository)
	service := NewCompanyService(companies, new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()
	id := uuid.New()
	status := "inactive"
	actor := apptest.ActorOf(id)

	companies.On("FindByID", ctx, id).Return(apptest.ActiveCompany(id), nil)
	companies.On("Update", ctx, mock.AnythingOfType("*organization.Company")).Return(nil)

	result, err := service.Update(ctx, actor, id, UpdateCompanyRequest{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, "inactive", result.Status)
	assert.Equal(t, 2, result.Version)
	assert.Equal(t, actor.UserID, result.UpdatedBy)
}

func TestCompanyService_Delete_BlockedByReferences(t *testing.T) {
	companies := new(apptest.MockCompanyRepository)
	refs := new(apptest.MockReferenceCounter)
	service := NewCompanyService(companies, refs, nil)
	ctx := context.Background()
	id := uuid.New()

	companies.On("FindByID", ctx, id).Return(apptest.ActiveCompany(id), nil)
	refs.On("CountReferences", ctx, id, organization.CompanyReferences).Return([]shared.Reference{
		{Resource: "godowns", Label: "godown(s)", Count: 2},
		{Resource: "vouchers", Label: "voucher(s)", Count: 7},
	}, nil)

	err := service.Delete(ctx, shared.Anonymous, id)

	var refErr *shared.ReferencedError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "Company cannot be deleted: referenced by 2 godown(s), 7 voucher(s)", refErr.Error())
	companies.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCompanyService_Delete_Unreferenced(t *testing.T) {
	companies := new(apptest.MockCompanyRepository)
	refs := new(apptest.MockReferenceCounter)
	service := NewCompanyService(companies, refs, nil)
	ctx := context.Background()
	id := uuid.New()

	companies.On("FindByID", ctx, id).Return(apptest.ActiveCompany(id), nil)
	refs.On("CountReferences", ctx, id, organization.CompanyReferences).Return(nil, nil)
	companies.On("Delete", ctx, id).Return(nil)

	require.NoError(t, service.Delete(ctx, shared.Anonymous, id))
	companies.AssertExpectations(t)
}

// =============================================================================
// LocationService
// =============================================================================

func TestLocationService_Create_ForbiddenForOtherCompany(t *testing.T) {
	locations := new(MockLocationRepository)
	service := NewLocationService(locations, new(apptest.MockCompanyRepository), new(apptest.MockReferenceCounter), nil)

	_, err := service.Create(context.Background(), apptest.ActorOf(uuid.New()), CreateLocationRequest{
		CompanyID: uuid.New(),
		Code:      "HO",
		Name:      "Head Office",
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
	locations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLocationService_Create_InactiveCompany(t *testing.T) {
	locations := new(MockLocationRepository)
	companies := new(apptest.MockCompanyRepository)
	service := NewLocationService(locations, companies, new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()
	companyID := uuid.New()
	company := apptest.ActiveCompany(companyID)
	require.NoError(t, company.SetStatus(organization.CompanyStatusInactive))

	companies.On("FindByID", ctx, companyID).Return(company, nil)

	_, err := service.Create(ctx, shared.Anonymous, CreateLocationRequest{CompanyID: companyID, Code: "HO", Name: "Head Office"})

	assert.Equal(t, "INVALID_STATE", domainCode(t, err))
}

func TestLocationService_Create_Success(t *testing.T) {
	locations := new(MockLocationRepository)
	companies := new(apptest.MockCompanyRepository)
	service := NewLocationService(locations, companies, new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()
	companyID := uuid.New()
	actor := apptest.ActorOf(companyID)

	companies.On("FindByID", ctx, companyID).Return(apptest.ActiveCompany(companyID), nil)
	locations.On("Create", ctx, mock.AnythingOfType("*organization.Location")).Return(nil)

	result, err := service.Create(ctx, actor, CreateLocationRequest{
		CompanyID: companyID,
		Code:      "lhr",
		Name:      "Lahore",
		Phone:     "042-111-222",
	})

	require.NoError(t, err)
	assert.Equal(t, "LHR", result.Code)
	assert.Equal(t, companyID, result.CompanyID)
	assert.Equal(t, actor.UserID, result.CreatedBy)
}

func TestLocationService_Update_OtherCompanyIsNotFound(t *testing.T) {
	locations := new(MockLocationRepository)
	service := NewLocationService(locations, new(apptest.MockCompanyRepository), new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()
	location, err := organization.NewLocation(uuid.New(), "HO", "Head Office", nil)
	require.NoError(t, err)

	locations.On("FindByID", ctx, location.ID).Return(location, nil)

	_, err = service.Update(ctx, apptest.ActorOf(uuid.New()), location.ID, UpdateLocationRequest{})

	assert.True(t, shared.IsNotFound(err))
}

// =============================================================================
// FinancialYearService
// =============================================================================

func TestFinancialYearService_Create_EndNotAfterStart(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"end before start", "2025-07-01", "2024-06-30"},
		{"end equals start", "2025-07-01", "2025-07-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			years := new(MockFinancialYearRepository)
			companies := new(apptest.MockCompanyRepository)
			service := NewFinancialYearService(years, companies, new(apptest.MockVoucherRepository), new(apptest.MockReferenceCounter), nil)

			_, err := service.Create(context.Background(), shared.Anonymous, CreateFinancialYearRequest{
				CompanyID: uuid.New(),
				Code:      "2025-26",
				StartDate: tt.start,
				EndDate:   tt.end,
			})

			assert.Equal(t, "INVALID_PERIOD", domainCode(t, err))
			years.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestFinancialYearService_Create_Overlap(t *testing.T) {
	years := new(MockFinancialYearRepository)
	companies := new(apptest.MockCompanyRepository)
	service := NewFinancialYearService(years, companies, new(apptest.MockVoucherRepository), new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()
	companyID := uuid.New()
	existing, err := organization.NewFinancialYear(companyID, "2024-25", date("2024-07-01"), date("2025-06-30"), nil)
	require.NoError(t, err)

	companies.On("FindByID", ctx, companyID).Return(apptest.ActiveCompany(companyID), nil)
	years.On("FindOverlapping", ctx, companyID, date("2025-01-01"), date("2025-12-31"), mock.Anything).
		Return([]organization.FinancialYear{*existing}, nil)

	_, err = service.Create(ctx, shared.Anonymous, CreateFinancialYearRequest{
		CompanyID: companyID,
		Code:      "2025",
		StartDate: "2025-01-01",
		EndDate:   "2025-12-31",
	})

	assert.Equal(t, "INVALID_PERIOD", domainCode(t, err))
	assert.Contains(t, err.Error(), "2024-25")
}

func TestFinancialYearService_Create_Success(t *testing.T) {
	years := new(MockFinancialYearRepository)
	companies := new(apptest.MockCompanyRepository)
	service := NewFinancialYearService(years, companies, new(apptest.MockVoucherRepository), new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()
	companyID := uuid.New()

	companies.On("FindByID", ctx, companyID).Return(apptest.ActiveCompany(companyID), nil)
	years.On("FindOverlapping", ctx, companyID, mock.Anything, mock.Anything, mock.Anything).Return([]organization.FinancialYear{}, nil)
	years.On("Create", ctx, mock.AnythingOfType("*organization.FinancialYear")).Return(nil)

	result, err := service.Create(ctx, shared.Anonymous, CreateFinancialYearRequest{
		CompanyID: companyID,
		Code:      "2025-26",
		StartDate: "2025-07-01",
		EndDate:   "2026-06-30",
	})

	require.NoError(t, err)
	assert.Equal(t, "2025-07-01", result.StartDate)
	assert.Equal(t, "2026-06-30", result.EndDate)
	assert.False(t, result.IsClosed)
}

func TestFinancialYearService_Update_EndNotAfterStart(t *testing.T) {
	years := new(MockFinancialYearRepository)
	service := NewFinancialYearService(years, new(apptest.MockCompanyRepository), new(apptest.MockVoucherRepository), new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()
	year, err := organization.NewFinancialYear(uuid.New(), "2025-26", date("2025-07-01"), date("2026-06-30"), nil)
	require.NoError(t, err)
	end := "2025-06-30"

	years.On("FindByID", ctx, year.ID).Return(year, nil)

	_, err = service.Update(ctx, shared.Anonymous, year.ID, UpdateFinancialYearRequest{EndDate: &end})

	assert.Equal(t, "INVALID_PERIOD", domainCode(t, err))
	years.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestFinancialYearService_Update_Close(t *testing.T) {
	years := new(MockFinancialYearRepository)
	service := NewFinancialYearService(years, new(apptest.MockCompanyRepository), new(apptest.MockVoucherRepository), new(apptest.MockReferenceCounter), nil)
	ctx := context.Background()
	year, err := organization.NewFinancialYear(uuid.New(), "2025-26", date("2025-07-01"), date("2026-06-30"), nil)
	require.NoError(t, err)
	closed := true

	years.On("FindByID", ctx, year.ID).Return(year, nil)
	years.On("Update", ctx, year).Return(nil)

	result, err := service.Update(ctx, shared.Anonymous, year.ID, UpdateFinancialYearRequest{IsClosed: &closed})

	require.NoError(t, err)
	assert.True(t, result.IsClosed)
	years.AssertNotCalled(t, "FindOverlapping", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFinancialYearService_Update_Reschedule(t *testing.T) {
	tests := []struct {
		name      string
		outside   int64
		wantCode  string
		wantSaved bool
	}{
		{name: "vouchers stay inside", outside: 0, wantSaved: true},
		{name: "voucher left outside", outside: 1, wantCode: "INVALID_STATE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			years := new(MockFinancialYearRepository)
			vouchers := new(apptest.MockVoucherRepository)
			service := NewFinancialYearService(years, new(apptest.MockCompanyRepository), vouchers, new(apptest.MockReferenceCounter), nil)
			ctx := context.Background()
			year, err := organization.NewFinancialYear(uuid.New(), "FY25", date("2025-07-01"), date("2026-06-30"), nil)
			require.NoError(t, err)
			start := "2025-09-01"

			years.On("FindByID", ctx, year.ID).Return(year, nil)
			years.On("FindOverlapping", ctx, year.CompanyID, date("2025-09-01"), date("2026-06-30"), year.ID).
				Return([]organization.FinancialYear{}, nil)
			vouchers.On("CountOutside", ctx, year.ID, date("2025-09-01"), date("2026-06-30")).Return(tt.outside, nil)
			years.On("Update", ctx, year).Return(nil).Maybe()

			result, err := service.Update(ctx, shared.Anonymous, year.ID, UpdateFinancialYearRequest{StartDate: &start})

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, domainCode(t, err))
				assert.Contains(t, err.Error(), "FY25")
				years.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "2025-09-01", result.StartDate)
			years.AssertCalled(t, "Update", ctx, year)
		})
	}
}

func TestFinancialYearService_Delete_BlockedByVouchers(t *testing.T) {
	years := new(MockFinancialYearRepository)
	refs := new(apptest.MockReferenceCounter)
	service := NewFinancialYearService(years, new(apptest.MockCompanyRepository), new(apptest.MockVoucherRepository), refs, nil)
	ctx := context.Background()
	year, err := organization.NewFinancialYear(uuid.New(), "2025-26", date("2025-07-01"), date("2026-06-30"), nil)
	require.NoError(t, err)

	years.On("FindByID", ctx, year.ID).Return(year, nil)
	refs.On("CountReferences", ctx, year.ID, organization.FinancialYearReferences).
		Return([]shared.Reference{{Resource: "vouchers", Label: "voucher(s)", Count: 3}}, nil)

	err = service.Delete(ctx, shared.Anonymous, year.ID)

	var refErr *shared.ReferencedError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, int64(3), refErr.References[0].Count)
}
