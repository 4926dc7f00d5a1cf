// Package apptest provides testify mocks of the domain repositories for
// application and handler tests.
package apptest

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/identity"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/voucher"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTenantRepository is a mock implementation of shared.TenantRepository.
// Entity mocks embed it and add their own finders.
type MockTenantRepository[T any] struct {
	mock.Mock
}

func (m *MockTenantRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockTenantRepository[T]) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]T, int64, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]T), args.Get(1).(int64), args.Error(2)
}

func (m *MockTenantRepository[T]) Create(ctx context.Context, entity *T) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockTenantRepository[T]) Update(ctx context.Context, entity *T) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockTenantRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCompanyRepository is a mock implementation of CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organization.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]organization.Company, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]organization.Company), args.Get(1).(int64), args.Error(2)
}

func (m *MockCompanyRepository) Create(ctx context.Context, company *organization.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) Update(ctx context.Context, company *organization.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReferenceCounter is a mock implementation of shared.ReferenceCounter
type MockReferenceCounter struct {
	mock.Mock
}

func (m *MockReferenceCounter) CountReferences(ctx context.Context, id uuid.UUID, rules []shared.ReferenceRule) ([]shared.Reference, error) {
	args := m.Called(ctx, id, rules)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shared.Reference), args.Error(1)
}

// MockAccountRepository is a mock implementation of ledger.AccountRepository
type MockAccountRepository struct {
	MockTenantRepository[ledger.Account]
}

func (m *MockAccountRepository) FindByLevel(ctx context.Context, companyID uuid.UUID, level int, parentID *uuid.UUID, filter shared.Filter) ([]ledger.Account, int64, error) {
	args := m.Called(ctx, companyID, level, parentID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]ledger.Account), args.Get(1).(int64), args.Error(2)
}

// MockCostCenterRepository is a mock implementation of ledger.CostCenterRepository
type MockCostCenterRepository struct {
	MockTenantRepository[ledger.CostCenter]
}

func (m *MockCostCenterRepository) FindByKind(ctx context.Context, companyID uuid.UUID, kind ledger.CostCenterKind, parentID *uuid.UUID, filter shared.Filter) ([]ledger.CostCenter, int64, error) {
	args := m.Called(ctx, companyID, kind, parentID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]ledger.CostCenter), args.Get(1).(int64), args.Error(2)
}

// MockVoucherRepository is a mock implementation of voucher.Repository
type MockVoucherRepository struct {
	MockTenantRepository[voucher.Voucher]
}

func (m *MockVoucherRepository) NextSequence(ctx context.Context, companyID, financialYearID uuid.UUID, voucherType voucher.Type) (int, error) {
	args := m.Called(ctx, companyID, financialYearID, voucherType)
	return args.Int(0), args.Error(1)
}

func (m *MockVoucherRepository) FindPostedEntries(ctx context.Context, companyID uuid.UUID, financialYearID *uuid.UUID) ([]voucher.Entry, error) {
	args := m.Called(ctx, companyID, financialYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]voucher.Entry), args.Error(1)
}

func (m *MockVoucherRepository) CountOutside(ctx context.Context, financialYearID uuid.UUID, start, end time.Time) (int64, error) {
	args := m.Called(ctx, financialYearID, start, end)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	MockTenantRepository[identity.User]
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

// ActiveCompany returns an active company with the given ID
func ActiveCompany(id uuid.UUID) *organization.Company {
	company, _ := organization.NewCompany("ACME", "Acme Traders", nil)
	company.ID = id
	return company
}

// ActorOf returns an actor bound to companyID with a fresh user ID
func ActorOf(companyID uuid.UUID) shared.Actor {
	userID := uuid.New()
	return shared.Actor{UserID: &userID, CompanyID: &companyID}
}

var (
	_ shared.ReferenceCounter           = (*MockReferenceCounter)(nil)
	_ organization.CompanyRepository    = (*MockCompanyRepository)(nil)
	_ shared.TenantRepository[struct{}] = (*MockTenantRepository[struct{}])(nil)
	_ ledger.AccountRepository          = (*MockAccountRepository)(nil)
	_ ledger.CostCenterRepository       = (*MockCostCenterRepository)(nil)
	_ voucher.Repository                = (*MockVoucherRepository)(nil)
	_ identity.UserRepository           = (*MockUserRepository)(nil)
)
