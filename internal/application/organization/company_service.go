package organization

import (
	"context"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// CompanyService handles company-related business operations
type CompanyService struct {
	companyRepo organization.CompanyRepository
	guard       common.Guard
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo organization.CompanyRepository, refs shared.ReferenceCounter, metrics *telemetry.LedgerMetrics) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		guard:       common.Guard{Resource: "company", Refs: refs, Metrics: metrics},
	}
}

// Create creates a new company
func (s *CompanyService) Create(ctx context.Context, actor shared.Actor, req CreateCompanyRequest) (*CompanyResponse, error) {
	company, err := organization.NewCompany(req.Code, req.Name, actor.UserID)
	if err != nil {
		return nil, err
	}
	company.SetTaxNumbers(req.NTN, req.STRN)
	if err := company.SetContact(req.Address, req.Phone, req.Email); err != nil {
		return nil, err
	}

	if err := s.guard.Observe(ctx, s.companyRepo.Create(ctx, company)); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// GetByID retrieves a company. A token bound to another company sees
// NOT_FOUND.
func (s *CompanyService) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

// List retrieves companies. A token bound to a company only lists its own.
func (s *CompanyService) List(ctx context.Context, actor shared.Actor, filter CompanyListFilter) ([]CompanyResponse, int64, error) {
	if actor.CompanyID != nil {
		company, err := s.find(ctx, actor, *actor.CompanyID)
		if err != nil {
			if shared.IsNotFound(err) {
				return []CompanyResponse{}, 0, nil
			}
			return nil, 0, err
		}
		return []CompanyResponse{ToCompanyResponse(company)}, 1, nil
	}

	domainFilter := filter.Filter()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	companies, total, err := s.companyRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CompanyResponse, len(companies))
	for i := range companies {
		responses[i] = ToCompanyResponse(&companies[i])
	}
	return responses, total, nil
}

// Update updates a company
func (s *CompanyService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateCompanyRequest) (*CompanyResponse, error) {
	company, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(company.Version, req.Version); err != nil {
		return nil, err
	}

	if req.Code != nil {
		if err := company.SetCode(*req.Code); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if err := company.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.NTN != nil || req.STRN != nil {
		ntn, strn := company.NTN, company.STRN
		if req.NTN != nil {
			ntn = *req.NTN
		}
		if req.STRN != nil {
			strn = *req.STRN
		}
		company.SetTaxNumbers(ntn, strn)
	}
	if req.Address != nil || req.Phone != nil || req.Email != nil {
		address, phone, email := company.Address, company.Phone, company.Email
		if req.Address != nil {
			address = *req.Address
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if err := company.SetContact(address, phone, email); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := company.SetStatus(organization.CompanyStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	company.Touch(actor.UserID)
	if err := s.guard.Observe(ctx, s.companyRepo.Update(ctx, company)); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// Delete deletes a company that no longer owns any record
func (s *CompanyService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	company, err := s.find(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.guard.EnsureDeletable(ctx, "Company", company.ID, organization.CompanyReferences); err != nil {
		return err
	}
	return s.companyRepo.Delete(ctx, company.ID)
}

func (s *CompanyService) find(ctx context.Context, actor shared.Actor, id uuid.UUID) (*organization.Company, error) {
	return common.Owned(ctx, s.companyRepo.FindByID, actor, id, "Company")
}
