package partner

import (
	"context"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/geo"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// ProfileService handles customer and supplier profiles
type ProfileService struct {
	profileRepo  partner.ProfileRepository
	companyRepo  organization.CompanyRepository
	provinceRepo geo.ProvinceRepository
	cityRepo     geo.CityRepository
	accountRepo  ledger.AccountRepository
	phoneRegion  string
	guard        common.Guard
}

// ProfileServiceDeps groups the repositories a ProfileService resolves
// references against
type ProfileServiceDeps struct {
	Profiles  partner.ProfileRepository
	Companies organization.CompanyRepository
	Provinces geo.ProvinceRepository
	Cities    geo.CityRepository
	Accounts  ledger.AccountRepository
	Refs      shared.ReferenceCounter
	Metrics   *telemetry.LedgerMetrics
}

// NewProfileService creates a new ProfileService. phoneRegion is the
// region local phone numbers are parsed in.
func NewProfileService(deps ProfileServiceDeps, phoneRegion string) *ProfileService {
	return &ProfileService{
		profileRepo:  deps.Profiles,
		companyRepo:  deps.Companies,
		provinceRepo: deps.Provinces,
		cityRepo:     deps.Cities,
		accountRepo:  deps.Accounts,
		phoneRegion:  phoneRegion,
		guard:        common.Guard{Resource: "profile", Refs: deps.Refs, Metrics: deps.Metrics},
	}
}

// Create creates a new profile
func (s *ProfileService) Create(ctx context.Context, actor shared.Actor, req CreateProfileRequest) (*ProfileResponse, error) {
	if err := common.Authorize(actor, req.CompanyID); err != nil {
		return nil, err
	}
	if _, err := organization.RequireActiveCompany(ctx, s.companyRepo, req.CompanyID); err != nil {
		return nil, err
	}

	profile, err := partner.NewProfile(req.CompanyID, partner.ProfileType(req.Type), req.Code, req.Name, actor.UserID)
	if err != nil {
		return nil, err
	}

	phone, err := partner.NormalizePhone(req.Phone, s.phoneRegion)
	if err != nil {
		return nil, err
	}
	if err := profile.SetContact(req.ContactPerson, phone, req.Email, req.Address); err != nil {
		return nil, err
	}
	if err := s.applyRegion(ctx, profile, req.ProvinceID, req.CityID); err != nil {
		return nil, err
	}
	if err := profile.SetTaxIdentity(req.NTN, req.STRN, req.CNIC); err != nil {
		return nil, err
	}
	if err := s.applyAccount(ctx, profile, req.AccountID); err != nil {
		return nil, err
	}
	if req.CreditLimit != nil {
		if err := profile.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}

	if err := s.guard.Observe(ctx, s.profileRepo.Create(ctx, profile)); err != nil {
		return nil, err
	}

	response := ToProfileResponse(profile)
	return &response, nil
}

// GetByID retrieves a profile by ID
func (s *ProfileService) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ProfileResponse, error) {
	profile, err := common.Owned(ctx, s.profileRepo.FindByID, actor, id, "Profile")
	if err != nil {
		return nil, err
	}
	response := ToProfileResponse(profile)
	return &response, nil
}

// List retrieves the profiles of a company
func (s *ProfileService) List(ctx context.Context, actor shared.Actor, companyID uuid.UUID, filter ProfileListFilter) ([]ProfileResponse, int64, error) {
	if err := common.Authorize(actor, companyID); err != nil {
		return nil, 0, err
	}

	domainFilter := filter.Filter()
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.ProvinceID != "" {
		domainFilter.Filters["province_id"] = filter.ProvinceID
	}
	if filter.CityID != "" {
		domainFilter.Filters["city_id"] = filter.CityID
	}

	profiles, total, err := s.profileRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		responses[i] = ToProfileResponse(&profiles[i])
	}
	return responses, total, nil
}

// Update updates a profile
func (s *ProfileService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	profile, err := common.Owned(ctx, s.profileRepo.FindByID, actor, id, "Profile")
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(profile.Version, req.Version); err != nil {
		return nil, err
	}

	if req.Type != nil {
		if err := profile.SetType(partner.ProfileType(*req.Type)); err != nil {
			return nil, err
		}
	}
	if req.Code != nil {
		if err := profile.SetCode(*req.Code); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if err := profile.Rename(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.ContactPerson != nil || req.Phone != nil || req.Email != nil || req.Address != nil {
		contact, phone, email, address := profile.ContactPerson, profile.Phone, profile.Email, profile.Address
		if req.ContactPerson != nil {
			contact = *req.ContactPerson
		}
		if req.Phone != nil {
			if phone, err = partner.NormalizePhone(*req.Phone, s.phoneRegion); err != nil {
				return nil, err
			}
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Address != nil {
			address = *req.Address
		}
		if err := profile.SetContact(contact, phone, email, address); err != nil {
			return nil, err
		}
	}

	if req.ProvinceID != nil || req.CityID != nil {
		provinceID, cityID := profile.ProvinceID, profile.CityID
		if req.ProvinceID != nil {
			provinceID = req.ProvinceID
			if req.CityID == nil {
				// the stored city belonged to the old province
				cityID = nil
			}
		}
		if req.CityID != nil {
			cityID = req.CityID
		}
		if err := s.applyRegion(ctx, profile, provinceID, cityID); err != nil {
			return nil, err
		}
	}

	if req.NTN != nil || req.STRN != nil || req.CNIC != nil {
		ntn, strn, cnic := profile.NTN, profile.STRN, profile.CNIC
		if req.NTN != nil {
			ntn = *req.NTN
		}
		if req.STRN != nil {
			strn = *req.STRN
		}
		if req.CNIC != nil {
			cnic = *req.CNIC
		}
		if err := profile.SetTaxIdentity(ntn, strn, cnic); err != nil {
			return nil, err
		}
	}
	if req.AccountID != nil {
		if err := s.applyAccount(ctx, profile, req.AccountID); err != nil {
			return nil, err
		}
	}
	if req.CreditLimit != nil {
		if err := profile.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}

	profile.Touch(actor.UserID)
	if err := s.guard.Observe(ctx, s.profileRepo.Update(ctx, profile)); err != nil {
		return nil, err
	}

	response := ToProfileResponse(profile)
	return &response, nil
}

// Delete deletes a profile no voucher refers to
func (s *ProfileService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	profile, err := common.Owned(ctx, s.profileRepo.FindByID, actor, id, "Profile")
	if err != nil {
		return err
	}
	if err := s.guard.EnsureDeletable(ctx, "Profile "+profile.Code, profile.ID, partner.ProfileReferences); err != nil {
		return err
	}
	return s.profileRepo.Delete(ctx, profile.ID)
}

// applyRegion checks province and city against the profile's company;
// the city must lie in the province.
func (s *ProfileService) applyRegion(ctx context.Context, profile *partner.Profile, provinceID, cityID *uuid.UUID) error {
	if provinceID != nil {
		if _, err := shared.FindInCompany(ctx, s.provinceRepo.FindByID, *provinceID, profile.CompanyID, "INVALID_PROVINCE", "Province"); err != nil {
			return err
		}
	}
	if cityID != nil {
		city, err := shared.FindInCompany(ctx, s.cityRepo.FindByID, *cityID, profile.CompanyID, "INVALID_CITY", "City")
		if err != nil {
			return err
		}
		if provinceID != nil && city.ProvinceID != *provinceID {
			return shared.NewDomainError("INVALID_CITY", "City does not belong to the selected province")
		}
	}
	return profile.SetRegion(provinceID, cityID)
}

func (s *ProfileService) applyAccount(ctx context.Context, profile *partner.Profile, accountID *uuid.UUID) error {
	if accountID == nil {
		profile.SetAccount(nil)
		return nil
	}
	account, err := shared.FindInCompany(ctx, s.accountRepo.FindByID, *accountID, profile.CompanyID, "INVALID_ACCOUNT", "Account")
	if err != nil {
		return err
	}
	if !account.IsPostable() {
		return shared.NewDomainError("INVALID_ACCOUNT", "Profiles link to level 4 accounts only")
	}
	profile.SetAccount(&account.ID)
	return nil
}
