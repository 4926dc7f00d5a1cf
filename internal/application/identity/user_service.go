package identity

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/identity"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/auth"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user management
type UserService struct {
	userRepo    identity.UserRepository
	companyRepo organization.CompanyRepository
	guard       common.Guard
	blacklist   auth.TokenBlacklist
	sessionTTL  time.Duration
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	companyRepo organization.CompanyRepository,
	metrics *telemetry.LedgerMetrics,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		guard:       common.Guard{Resource: "user", Metrics: metrics},
	}
}

// WithSessionRevocation makes password changes and deactivation revoke
// every token issued to the user before the change. ttl must cover the
// longest token lifetime.
func (s *UserService) WithSessionRevocation(blacklist auth.TokenBlacklist, ttl time.Duration) *UserService {
	s.blacklist = blacklist
	s.sessionTTL = ttl
	return s
}

// Create creates a user. Usernames are unique across all companies.
func (s *UserService) Create(ctx context.Context, actor shared.Actor, req CreateUserRequest) (*UserResponse, error) {
	if err := common.Authorize(actor, req.CompanyID); err != nil {
		return nil, err
	}
	if _, err := organization.RequireActiveCompany(ctx, s.companyRepo, req.CompanyID); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(req.CompanyID, req.Username, req.Password, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := user.SetDisplayName(req.DisplayName); err != nil {
		return nil, err
	}
	if err := user.SetEmail(req.Email); err != nil {
		return nil, err
	}

	if err := s.guard.Observe(ctx, s.userRepo.Create(ctx, user)); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves the users of a company
func (s *UserService) List(ctx context.Context, actor shared.Actor, companyID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	if err := common.Authorize(actor, companyID); err != nil {
		return nil, 0, err
	}

	domainFilter := filter.Filter()
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	users, total, err := s.userRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses, total, nil
}

// Update updates a user's profile, password or active flag
func (s *UserService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := common.Owned(ctx, s.userRepo.FindByID, actor, id, "User")
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(user.Version, req.Version); err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		user.SetActive(*req.IsActive)
	}

	user.Touch(actor.UserID)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if s.blacklist != nil && (req.Password != nil || !user.IsActive) {
		if err := s.blacklist.InvalidateUserTokens(ctx, user.ID.String(), s.sessionTTL); err != nil {
			logger.L(ctx).Error("failed to revoke user sessions", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}

	response := ToUserResponse(user)
	return &response, nil
}
