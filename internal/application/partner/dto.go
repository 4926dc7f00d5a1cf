package partner

import (
	"time"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Profile DTOs
// =============================================================================

// CreateProfileRequest represents a request to create a customer/supplier profile
type CreateProfileRequest struct {
	CompanyID     uuid.UUID        `json:"companyId" binding:"required"`
	Type          string           `json:"type" binding:"required,oneof=customer supplier both"`
	Code          string           `json:"code" binding:"required,max=20"`
	Name          string           `json:"name" binding:"required,max=200"`
	ContactPerson string           `json:"contactPerson" binding:"max=100"`
	Phone         string           `json:"phone" binding:"max=50"`
	Email         string           `json:"email" binding:"omitempty,email,max=200"`
	Address       string           `json:"address" binding:"max=500"`
	ProvinceID    *uuid.UUID       `json:"provinceId"`
	CityID        *uuid.UUID       `json:"cityId"`
	NTN           string           `json:"ntn" binding:"max=50"`
	STRN          string           `json:"strn" binding:"max=50"`
	CNIC          string           `json:"cnic" binding:"max=20"`
	AccountID     *uuid.UUID       `json:"accountId"`
	CreditLimit   *decimal.Decimal `json:"creditLimit"`
}

// UpdateProfileRequest represents a request to update a profile. Region
// and account fields replace the stored values when present.
type UpdateProfileRequest struct {
	Type          *string          `json:"type" binding:"omitempty,oneof=customer supplier both"`
	Code          *string          `json:"code" binding:"omitempty,min=1,max=20"`
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	ContactPerson *string          `json:"contactPerson" binding:"omitempty,max=100"`
	Phone         *string          `json:"phone" binding:"omitempty,max=50"`
	Email         *string          `json:"email" binding:"omitempty,email,max=200"`
	Address       *string          `json:"address" binding:"omitempty,max=500"`
	ProvinceID    *uuid.UUID       `json:"provinceId"`
	CityID        *uuid.UUID       `json:"cityId"`
	NTN           *string          `json:"ntn" binding:"omitempty,max=50"`
	STRN          *string          `json:"strn" binding:"omitempty,max=50"`
	CNIC          *string          `json:"cnic" binding:"omitempty,max=20"`
	AccountID     *uuid.UUID       `json:"accountId"`
	CreditLimit   *decimal.Decimal `json:"creditLimit"`
	Version       *int             `json:"version"`
}

// ProfileListFilter represents filter options for the profile list
type ProfileListFilter struct {
	common.ListQuery
	Type       string `form:"type" binding:"omitempty,oneof=customer supplier both"`
	ProvinceID string `form:"provinceId" binding:"omitempty,uuid"`
	CityID     string `form:"cityId" binding:"omitempty,uuid"`
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"companyId"`
	Type          string          `json:"type"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	ContactPerson string          `json:"contactPerson"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	ProvinceID    *uuid.UUID      `json:"provinceId,omitempty"`
	CityID        *uuid.UUID      `json:"cityId,omitempty"`
	NTN           string          `json:"ntn"`
	STRN          string          `json:"strn"`
	CNIC          string          `json:"cnic"`
	AccountID     *uuid.UUID      `json:"accountId,omitempty"`
	CreditLimit   decimal.Decimal `json:"creditLimit"`
	CreatedBy     *uuid.UUID      `json:"createdBy,omitempty"`
	UpdatedBy     *uuid.UUID      `json:"updatedBy,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Version       int             `json:"version"`
}

// ToProfileResponse converts a domain Profile to ProfileResponse
func ToProfileResponse(p *partner.Profile) ProfileResponse {
	return ProfileResponse{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		Type:          string(p.Type),
		Code:          p.Code,
		Name:          p.Name,
		ContactPerson: p.ContactPerson,
		Phone:         p.Phone,
		Email:         p.Email,
		Address:       p.Address,
		ProvinceID:    p.ProvinceID,
		CityID:        p.CityID,
		NTN:           p.NTN,
		STRN:          p.STRN,
		CNIC:          p.CNIC,
		AccountID:     p.AccountID,
		CreditLimit:   p.CreditLimit,
		CreatedBy:     p.CreatedBy,
		UpdatedBy:     p.UpdatedBy,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}

// =============================================================================
// Godown DTOs
// =============================================================================

// CreateGodownRequest represents a request to create a godown
type CreateGodownRequest struct {
	CompanyID  uuid.UUID  `json:"companyId" binding:"required"`
	Code       string     `json:"code" binding:"required,max=20"`
	Name       string     `json:"name" binding:"required,max=200"`
	LocationID *uuid.UUID `json:"locationId"`
	Address    string     `json:"address" binding:"max=500"`
}

// UpdateGodownRequest represents a request to update a godown
type UpdateGodownRequest struct {
	Code       *string    `json:"code" binding:"omitempty,min=1,max=20"`
	Name       *string    `json:"name" binding:"omitempty,min=1,max=200"`
	LocationID *uuid.UUID `json:"locationId"`
	Address    *string    `json:"address" binding:"omitempty,max=500"`
	Version    *int       `json:"version"`
}

// GodownListFilter represents filter options for the godown list
type GodownListFilter struct {
	common.ListQuery
	LocationID string `form:"locationId" binding:"omitempty,uuid"`
}

// GodownResponse represents a godown in API responses
type GodownResponse struct {
	ID         uuid.UUID  `json:"id"`
	CompanyID  uuid.UUID  `json:"companyId"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	LocationID *uuid.UUID `json:"locationId,omitempty"`
	Address    string     `json:"address"`
	CreatedBy  *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedBy  *uuid.UUID `json:"updatedBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Version    int        `json:"version"`
}

// ToGodownResponse converts a domain Godown to GodownResponse
func ToGodownResponse(g *partner.Godown) GodownResponse {
	return GodownResponse{
		ID:         g.ID,
		CompanyID:  g.CompanyID,
		Code:       g.Code,
		Name:       g.Name,
		LocationID: g.LocationID,
		Address:    g.Address,
		CreatedBy:  g.CreatedBy,
		UpdatedBy:  g.UpdatedBy,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
		Version:    g.Version,
	}
}
