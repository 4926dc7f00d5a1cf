package ledger

import (
	"time"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/google/uuid"
)

// =============================================================================
// Account DTOs
// =============================================================================

// CreateAccountRequest represents a request to create an account. Level 1
// accounts take a nature; lower levels take the parent and inherit it.
type CreateAccountRequest struct {
	CompanyID uuid.UUID  `json:"companyId" binding:"required"`
	ParentID  *uuid.UUID `json:"parentId"`
	Code      string     `json:"code" binding:"required,numeric,max=4"`
	Name      string     `json:"name" binding:"required,max=200"`
	Nature    string     `json:"nature" binding:"omitempty,oneof=asset liability equity revenue expense"`
}

// UpdateAccountRequest represents a request to update an account
type UpdateAccountRequest struct {
	Code    *string `json:"code" binding:"omitempty,numeric,max=4"`
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Nature  *string `json:"nature" binding:"omitempty,oneof=asset liability equity revenue expense"`
	Version *int    `json:"version"`
}

// AccountListFilter represents filter options for an account level list
type AccountListFilter struct {
	common.ListQuery
	ParentID string `form:"parentId" binding:"omitempty,uuid"`
	Nature   string `form:"nature" binding:"omitempty,oneof=asset liability equity revenue expense"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        uuid.UUID  `json:"id"`
	CompanyID uuid.UUID  `json:"companyId"`
	Level     int        `json:"level"`
	Code      string     `json:"code"`
	FullCode  string     `json:"fullCode"`
	Name      string     `json:"name"`
	Nature    string     `json:"nature"`
	ParentID  *uuid.UUID `json:"parentId,omitempty"`
	Level1ID  *uuid.UUID `json:"level1Id,omitempty"`
	Level2ID  *uuid.UUID `json:"level2Id,omitempty"`
	Level3ID  *uuid.UUID `json:"level3Id,omitempty"`
	CreatedBy *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedBy *uuid.UUID `json:"updatedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Version   int        `json:"version"`
}

// ToAccountResponse converts a domain Account to AccountResponse
func ToAccountResponse(a *ledger.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		CompanyID: a.CompanyID,
		Level:     a.Level,
		Code:      a.Code,
		FullCode:  a.FullCode,
		Name:      a.Name,
		Nature:    string(a.Nature),
		ParentID:  a.ParentID(),
		Level1ID:  a.Level1ID,
		Level2ID:  a.Level2ID,
		Level3ID:  a.Level3ID,
		CreatedBy: a.CreatedBy,
		UpdatedBy: a.UpdatedBy,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		Version:   a.Version,
	}
}

// =============================================================================
// Cost center DTOs
// =============================================================================

// CreateCostCenterRequest represents a request to create a cost center.
// Child centers take their parent and inherit its type.
type CreateCostCenterRequest struct {
	CompanyID uuid.UUID  `json:"companyId" binding:"required"`
	ParentID  *uuid.UUID `json:"parentId"`
	Code      string     `json:"code" binding:"required,max=20"`
	Name      string     `json:"name" binding:"required,max=200"`
	Type      string     `json:"type" binding:"omitempty,oneof=cost revenue"`
}

// UpdateCostCenterRequest represents a request to update a cost center
type UpdateCostCenterRequest struct {
	Code     *string    `json:"code" binding:"omitempty,min=1,max=20"`
	Name     *string    `json:"name" binding:"omitempty,min=1,max=200"`
	ParentID *uuid.UUID `json:"parentId"`
	Version  *int       `json:"version"`
}

// CostCenterListFilter represents filter options for a cost center list
type CostCenterListFilter struct {
	common.ListQuery
	ParentID string `form:"parentId" binding:"omitempty,uuid"`
	Type     string `form:"type" binding:"omitempty,oneof=cost revenue"`
}

// CostCenterResponse represents a cost center in API responses
type CostCenterResponse struct {
	ID        uuid.UUID  `json:"id"`
	CompanyID uuid.UUID  `json:"companyId"`
	Kind      string     `json:"kind"`
	Type      string     `json:"type"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parentId,omitempty"`
	CreatedBy *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedBy *uuid.UUID `json:"updatedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Version   int        `json:"version"`
}

// ToCostCenterResponse converts a domain CostCenter to CostCenterResponse
func ToCostCenterResponse(c *ledger.CostCenter) CostCenterResponse {
	return CostCenterResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Kind:      string(c.Kind),
		Type:      string(c.Type),
		Code:      c.Code,
		Name:      c.Name,
		ParentID:  c.ParentID,
		CreatedBy: c.CreatedBy,
		UpdatedBy: c.UpdatedBy,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}
