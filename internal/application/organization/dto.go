package organization

import (
	"time"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/organization"
	"github.com/google/uuid"
)

// =============================================================================
// Company DTOs
// =============================================================================

// CreateCompanyRequest represents a request to create a company
type CreateCompanyRequest struct {
	Code    string `json:"code" binding:"required,max=20"`
	Name    string `json:"name" binding:"required,max=200"`
	NTN     string `json:"ntn" binding:"max=50"`
	STRN    string `json:"strn" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
}

// UpdateCompanyRequest represents a request to update a company
type UpdateCompanyRequest struct {
	Code    *string `json:"code" binding:"omitempty,min=1,max=20"`
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	NTN     *string `json:"ntn" binding:"omitempty,max=50"`
	STRN    *string `json:"strn" binding:"omitempty,max=50"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Email   *string `json:"email" binding:"omitempty,email,max=200"`
	Status  *string `json:"status" binding:"omitempty,oneof=active inactive"`
	Version *int    `json:"version"`
}

// CompanyListFilter represents filter options for the company list
type CompanyListFilter struct {
	common.ListQuery
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	NTN       string     `json:"ntn"`
	STRN      string     `json:"strn"`
	Address   string     `json:"address"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Status    string     `json:"status"`
	CreatedBy *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedBy *uuid.UUID `json:"updatedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Version   int        `json:"version"`
}

// ToCompanyResponse converts a domain Company to CompanyResponse
func ToCompanyResponse(c *organization.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		NTN:       c.NTN,
		STRN:      c.STRN,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Status:    string(c.Status),
		CreatedBy: c.CreatedBy,
		UpdatedBy: c.UpdatedBy,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

// =============================================================================
// Location DTOs
// =============================================================================

// CreateLocationRequest represents a request to create a location
type CreateLocationRequest struct {
	CompanyID uuid.UUID `json:"companyId" binding:"required"`
	Code      string    `json:"code" binding:"required,max=20"`
	Name      string    `json:"name" binding:"required,max=200"`
	Address   string    `json:"address" binding:"max=500"`
	Phone     string    `json:"phone" binding:"max=50"`
}

// UpdateLocationRequest represents a request to update a location
type UpdateLocationRequest struct {
	Code    *string `json:"code" binding:"omitempty,min=1,max=20"`
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Version *int    `json:"version"`
}

// LocationResponse represents a location in API responses
type LocationResponse struct {
	ID        uuid.UUID  `json:"id"`
	CompanyID uuid.UUID  `json:"companyId"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	Phone     string     `json:"phone"`
	CreatedBy *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedBy *uuid.UUID `json:"updatedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Version   int        `json:"version"`
}

// ToLocationResponse converts a domain Location to LocationResponse
func ToLocationResponse(l *organization.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		CompanyID: l.CompanyID,
		Code:      l.Code,
		Name:      l.Name,
		Address:   l.Address,
		Phone:     l.Phone,
		CreatedBy: l.CreatedBy,
		UpdatedBy: l.UpdatedBy,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
		Version:   l.Version,
	}
}

// =============================================================================
// Financial year DTOs
// =============================================================================

// CreateFinancialYearRequest represents a request to create a financial year.
// Dates use the YYYY-MM-DD format.
type CreateFinancialYearRequest struct {
	CompanyID uuid.UUID `json:"companyId" binding:"required"`
	Code      string    `json:"code" binding:"required,max=20"`
	StartDate string    `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string    `json:"endDate" binding:"required,datetime=2006-01-02"`
}

// UpdateFinancialYearRequest represents a request to update a financial year
type UpdateFinancialYearRequest struct {
	Code      *string `json:"code" binding:"omitempty,min=1,max=20"`
	StartDate *string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	IsClosed  *bool   `json:"isClosed"`
	Version   *int    `json:"version"`
}

// FinancialYearListFilter represents filter options for the year list
type FinancialYearListFilter struct {
	common.ListQuery
	IsClosed *bool `form:"isClosed"`
}

// FinancialYearResponse represents a financial year in API responses
type FinancialYearResponse struct {
	ID        uuid.UUID  `json:"id"`
	CompanyID uuid.UUID  `json:"companyId"`
	Code      string     `json:"code"`
	StartDate string     `json:"startDate"`
	EndDate   string     `json:"endDate"`
	IsClosed  bool       `json:"isClosed"`
	CreatedBy *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedBy *uuid.UUID `json:"updatedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Version   int        `json:"version"`
}

// ToFinancialYearResponse converts a domain FinancialYear to FinancialYearResponse
func ToFinancialYearResponse(f *organization.FinancialYear) FinancialYearResponse {
	return FinancialYearResponse{
		ID:        f.ID,
		CompanyID: f.CompanyID,
		Code:      f.Code,
		StartDate: f.StartDate.Format(common.DateLayout),
		EndDate:   f.EndDate.Format(common.DateLayout),
		IsClosed:  f.IsClosed,
		CreatedBy: f.CreatedBy,
		UpdatedBy: f.UpdatedBy,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		Version:   f.Version,
	}
}
