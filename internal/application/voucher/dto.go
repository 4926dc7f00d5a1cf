package voucher

import (
	"time"

	"github.com/erp/ledger/internal/application/common"
	"github.com/erp/ledger/internal/domain/voucher"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryRequest is one debit or credit row of a voucher request
type EntryRequest struct {
	AccountID    uuid.UUID       `json:"accountId" binding:"required"`
	CostCenterID *uuid.UUID      `json:"costCenterId"`
	Description  string          `json:"description" binding:"max=500"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}

// ItemRequest is one stock row of a sales or purchase voucher request.
// Amounts are derived from quantity, rate and tax rate.
type ItemRequest struct {
	GodownID    uuid.UUID       `json:"godownId" binding:"required"`
	UnitID      uuid.UUID       `json:"unitId" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	TaxRate     decimal.Decimal `json:"taxRate"`
}

// CreateVoucherRequest represents a request to create a draft voucher
type CreateVoucherRequest struct {
	CompanyID       uuid.UUID      `json:"companyId" binding:"required"`
	Type            string         `json:"type" binding:"required,oneof=JV CPV CRV BPV BRV SV PV"`
	Date            string         `json:"date" binding:"required,datetime=2006-01-02"`
	FinancialYearID uuid.UUID      `json:"financialYearId" binding:"required"`
	LocationID      *uuid.UUID     `json:"locationId"`
	ProfileID       *uuid.UUID     `json:"profileId"`
	Narration       string         `json:"narration" binding:"max=1000"`
	Entries         []EntryRequest `json:"entries" binding:"dive"`
	Items           []ItemRequest  `json:"items" binding:"dive"`
}

// UpdateVoucherRequest represents a request to update a draft voucher.
// When entries or items are sent, both line sets are replaced; the one
// left out keeps its stored rows.
type UpdateVoucherRequest struct {
	Date            *string        `json:"date" binding:"omitempty,datetime=2006-01-02"`
	FinancialYearID *uuid.UUID     `json:"financialYearId"`
	LocationID      *uuid.UUID     `json:"locationId"`
	ProfileID       *uuid.UUID     `json:"profileId"`
	Narration       *string        `json:"narration" binding:"omitempty,max=1000"`
	Entries         []EntryRequest `json:"entries" binding:"omitempty,dive"`
	Items           []ItemRequest  `json:"items" binding:"omitempty,dive"`
	Version         *int           `json:"version"`
}

// VoucherListFilter represents filter options for the voucher list
type VoucherListFilter struct {
	common.ListQuery
	Type            string `form:"type" binding:"omitempty,oneof=JV CPV CRV BPV BRV SV PV"`
	Status          string `form:"status" binding:"omitempty,oneof=draft posted"`
	FinancialYearID string `form:"financialYearId" binding:"omitempty,uuid"`
	ProfileID       string `form:"profileId" binding:"omitempty,uuid"`
	LocationID      string `form:"locationId" binding:"omitempty,uuid"`
}

// EntryResponse represents a voucher entry in API responses
type EntryResponse struct {
	ID           uuid.UUID       `json:"id"`
	LineNo       int             `json:"lineNo"`
	AccountID    uuid.UUID       `json:"accountId"`
	CostCenterID *uuid.UUID      `json:"costCenterId,omitempty"`
	Description  string          `json:"description"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}

// ItemResponse represents a voucher item in API responses
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	LineNo      int             `json:"lineNo"`
	GodownID    uuid.UUID       `json:"godownId"`
	UnitID      uuid.UUID       `json:"unitId"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	GrossAmount decimal.Decimal `json:"grossAmount"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// VoucherResponse represents a voucher in API responses
type VoucherResponse struct {
	ID              uuid.UUID       `json:"id"`
	CompanyID       uuid.UUID       `json:"companyId"`
	Type            string          `json:"type"`
	Number          string          `json:"number"`
	Date            string          `json:"date"`
	FinancialYearID uuid.UUID       `json:"financialYearId"`
	LocationID      *uuid.UUID      `json:"locationId,omitempty"`
	ProfileID       *uuid.UUID      `json:"profileId,omitempty"`
	Narration       string          `json:"narration"`
	Status          string          `json:"status"`
	PostedAt        *time.Time      `json:"postedAt,omitempty"`
	PostedBy        *uuid.UUID      `json:"postedBy,omitempty"`
	Entries         []EntryResponse `json:"entries"`
	Items           []ItemResponse  `json:"items"`
	TotalDebit      decimal.Decimal `json:"totalDebit"`
	TotalCredit     decimal.Decimal `json:"totalCredit"`
	GrossAmount     decimal.Decimal `json:"grossAmount"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	NetAmount       decimal.Decimal `json:"netAmount"`
	CreatedBy       *uuid.UUID      `json:"createdBy,omitempty"`
	UpdatedBy       *uuid.UUID      `json:"updatedBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Version         int             `json:"version"`
}

// ToVoucherResponse converts a domain Voucher to VoucherResponse
func ToVoucherResponse(v *voucher.Voucher) VoucherResponse {
	entries := make([]EntryResponse, len(v.Entries))
	for i, e := range v.Entries {
		entries[i] = EntryResponse{
			ID:           e.ID,
			LineNo:       e.LineNo,
			AccountID:    e.AccountID,
			CostCenterID: e.CostCenterID,
			Description:  e.Description,
			Debit:        e.Debit,
			Credit:       e.Credit,
		}
	}
	items := make([]ItemResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = ItemResponse{
			ID:          it.ID,
			LineNo:      it.LineNo,
			GodownID:    it.GodownID,
			UnitID:      it.UnitID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			TaxRate:     it.TaxRate,
			GrossAmount: it.GrossAmount,
			TaxAmount:   it.TaxAmount,
			NetAmount:   it.NetAmount,
		}
	}

	return VoucherResponse{
		ID:              v.ID,
		CompanyID:       v.CompanyID,
		Type:            string(v.Type),
		Number:          v.Number,
		Date:            v.Date.Format(common.DateLayout),
		FinancialYearID: v.FinancialYearID,
		LocationID:      v.LocationID,
		ProfileID:       v.ProfileID,
		Narration:       v.Narration,
		Status:          string(v.Status),
		PostedAt:        v.PostedAt,
		PostedBy:        v.PostedBy,
		Entries:         entries,
		Items:           items,
		TotalDebit:      v.TotalDebit,
		TotalCredit:     v.TotalCredit,
		GrossAmount:     v.GrossAmount,
		TaxAmount:       v.TaxAmount,
		NetAmount:       v.NetAmount,
		CreatedBy:       v.CreatedBy,
		UpdatedBy:       v.UpdatedBy,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
		Version:         v.Version,
	}
}
