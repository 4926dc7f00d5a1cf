package handler

import (
	"github.com/erp/ledger/internal/application/common"
	orgapp "github.com/erp/ledger/internal/application/organization"
	"github.com/gin-gonic/gin"
)

// CompanyHandler handles company endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *orgapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *orgapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Create handles POST /companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var req orgapp.CreateCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	company, err := h.companyService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, company)
}

// GetByID handles GET /companies/:id
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	company, err := h.companyService.GetByID(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// List handles GET /companies
func (h *CompanyHandler) List(c *gin.Context) {
	var filter orgapp.CompanyListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	companies, total, err := h.companyService.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, companies, total, filter.Page, filter.PageSize)
}

// Update handles PUT /companies/:id
func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req orgapp.UpdateCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	company, err := h.companyService.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// Delete handles DELETE /companies/:id
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.companyService.Delete(c.Request.Context(), actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// LocationHandler handles location endpoints
type LocationHandler struct {
	BaseHandler
	locationService *orgapp.LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locationService *orgapp.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// Create handles POST /locations
func (h *LocationHandler) Create(c *gin.Context) {
	var req orgapp.CreateLocationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	location, err := h.locationService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, location)
}

// List handles GET /locations/:companyId
func (h *LocationHandler) List(c *gin.Context) {
	companyID, ok := h.ParamUUID(c, "companyId")
	if !ok {
		return
	}
	var query common.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	locations, total, err := h.locationService.List(c.Request.Context(), actor(c), companyID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, locations, total, query.Page, query.PageSize)
}

// Update handles PUT /locations/:id
func (h *LocationHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req orgapp.UpdateLocationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	location, err := h.locationService.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

// Delete handles DELETE /locations/:id
func (h *LocationHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.locationService.Delete(c.Request.Context(), actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// FinancialYearHandler handles financial year endpoints
type FinancialYearHandler struct {
	BaseHandler
	yearService *orgapp.FinancialYearService
}

// NewFinancialYearHandler creates a new FinancialYearHandler
func NewFinancialYearHandler(yearService *orgapp.FinancialYearService) *FinancialYearHandler {
	return &FinancialYearHandler{yearService: yearService}
}

// Create handles POST /financial-years
func (h *FinancialYearHandler) Create(c *gin.Context) {
	var req orgapp.CreateFinancialYearRequest
	if !h.BindJSON(c, &req) {
		return
	}
	year, err := h.yearService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, year)
}

// List handles GET /financial-years/:companyId
func (h *FinancialYearHandler) List(c *gin.Context) {
	companyID, ok := h.ParamUUID(c, "companyId")
	if !ok {
		return
	}
	var filter orgapp.FinancialYearListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	years, total, err := h.yearService.List(c.Request.Context(), actor(c), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, years, total, filter.Page, filter.PageSize)
}

// Update handles PUT /financial-years/:id
func (h *FinancialYearHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req orgapp.UpdateFinancialYearRequest
	if !h.BindJSON(c, &req) {
		return
	}
	year, err := h.yearService.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, year)
}

// Delete handles DELETE /financial-years/:id
func (h *FinancialYearHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.yearService.Delete(c.Request.Context(), actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
