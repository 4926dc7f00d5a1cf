package handler

import (
	catalogapp "github.com/erp/ledger/internal/application/catalog"
	"github.com/erp/ledger/internal/application/common"
	geoapp "github.com/erp/ledger/internal/application/geo"
	"github.com/gin-gonic/gin"
)

// UnitHandler handles unit of measure endpoints
type UnitHandler struct {
	BaseHandler
	unitService *catalogapp.UnitService
}

// NewUnitHandler creates a new UnitHandler
func NewUnitHandler(unitService *catalogapp.UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

// Create handles POST /units
func (h *UnitHandler) Create(c *gin.Context) {
	var req catalogapp.CreateUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}
	unit, err := h.unitService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, unit)
}

// List handles GET /units/:companyId
func (h *UnitHandler) List(c *gin.Context) {
	companyID, ok := h.ParamUUID(c, "companyId")
	if !ok {
		return
	}
	var query common.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	units, total, err := h.unitService.List(c.Request.Context(), actor(c), companyID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, units, total, query.Page, query.PageSize)
}

// Update handles PUT /units/:id
func (h *UnitHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}
	unit, err := h.unitService.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// Delete handles DELETE /units/:id
func (h *UnitHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.unitService.Delete(c.Request.Context(), actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegionHandler handles province and city endpoints
type RegionHandler struct {
	BaseHandler
	regionService *geoapp.RegionService
}

// NewRegionHandler creates a new RegionHandler
func NewRegionHandler(regionService *geoapp.RegionService) *RegionHandler {
	return &RegionHandler{regionService: regionService}
}

// CreateProvince handles POST /provinces
func (h *RegionHandler) CreateProvince(c *gin.Context) {
	var req geoapp.CreateProvinceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	province, err := h.regionService.CreateProvince(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, province)
}

// ListProvinces handles GET /provinces/:companyId
func (h *RegionHandler) ListProvinces(c *gin.Context) {
	companyID, ok := h.ParamUUID(c, "companyId")
	if !ok {
		return
	}
	var query common.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	provinces, total, err := h.regionService.ListProvinces(c.Request.Context(), actor(c), companyID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, provinces, total, query.Page, query.PageSize)
}

// UpdateProvince handles PUT /provinces/:id
func (h *RegionHandler) UpdateProvince(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req geoapp.UpdateRegionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	province, err := h.regionService.UpdateProvince(c.Request.Context(), actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, province)
}

// DeleteProvince handles DELETE /provinces/:id
func (h *RegionHandler) DeleteProvince(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.regionService.DeleteProvince(c.Request.Context(), actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateCity handles POST /cities
func (h *RegionHandler) CreateCity(c *gin.Context) {
	var req geoapp.CreateCityRequest
	if !h.BindJSON(c, &req) {
		return
	}
	city, err := h.regionService.CreateCity(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, city)
}

// ListCities handles GET /cities/:companyId
func (h *RegionHandler) ListCities(c *gin.Context) {
	companyID, ok := h.ParamUUID(c, "companyId")
	if !ok {
		return
	}
	var filter geoapp.CityListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	cities, total, err := h.regionService.ListCities(c.Request.Context(), actor(c), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, cities, total, filter.Page, filter.PageSize)
}

// UpdateCity handles PUT /cities/:id
func (h *RegionHandler) UpdateCity(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req geoapp.UpdateRegionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	city, err := h.regionService.UpdateCity(c.Request.Context(), actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, city)
}

// DeleteCity handles DELETE /cities/:id
func (h *RegionHandler) DeleteCity(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.regionService.DeleteCity(c.Request.Context(), actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
