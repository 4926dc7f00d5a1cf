package handler

import (
	partnerapp "github.com/erp/ledger/internal/application/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// ProfileHandler handles customer and supplier profile endpoints
type ProfileHandler struct {
	BaseHandler
	profileService *partnerapp.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *partnerapp.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Create handles POST /profiles
func (h *ProfileHandler) Create(c *gin.Context) {
	var req partnerapp.CreateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}
	profile, err := h.profileService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, profile)
}

// GetByID handles GET /profiles/:companyId/:id
func (h *ProfileHandler) GetByID(c *gin.Context) {
	companyID, ok := h.ParamUUID(c, "companyId")
	if !ok {
		return
	}
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	profile, err := h.profileService.GetByID(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if profile.CompanyID != companyID {
		h.HandleError(c, shared.NotFound("profile"))
		return
	}
	h.Success(c, profile)
}

// List handles GET /profiles/:companyId
func (h *ProfileHandler) List(c *gin.Context) {
	companyID, ok := h.ParamUUID(c, "companyId")
	if !ok {
		return
	}
	var filter partnerapp.ProfileListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	profiles, total, err := h.profileService.List(c.Request.Context(), actor(c), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, profiles, total, filter.Page, filter.PageSize)
}

// Update handles PUT /profiles/:id
func (h *ProfileHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}
	profile, err := h.profileService.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// Delete handles DELETE /profiles/:id
func (h *ProfileHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.profileService.Delete(c.Request.Context(), actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GodownHandler handles godown endpoints
type GodownHandler struct {
	BaseHandler
	godownService *partnerapp.GodownService
}

// NewGodownHandler creates a new GodownHandler
func NewGodownHandler(godownService *partnerapp.GodownService) *GodownHandler {
	return &GodownHandler{godownService: godownService}
}

// Create handles POST /godowns
func (h *GodownHandler) Create(c *gin.Context) {
	var req partnerapp.CreateGodownRequest
	if !h.BindJSON(c, &req) {
		return
	}
	godown, err := h.godownService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, godown)
}

// List handles GET /godowns/:companyId
func (h *GodownHandler) List(c *gin.Context) {
	companyID, ok := h.ParamUUID(c, "companyId")
	if !ok {
		return
	}
	var filter partnerapp.GodownListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	godowns, total, err := h.godownService.List(c.Request.Context(), actor(c), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, godowns, total, filter.Page, filter.PageSize)
}

// Update handles PUT /godowns/:id
func (h *GodownHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateGodownRequest
	if !h.BindJSON(c, &req) {
		return
	}
	godown, err := h.godownService.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, godown)
}

// Delete handles DELETE /godowns/:id
func (h *GodownHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.godownService.Delete(c.Request.Context(), actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
