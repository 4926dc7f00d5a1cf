package handler

import (
	voucherapp "github.com/erp/ledger/internal/application/voucher"
	"github.com/gin-gonic/gin"
)

// VoucherHandler handles voucher endpoints
type VoucherHandler struct {
	BaseHandler
	voucherService *voucherapp.Service
}

// NewVoucherHandler creates a new VoucherHandler
func NewVoucherHandler(voucherService *voucherapp.Service) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherService}
}

// Create handles POST /vouchers. The voucher starts as a draft.
func (h *VoucherHandler) Create(c *gin.Context) {
	var req voucherapp.CreateVoucherRequest
	if !h.BindJSON(c, &req) {
		return
	}
	v, err := h.voucherService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, v)
}

// GetByID handles GET /vouchers/:companyId/:id
func (h *VoucherHandler) GetByID(c *gin.Context) {
	companyID, ok := h.ParamUUID(c, "companyId")
	if !ok {
		return
	}
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	v, err := h.voucherService.GetByID(c.Request.Context(), actor(c), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, v)
}

// List handles GET /vouchers/:companyId
func (h *VoucherHandler) List(c *gin.Context) {
	companyID, ok := h.ParamUUID(c, "companyId")
	if !ok {
		return
	}
	var filter voucherapp.VoucherListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	vouchers, total, err := h.voucherService.List(c.Request.Context(), actor(c), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, vouchers, total, filter.Page, filter.PageSize)
}

// Update handles PUT /vouchers/:id
func (h *VoucherHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req voucherapp.UpdateVoucherRequest
	if !h.BindJSON(c, &req) {
		return
	}
	v, err := h.voucherService.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, v)
}

// Post handles POST /vouchers/:id/post
func (h *VoucherHandler) Post(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	v, err := h.voucherService.Post(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, v)
}

// Delete handles DELETE /vouchers/:id
func (h *VoucherHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.voucherService.Delete(c.Request.Context(), actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
