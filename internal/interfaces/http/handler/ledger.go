package handler

import (
	ledgerapp "github.com/erp/ledger/internal/application/ledger"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/gin-gonic/gin"
)

// AccountHandler serves one level of the chart of accounts. The four
// levels share a service and differ only in the level they are bound to.
type AccountHandler struct {
	BaseHandler
	level          int
	accountService *ledgerapp.AccountService
}

// NewAccountHandler creates an AccountHandler bound to level 1-4
func NewAccountHandler(accountService *ledgerapp.AccountService, level int) *AccountHandler {
	return &AccountHandler{level: level, accountService: accountService}
}

// Level returns the account level this handler serves
func (h *AccountHandler) Level() int {
	return h.level
}

// Create handles POST /account-levelN
func (h *AccountHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	account, err := h.accountService.Create(c.Request.Context(), actor(c), h.level, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// List handles GET /account-levelN/:companyId
func (h *AccountHandler) List(c *gin.Context) {
	companyID, ok := h.ParamUUID(c, "companyId")
	if !ok {
		return
	}
	var filter ledgerapp.AccountListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	accounts, total, err := h.accountService.List(c.Request.Context(), actor(c), h.level, companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, accounts, total, filter.Page, filter.PageSize)
}

// Update handles PUT /account-levelN/:id
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.UpdateAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	account, err := h.accountService.Update(c.Request.Context(), actor(c), h.level, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Delete handles DELETE /account-levelN/:id
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.accountService.Delete(c.Request.Context(), actor(c), h.level, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CostCenterHandler serves parent or child cost centers
type CostCenterHandler struct {
	BaseHandler
	kind              ledger.CostCenterKind
	costCenterService *ledgerapp.CostCenterService
}

// NewCostCenterHandler creates a CostCenterHandler bound to kind
func NewCostCenterHandler(costCenterService *ledgerapp.CostCenterService, kind ledger.CostCenterKind) *CostCenterHandler {
	return &CostCenterHandler{kind: kind, costCenterService: costCenterService}
}

// Create handles POST /{parent,child}-cost-centers
func (h *CostCenterHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateCostCenterRequest
	if !h.BindJSON(c, &req) {
		return
	}
	center, err := h.costCenterService.Create(c.Request.Context(), actor(c), h.kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, center)
}

// List handles GET /{parent,child}-cost-centers/:companyId
func (h *CostCenterHandler) List(c *gin.Context) {
	companyID, ok := h.ParamUUID(c, "companyId")
	if !ok {
		return
	}
	var filter ledgerapp.CostCenterListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	centers, total, err := h.costCenterService.List(c.Request.Context(), actor(c), h.kind, companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, centers, total, filter.Page, filter.PageSize)
}

// Update handles PUT /{parent,child}-cost-centers/:id
func (h *CostCenterHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.UpdateCostCenterRequest
	if !h.BindJSON(c, &req) {
		return
	}
	center, err := h.costCenterService.Update(c.Request.Context(), actor(c), h.kind, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, center)
}

// Delete handles DELETE /{parent,child}-cost-centers/:id
func (h *CostCenterHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.costCenterService.Delete(c.Request.Context(), actor(c), h.kind, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
