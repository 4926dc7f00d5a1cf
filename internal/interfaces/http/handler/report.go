package handler

import (
	reportapp "github.com/erp/ledger/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	BaseHandler
	trialBalanceService *reportapp.TrialBalanceService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(trialBalanceService *reportapp.TrialBalanceService) *ReportHandler {
	return &ReportHandler{trialBalanceService: trialBalanceService}
}

// TrialBalance handles GET /reports/trial-balance/:companyId
func (h *ReportHandler) TrialBalance(c *gin.Context) {
	companyID, ok := h.ParamUUID(c, "companyId")
	if !ok {
		return
	}
	var query reportapp.TrialBalanceQuery
	if !h.BindQuery(c, &query) {
		return
	}
	report, err := h.trialBalanceService.Get(c.Request.Context(), actor(c), companyID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
