package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
)

// FilingHandler handles monthly filing endpoints.
type FilingHandler struct {
	filingService service.FilingService
}

// NewFilingHandler creates a new FilingHandler.
func NewFilingHandler(filingService service.FilingService) *FilingHandler {
	return &FilingHandler{filingService: filingService}
}

type filingRequest struct {
	GSTLiability   float64    `json:"gst_liability"`
	ITCClaimed     float64    `json:"itc_claimed"`
	NetPayable     float64    `json:"net_payable"`
	TotalSales     float64    `json:"total_sales"`
	TotalPurchases float64    `json:"total_purchases"`
	TCSLiability   float64    `json:"tcs_liability"`
	FilingDeadline *time.Time `json:"filing_deadline"`
}

type filingStatusRequest struct {
	ReturnType domain.ReturnType `json:"return_type" binding:"required"`
	Filed      bool              `json:"filed"`
	FiledDate  *time.Time        `json:"filed_date"`
}

// Upsert handles PUT /api/v1/filings/:month
func (h *FilingHandler) Upsert(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	var req filingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.filingService.Upsert(c.Request.Context(), &service.UpsertFilingInput{
		UserID:         userID,
		FinancialMonth: c.Param("month"),
		GSTLiability:   req.GSTLiability,
		ITCClaimed:     req.ITCClaimed,
		NetPayable:     req.NetPayable,
		TotalSales:     req.TotalSales,
		TotalPurchases: req.TotalPurchases,
		TCSLiability:   req.TCSLiability,
		FilingDeadline: req.FilingDeadline,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// UpdateStatus handles PATCH /api/v1/filings/:month/status
func (h *FilingHandler) UpdateStatus(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	var req filingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	rec, err := h.filingService.UpdateStatus(c.Request.Context(), &service.UpdateFilingStatusInput{
		UserID:         userID,
		FinancialMonth: c.Param("month"),
		ReturnType:     req.ReturnType,
		Filed:          req.Filed,
		FiledDate:      req.FiledDate,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rec)
}

// Get handles GET /api/v1/filings/:month
func (h *FilingHandler) Get(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	rec, err := h.filingService.Get(c.Request.Context(), userID, c.Param("month"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rec)
}

// List handles GET /api/v1/filings
func (h *FilingHandler) List(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	recs, err := h.filingService.List(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, recs)
}
