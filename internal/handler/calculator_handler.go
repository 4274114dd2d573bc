package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
	"github.com/Maxx-Protein/compliance-companion/internal/tax"
)

// CalculatorHandler exposes the stateless tax calculators.
type CalculatorHandler struct {
	calculatorService service.CalculatorService
}

// NewCalculatorHandler creates a new CalculatorHandler.
func NewCalculatorHandler(calculatorService service.CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{calculatorService: calculatorService}
}

type gstRequest struct {
	BaseAmount    float64 `json:"base_amount"`
	GSTRate       string  `json:"gst_rate" binding:"required"`
	SellerState   string  `json:"seller_state"`
	CustomerState string  `json:"customer_state"`
}

type tcsRequest struct {
	SaleAmount float64 `json:"sale_amount"`
	OnlineSale bool    `json:"online_sale"`
}

type invoicePreviewRequest struct {
	Items          []domain.LineItem `json:"items"`
	DiscountAmount float64           `json:"discount_amount"`
	SellerState    string            `json:"seller_state"`
	CustomerState  string            `json:"customer_state"`
}

// GST handles POST /api/v1/calculators/gst
func (h *CalculatorHandler) GST(c *gin.Context) {
	var req gstRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	quote, err := h.calculatorService.GST(c.Request.Context(), service.GSTInput{
		BaseAmount:    req.BaseAmount,
		GSTRate:       req.GSTRate,
		SellerState:   req.SellerState,
		CustomerState: req.CustomerState,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, quote)
}

// TCS handles POST /api/v1/calculators/tcs
func (h *CalculatorHandler) TCS(c *gin.Context) {
	var req tcsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.calculatorService.TCS(c.Request.Context(), service.TCSInput{SaleAmount: req.SaleAmount, Online: req.OnlineSale})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// ITC handles POST /api/v1/calculators/itc
func (h *CalculatorHandler) ITC(c *gin.Context) {
	var req tax.ITCInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.calculatorService.ITC(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// PnL handles POST /api/v1/calculators/pnl
func (h *CalculatorHandler) PnL(c *gin.Context) {
	var req tax.PnLInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.calculatorService.PnL(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// Invoice handles POST /api/v1/calculators/invoice
func (h *CalculatorHandler) Invoice(c *gin.Context) {
	var req invoicePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	preview, err := h.calculatorService.Invoice(c.Request.Context(), &service.InvoicePreviewInput{
		Items:         req.Items,
		Discount:      req.DiscountAmount,
		SellerState:   req.SellerState,
		CustomerState: req.CustomerState,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, preview)
}
