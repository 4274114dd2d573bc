package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Maxx-Protein/compliance-companion/internal/csvexport"
	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/pdf"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
)

const dateLayout = "2006-01-02"

// InvoiceHandler handles invoice endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	now            func() time.Time
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, now: time.Now}
}

type invoiceRequest struct {
	InvoiceDate    string               `json:"invoice_date"`
	CustomerName   string               `json:"customer_name"`
	CustomerGSTIN  string               `json:"customer_gstin"`
	CustomerState  string               `json:"customer_state"`
	PlaceOfSupply  string               `json:"place_of_supply"`
	Items          []domain.LineItem    `json:"items"`
	DiscountAmount float64              `json:"discount_amount"`
	InvoiceStatus  domain.InvoiceStatus `json:"invoice_status"`
	PaymentStatus  domain.PaymentStatus `json:"payment_status"`
	Notes          string               `json:"notes"`
}

func (r *invoiceRequest) toInput(userID uuid.UUID) (*service.InvoiceInput, error) {
	input := &service.InvoiceInput{
		UserID:         userID,
		CustomerName:   r.CustomerName,
		CustomerGSTIN:  r.CustomerGSTIN,
		CustomerState:  r.CustomerState,
		PlaceOfSupply:  r.PlaceOfSupply,
		Items:          r.Items,
		DiscountAmount: r.DiscountAmount,
		InvoiceStatus:  r.InvoiceStatus,
		PaymentStatus:  r.PaymentStatus,
		Notes:          r.Notes,
	}
	if r.InvoiceDate != "" {
		d, err := time.Parse(dateLayout, r.InvoiceDate)
		if err != nil {
			return nil, fmt.Errorf("invalid 'invoice_date': must be YYYY-MM-DD")
		}
		input.InvoiceDate = &d
	}
	return input, nil
}

// Create handles POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	input, err := req.toInput(userID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.invoiceService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, res)
}

// Update handles PUT /api/v1/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return
	}
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	input, err := req.toInput(userID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.invoiceService.Update(c.Request.Context(), &service.UpdateInvoiceInput{
		InvoiceID:    invoiceID,
		InvoiceInput: *input,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// GetByID handles GET /api/v1/invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return
	}

	inv, err := h.invoiceService.GetByID(c.Request.Context(), userID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

// List handles GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	invoices, total, err := h.invoiceService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ExportCSV handles GET /api/v1/invoices/export
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.invoiceService.ExportCSV(c.Request.Context(), userID, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename("invoices", "csv", h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ImportCSV handles POST /api/v1/invoices/import
func (h *InvoiceHandler) ImportCSV(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	file, ok := uploadedCSV(c)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	res, err := h.invoiceService.ImportCSV(c.Request.Context(), userID, file)
	respondImport(c, res, err)
}

// DownloadPDF handles GET /api/v1/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return
	}

	doc, err := h.invoiceService.RenderPDF(c.Request.Context(), userID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, pdf.ContentType, doc.Content)
}
