package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Maxx-Protein/compliance-companion/internal/csvexport"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
)

// ProductHandler handles the product catalog endpoints.
type ProductHandler struct {
	productService service.ProductService
	now            func() time.Time
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, now: time.Now}
}

type productRequest struct {
	ProductName          string   `json:"product_name" binding:"required"`
	HSNCode              string   `json:"hsn_code" binding:"required"`
	GSTRate              string   `json:"gst_rate"`
	UnitPrice            *float64 `json:"unit_price"`
	Category             string   `json:"category"`
	SKU                  string   `json:"sku"`
	BISCertified         bool     `json:"bis_certified"`
	BISCertificateNumber string   `json:"bis_certificate_number"`
	BISExpiryDate        string   `json:"bis_expiry_date"`
}

func (r *productRequest) toInput(userID uuid.UUID) (*service.ProductInput, error) {
	input := &service.ProductInput{
		UserID:               userID,
		ProductName:          r.ProductName,
		HSNCode:              r.HSNCode,
		GSTRate:              r.GSTRate,
		UnitPrice:            r.UnitPrice,
		Category:             r.Category,
		SKU:                  r.SKU,
		BISCertified:         r.BISCertified,
		BISCertificateNumber: r.BISCertificateNumber,
	}
	if r.BISExpiryDate != "" {
		d, err := time.Parse(dateLayout, r.BISExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("invalid 'bis_expiry_date': must be YYYY-MM-DD")
		}
		input.BISExpiryDate = &d
	}
	return input, nil
}

// bind reads the JSON body into a ProductInput, writing a 400 on failure.
func (h *ProductHandler) bind(c *gin.Context, userID uuid.UUID) (*service.ProductInput, bool) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return nil, false
	}
	input, err := req.toInput(userID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return nil, false
	}
	return input, true
}

func productID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid product ID")
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	input, ok := h.bind(c, userID)
	if !ok {
		return
	}

	p, err := h.productService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, p)
}

// Update handles PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}
	input, ok := h.bind(c, userID)
	if !ok {
		return
	}

	p, err := h.productService.Update(c.Request.Context(), &service.UpdateProductInput{
		ProductID:    id,
		ProductInput: *input,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, p)
}

// GetByID handles GET /api/v1/products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}

	p, err := h.productService.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, p)
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	products, total, err := h.productService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, products, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Delete handles DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), userID, id); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportCSV handles GET /api/v1/products/export
func (h *ProductHandler) ExportCSV(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.productService.ExportCSV(c.Request.Context(), userID, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename("products", "csv", h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ImportCSV handles POST /api/v1/products/import
func (h *ProductHandler) ImportCSV(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	file, ok := uploadedCSV(c)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	res, err := h.productService.ImportCSV(c.Request.Context(), userID, file)
	respondImport(c, res, err)
}
