package handler_test

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Maxx-Protein/compliance-companion/internal/csvimport"
	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/handler"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
	"github.com/Maxx-Protein/compliance-companion/internal/tax"
	"github.com/Maxx-Protein/compliance-companion/mocks"
)

func newInvoiceHandler() (*handler.InvoiceHandler, *mocks.MockInvoiceService) {
	svc := new(mocks.MockInvoiceService)
	return handler.NewInvoiceHandler(svc), svc
}

func TestInvoiceHandler_Create(t *testing.T) {
	h, svc := newInvoiceHandler()
	userID := uuid.New()

	svc.On("Create", mock.Anything, mock.MatchedBy(func(in *service.InvoiceInput) bool {
		return in.UserID == userID &&
			in.CustomerName == "Acme Retail" &&
			in.InvoiceDate != nil && in.InvoiceDate.Equal(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)) &&
			len(in.Items) == 1 && in.Items[0].GSTRate == "18%"
	})).Return(&service.InvoiceResult{
		Invoice:  &domain.Invoice{InvoiceNumber: "INV-0001", TotalAmount: 1180},
		Warnings: []tax.Warning{},
	}, nil)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"invoice_date":  "2024-03-05",
		"customer_name": "Acme Retail",
		"items": []map[string]interface{}{
			{"product_name": "Whey", "hsn_code": "2106", "quantity": 1, "rate": 1000, "gst_rate": "18%"},
		},
	})
	setAuthContext(c, userID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataMap(t, w)
	inv, ok := data["invoice"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "INV-0001", inv["invoice_number"])
	svc.AssertExpectations(t)
}

func TestInvoiceHandler_Create_BadDate(t *testing.T) {
	h, svc := newInvoiceHandler()

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"invoice_date":  "05/03/2024",
		"customer_name": "Acme Retail",
	})
	setAuthContext(c, uuid.New())

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceHandler_Create_Unauthenticated(t *testing.T) {
	h, _ := newInvoiceHandler()
	c, w := newJSONContext(t, http.MethodPost, "/api/v1/invoices", map[string]interface{}{})

	h.Create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInvoiceHandler_Update_Immutable(t *testing.T) {
	h, svc := newInvoiceHandler()
	userID, invoiceID := uuid.New(), uuid.New()

	svc.On("Update", mock.Anything, mock.MatchedBy(func(in *service.UpdateInvoiceInput) bool {
		return in.InvoiceID == invoiceID && in.UserID == userID
	})).Return(nil, domain.ErrInvoiceImmutable)

	c, w := newJSONContext(t, http.MethodPut, "/api/v1/invoices/"+invoiceID.String(), map[string]interface{}{
		"customer_name": "Acme Retail",
	})
	c.Params = gin.Params{{Key: "id", Value: invoiceID.String()}}
	setAuthContext(c, userID)

	h.Update(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVOICE_IMMUTABLE", decode(t, w).Error.Code)
}

func TestInvoiceHandler_GetByID(t *testing.T) {
	h, svc := newInvoiceHandler()
	userID, invoiceID := uuid.New(), uuid.New()

	svc.On("GetByID", mock.Anything, userID, invoiceID).Return(&domain.Invoice{ID: invoiceID, InvoiceNumber: "INV-0002"}, nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/invoices/"+invoiceID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: invoiceID.String()}}
	setAuthContext(c, userID)

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "INV-0002", dataMap(t, w)["invoice_number"])
}

func TestInvoiceHandler_GetByID_InvalidID(t *testing.T) {
	h, _ := newInvoiceHandler()

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/invoices/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	setAuthContext(c, uuid.New())

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decode(t, w).Error.Code)
}

func TestInvoiceHandler_GetByID_NotFound(t *testing.T) {
	h, svc := newInvoiceHandler()
	userID, invoiceID := uuid.New(), uuid.New()

	svc.On("GetByID", mock.Anything, userID, invoiceID).Return(nil, domain.ErrInvoiceNotFound)

	c, w := newJSONContext(t, http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: invoiceID.String()}}
	setAuthContext(c, userID)

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvoiceHandler_List(t *testing.T) {
	h, svc := newInvoiceHandler()
	userID := uuid.New()

	svc.On("List", mock.Anything, userID, 10, 20).
		Return([]domain.Invoice{{InvoiceNumber: "INV-0011"}}, 11, nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/invoices?offset=10&limit=500", nil)
	setAuthContext(c, userID)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 11, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
}

func TestInvoiceHandler_ExportCSV(t *testing.T) {
	h, svc := newInvoiceHandler()
	userID := uuid.New()

	svc.On("ExportCSV", mock.Anything, userID, mock.Anything).
		Run(func(args mock.Arguments) {
			w := args.Get(2).(io.Writer)
			_, _ = io.WriteString(w, "invoice_number,invoice_date\nINV-0001,2024-03-05\n")
		}).
		Return(nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/invoices/export", nil)
	setAuthContext(c, userID)

	h.ExportCSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoices_")
	assert.True(t, strings.HasPrefix(w.Body.String(), "invoice_number"))
}

func TestInvoiceHandler_DownloadPDF(t *testing.T) {
	h, svc := newInvoiceHandler()
	userID, invoiceID := uuid.New(), uuid.New()

	svc.On("RenderPDF", mock.Anything, userID, invoiceID).
		Return(&service.InvoicePDF{Filename: "INV-0005.pdf", Content: []byte("%PDF-1.3")}, nil)

	c, w := newJSONContext(t, http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: invoiceID.String()}}
	setAuthContext(c, userID)

	h.DownloadPDF(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "INV-0005.pdf")
}

func TestInvoiceHandler_ImportCSV(t *testing.T) {
	h, svc := newInvoiceHandler()
	userID := uuid.New()
	csvBody := "invoice_number,customer_name,customer_state,subtotal\nINV-9,Acme,Goa,100\n"

	var uploaded string
	svc.On("ImportCSV", mock.Anything, userID, mock.Anything).
		Run(func(args mock.Arguments) {
			raw, _ := io.ReadAll(args.Get(2).(io.Reader))
			uploaded = string(raw)
		}).Return(&service.ImportResult{Imported: 1}, nil)

	c, w := newUploadContext(t, "/api/v1/invoices/import", "file", csvBody)
	setAuthContext(c, userID)

	h.ImportCSV(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(1), dataMap(t, w)["imported"])
	assert.Equal(t, csvBody, uploaded)
	svc.AssertExpectations(t)
}

func TestInvoiceHandler_ImportCSV_NoFile(t *testing.T) {
	h, svc := newInvoiceHandler()

	c, w := newUploadContext(t, "/api/v1/invoices/import", "", "")
	setAuthContext(c, uuid.New())

	h.ImportCSV(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", decode(t, w).Error.Code)
	svc.AssertNotCalled(t, "ImportCSV", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceHandler_ImportCSV_NoValidRows(t *testing.T) {
	h, svc := newInvoiceHandler()
	userID := uuid.New()

	svc.On("ImportCSV", mock.Anything, userID, mock.Anything).Return(&service.ImportResult{
		Skipped: []csvimport.RowError{{Line: 2, Message: "subtotal is required"}},
	}, domain.ErrNoValidRows)

	c, w := newUploadContext(t, "/api/v1/invoices/import", "file", "invoice_number\n")
	setAuthContext(c, userID)

	h.ImportCSV(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NO_VALID_ROWS", resp.Error.Code)
	assert.Equal(t, []csvimport.RowError{{Line: 2, Message: "subtotal is required"}}, resp.Error.Rows)
}

func TestInvoiceHandler_ImportCSV_MissingColumns(t *testing.T) {
	h, svc := newInvoiceHandler()
	userID := uuid.New()

	svc.On("ImportCSV", mock.Anything, userID, mock.Anything).
		Return(nil, fmt.Errorf("%w: customer_state", domain.ErrMissingColumns))

	c, w := newUploadContext(t, "/api/v1/invoices/import", "file", "invoice_number,customer_name\n")
	setAuthContext(c, userID)

	h.ImportCSV(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "customer_state")
}
