package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
	"github.com/Maxx-Protein/compliance-companion/internal/tax"
	"github.com/Maxx-Protein/compliance-companion/mocks"
)

func setupInvoiceService() (service.InvoiceService, *mocks.MockInvoiceRepo, *mocks.MockSellerProfileRepo) {
	svc, invoiceRepo, profileRepo, _ := setupInvoiceServiceWithCatalog()
	return svc, invoiceRepo, profileRepo
}

func setupInvoiceServiceWithCatalog() (service.InvoiceService, *mocks.MockInvoiceRepo, *mocks.MockSellerProfileRepo, *mocks.MockProductRepo) {
	invoiceRepo := new(mocks.MockInvoiceRepo)
	profileRepo := new(mocks.MockSellerProfileRepo)
	productRepo := new(mocks.MockProductRepo)
	svc := service.NewInvoiceService(invoiceRepo, profileRepo, productRepo, nil, time.UTC)
	return svc, invoiceRepo, profileRepo, productRepo
}

func wheyInput(userID uuid.UUID, customerState string) *service.InvoiceInput {
	return &service.InvoiceInput{
		UserID:        userID,
		CustomerName:  "Acme Retail",
		CustomerState: customerState,
		Items: []domain.LineItem{
			{ProductName: "Whey Protein", HSNCode: "2106", Quantity: 2, Rate: 1000, GSTRate: "18%"},
			{ProductName: "Shaker", HSNCode: "3924", Quantity: 1, Rate: 500, GSTRate: "12%"},
		},
		DiscountAmount: 100,
	}
}

func TestInvoiceService_Create_Intrastate(t *testing.T) {
	svc, invoiceRepo, profileRepo := setupInvoiceService()
	userID := uuid.New()

	profileRepo.On("GetByUserID", mock.Anything, userID).
		Return(&domain.SellerProfile{UserID: userID, State: "Maharashtra"}, nil)
	invoiceRepo.On("CountByUser", mock.Anything, userID).Return(6, nil)
	invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)

	res, err := svc.Create(context.Background(), wheyInput(userID, "maharashtra"))

	require.NoError(t, err)
	inv := res.Invoice
	assert.Equal(t, "INV-0007", inv.InvoiceNumber)
	assert.Equal(t, "Maharashtra", inv.SellerState)
	assert.Equal(t, "maharashtra", inv.PlaceOfSupply)
	assert.Equal(t, 2500.0, inv.Subtotal)
	assert.Equal(t, 210.0, inv.CGSTAmount)
	assert.Equal(t, 210.0, inv.SGSTAmount)
	assert.Zero(t, inv.IGSTAmount)
	assert.Equal(t, 25.0, inv.TCSDeducted)
	assert.Equal(t, 2820.0, inv.TotalAmount)
	assert.Equal(t, 2000.0, inv.Items[0].Amount)
	assert.Equal(t, domain.InvoiceStatusDraft, inv.InvoiceStatus)
	assert.Equal(t, domain.PaymentStatusUnpaid, inv.PaymentStatus)
	assert.Nil(t, inv.IssuedAt)
	assert.False(t, inv.InvoiceDate.IsZero())
	assert.Empty(t, res.Warnings)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Create_InterstateFromAddress(t *testing.T) {
	svc, invoiceRepo, profileRepo := setupInvoiceService()
	userID := uuid.New()

	profileRepo.On("GetByUserID", mock.Anything, userID).
		Return(&domain.SellerProfile{UserID: userID, RegisteredAddress: "12 MG Road, Pune, Maharashtra"}, nil)
	invoiceRepo.On("CountByUser", mock.Anything, userID).Return(0, nil)
	invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)

	input := wheyInput(userID, "Karnataka")
	input.InvoiceStatus = domain.InvoiceStatusIssued
	res, err := svc.Create(context.Background(), input)

	require.NoError(t, err)
	inv := res.Invoice
	assert.Equal(t, "INV-0001", inv.InvoiceNumber)
	assert.Equal(t, "Maharashtra", inv.SellerState)
	assert.Equal(t, 420.0, inv.IGSTAmount)
	assert.Zero(t, inv.CGSTAmount)
	assert.NotNil(t, inv.IssuedAt)
}

func TestInvoiceService_Create_NoProfileIsIntrastate(t *testing.T) {
	svc, invoiceRepo, profileRepo := setupInvoiceService()
	userID := uuid.New()

	profileRepo.On("GetByUserID", mock.Anything, userID).Return(nil, domain.ErrProfileNotFound)
	invoiceRepo.On("CountByUser", mock.Anything, userID).Return(0, nil)
	invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)

	res, err := svc.Create(context.Background(), wheyInput(userID, "Karnataka"))

	require.NoError(t, err)
	assert.Empty(t, res.Invoice.SellerState)
	assert.Zero(t, res.Invoice.IGSTAmount)
	assert.Equal(t, 210.0, res.Invoice.CGSTAmount)
}

func TestInvoiceService_Create_RetriesTakenNumber(t *testing.T) {
	svc, invoiceRepo, profileRepo := setupInvoiceService()
	userID := uuid.New()

	profileRepo.On("GetByUserID", mock.Anything, userID).Return(nil, domain.ErrProfileNotFound)
	invoiceRepo.On("CountByUser", mock.Anything, userID).Return(2, nil)
	invoiceRepo.On("Create", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.InvoiceNumber == "INV-0003"
	})).Return(domain.ErrDuplicateInvoice).Once()
	invoiceRepo.On("Create", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.InvoiceNumber == "INV-0004"
	})).Return(nil).Once()

	res, err := svc.Create(context.Background(), wheyInput(userID, ""))

	require.NoError(t, err)
	assert.Equal(t, "INV-0004", res.Invoice.InvoiceNumber)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Create_NegativeTotalWarns(t *testing.T) {
	svc, invoiceRepo, profileRepo := setupInvoiceService()
	userID := uuid.New()

	profileRepo.On("GetByUserID", mock.Anything, userID).Return(nil, domain.ErrProfileNotFound)
	invoiceRepo.On("CountByUser", mock.Anything, userID).Return(0, nil)
	invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)

	input := wheyInput(userID, "")
	input.DiscountAmount = 5000
	res, err := svc.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, -2080.0, res.Invoice.TotalAmount)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, tax.WarningNegativeTotal, res.Warnings[0].Code)
}

func TestInvoiceService_Create_Validation(t *testing.T) {
	userID := uuid.New()
	tests := []struct {
		name   string
		mutate func(*service.InvoiceInput)
		want   error
	}{
		{"missing customer", func(in *service.InvoiceInput) { in.CustomerName = "  " }, domain.ErrMissingCustomer},
		{"no items", func(in *service.InvoiceInput) { in.Items = nil }, domain.ErrNoLineItems},
		{"bad status", func(in *service.InvoiceInput) { in.InvoiceStatus = "void" }, domain.ErrInvalidStatus},
		{"bad payment", func(in *service.InvoiceInput) { in.PaymentStatus = "partial" }, domain.ErrInvalidStatus},
		{"negative discount", func(in *service.InvoiceInput) { in.DiscountAmount = -1 }, domain.ErrNegativeDiscount},
		{"bad rate", func(in *service.InvoiceInput) { in.Items[1].GSTRate = "7%" }, domain.ErrInvalidGSTRate},
		{"negative quantity", func(in *service.InvoiceInput) { in.Items[0].Quantity = -1 }, domain.ErrNegativeQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, invoiceRepo, profileRepo := setupInvoiceService()
			profileRepo.On("GetByUserID", mock.Anything, userID).Return(nil, domain.ErrProfileNotFound).Maybe()

			input := wheyInput(userID, "")
			tt.mutate(input)
			res, err := svc.Create(context.Background(), input)

			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.want)
			invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestInvoiceService_Create_ItemErrorsNameIndex(t *testing.T) {
	svc, _, profileRepo := setupInvoiceService()
	userID := uuid.New()
	profileRepo.On("GetByUserID", mock.Anything, userID).Return(nil, domain.ErrProfileNotFound)

	input := wheyInput(userID, "")
	input.Items[1].GSTRate = "abc"
	_, err := svc.Create(context.Background(), input)

	var itemErrs tax.ItemErrors
	require.True(t, errors.As(err, &itemErrs))
	require.Len(t, itemErrs, 1)
	assert.Equal(t, 1, itemErrs[0].Index)
}

func TestInvoiceService_Update_Draft(t *testing.T) {
	svc, invoiceRepo, profileRepo := setupInvoiceService()
	userID, invoiceID := uuid.New(), uuid.New()
	existing := &domain.Invoice{
		ID:            invoiceID,
		UserID:        userID,
		InvoiceNumber: "INV-0003",
		InvoiceDate:   time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		InvoiceStatus: domain.InvoiceStatusDraft,
	}

	invoiceRepo.On("GetByID", mock.Anything, userID, invoiceID).Return(existing, nil)
	profileRepo.On("GetByUserID", mock.Anything, userID).Return(nil, domain.ErrProfileNotFound)
	invoiceRepo.On("Update", mock.Anything, existing).Return(nil)

	input := &service.UpdateInvoiceInput{InvoiceID: invoiceID, InvoiceInput: *wheyInput(userID, "")}
	input.InvoiceStatus = domain.InvoiceStatusIssued
	res, err := svc.Update(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "INV-0003", res.Invoice.InvoiceNumber)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), res.Invoice.InvoiceDate)
	assert.Equal(t, domain.InvoiceStatusIssued, res.Invoice.InvoiceStatus)
	assert.NotNil(t, res.Invoice.IssuedAt)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Update_IssuedIsImmutable(t *testing.T) {
	svc, invoiceRepo, _ := setupInvoiceService()
	userID, invoiceID := uuid.New(), uuid.New()

	invoiceRepo.On("GetByID", mock.Anything, userID, invoiceID).
		Return(&domain.Invoice{ID: invoiceID, InvoiceStatus: domain.InvoiceStatusIssued}, nil)

	input := &service.UpdateInvoiceInput{InvoiceID: invoiceID, InvoiceInput: *wheyInput(userID, "")}
	res, err := svc.Update(context.Background(), input)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrInvoiceImmutable)
	invoiceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvoiceService_ExportCSV(t *testing.T) {
	svc, invoiceRepo, _ := setupInvoiceService()
	userID := uuid.New()

	invoiceRepo.On("ListAllByUser", mock.Anything, userID).Return([]domain.Invoice{
		{
			InvoiceNumber: "INV-0001",
			InvoiceDate:   time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
			CustomerName:  "Acme Retail",
			CGSTAmount:    90,
			SGSTAmount:    90,
			TCSDeducted:   10,
			TotalAmount:   1180,
		},
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), userID, &buf))

	body := bytes.TrimPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF})
	rows, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"INV-0001", "2024-03-05", "Acme Retail", "1180.00", "180.00", "10.00"}, rows[1])
}

func TestInvoiceService_RenderPDF(t *testing.T) {
	svc, invoiceRepo, profileRepo := setupInvoiceService()
	userID, invoiceID := uuid.New(), uuid.New()

	invoiceRepo.On("GetByID", mock.Anything, userID, invoiceID).Return(&domain.Invoice{
		ID:            invoiceID,
		InvoiceNumber: "INV-0009",
		CustomerName:  "Acme Retail",
		Items:         domain.LineItems{{ProductName: "Whey", Quantity: 1, Rate: 100, GSTRate: "18%"}},
	}, nil)
	profileRepo.On("GetByUserID", mock.Anything, userID).Return(nil, domain.ErrProfileNotFound)

	doc, err := svc.RenderPDF(context.Background(), userID, invoiceID)

	require.NoError(t, err)
	assert.Equal(t, "INV-0009.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF")))
}

func TestInvoiceService_GetByID_NotFound(t *testing.T) {
	svc, invoiceRepo, _ := setupInvoiceService()
	userID, invoiceID := uuid.New(), uuid.New()

	invoiceRepo.On("GetByID", mock.Anything, userID, invoiceID).Return(nil, domain.ErrInvoiceNotFound)

	inv, err := svc.GetByID(context.Background(), userID, invoiceID)

	assert.Nil(t, inv)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestInvoiceService_Create_FillsItemsFromCatalog(t *testing.T) {
	svc, invoiceRepo, profileRepo, productRepo := setupInvoiceServiceWithCatalog()
	userID, productID := uuid.New(), uuid.New()
	price := 1000.0

	profileRepo.On("GetByUserID", mock.Anything, userID).Return(nil, domain.ErrProfileNotFound)
	productRepo.On("GetByID", mock.Anything, userID, productID).Return(&domain.Product{
		ID: productID, ProductName: "Whey Protein", HSNCode: "2106", GSTRate: "18%", UnitPrice: &price,
	}, nil).Once()
	invoiceRepo.On("CountByUser", mock.Anything, userID).Return(0, nil)
	invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)

	res, err := svc.Create(context.Background(), &service.InvoiceInput{
		UserID:       userID,
		CustomerName: "Acme Retail",
		Items: []domain.LineItem{
			{ProductID: &productID, Quantity: 2},
			{ProductID: &productID, Quantity: 1, Rate: 900, GSTRate: "12%"},
		},
	})

	require.NoError(t, err)
	items := res.Invoice.Items
	require.Len(t, items, 2)
	assert.Equal(t, "Whey Protein", items[0].ProductName)
	assert.Equal(t, "2106", items[0].HSNCode)
	assert.Equal(t, "18%", items[0].GSTRate)
	assert.Equal(t, 2000.0, items[0].Amount)
	assert.Equal(t, "12%", items[1].GSTRate, "caller fields win over catalog")
	assert.Equal(t, 900.0, items[1].Amount)
	assert.Equal(t, 2900.0, res.Invoice.Subtotal)
	productRepo.AssertExpectations(t)
}

func TestInvoiceService_Create_UnknownProduct(t *testing.T) {
	svc, _, profileRepo, productRepo := setupInvoiceServiceWithCatalog()
	userID, productID := uuid.New(), uuid.New()

	profileRepo.On("GetByUserID", mock.Anything, userID).Return(nil, domain.ErrProfileNotFound)
	productRepo.On("GetByID", mock.Anything, userID, productID).Return(nil, domain.ErrProductNotFound)

	_, err := svc.Create(context.Background(), &service.InvoiceInput{
		UserID:       userID,
		CustomerName: "Acme Retail",
		Items: []domain.LineItem{
			{ProductName: "Shaker", Quantity: 1, Rate: 100, GSTRate: "12%"},
			{ProductID: &productID, Quantity: 1},
		},
	})

	var itemErrs tax.ItemErrors
	require.True(t, errors.As(err, &itemErrs))
	require.Len(t, itemErrs, 1)
	assert.Equal(t, 1, itemErrs[0].Index)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

const invoiceImportCSV = `invoice_number,invoice_date,customer_name,customer_state,subtotal,cgst_amount,sgst_amount,igst_amount,discount_amount,gst_rate
INV-A,2024-03-05,Acme Retail,Maharashtra,1000,90,90,0,,
INV-B,,Beta Stores,Karnataka,500,,,60,20,12%
INV-C,,,Goa,100,,,,,
INV-D,,Delta,Maharashtra,1000,75,75,,,
INV-E,,Echo,Maharashtra,100,9,9,,,
`

func TestInvoiceService_ImportCSV(t *testing.T) {
	svc, invoiceRepo, profileRepo := setupInvoiceService()
	userID := uuid.New()

	profileRepo.On("GetByUserID", mock.Anything, userID).
		Return(&domain.SellerProfile{UserID: userID, State: "Maharashtra"}, nil)

	created := map[string]*domain.Invoice{}
	invoiceRepo.On("Create", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.InvoiceNumber == "INV-E"
	})).Return(domain.ErrDuplicateInvoice)
	invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).
		Run(func(args mock.Arguments) {
			inv := args.Get(1).(*domain.Invoice)
			created[inv.InvoiceNumber] = inv
		}).Return(nil)

	res, err := svc.ImportCSV(context.Background(), userID, strings.NewReader(invoiceImportCSV))

	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.Skipped, 3)
	assert.Equal(t, 4, res.Skipped[0].Line)
	assert.Equal(t, 5, res.Skipped[1].Line)
	assert.Contains(t, res.Skipped[1].Message, "no GST slab")
	assert.Equal(t, 6, res.Skipped[2].Line)
	assert.Equal(t, domain.ErrDuplicateInvoice.Error(), res.Skipped[2].Message)

	a := created["INV-A"]
	require.NotNil(t, a)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), a.InvoiceDate)
	assert.Equal(t, "18%", a.Items[0].GSTRate)
	assert.Equal(t, 90.0, a.CGSTAmount)
	assert.Equal(t, 90.0, a.SGSTAmount)
	assert.Equal(t, 10.0, a.TCSDeducted)
	assert.Equal(t, 1180.0, a.TotalAmount)
	assert.Equal(t, domain.InvoiceStatusIssued, a.InvoiceStatus)
	assert.Equal(t, domain.PaymentStatusUnpaid, a.PaymentStatus)
	assert.NotNil(t, a.IssuedAt)

	b := created["INV-B"]
	require.NotNil(t, b)
	assert.Equal(t, "Karnataka", b.PlaceOfSupply)
	assert.Equal(t, 60.0, b.IGSTAmount)
	assert.Zero(t, b.CGSTAmount)
	assert.Equal(t, 540.0, b.TotalAmount)
	assert.False(t, b.InvoiceDate.IsZero())
}

func TestInvoiceService_ImportCSV_MissingColumns(t *testing.T) {
	svc, _, _ := setupInvoiceService()

	_, err := svc.ImportCSV(context.Background(), uuid.New(),
		strings.NewReader("invoice_number,customer_name\nINV-1,Acme\n"))

	assert.ErrorIs(t, err, domain.ErrMissingColumns)
}

func TestInvoiceService_ImportCSV_NoValidRows(t *testing.T) {
	svc, _, profileRepo := setupInvoiceService()
	userID := uuid.New()
	profileRepo.On("GetByUserID", mock.Anything, userID).Return(nil, domain.ErrProfileNotFound)

	res, err := svc.ImportCSV(context.Background(), userID,
		strings.NewReader("invoice_number,customer_name,customer_state,subtotal\nINV-1,Acme,Goa,abc\n"))

	assert.ErrorIs(t, err, domain.ErrNoValidRows)
	require.NotNil(t, res)
	require.Len(t, res.Skipped, 1)
	assert.Contains(t, res.Skipped[0].Message, "not a number")
}
