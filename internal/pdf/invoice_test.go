package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/pdf"
)

func sampleInvoice() *domain.Invoice {
	return &domain.Invoice{
		InvoiceNumber: "INV-0007",
		InvoiceDate:   time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		CustomerName:  "Acme Retail",
		CustomerState: "Karnataka",
		SellerState:   "Maharashtra",
		Items: domain.LineItems{
			{ProductName: "Whey Protein", HSNCode: "2106", Quantity: 2, Rate: 1000, GSTRate: "18%"},
		},
		Subtotal:       2000,
		IGSTAmount:     360,
		DiscountAmount: 100,
		TCSDeducted:    20,
		TotalAmount:    2260,
		InvoiceStatus:  domain.InvoiceStatusIssued,
		Notes:          "Thank you for your business",
	}
}

func TestRenderInvoice(t *testing.T) {
	out, err := pdf.RenderInvoice(sampleInvoice(), &domain.SellerProfile{
		BusinessName:      "Maxx Protein",
		GSTIN:             "27AAAAA0000A1Z5",
		RegisteredAddress: "Pune, Maharashtra",
		State:             "Maharashtra",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderInvoice_NoProfile(t *testing.T) {
	inv := sampleInvoice()
	inv.CustomerState = "Maharashtra"
	inv.IGSTAmount = 0
	inv.CGSTAmount, inv.SGSTAmount = 180, 180

	out, err := pdf.RenderInvoice(inv, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
