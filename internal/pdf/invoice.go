// Package pdf renders invoices as PDF documents.
package pdf

import (
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/tax"
)

// ContentType is the MIME type of a rendered invoice.
const ContentType = "application/pdf"

var (
	small      = props.Text{Size: 9}
	smallRight = props.Text{Size: 9, Align: align.Right}
	headCell   = props.Text{Size: 9, Style: fontstyle.Bold}
	headRight  = props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
)

// RenderInvoice returns the PDF bytes of an invoice. The seller profile may be
// nil, in which case the seller block only carries the seller state.
func RenderInvoice(inv *domain.Invoice, seller *domain.SellerProfile) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, "Tax Invoice", props.Text{Size: 18, Style: fontstyle.Bold}),
		text.NewCol(4, inv.InvoiceNumber, props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right, Top: 3}),
	)
	m.AddRow(8,
		text.NewCol(6, "Date: "+inv.InvoiceDate.Format("02 Jan 2006"), small),
		text.NewCol(6, "Status: "+string(inv.InvoiceStatus), smallRight),
	)

	sellerName, sellerGSTIN, sellerAddr := "", "", ""
	if seller != nil {
		sellerName, sellerGSTIN, sellerAddr = seller.BusinessName, seller.GSTIN, seller.RegisteredAddress
	}
	m.AddRow(32,
		col.New(6).Add(
			text.New("From", headCell),
			text.New(sellerName, props.Text{Size: 9, Top: 5}),
			text.New(sellerAddr, props.Text{Size: 9, Top: 9}),
			text.New("GSTIN: "+sellerGSTIN, props.Text{Size: 9, Top: 19}),
			text.New("State: "+inv.SellerState, props.Text{Size: 9, Top: 23}),
		),
		col.New(6).Add(
			text.New("Bill to", headCell),
			text.New(inv.CustomerName, props.Text{Size: 9, Top: 5}),
			text.New("GSTIN: "+inv.CustomerGSTIN, props.Text{Size: 9, Top: 19}),
			text.New("Place of supply: "+inv.SupplyState(), props.Text{Size: 9, Top: 23}),
		),
	)

	m.AddRow(8,
		text.NewCol(4, "Product", headCell),
		text.NewCol(2, "HSN", headCell),
		text.NewCol(1, "Qty", headRight),
		text.NewCol(2, "Rate", headRight),
		text.NewCol(1, "GST", headRight),
		text.NewCol(2, "Amount", headRight),
	)
	m.AddRow(2, line.NewCol(12))

	for _, item := range inv.Items {
		m.AddRow(7,
			text.NewCol(4, item.ProductName, small),
			text.NewCol(2, item.HSNCode, small),
			text.NewCol(1, strconv.FormatFloat(item.Quantity, 'f', -1, 64), smallRight),
			text.NewCol(2, money(item.Rate), smallRight),
			text.NewCol(1, item.GSTRate, smallRight),
			text.NewCol(2, money(itemAmount(item)), smallRight),
		)
	}
	m.AddRow(2, line.NewCol(12))

	totalRow(m, "Subtotal", inv.Subtotal, false)
	if inv.IGSTAmount > 0 || tax.IsInterstate(inv.SellerState, inv.SupplyState()) {
		totalRow(m, "IGST", inv.IGSTAmount, false)
	} else {
		totalRow(m, "CGST", inv.CGSTAmount, false)
		totalRow(m, "SGST", inv.SGSTAmount, false)
	}
	if inv.DiscountAmount > 0 {
		totalRow(m, "Discount", -inv.DiscountAmount, false)
	}
	totalRow(m, "Total", inv.TotalAmount, true)
	totalRow(m, fmt.Sprintf("TCS collected (%.0f%%)", tax.MarketplaceTCSRate*100), inv.TCSDeducted, false)

	if inv.Notes != "" {
		m.AddRow(14, text.NewCol(12, inv.Notes, props.Text{Size: 8, Top: 6}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating invoice pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func totalRow(m core.Maroto, label string, v float64, bold bool) {
	left, right := small, smallRight
	if bold {
		left, right = headCell, headRight
	}
	m.AddRow(7, col.New(8), text.NewCol(2, label, left), text.NewCol(2, money(v), right))
}

func itemAmount(item domain.LineItem) float64 {
	if item.Amount != 0 {
		return item.Amount
	}
	return tax.Round2(item.Quantity * item.Rate)
}

func money(v float64) string {
	return "Rs. " + strconv.FormatFloat(v, 'f', 2, 64)
}
