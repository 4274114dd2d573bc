// Package report folds invoices and filing records into the GSTR-1, GSTR-3B
// and GSTR-9 views along with trend, product and HSN breakdowns.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/tax"
)

const unknownProduct = "Unknown"

// Snapshot is a point-in-time copy of a user's records.
type Snapshot struct {
	Invoices []domain.Invoice
	Filings  []domain.FilingRecord
}

// GSTR1Summary covers outward supplies from invoices.
type GSTR1Summary struct {
	TotalInvoices int     `json:"total_invoices"`
	TaxableValue  float64 `json:"taxable_value"`
	TotalGST      float64 `json:"total_gst"`
}

// GSTR3BSummary covers the filed monthly liability.
type GSTR3BSummary struct {
	GSTLiability float64 `json:"gst_liability"`
	ITCClaimed   float64 `json:"itc_claimed"`
	NetPayable   float64 `json:"net_payable"`
}

// GSTR9Summary covers the annual reconciliation figures.
type GSTR9Summary struct {
	TotalSales     float64 `json:"total_sales"`
	TotalPurchases float64 `json:"total_purchases"`
	TotalGSTPaid   float64 `json:"total_gst_paid"`
	TotalTCS       float64 `json:"total_tcs"`
}

// TrendPoint is one month of the sales trend.
type TrendPoint struct {
	Month string  `json:"month"`
	Sales float64 `json:"sales"`
	GST   float64 `json:"gst"`
	TCS   float64 `json:"tcs"`
}

// ProductPerformance aggregates line items per product.
type ProductPerformance struct {
	Name  string  `json:"name"`
	Sales float64 `json:"sales"`
	GST   float64 `json:"gst"`
}

// HSNSummaryRow aggregates line items per HSN/SAC code.
type HSNSummaryRow struct {
	HSNCode       string  `json:"hsn_code"`
	InvoiceCount  int     `json:"invoice_count"`
	LineItemCount int     `json:"line_item_count"`
	TotalQuantity float64 `json:"total_quantity"`
	TaxableAmount float64 `json:"taxable_amount"`
	CGST          float64 `json:"cgst"`
	SGST          float64 `json:"sgst"`
	IGST          float64 `json:"igst"`
	TotalTax      float64 `json:"total_tax"`
}

// FilingOverview counts filed returns over the filings in scope.
type FilingOverview struct {
	Months        int      `json:"months"`
	GSTR1Filed    int      `json:"gstr_1_filed"`
	GSTR3BFiled   int      `json:"gstr_3b_filed"`
	GSTR9Filed    int      `json:"gstr_9_filed"`
	Overdue       int      `json:"overdue"`
	OverdueMonths []string `json:"overdue_months"`
}

// Summary is the full period report.
type Summary struct {
	Filter   Filter               `json:"filter"`
	GSTR1    GSTR1Summary         `json:"gstr1"`
	GSTR3B   GSTR3BSummary        `json:"gstr3b"`
	GSTR9    GSTR9Summary         `json:"gstr9"`
	Trend    []TrendPoint         `json:"trend"`
	Products []ProductPerformance `json:"products"`
	HSN      []HSNSummaryRow      `json:"hsn"`
	Filings  FilingOverview       `json:"filings"`
	Warnings []tax.Warning        `json:"warnings"`
}

// Aggregate computes the period summary for a snapshot. Headline views respect
// the filter; the trend always covers every invoice. The result depends only
// on the snapshot contents and the filter.
func Aggregate(snap Snapshot, f Filter) *Summary {
	s := &Summary{
		Filter:   f,
		Warnings: []tax.Warning{},
	}

	invoices := make([]*domain.Invoice, 0, len(snap.Invoices))
	for i := range snap.Invoices {
		inv := &snap.Invoices[i]
		if f.Matches(inv.InvoiceDate.Year(), inv.InvoiceDate.Month()) {
			invoices = append(invoices, inv)
		}
	}
	filings := make([]*domain.FilingRecord, 0, len(snap.Filings))
	for i := range snap.Filings {
		if f.MatchesFinancialMonth(snap.Filings[i].FinancialMonth) {
			filings = append(filings, &snap.Filings[i])
		}
	}

	s.GSTR1 = gstr1(invoices)
	s.GSTR3B = gstr3b(filings)
	s.GSTR9 = gstr9(filings)
	s.Trend = trend(snap.Invoices)
	s.Products = products(invoices, &s.Warnings)
	s.HSN = hsnSummary(invoices)
	s.Filings = filingOverview(filings, f)

	if w := tax.CheckGSTR3B(s.GSTR3B.GSTLiability, s.GSTR3B.ITCClaimed, s.GSTR3B.NetPayable); w != nil {
		s.Warnings = append(s.Warnings, *w)
	}
	return s
}

func gstr1(invoices []*domain.Invoice) GSTR1Summary {
	var taxable, gst float64
	for _, inv := range invoices {
		taxable += inv.Subtotal
		gst += inv.TotalGST()
	}
	return GSTR1Summary{
		TotalInvoices: len(invoices),
		TaxableValue:  tax.Round2(taxable),
		TotalGST:      tax.Round2(gst),
	}
}

func gstr3b(filings []*domain.FilingRecord) GSTR3BSummary {
	var out GSTR3BSummary
	for _, fr := range filings {
		out.GSTLiability += fr.GSTLiability
		out.ITCClaimed += fr.ITCClaimed
		out.NetPayable += fr.NetPayable
	}
	out.GSTLiability = tax.Round2(out.GSTLiability)
	out.ITCClaimed = tax.Round2(out.ITCClaimed)
	out.NetPayable = tax.Round2(out.NetPayable)
	return out
}

func gstr9(filings []*domain.FilingRecord) GSTR9Summary {
	var out GSTR9Summary
	for _, fr := range filings {
		out.TotalSales += fr.TotalSales
		out.TotalPurchases += fr.TotalPurchases
		out.TotalGSTPaid += fr.GSTLiability
		out.TotalTCS += fr.TCSLiability
	}
	out.TotalSales = tax.Round2(out.TotalSales)
	out.TotalPurchases = tax.Round2(out.TotalPurchases)
	out.TotalGSTPaid = tax.Round2(out.TotalGSTPaid)
	out.TotalTCS = tax.Round2(out.TotalTCS)
	return out
}

func trend(invoices []domain.Invoice) []TrendPoint {
	byMonth := make(map[string]*TrendPoint)
	for i := range invoices {
		inv := &invoices[i]
		key := inv.InvoiceDate.Format(domain.FinancialMonthLayout)
		p, ok := byMonth[key]
		if !ok {
			p = &TrendPoint{Month: key}
			byMonth[key] = p
		}
		p.Sales += inv.TotalAmount
		p.GST += inv.TotalGST()
		p.TCS += inv.TCSDeducted
	}

	out := make([]TrendPoint, 0, len(byMonth))
	for _, p := range byMonth {
		out = append(out, TrendPoint{
			Month: p.Month,
			Sales: tax.Round2(p.Sales),
			GST:   tax.Round2(p.GST),
			TCS:   tax.Round2(p.TCS),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func products(invoices []*domain.Invoice, warnings *[]tax.Warning) []ProductPerformance {
	var order []string
	byName := make(map[string]*ProductPerformance)
	for _, inv := range invoices {
		for j := range inv.Items {
			item := &inv.Items[j]
			name := productKey(item)
			p, ok := byName[name]
			if !ok {
				p = &ProductPerformance{Name: name}
				byName[name] = p
				order = append(order, name)
			}
			amount := lineAmount(item)
			p.Sales += amount

			rate, err := tax.ParseRate(item.GSTRate)
			if err != nil {
				*warnings = append(*warnings, tax.Warning{
					Code:          tax.WarningUnparsedGSTRate,
					FieldPath:     fmt.Sprintf("invoices[%s].items[%d].gst_rate", inv.InvoiceNumber, j),
					ExpectedValue: "0%, 5%, 12%, 18% or 28%",
					ActualValue:   item.GSTRate,
					Message:       "unrecognised GST rate counted as 0%",
				})
				continue
			}
			p.GST += rate.Of(amount)
		}
	}

	out := make([]ProductPerformance, len(order))
	for i, name := range order {
		p := byName[name]
		out[i] = ProductPerformance{Name: name, Sales: tax.Round2(p.Sales), GST: tax.Round2(p.GST)}
	}
	return out
}

func productKey(item *domain.LineItem) string {
	if name := strings.TrimSpace(item.ProductName); name != "" {
		return name
	}
	if hsn := strings.TrimSpace(item.HSNCode); hsn != "" {
		return hsn
	}
	return unknownProduct
}

// lineAmount prefers the stored amount and falls back to the rounded
// quantity x rate for items saved without one.
func lineAmount(item *domain.LineItem) float64 {
	if item.Amount != 0 {
		return item.Amount
	}
	return tax.Round2(item.Quantity * item.Rate)
}

func hsnSummary(invoices []*domain.Invoice) []HSNSummaryRow {
	type acc struct {
		row      HSNSummaryRow
		invoices map[int]struct{}
	}
	byCode := make(map[string]*acc)
	for idx, inv := range invoices {
		interstate := tax.IsInterstate(inv.SellerState, inv.SupplyState())
		for j := range inv.Items {
			item := &inv.Items[j]
			code := strings.TrimSpace(item.HSNCode)
			if code == "" {
				continue
			}
			a, ok := byCode[code]
			if !ok {
				a = &acc{row: HSNSummaryRow{HSNCode: code}, invoices: make(map[int]struct{})}
				byCode[code] = a
			}
			a.invoices[idx] = struct{}{}
			a.row.LineItemCount++
			a.row.TotalQuantity += item.Quantity

			amount := lineAmount(item)
			a.row.TaxableAmount += amount
			rate, err := tax.ParseRate(item.GSTRate)
			if err != nil {
				continue
			}
			gst := rate.Of(amount)
			if interstate {
				a.row.IGST += gst
			} else {
				a.row.CGST += gst / 2
				a.row.SGST += gst / 2
			}
		}
	}

	out := make([]HSNSummaryRow, 0, len(byCode))
	for _, a := range byCode {
		r := a.row
		r.InvoiceCount = len(a.invoices)
		r.TotalQuantity = tax.Round2(r.TotalQuantity)
		r.TaxableAmount = tax.Round2(r.TaxableAmount)
		r.CGST = tax.Round2(r.CGST)
		r.SGST = tax.Round2(r.SGST)
		r.IGST = tax.Round2(r.IGST)
		r.TotalTax = tax.Round2(r.CGST + r.SGST + r.IGST)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TaxableAmount != out[j].TaxableAmount {
			return out[i].TaxableAmount > out[j].TaxableAmount
		}
		return out[i].HSNCode < out[j].HSNCode
	})
	return out
}

func filingOverview(filings []*domain.FilingRecord, f Filter) FilingOverview {
	out := FilingOverview{Months: len(filings), OverdueMonths: []string{}}
	for _, fr := range filings {
		if fr.GSTR1Filed {
			out.GSTR1Filed++
		}
		if fr.GSTR3BFiled {
			out.GSTR3BFiled++
		}
		if fr.GSTR9Filed {
			out.GSTR9Filed++
		}
		if !f.AsOf.IsZero() && !fr.GSTR3BFiled && fr.FilingDeadline != nil && pastDue(*fr.FilingDeadline, f.AsOf) {
			out.OverdueMonths = append(out.OverdueMonths, fr.FinancialMonth)
		}
	}
	sort.Strings(out.OverdueMonths)
	out.Overdue = len(out.OverdueMonths)
	return out
}

// pastDue reports whether asOf falls on a later calendar day than the
// deadline. Both are compared as dates in asOf's location, so a return is not
// overdue at any time on its due date.
func pastDue(deadline, asOf time.Time) bool {
	dy, dm, dd := deadline.In(asOf.Location()).Date()
	ay, am, ad := asOf.Date()
	return time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC).After(time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC))
}
