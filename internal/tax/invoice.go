package tax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
)

// MarketplaceTCSRate is the tax collected at source by an e-commerce operator.
const MarketplaceTCSRate = 0.01

// InvoiceTotals is the computed tax summary of an invoice. Lines is aligned
// with the input items; a rejected item keeps a zero LineTax.
type InvoiceTotals struct {
	Interstate bool      `json:"interstate"`
	Lines      []LineTax `json:"lines"`
	Subtotal   float64   `json:"subtotal"`
	CGST       float64   `json:"cgst"`
	SGST       float64   `json:"sgst"`
	IGST       float64   `json:"igst"`
	TotalGST   float64   `json:"total_gst"`
	Discount   float64   `json:"discount"`
	TCS        float64   `json:"tcs"`
	Total      float64   `json:"total"`
}

// ItemError reports a line item that was left out of the invoice totals.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("items[%d]: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// ItemErrors collects every rejected line item of one invoice.
type ItemErrors []*ItemError

func (e ItemErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ie := range e {
		msgs[i] = ie.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e ItemErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, ie := range e {
		errs[i] = ie
	}
	return errs
}

// CalculateInvoice sums the line items of an invoice and applies the discount.
// Header figures are sums of the rounded line figures, so the subtotal always
// equals the sum of the stored line amounts. Items with invalid input are
// skipped and reported through an ItemErrors error alongside totals computed
// from the remaining items. A negative discount rejects the whole invoice.
//
// TCS is reported on the subtotal but is not deducted from the total, and a
// discount larger than subtotal plus tax yields a negative total.
func CalculateInvoice(items []domain.LineItem, discount float64, interstate bool) (*InvoiceTotals, error) {
	if discount < 0 {
		return nil, fmt.Errorf("discount %v: %w", discount, domain.ErrNegativeDiscount)
	}

	totals := &InvoiceTotals{
		Interstate: interstate,
		Lines:      make([]LineTax, len(items)),
	}

	var subtotal, cgst, sgst, igst decimal.Decimal
	var itemErrs ItemErrors
	for i := range items {
		line, err := lineFor(&items[i], interstate)
		if err != nil {
			itemErrs = append(itemErrs, &ItemError{Index: i, Err: err})
			continue
		}
		line = line.rounded()
		totals.Lines[i] = line
		subtotal = subtotal.Add(decimal.NewFromFloat(line.Amount))
		cgst = cgst.Add(decimal.NewFromFloat(line.CGST))
		sgst = sgst.Add(decimal.NewFromFloat(line.SGST))
		igst = igst.Add(decimal.NewFromFloat(line.IGST))
	}

	totals.Subtotal = subtotal.InexactFloat64()
	totals.CGST = cgst.InexactFloat64()
	totals.SGST = sgst.InexactFloat64()
	totals.IGST = igst.InexactFloat64()
	totals.TotalGST = Round2(totals.CGST + totals.SGST + totals.IGST)
	totals.Discount = Round2(discount)
	totals.TCS = Round2(totals.Subtotal * MarketplaceTCSRate)
	totals.Total = Round2(totals.Subtotal + totals.TotalGST - totals.Discount)

	if len(itemErrs) > 0 {
		return totals, itemErrs
	}
	return totals, nil
}

func lineFor(item *domain.LineItem, interstate bool) (LineTax, error) {
	rate, err := ParseRate(item.GSTRate)
	if err != nil {
		return LineTax{}, err
	}
	return splitLine(item.Quantity, item.Rate, rate, interstate)
}
