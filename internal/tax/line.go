package tax

import (
	"fmt"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
)

// LineTax is the GST breakdown of one line item. Exactly one of the
// CGST+SGST pair or IGST is non-zero.
type LineTax struct {
	Amount   float64 `json:"amount"`
	GSTRate  Rate    `json:"gst_rate"`
	GSTValue float64 `json:"gst_value"`
	CGST     float64 `json:"cgst"`
	SGST     float64 `json:"sgst"`
	IGST     float64 `json:"igst"`
}

// CalculateLine computes the tax on quantity units at the given unit rate.
// Amounts are rounded to two decimal places.
func CalculateLine(quantity, rate float64, gstRate Rate, interstate bool) (LineTax, error) {
	line, err := splitLine(quantity, rate, gstRate, interstate)
	if err != nil {
		return LineTax{}, err
	}
	return line.rounded(), nil
}

func splitLine(quantity, rate float64, gstRate Rate, interstate bool) (LineTax, error) {
	if quantity < 0 {
		return LineTax{}, fmt.Errorf("quantity %v: %w", quantity, domain.ErrNegativeQuantity)
	}
	if rate < 0 {
		return LineTax{}, fmt.Errorf("rate %v: %w", rate, domain.ErrNegativeRate)
	}
	if !gstRate.Valid() {
		return LineTax{}, fmt.Errorf("gst rate %d: %w", int(gstRate), domain.ErrInvalidGSTRate)
	}

	amount := quantity * rate
	gstValue := gstRate.Of(amount)
	line := LineTax{Amount: amount, GSTRate: gstRate, GSTValue: gstValue}
	if interstate {
		line.IGST = gstValue
	} else {
		line.CGST = gstValue / 2
		line.SGST = gstValue / 2
	}
	return line, nil
}

func (l LineTax) rounded() LineTax {
	return LineTax{
		Amount:   Round2(l.Amount),
		GSTRate:  l.GSTRate,
		GSTValue: Round2(l.GSTValue),
		CGST:     Round2(l.CGST),
		SGST:     Round2(l.SGST),
		IGST:     Round2(l.IGST),
	}
}
