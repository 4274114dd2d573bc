package tax

import (
	"fmt"
	"math"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
)

// GSTQuote is the result of the standalone GST calculator.
type GSTQuote struct {
	BaseAmount    float64 `json:"base_amount"`
	GSTRate       Rate    `json:"gst_rate"`
	SellerState   string  `json:"seller_state"`
	CustomerState string  `json:"customer_state"`
	Interstate    bool    `json:"interstate"`
	GSTValue      float64 `json:"gst_value"`
	CGST          float64 `json:"cgst"`
	SGST          float64 `json:"sgst"`
	IGST          float64 `json:"igst"`
	Total         float64 `json:"total"`
}

// CalculateGST applies a GST rate to a single base amount and splits it by
// jurisdiction.
func CalculateGST(baseAmount float64, gstRate Rate, sellerState, customerState string) (*GSTQuote, error) {
	if baseAmount < 0 {
		return nil, fmt.Errorf("base amount %v: %w", baseAmount, domain.ErrNegativeAmount)
	}
	interstate := IsInterstate(sellerState, customerState)
	line, err := splitLine(1, baseAmount, gstRate, interstate)
	if err != nil {
		return nil, err
	}
	return &GSTQuote{
		BaseAmount:    Round2(baseAmount),
		GSTRate:       gstRate,
		SellerState:   sellerState,
		CustomerState: customerState,
		Interstate:    interstate,
		GSTValue:      Round2(line.GSTValue),
		CGST:          Round2(line.CGST),
		SGST:          Round2(line.SGST),
		IGST:          Round2(line.IGST),
		Total:         Round2(baseAmount + line.GSTValue),
	}, nil
}

// TCSResult is the result of the standalone TCS calculator.
type TCSResult struct {
	SaleAmount float64 `json:"sale_amount"`
	OnlineSale bool    `json:"online_sale"`
	TCSRate    float64 `json:"tcs_rate"`
	TCSAmount  float64 `json:"tcs_amount"`
	NetAmount  float64 `json:"net_amount"`
}

// CalculateTCS computes the marketplace TCS withheld on a sale. Offline sales
// carry no TCS.
func CalculateTCS(saleAmount float64, online bool) (*TCSResult, error) {
	if saleAmount < 0 {
		return nil, fmt.Errorf("sale amount %v: %w", saleAmount, domain.ErrNegativeAmount)
	}
	var rate float64
	if online {
		rate = MarketplaceTCSRate
	}
	tcs := Round2(saleAmount * rate)
	return &TCSResult{
		SaleAmount: Round2(saleAmount),
		OnlineSale: online,
		TCSRate:    rate,
		TCSAmount:  tcs,
		NetAmount:  Round2(saleAmount - tcs),
	}, nil
}

// ITCInput holds the figures for an input tax credit calculation.
type ITCInput struct {
	GSTCollected float64 `json:"gst_collected"`
	GSTPaid      float64 `json:"gst_paid"`
	BlockedITC   float64 `json:"blocked_itc"`
}

// ITCResult is the result of the standalone ITC calculator.
type ITCResult struct {
	ITCInput
	EligibleITC   float64   `json:"eligible_itc"`
	NetGSTPayable float64   `json:"net_gst_payable"`
	Warnings      []Warning `json:"warnings"`
}

// CalculateITC derives eligible credit and the net GST payable. Net payable is
// floored at zero.
func CalculateITC(in ITCInput) (*ITCResult, error) {
	if err := nonNegative(
		field{"gst_collected", in.GSTCollected},
		field{"gst_paid", in.GSTPaid},
		field{"blocked_itc", in.BlockedITC},
	); err != nil {
		return nil, err
	}

	eligible := in.GSTPaid - in.BlockedITC
	res := &ITCResult{
		ITCInput:      in,
		EligibleITC:   Round2(eligible),
		NetGSTPayable: Round2(math.Max(0, in.GSTCollected-eligible)),
		Warnings:      []Warning{},
	}
	if w := CheckITC(eligible, in.GSTCollected); w != nil {
		res.Warnings = append(res.Warnings, *w)
	}
	return res, nil
}

// PnLInput holds the figures for a profit and loss calculation.
type PnLInput struct {
	GrossSales        float64 `json:"gross_sales"`
	COGS              float64 `json:"cogs"`
	OperatingExpenses float64 `json:"operating_expenses"`
	GST               float64 `json:"gst"`
	Discount          float64 `json:"discount"`
}

// PnLResult is the result of the standalone P&L calculator.
type PnLResult struct {
	PnLInput
	GrossProfit     float64   `json:"gross_profit"`
	OperatingProfit float64   `json:"operating_profit"`
	NetProfit       float64   `json:"net_profit"`
	Warnings        []Warning `json:"warnings"`
}

// CalculatePnL derives gross, operating and net profit.
func CalculatePnL(in PnLInput) (*PnLResult, error) {
	if err := nonNegative(
		field{"gross_sales", in.GrossSales},
		field{"cogs", in.COGS},
		field{"operating_expenses", in.OperatingExpenses},
		field{"gst", in.GST},
		field{"discount", in.Discount},
	); err != nil {
		return nil, err
	}

	gross := in.GrossSales - in.COGS
	operating := gross - in.OperatingExpenses
	net := operating - in.GST - in.Discount
	res := &PnLResult{
		PnLInput:        in,
		GrossProfit:     Round2(gross),
		OperatingProfit: Round2(operating),
		NetProfit:       Round2(net),
		Warnings:        []Warning{},
	}
	if w := CheckPnL(net, in.GrossSales); w != nil {
		res.Warnings = append(res.Warnings, *w)
	}
	return res, nil
}

type field struct {
	name  string
	value float64
}

// nonNegative reports the first negative field in argument order.
func nonNegative(fields ...field) error {
	for _, f := range fields {
		if f.value < 0 {
			return fmt.Errorf("%s %v: %w", f.name, f.value, domain.ErrNegativeAmount)
		}
	}
	return nil
}
