package tax

import (
	"fmt"
	"math"
	"strconv"
)

// Warning codes.
const (
	WarningGSTR3BMismatch        = "gstr3b_mismatch"
	WarningITCExceedsCollected   = "itc_exceeds_collected"
	WarningNetProfitExceedsSales = "net_profit_exceeds_sales"
	WarningNegativeTotal         = "negative_total"
	WarningUnparsedGSTRate       = "unparsed_gst_rate"
)

// gstr3bTolerance absorbs rounding drift between filed figures.
const gstr3bTolerance = 1.00

// Warning is an advisory consistency notice. It never blocks a computation.
type Warning struct {
	Code          string `json:"code"`
	FieldPath     string `json:"field_path"`
	ExpectedValue string `json:"expected_value"`
	ActualValue   string `json:"actual_value"`
	Message       string `json:"message"`
}

// CheckGSTR3B compares a filed GST liability against ITC plus net payable.
func CheckGSTR3B(liability, itc, payable float64) *Warning {
	expected := itc + payable
	if math.Abs(liability-expected) <= gstr3bTolerance {
		return nil
	}
	return &Warning{
		Code:          WarningGSTR3BMismatch,
		FieldPath:     "gstr3b.gst_liability",
		ExpectedValue: money(expected),
		ActualValue:   money(liability),
		Message: fmt.Sprintf("GST liability %s does not match ITC claimed plus net payable %s",
			money(liability), money(expected)),
	}
}

// CheckITC warns when the eligible credit exceeds the GST collected.
func CheckITC(eligible, collected float64) *Warning {
	if eligible <= collected {
		return nil
	}
	return &Warning{
		Code:          WarningITCExceedsCollected,
		FieldPath:     "itc.eligible_itc",
		ExpectedValue: "<= " + money(collected),
		ActualValue:   money(eligible),
		Message:       "eligible ITC exceeds GST collected; excess credit carries forward",
	}
}

// CheckPnL warns when the magnitude of net profit exceeds gross sales.
func CheckPnL(netProfit, grossSales float64) *Warning {
	if math.Abs(netProfit) <= grossSales {
		return nil
	}
	return &Warning{
		Code:          WarningNetProfitExceedsSales,
		FieldPath:     "pnl.net_profit",
		ExpectedValue: "<= " + money(grossSales),
		ActualValue:   money(netProfit),
		Message:       "net profit magnitude exceeds gross sales",
	}
}

// CheckInvoiceTotal warns when discounts push an invoice total below zero.
func CheckInvoiceTotal(total float64) *Warning {
	if total >= 0 {
		return nil
	}
	return &Warning{
		Code:          WarningNegativeTotal,
		FieldPath:     "invoice.total_amount",
		ExpectedValue: ">= 0.00",
		ActualValue:   money(total),
		Message:       "discount exceeds subtotal plus tax",
	}
}

func money(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}
