package tax

import "github.com/shopspring/decimal"

// Round2 rounds a currency amount to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
