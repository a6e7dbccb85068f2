// Package money holds presentation-side rounding for computed prices.
// The pricing engine never rounds; call sites pick the precision they show.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// WholeUnits is the precision the admin plan editor stores and displays.
func WholeUnits(v float64) float64 {
	return Round(v, 0)
}

// Cents is the precision shown at checkout.
func Cents(v float64) float64 {
	return Round(v, 2)
}

// Format renders v with two decimals, prefixed by the currency code when given.
func Format(v float64, currency string) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	if currency == "" {
		return s
	}
	return currency + " " + s
}
