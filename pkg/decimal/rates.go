package decimal

import (
	"math"

	"github.com/shopspring/decimal"
)

// Hundred is used to convert between percentages and fractions.
var Hundred = decimal.NewFromInt(100)

// MonthlyRate converts an annual effective rate into the equivalent monthly
// compounding rate: (1 + annual)^(1/12) - 1.
//
// The twelfth root is taken in float64 because decimal.Pow only supports
// integer exponents reliably; the result is fixed to 12 places so repeated
// runs are bit-for-bit stable.
func MonthlyRate(annual decimal.Decimal) decimal.Decimal {
	if annual.IsZero() {
		return decimal.Zero
	}
	a, _ := annual.Float64()
	monthly := math.Pow(1+a, 1.0/12.0) - 1
	return decimal.NewFromFloat(monthly).Round(12)
}

// FromPercent converts a percentage (6.5) into a fraction (0.065).
func FromPercent(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(Hundred)
}

// ToPercent converts a fraction (0.065) into a percentage (6.5).
func ToPercent(frac decimal.Decimal) decimal.Decimal {
	return frac.Mul(Hundred)
}

// Ratio returns part/whole, or zero when whole is not positive.
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole)
}

// Cents rounds an amount to two decimal places.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ClampZero returns d, or zero when d is negative.
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Ptr returns a pointer to a copy of d.
func Ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
