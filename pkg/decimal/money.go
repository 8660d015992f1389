package decimal

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Money is a dollar amount rendered for reports.
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Format renders the amount as US currency with thousands separators,
// e.g. "$1,234.50" or "-$20.00".
func (m Money) Format() string {
	rounded := m.Decimal.Round(2)
	f, _ := rounded.Abs().Float64()
	s := "$" + humanize.FormatFloat("#,###.##", f)
	if rounded.IsNegative() {
		return "-" + s
	}
	return s
}
