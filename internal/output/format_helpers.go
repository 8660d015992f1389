package output

import (
	"strconv"

	"github.com/ablecalc/able-calculator/pkg/dateutil"
	dec "github.com/ablecalc/able-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as USD currency with thousands
// separators and 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return dec.NewMoneyFromDecimal(amount).Format() }

// FormatPercentage formats a decimal that is already a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.0495) as a percentage ("4.95%").
func FormatRate(rate decimal.Decimal) string { return FormatPercentage(dec.ToPercent(rate)) }

// monthLabel renders "Jan 2026".
func monthLabel(month, year int) string { return dateutil.Label(month, year) }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

func money(d decimal.Decimal) string { return d.StringFixed(2) }
