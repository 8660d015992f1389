package output

import (
	"bytes"
	"fmt"

	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/dustin/go-humanize"
)

// ConsoleFormatter renders a styled annual summary with advisories.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	var buf bytes.Buffer
	in := report.Input
	res := &report.Result
	summary := Summarize(res)

	title := "ABLE ACCOUNT PROJECTION"
	if report.Label != "" {
		title += ": " + report.Label
	}
	fmt.Fprintln(&buf, renderTitle(title))
	fmt.Fprintln(&buf)

	state := in.StateCode
	if state == "" {
		state = "none"
	}
	fmt.Fprint(&buf, renderKV([][2]string{
		{"Starting balance", FormatCurrency(in.StartingBalance)},
		{"Horizon", fmt.Sprintf("%s months", humanize.Comma(int64(summary.Months)))},
		{"Annual return", FormatPercentage(in.AnnualReturnPercent)},
		{"Filing status", in.FilingStatus.Label()},
		{"State", state},
	}))
	fmt.Fprintln(&buf)

	t := table{
		Title:   "Annual Summary",
		Headers: []string{"Year", "Contributions", "Earnings", "Withdrawals", "Fed Tax", "State Tax", "Saver's Credit", "Balance"},
	}
	for _, y := range res.Years {
		t.Rows = append(t.Rows, []string{
			intToString(y.Year),
			FormatCurrency(y.Contributions),
			FormatCurrency(y.Earnings),
			FormatCurrency(y.Withdrawals),
			FormatCurrency(y.FederalTax),
			FormatCurrency(y.StateTax),
			FormatCurrency(y.FederalSaversCredit),
			FormatCurrency(y.EndingBalance),
		})
	}
	fmt.Fprint(&buf, renderTable(t))
	fmt.Fprintln(&buf)

	fmt.Fprint(&buf, renderKV([][2]string{
		{"Total contributions", FormatCurrency(summary.Contributions)},
		{"Total earnings", FormatCurrency(summary.Earnings)},
		{"Total withdrawals", FormatCurrency(summary.Withdrawals)},
		{"Net tax cost", FormatCurrency(summary.NetTaxCost)},
	}))
	fmt.Fprintf(&buf, "  %s\n", balanceStyle.Render("Final balance: "+FormatCurrency(summary.FinalBalance)))

	if len(report.Advisories) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, headerStyle.Render("  Advisories"))
		for _, a := range report.Advisories {
			fmt.Fprintf(&buf, "  %s %s\n", warnStyle.Render("•"), a)
		}
	}
	return buf.Bytes(), nil
}
