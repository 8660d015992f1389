package output

import (
	"bytes"
	"fmt"

	"github.com/ablecalc/able-calculator/internal/domain"
)

// ScheduleFormatter renders the full monthly schedule as a table.
type ScheduleFormatter struct{}

func (s ScheduleFormatter) Name() string { return "schedule" }

func (s ScheduleFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	var buf bytes.Buffer
	t := table{
		Title:   "Monthly Schedule",
		Headers: []string{"Month", "Contribution", "Earnings", "Withdrawal", "Fed Tax", "State Tax", "Balance", ""},
	}
	for _, r := range report.Result.TaxAwareSchedule {
		flag := ""
		switch {
		case r.PlanMaxStop:
			flag = "max"
		case r.Shortfall():
			flag = "short"
		case r.SSIWithdrawals.IsPositive():
			flag = "ssi"
		}
		t.Rows = append(t.Rows, []string{
			monthLabel(r.Month, r.Year),
			FormatCurrency(r.Contributions),
			FormatCurrency(r.Earnings),
			FormatCurrency(r.Withdrawals),
			FormatCurrency(r.RowFederalTax),
			FormatCurrency(r.RowStateTax),
			FormatCurrency(r.EndingBalance),
			flag,
		})
	}
	fmt.Fprint(&buf, renderTable(t))
	return buf.Bytes(), nil
}
