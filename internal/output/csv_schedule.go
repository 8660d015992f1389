package output

import (
	"bytes"
	"encoding/csv"

	"github.com/ablecalc/able-calculator/internal/domain"
)

// CSVScheduleExporter writes the tax-aware monthly schedule, one row per month.
type CSVScheduleExporter struct{}

func (c CSVScheduleExporter) Name() string { return "csv" }

func (c CSVScheduleExporter) Format(report *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"MonthIndex", "Month", "Year", "Contributions", "Earnings", "Withdrawals", "MonthlyWithdrawals", "AnnualWithdrawals", "SSIWithdrawals", "RequestedWithdrawals", "EndingBalance", "PlanMaxStop", "FederalTax", "StateTax", "FederalSaversCredit", "DeductionTaxEffect", "FederalRate", "StateRate"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range report.Result.TaxAwareSchedule {
		row := []string{
			intToString(r.MonthIndex),
			intToString(r.Month),
			intToString(r.Year),
			money(r.Contributions),
			money(r.Earnings),
			money(r.Withdrawals),
			money(r.MonthlyWithdrawals),
			money(r.AnnualWithdrawals),
			money(r.SSIWithdrawals),
			money(r.RequestedWithdrawals),
			money(r.EndingBalance),
			boolToString(r.PlanMaxStop),
			money(r.RowFederalTax),
			money(r.RowStateTax),
			money(r.RowFederalSaversCredit),
			money(r.RowDeductionTaxEffect),
			r.RowFederalRate.String(),
			r.RowStateRate.String(),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
