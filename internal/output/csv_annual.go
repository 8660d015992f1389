package output

import (
	"bytes"
	"encoding/csv"

	"github.com/ablecalc/able-calculator/internal/domain"
)

// CSVAnnualExporter writes one row per calendar year of the projection.
type CSVAnnualExporter struct{}

func (c CSVAnnualExporter) Name() string { return "annual-csv" }

func (c CSVAnnualExporter) Format(report *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "Months", "Contributions", "BeneficiaryContributions", "Earnings", "Withdrawals", "EndingBalance", "TaxableIncome", "FederalRate", "StateRate", "FederalTax", "StateTax", "StateDeduction", "StateCredit", "DeductionTaxEffect", "FederalSaversCredit"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, y := range report.Result.Years {
		row := []string{
			intToString(y.Year),
			intToString(y.Months),
			money(y.Contributions),
			money(y.BeneficiaryContributions),
			money(y.Earnings),
			money(y.Withdrawals),
			money(y.EndingBalance),
			money(y.TaxableIncome),
			y.FederalRate.String(),
			y.StateRate.String(),
			money(y.FederalTax),
			money(y.StateTax),
			money(y.StateDeduction),
			money(y.StateCredit),
			money(y.DeductionTaxEffect),
			money(y.FederalSaversCredit),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
