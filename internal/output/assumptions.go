package output

import (
	"fmt"

	"github.com/ablecalc/able-calculator/internal/calculation"
	"github.com/ablecalc/able-calculator/internal/domain"
)

// GenerateAssumptions lists the modeling assumptions behind a projection.
func GenerateAssumptions(report *domain.ProjectionReport) []string {
	in := report.Input
	out := []string{
		fmt.Sprintf("Investment return: %s a year, compounded monthly; no earnings in the first month", FormatPercentage(in.AnnualReturnPercent)),
		"Earnings are taxed each year at the marginal federal and state rate for AGI plus earnings",
		"Tax brackets and credit limits held constant over the horizon",
	}
	if in.IsSSIBeneficiary {
		out = append(out, fmt.Sprintf("SSI resource limit of %s enforced", FormatCurrency(calculation.SSIResourceLimit)))
	}
	if in.PlanMaxBalance != nil {
		out = append(out, fmt.Sprintf("Plan maximum account balance: %s", FormatCurrency(*in.PlanMaxBalance)))
	}
	if c := report.Result.ContributionLimit; c != nil {
		out = append(out, fmt.Sprintf("Annual ABLE contribution limit for %d: %s", c.Year, FormatCurrency(c.AnnualLimit)))
	}
	return out
}
