package output

import (
	"fmt"

	"github.com/ablecalc/able-calculator/internal/calculation"
	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Summary holds whole-horizon totals of a projection.
type Summary struct {
	Months              int
	FinalBalance        decimal.Decimal
	Contributions       decimal.Decimal
	Earnings            decimal.Decimal
	Withdrawals         decimal.Decimal
	FederalTax          decimal.Decimal
	StateTax            decimal.Decimal
	FederalSaversCredit decimal.Decimal
	DeductionTaxEffect  decimal.Decimal
	// NetTaxCost is taxes owed on earnings less credits and deduction savings.
	NetTaxCost      decimal.Decimal
	ShortfallMonths int
	FirstShortfall  *domain.AmortizationRow
}

// Summarize totals a result over its whole horizon.
func Summarize(result *domain.CalculationResult) Summary {
	s := Summary{Months: len(result.Schedule), FinalBalance: result.FinalBalance()}
	s.Contributions, s.Earnings, s.Withdrawals = result.Totals()
	for _, y := range result.Years {
		s.FederalTax = s.FederalTax.Add(y.FederalTax)
		s.StateTax = s.StateTax.Add(y.StateTax)
		s.FederalSaversCredit = s.FederalSaversCredit.Add(y.FederalSaversCredit)
		s.DeductionTaxEffect = s.DeductionTaxEffect.Add(y.DeductionTaxEffect)
	}
	s.NetTaxCost = s.FederalTax.Add(s.StateTax).Sub(s.FederalSaversCredit).Sub(s.DeductionTaxEffect)
	for i := range result.Schedule {
		if result.Schedule[i].Shortfall() {
			if s.FirstShortfall == nil {
				row := result.Schedule[i]
				s.FirstShortfall = &row
			}
			s.ShortfallMonths++
		}
	}
	return s
}

// Advisories derives the plain-language notes shown with a projection.
func Advisories(input domain.CalculationInput, result *domain.CalculationResult) []string {
	var notes []string
	if row := result.SSIExceedRow; row != nil {
		if input.IsSSIBeneficiary {
			notes = append(notes, fmt.Sprintf(
				"Without intervention the balance would pass the %s SSI resource limit in %s; contributions stop and excess is withdrawn to hold the limit.",
				FormatCurrency(calculation.SSIResourceLimit), monthLabel(row.Month, row.Year)))
		} else {
			notes = append(notes, fmt.Sprintf(
				"The balance passes %s in %s. If the beneficiary receives SSI, benefits would be suspended above that amount.",
				FormatCurrency(calculation.SSIResourceLimit), monthLabel(row.Month, row.Year)))
		}
	}
	if row := result.PlanMaxStopRow; row != nil {
		notes = append(notes, fmt.Sprintf("Contributions stop in %s when the account reaches the plan maximum.",
			monthLabel(row.Month, row.Year)))
	}
	if note := limitAdvisory(result.ContributionLimit); note != "" {
		notes = append(notes, note)
	}
	summary := Summarize(result)
	if row := summary.FirstShortfall; row != nil {
		notes = append(notes, fmt.Sprintf("The account cannot cover planned withdrawals from %s (%d months short).",
			monthLabel(row.Month, row.Year), summary.ShortfallMonths))
	}
	if result.FSCEligibleForCredit {
		notes = append(notes, fmt.Sprintf("Eligible for the federal Saver's Credit at %s on up to %s of contributions a year.",
			FormatRate(result.FSCCreditRate), FormatCurrency(result.FSCContributionLimit)))
	} else if input.FSCEligibleCriteriaMet && input.FSCAGI.IsPositive() {
		notes = append(notes, "AGI is above the federal Saver's Credit income limits.")
	}
	return notes
}

var periodLabels = map[domain.LimitPeriod]string{
	domain.PeriodCurrentYear:  "the current year (remaining months)",
	domain.PeriodNextFullYear: "the next full year (12 months)",
}

func limitAdvisory(c *domain.ContributionLimitCheck) string {
	switch {
	case c == nil:
		return ""
	case c.ExceedsCombined() && c.WorkToAbleEligible:
		return fmt.Sprintf("Planned contributions exceed the combined limit of %s (the %d annual ABLE limit plus %s of ABLE to Work contributions) by %s in %s.",
			FormatCurrency(c.CombinedLimit), c.Year, FormatCurrency(c.WorkToAbleAllowance),
			FormatCurrency(c.CombinedOverage), periodLabels[c.CombinedOveragePeriod])
	case c.ExceedsCombined():
		return fmt.Sprintf("Planned contributions exceed the %d annual ABLE limit of %s by %s in %s.",
			c.Year, FormatCurrency(c.AnnualLimit), FormatCurrency(c.CombinedOverage), periodLabels[c.CombinedOveragePeriod])
	case c.ExceedsAnnual():
		return fmt.Sprintf("Contributions above the %s annual ABLE limit fit the %s ABLE to Work allowance; the combined limit is %s.",
			FormatCurrency(c.AnnualLimit), FormatCurrency(c.WorkToAbleAllowance), FormatCurrency(c.CombinedLimit))
	}
	return ""
}
