package calculation

import (
	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/ablecalc/able-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// ContributionLimitCheck measures the beneficiary's planned funding against
// the annual ABLE contribution limit for the anchor year. Two windows are
// checked: the rest of the first year (upfront plus the recurring amounts
// still due) and a full year of recurring funding. The current-year window
// is reported first when both go over.
func (ce *CalculationEngine) ContributionLimitCheck(input domain.CalculationInput, year int) domain.ContributionLimitCheck {
	cfg := SimulationConfigFor(input, year)
	remaining := decimal.NewFromInt(int64(dateutil.MonthsBetween(cfg.PlanStartMonth, year, 1, year+1)))

	recurring := input.BeneficiaryRecurringContribution
	fullYear := recurring
	thisYear := recurring
	if input.BeneficiaryRecurringCadence == domain.CadenceMonthly {
		fullYear = recurring.Mul(decimal.NewFromInt(12))
		thisYear = recurring.Mul(remaining)
	}

	check := domain.ContributionLimitCheck{
		Year:                year,
		AnnualLimit:         ce.Tables.AnnualContributionLimit(year),
		WorkToAbleAllowance: decimal.Zero,
		CurrentYearTotal:    input.BeneficiaryUpfrontContribution.Add(thisYear),
		NextFullYearTotal:   fullYear,
	}

	if allowance, ok := ce.workToAbleAllowance(input); ok {
		check.WorkToAbleEligible = true
		check.WorkToAbleAllowance = allowance
	}
	check.CombinedLimit = check.AnnualLimit.Add(check.WorkToAbleAllowance)

	check.AnnualOverage, check.AnnualOveragePeriod = overage(check.CurrentYearTotal, check.NextFullYearTotal, check.AnnualLimit)
	check.CombinedOverage, check.CombinedOveragePeriod = overage(check.CurrentYearTotal, check.NextFullYearTotal, check.CombinedLimit)
	return check
}

// workToAbleAllowance is min(earned income, poverty guideline) for a
// beneficiary with earned income and no employer retirement plan.
func (ce *CalculationEngine) workToAbleAllowance(input domain.CalculationInput) (decimal.Decimal, bool) {
	if !input.WorkToAbleHasEarnedIncome || input.WorkToAbleHasEmployerPlan || !input.WorkToAbleEarnedIncome.IsPositive() {
		return decimal.Zero, false
	}
	state := input.WorkToAbleStateCode
	if state == "" {
		state = input.StateCode
	}
	fpl, ok := ce.Tables.FPL(state, input.WorkToAbleFPLYear)
	if !ok {
		return decimal.Zero, false
	}
	return decimal.Min(input.WorkToAbleEarnedIncome, fpl), true
}

func overage(current, full, limit decimal.Decimal) (decimal.Decimal, domain.LimitPeriod) {
	switch {
	case current.GreaterThan(limit):
		return current.Sub(limit), domain.PeriodCurrentYear
	case full.GreaterThan(limit):
		return full.Sub(limit), domain.PeriodNextFullYear
	}
	return decimal.Zero, ""
}
