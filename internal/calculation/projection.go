package calculation

import (
	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/ablecalc/able-calculator/pkg/dateutil"
	dec "github.com/ablecalc/able-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// SSIResourceLimit is the ABLE balance above which SSI benefits are
// suspended.
var SSIResourceLimit = decimal.NewFromInt(100000)

// MaxHorizonYears bounds how far ahead a projection runs.
const MaxHorizonYears = 50

// DefaultFallbackFederalRate is the marginal federal rate shown for rows
// whose year has no tax data and no prior year to borrow from.
var DefaultFallbackFederalRate = decimal.NewFromFloat(0.10)

// yearTax is the tax picture of one calendar year.
type yearTax struct {
	summary domain.YearSummary
}

// ComputeProjection runs the monthly simulation for input and overlays the
// yearly federal and state tax effects. With an SSI recipient the schedule
// enforces the SSI resource limit; an unenforced run is always made as well
// to report when the limit would first be crossed.
func (ce *CalculationEngine) ComputeProjection(input domain.CalculationInput) domain.CalculationResult {
	log := ce.logger()
	year := input.CurrentYear
	if year == 0 {
		year = currentYear()
	}

	base := SimulationConfigFor(input, year)
	advisory := RunSimulation(base)
	schedule := advisory
	if input.IsSSIBeneficiary {
		enforced := base
		enforced.SSILimit = dec.Ptr(SSIResourceLimit)
		enforced.EnforceSSI = true
		schedule = RunSimulation(enforced)
	}

	result := domain.CalculationResult{Schedule: schedule}
	result.SSIExceedRow = firstRow(advisory, func(r domain.AmortizationRow) bool {
		return r.EndingBalance.GreaterThan(SSIResourceLimit)
	})
	result.PlanMaxStopRow = firstRow(schedule, func(r domain.AmortizationRow) bool {
		return r.PlanMaxStop
	})

	allocations := contributionAllocations(input, schedule)
	years, byYear := aggregateYears(schedule, allocations)

	ce.applySaversCredit(input, &result, years)
	ce.applyYearTaxes(input, years)

	result.Years = make([]domain.YearSummary, len(years))
	for i, y := range years {
		result.Years[i] = y.summary
		if ce.Debug {
			log.Debugf("year %d: earnings=%s allocation=%s taxable=%s fed=%s state=%s fsc=%s",
				y.summary.Year, y.summary.Earnings.StringFixed(2), y.summary.BeneficiaryContributions.StringFixed(2),
				y.summary.TaxableIncome.StringFixed(2), y.summary.FederalTax.StringFixed(2),
				y.summary.StateTax.StringFixed(2), y.summary.FederalSaversCredit.StringFixed(2))
		}
	}

	result.TaxAwareSchedule = decorate(schedule, byYear, year)

	limit := ce.ContributionLimitCheck(input, year)
	result.ContributionLimit = &limit
	if limit.ExceedsCombined() {
		log.Infof("planned contributions exceed the %s contribution limit by %s", limit.CombinedLimit.StringFixed(2), limit.CombinedOverage.StringFixed(2))
	}

	if result.PlanMaxStopRow != nil {
		log.Infof("contributions stop at plan maximum in %s", dateutil.Label(result.PlanMaxStopRow.Month, result.PlanMaxStopRow.Year))
	}
	if result.SSIExceedRow != nil {
		log.Infof("balance first exceeds SSI resource limit in %s", dateutil.Label(result.SSIExceedRow.Month, result.SSIExceedRow.Year))
	}
	return result
}

// SimulationConfigFor translates caller input into an engine configuration
// anchored to January of the given year. Horizons are clamped to
// [1, MaxHorizonYears], non-positive return assumptions become zero and
// withdrawal start dates are clamped to a valid month no earlier than the
// anchor year.
func SimulationConfigFor(input domain.CalculationInput, year int) domain.SimulationConfig {
	horizon := input.TimeHorizonYears
	if horizon.LessThan(decimal.NewFromInt(1)) {
		horizon = decimal.NewFromInt(1)
	}
	if horizon.GreaterThan(decimal.NewFromInt(MaxHorizonYears)) {
		horizon = decimal.NewFromInt(MaxHorizonYears)
	}

	rate := decimal.Zero
	if input.AnnualReturnPercent.IsPositive() {
		rate = dec.FromPercent(input.AnnualReturnPercent)
	}

	cfg := domain.SimulationConfig{
		StartingBalance:      input.StartingBalance,
		UpfrontContribution:  input.BeneficiaryUpfrontContribution,
		AnnualReturnRate:     rate,
		HorizonYears:         horizon,
		PlanStartMonth:       1,
		PlanStartYear:        year,
		PlanMaxBalance:       input.PlanMaxBalance,
		ContributionEndMonth: input.ContributionEndMonth,
		ContributionEndYear:  input.ContributionEndYear,
	}
	if input.BeneficiaryRecurringContribution.IsPositive() {
		cfg.RecurringContributions = []domain.RecurringContribution{{
			Amount:  input.BeneficiaryRecurringContribution,
			Cadence: input.BeneficiaryRecurringCadence,
		}}
	}

	monthly := input.MonthlyWithdrawalAmount.IsPositive()
	annual := input.AnnualWithdrawalAmount.IsPositive()
	if input.WithdrawalPlanDecision && (monthly || annual) {
		wp := &domain.WithdrawalPlan{
			MonthlyAmount:     decimal.Zero,
			MonthlyStartMonth: startMonth(input.MonthlyWithdrawalStartMonth),
			MonthlyStartYear:  startYear(input.MonthlyWithdrawalStartYear, year),
			AnnualAmount:      decimal.Zero,
			AnnualStartMonth:  startMonth(input.AnnualWithdrawalStartMonth),
			AnnualStartYear:   startYear(input.AnnualWithdrawalStartYear, year),
		}
		if monthly {
			wp.MonthlyAmount = input.MonthlyWithdrawalAmount
		}
		if annual {
			wp.AnnualAmount = input.AnnualWithdrawalAmount
		}
		cfg.WithdrawalPlan = wp
	}
	return cfg
}

func startMonth(m int) int {
	if m == 0 {
		return 1
	}
	return dateutil.ClampMonth(m)
}

func startYear(y, anchor int) int {
	if y < anchor {
		return anchor
	}
	return y
}

func firstRow(rows []domain.AmortizationRow, match func(domain.AmortizationRow) bool) *domain.AmortizationRow {
	for i := range rows {
		if match(rows[i]) {
			row := rows[i]
			return &row
		}
	}
	return nil
}

// contributionAllocations attributes each row's actual contribution to the
// beneficiary's planned funding: the planned amount scaled by how much of it
// the engine let through.
func contributionAllocations(input domain.CalculationInput, schedule []domain.AmortizationRow) []decimal.Decimal {
	out := make([]decimal.Decimal, len(schedule))
	recurring := input.BeneficiaryRecurringContribution
	for i, row := range schedule {
		planned := decimal.Zero
		if row.MonthIndex == 0 {
			planned = planned.Add(input.BeneficiaryUpfrontContribution)
		}
		if recurring.IsPositive() && input.BeneficiaryRecurringCadence.IsDue(row.MonthIndex) {
			planned = planned.Add(recurring)
		}
		if !planned.IsPositive() || !row.Contributions.IsPositive() {
			out[i] = decimal.Zero
			continue
		}
		out[i] = planned.Mul(dec.Ratio(row.Contributions, planned))
	}
	return out
}

// aggregateYears totals the schedule per calendar year, in schedule order.
func aggregateYears(schedule []domain.AmortizationRow, allocations []decimal.Decimal) ([]*yearTax, map[int]*yearTax) {
	var years []*yearTax
	byYear := make(map[int]*yearTax)
	for i, row := range schedule {
		y, ok := byYear[row.Year]
		if !ok {
			y = &yearTax{summary: domain.YearSummary{Year: row.Year}}
			byYear[row.Year] = y
			years = append(years, y)
		}
		s := &y.summary
		s.Months++
		s.Contributions = s.Contributions.Add(row.Contributions)
		s.BeneficiaryContributions = s.BeneficiaryContributions.Add(allocations[i])
		s.Earnings = s.Earnings.Add(row.Earnings)
		s.Withdrawals = s.Withdrawals.Add(row.Withdrawals)
		s.EndingBalance = row.EndingBalance
	}
	return years, byYear
}

// applySaversCredit books the Federal Saver's Credit per year when the
// caller meets the non-income criteria and the AGI lands in a paying tier.
func (ce *CalculationEngine) applySaversCredit(input domain.CalculationInput, result *domain.CalculationResult, years []*yearTax) {
	hasAGI := input.FSCAGI.IsPositive()
	result.FSCCreditRate = decimal.Zero
	if input.FSCEligibleCriteriaMet && hasAGI {
		if res, ok := ce.Tables.SaversCredit(input.FSCFilingStatus, input.FSCAGI); ok {
			result.FSCCreditRate = res.CreditRate
			result.FSCBracketLabel = res.BracketLabel
		}
	}
	result.FSCContributionLimit = ce.Tables.SaversContributionLimit(input.FSCFilingStatus)
	result.FSCEligibleForCredit = input.FSCEligibleCriteriaMet && hasAGI && result.FSCCreditRate.IsPositive()
	if !result.FSCEligibleForCredit {
		return
	}
	for _, y := range years {
		eligible := decimal.Min(y.summary.BeneficiaryContributions, result.FSCContributionLimit)
		credit := eligible.Mul(result.FSCCreditRate)
		if credit.IsPositive() {
			y.summary.FederalSaversCredit = credit
		}
	}
}

// applyYearTaxes computes each year's taxes on investment earnings. Taxable
// income (AGI plus earnings less any state deduction) only selects the
// marginal bracket; the tax itself is earnings times that single rate.
func (ce *CalculationEngine) applyYearTaxes(input domain.CalculationInput, years []*yearTax) {
	planState := input.PlanStateCode
	if planState == "" {
		planState = input.StateCode
	}
	benefit := ce.Tables.StateBenefit(input.StateCode, input.FilingStatus, planState)

	for _, y := range years {
		s := &y.summary
		deduction := decimal.Zero
		if benefit.Applies && benefit.Type == domain.BenefitDeduction {
			deduction = decimal.Min(benefit.Amount, s.BeneficiaryContributions)
		}
		taxable := dec.ClampZero(input.AccountAGI.Add(s.Earnings).Sub(deduction))

		federalRate := ce.Tables.FederalRate(input.FilingStatus, taxable)
		stateRate := ce.Tables.StateRate(input.StateCode, input.FilingStatus, taxable)

		credit := decimal.Zero
		if benefit.Applies && benefit.Type == domain.BenefitCredit {
			credit = decimal.Min(benefit.Amount, s.BeneficiaryContributions.Mul(benefit.CreditPercent))
		}

		s.TaxableIncome = taxable
		s.StateDeduction = deduction
		s.StateCredit = credit
		s.FederalRate = federalRate
		s.StateRate = stateRate
		s.FederalTax = s.Earnings.Mul(federalRate)
		s.StateTax = s.Earnings.Mul(stateRate).Sub(credit)
		s.DeductionTaxEffect = deduction.Mul(stateRate)
	}
}

// decorate copies every row into a TaxAwareRow. December rows carry the
// year's tax, credit and deduction effect; every row carries the year's
// marginal rates.
func decorate(schedule []domain.AmortizationRow, byYear map[int]*yearTax, anchorYear int) []domain.TaxAwareRow {
	lastYear := anchorYear
	if len(schedule) > 0 {
		lastYear = schedule[len(schedule)-1].Year
	}
	fallbackFederal, fallbackState := DefaultFallbackFederalRate, decimal.Zero
	if prev, ok := byYear[lastYear-1]; ok {
		fallbackFederal, fallbackState = prev.summary.FederalRate, prev.summary.StateRate
	}

	out := make([]domain.TaxAwareRow, len(schedule))
	for i, row := range schedule {
		tr := domain.TaxAwareRow{
			AmortizationRow:        row,
			RowFederalTax:          decimal.Zero,
			RowStateTax:            decimal.Zero,
			RowFederalSaversCredit: decimal.Zero,
			RowDeductionTaxEffect:  decimal.Zero,
			RowFederalRate:         fallbackFederal,
			RowStateRate:           fallbackState,
		}
		if y, ok := byYear[row.Year]; ok {
			tr.RowFederalRate = y.summary.FederalRate
			tr.RowStateRate = y.summary.StateRate
			if row.Month == 12 {
				tr.RowFederalTax = y.summary.FederalTax
				tr.RowStateTax = y.summary.StateTax
				tr.RowFederalSaversCredit = y.summary.FederalSaversCredit
				tr.RowDeductionTaxEffect = y.summary.DeductionTaxEffect
			}
		}
		out[i] = tr
	}
	return out
}

