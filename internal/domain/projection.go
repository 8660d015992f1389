package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculationInput is the caller-facing description of an ABLE projection.
// Amounts are dollars; AnnualReturnPercent is a percentage (6 for 6%).
type CalculationInput struct {
	StartingBalance decimal.Decimal `yaml:"starting_balance" json:"starting_balance"`

	// Beneficiary funding
	BeneficiaryUpfrontContribution   decimal.Decimal `yaml:"upfront_contribution" json:"upfront_contribution"`
	BeneficiaryRecurringContribution decimal.Decimal `yaml:"recurring_contribution" json:"recurring_contribution"`
	BeneficiaryRecurringCadence      Cadence         `yaml:"recurring_cadence" json:"recurring_cadence"`

	// Withdrawals are only simulated when WithdrawalPlanDecision is set.
	WithdrawalPlanDecision      bool            `yaml:"withdrawal_plan" json:"withdrawal_plan"`
	MonthlyWithdrawalAmount     decimal.Decimal `yaml:"monthly_withdrawal_amount" json:"monthly_withdrawal_amount"`
	MonthlyWithdrawalStartMonth int             `yaml:"monthly_withdrawal_start_month" json:"monthly_withdrawal_start_month"`
	MonthlyWithdrawalStartYear  int             `yaml:"monthly_withdrawal_start_year" json:"monthly_withdrawal_start_year"`
	AnnualWithdrawalAmount      decimal.Decimal `yaml:"annual_withdrawal_amount,omitempty" json:"annual_withdrawal_amount,omitempty"`
	AnnualWithdrawalStartMonth  int             `yaml:"annual_withdrawal_start_month,omitempty" json:"annual_withdrawal_start_month,omitempty"`
	AnnualWithdrawalStartYear   int             `yaml:"annual_withdrawal_start_year,omitempty" json:"annual_withdrawal_start_year,omitempty"`

	AnnualReturnPercent decimal.Decimal `yaml:"annual_return_percent" json:"annual_return_percent"`
	TimeHorizonYears    decimal.Decimal `yaml:"time_horizon_years" json:"time_horizon_years"`
	// CurrentYear anchors the projection to January of that year. Zero
	// means the current calendar year.
	CurrentYear int `yaml:"current_year,omitempty" json:"current_year,omitempty"`

	PlanMaxBalance   *decimal.Decimal `yaml:"plan_max_balance,omitempty" json:"plan_max_balance,omitempty"`
	IsSSIBeneficiary bool             `yaml:"ssi_beneficiary" json:"ssi_beneficiary"`

	// Tax profile
	FilingStatus FilingStatus    `yaml:"filing_status" json:"filing_status"`
	AccountAGI   decimal.Decimal `yaml:"account_agi" json:"account_agi"`
	StateCode    string          `yaml:"state" json:"state"`
	// PlanStateCode is the state whose ABLE plan holds the account. Empty
	// means the residence state's plan.
	PlanStateCode string `yaml:"plan_state,omitempty" json:"plan_state,omitempty"`

	// Federal Saver's Credit
	FSCFilingStatus        FilingStatus    `yaml:"fsc_filing_status" json:"fsc_filing_status"`
	FSCAGI                 decimal.Decimal `yaml:"fsc_agi" json:"fsc_agi"`
	FSCEligibleCriteriaMet bool            `yaml:"fsc_eligible" json:"fsc_eligible"`

	ContributionEndMonth *int `yaml:"contribution_end_month,omitempty" json:"contribution_end_month,omitempty"`
	ContributionEndYear  *int `yaml:"contribution_end_year,omitempty" json:"contribution_end_year,omitempty"`

	// ABLE to Work: a working beneficiary without an employer retirement
	// plan may contribute up to min(earned income, poverty guideline) above
	// the annual limit. Zero year means the latest guideline year; empty
	// state means the residence state.
	WorkToAbleHasEarnedIncome bool            `yaml:"work_to_able_has_earned_income,omitempty" json:"work_to_able_has_earned_income,omitempty"`
	WorkToAbleHasEmployerPlan bool            `yaml:"work_to_able_has_employer_plan,omitempty" json:"work_to_able_has_employer_plan,omitempty"`
	WorkToAbleEarnedIncome    decimal.Decimal `yaml:"work_to_able_earned_income,omitempty" json:"work_to_able_earned_income"`
	WorkToAbleFPLYear         int             `yaml:"work_to_able_fpl_year,omitempty" json:"work_to_able_fpl_year,omitempty"`
	WorkToAbleStateCode       string          `yaml:"work_to_able_state,omitempty" json:"work_to_able_state,omitempty"`
}

// TaxAwareRow is an amortization row decorated with tax effects. The four
// annual amounts are booked on the December row of each year only; the
// rate fields are populated on every row.
type TaxAwareRow struct {
	AmortizationRow

	RowFederalTax          decimal.Decimal `json:"row_federal_tax"`
	RowStateTax            decimal.Decimal `json:"row_state_tax"`
	RowFederalSaversCredit decimal.Decimal `json:"row_federal_savers_credit"`
	RowDeductionTaxEffect  decimal.Decimal `json:"row_deduction_tax_effect"`
	RowFederalRate         decimal.Decimal `json:"row_federal_rate"`
	RowStateRate           decimal.Decimal `json:"row_state_rate"`
}

// YearSummary aggregates one calendar year of a projection
type YearSummary struct {
	Year                     int             `json:"year"`
	Months                   int             `json:"months"`
	Contributions            decimal.Decimal `json:"contributions"`
	BeneficiaryContributions decimal.Decimal `json:"beneficiary_contributions"`
	Earnings                 decimal.Decimal `json:"earnings"`
	Withdrawals              decimal.Decimal `json:"withdrawals"`
	EndingBalance            decimal.Decimal `json:"ending_balance"`

	TaxableIncome       decimal.Decimal `json:"taxable_income"`
	StateDeduction      decimal.Decimal `json:"state_deduction"`
	StateCredit         decimal.Decimal `json:"state_credit"`
	FederalRate         decimal.Decimal `json:"federal_rate"`
	StateRate           decimal.Decimal `json:"state_rate"`
	FederalTax          decimal.Decimal `json:"federal_tax"`
	StateTax            decimal.Decimal `json:"state_tax"`
	DeductionTaxEffect  decimal.Decimal `json:"deduction_tax_effect"`
	FederalSaversCredit decimal.Decimal `json:"federal_savers_credit"`
}

// CalculationResult is the full output of a tax-aware projection
type CalculationResult struct {
	Schedule         []AmortizationRow `json:"schedule"`
	TaxAwareSchedule []TaxAwareRow     `json:"tax_aware_schedule"`
	Years            []YearSummary     `json:"years"`

	// SSIExceedRow is the first month the balance would exceed the SSI
	// resource limit if no limit were enforced.
	SSIExceedRow *AmortizationRow `json:"ssi_exceed_row,omitempty"`
	// PlanMaxStopRow is the first month contributions stopped because of
	// the plan maximum.
	PlanMaxStopRow *AmortizationRow `json:"plan_max_stop_row,omitempty"`

	FSCCreditRate        decimal.Decimal `json:"fsc_credit_rate"`
	FSCEligibleForCredit bool            `json:"fsc_eligible_for_credit"`
	FSCContributionLimit decimal.Decimal `json:"fsc_contribution_limit"`
	FSCBracketLabel      string          `json:"fsc_bracket_label,omitempty"`

	ContributionLimit *ContributionLimitCheck `json:"contribution_limit,omitempty"`
}

// FinalBalance returns the ending balance of the last row, or zero.
func (r *CalculationResult) FinalBalance() decimal.Decimal {
	if len(r.Schedule) == 0 {
		return decimal.Zero
	}
	return r.Schedule[len(r.Schedule)-1].EndingBalance
}

// Totals sums contributions, earnings and withdrawals over the schedule.
func (r *CalculationResult) Totals() (contributions, earnings, withdrawals decimal.Decimal) {
	for _, row := range r.Schedule {
		contributions = contributions.Add(row.Contributions)
		earnings = earnings.Add(row.Earnings)
		withdrawals = withdrawals.Add(row.Withdrawals)
	}
	return contributions, earnings, withdrawals
}

// ProjectionReport bundles a labelled input with its result for presentation
type ProjectionReport struct {
	Label       string            `json:"label,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
	Input       CalculationInput  `json:"input"`
	Result      CalculationResult `json:"result"`
	Advisories  []string          `json:"advisories,omitempty"`
}
