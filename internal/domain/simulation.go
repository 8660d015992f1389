package domain

import (
	"github.com/shopspring/decimal"
)

// RecurringContribution is a contribution repeated on a fixed cadence
type RecurringContribution struct {
	Amount  decimal.Decimal `yaml:"amount" json:"amount"`
	Cadence Cadence         `yaml:"cadence" json:"cadence"`
}

// WithdrawalPlan describes scheduled withdrawals from the account.
// A component with a zero amount is inactive.
type WithdrawalPlan struct {
	MonthlyAmount     decimal.Decimal `yaml:"monthly_amount" json:"monthly_amount"`
	MonthlyStartMonth int             `yaml:"monthly_start_month" json:"monthly_start_month"`
	MonthlyStartYear  int             `yaml:"monthly_start_year" json:"monthly_start_year"`
	AnnualAmount      decimal.Decimal `yaml:"annual_amount" json:"annual_amount"`
	// Zero annual start month/year default to the plan start.
	AnnualStartMonth int `yaml:"annual_start_month,omitempty" json:"annual_start_month,omitempty"`
	AnnualStartYear  int `yaml:"annual_start_year,omitempty" json:"annual_start_year,omitempty"`
}

// SimulationConfig is the complete input to a single monthly simulation run
type SimulationConfig struct {
	StartingBalance        decimal.Decimal         `json:"starting_balance"`
	UpfrontContribution    decimal.Decimal         `json:"upfront_contribution"`
	RecurringContributions []RecurringContribution `json:"recurring_contributions,omitempty"`
	WithdrawalPlan         *WithdrawalPlan         `json:"withdrawal_plan,omitempty"`

	// AnnualReturnRate is a fraction (0.06 for 6%).
	AnnualReturnRate decimal.Decimal `json:"annual_return_rate"`
	HorizonYears     decimal.Decimal `json:"horizon_years"`

	// Zero values mean January of the current year.
	PlanStartMonth int `json:"plan_start_month,omitempty"`
	PlanStartYear  int `json:"plan_start_year,omitempty"`

	PlanMaxBalance *decimal.Decimal `json:"plan_max_balance,omitempty"`
	SSILimit       *decimal.Decimal `json:"ssi_limit,omitempty"`
	EnforceSSI     bool             `json:"enforce_ssi"`

	// Contributions stop in months strictly after this date. The cutoff is
	// only active when both fields are set.
	ContributionEndMonth *int `json:"contribution_end_month,omitempty"`
	ContributionEndYear  *int `json:"contribution_end_year,omitempty"`
}

// HasContributionCutoff reports whether both contribution cutoff fields are set.
func (c SimulationConfig) HasContributionCutoff() bool {
	return c.ContributionEndMonth != nil && c.ContributionEndYear != nil
}

// SSIEnforced reports whether the SSI resource limit is actively enforced.
func (c SimulationConfig) SSIEnforced() bool {
	return c.EnforceSSI && c.SSILimit != nil
}

// MonthCount returns the number of rows a simulation of this config
// produces: round(horizon * 12), never fewer than one.
func (c SimulationConfig) MonthCount() int {
	months := int(c.HorizonYears.Mul(decimal.NewFromInt(12)).Round(0).IntPart())
	if months < 1 {
		return 1
	}
	return months
}

// AmortizationRow is one month's snapshot of the account
type AmortizationRow struct {
	MonthIndex    int             `json:"month_index"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	Contributions decimal.Decimal `json:"contributions"`
	Earnings      decimal.Decimal `json:"earnings"`
	Withdrawals   decimal.Decimal `json:"withdrawals"`

	// MonthlyWithdrawals includes any SSI-forced excess withdrawal.
	MonthlyWithdrawals decimal.Decimal `json:"monthly_withdrawals"`
	AnnualWithdrawals  decimal.Decimal `json:"annual_withdrawals"`
	SSIWithdrawals     decimal.Decimal `json:"ssi_withdrawals"`
	// RequestedWithdrawals is what the plan asked for before the balance
	// limited it; equal to Withdrawals unless the account ran short.
	RequestedWithdrawals decimal.Decimal `json:"requested_withdrawals"`

	EndingBalance decimal.Decimal `json:"ending_balance"`
	MonthlyRate   decimal.Decimal `json:"monthly_rate"`
	PlanMaxStop   bool            `json:"plan_max_stop"`
}

// Shortfall reports whether the row's withdrawals were rationed.
func (r AmortizationRow) Shortfall() bool {
	return r.Withdrawals.LessThan(r.RequestedWithdrawals)
}
