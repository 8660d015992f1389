package domain

import (
	"github.com/shopspring/decimal"
)

// AnnualContributionLimit is the federal cap on total ABLE contributions
// for one calendar year.
type AnnualContributionLimit struct {
	Year  int             `yaml:"year" json:"year"`
	Limit decimal.Decimal `yaml:"limit" json:"limit"`
}

// FPLSchedule is one year's one-person federal poverty guideline, which
// caps ABLE to Work contributions. Amount covers every state not listed in
// States; a zero Amount means only the listed states are known.
type FPLSchedule struct {
	Year   int                        `yaml:"year" json:"year"`
	Amount decimal.Decimal            `yaml:"amount,omitempty" json:"amount"`
	States map[string]decimal.Decimal `yaml:"states,omitempty" json:"states,omitempty"`
}

// LimitPeriod names the contribution window that went over a limit.
type LimitPeriod string

const (
	// PeriodCurrentYear is the remainder of the first projection year.
	PeriodCurrentYear LimitPeriod = "current_year"
	// PeriodNextFullYear is a full twelve-month year of recurring funding.
	PeriodNextFullYear LimitPeriod = "next_full_year"
)

// ContributionLimitCheck compares planned beneficiary funding with the
// annual ABLE limit, raised by the ABLE to Work allowance when the
// beneficiary qualifies for it.
type ContributionLimitCheck struct {
	Year        int             `json:"year"`
	AnnualLimit decimal.Decimal `json:"annual_limit"`

	WorkToAbleEligible  bool            `json:"work_to_able_eligible"`
	WorkToAbleAllowance decimal.Decimal `json:"work_to_able_allowance"`
	CombinedLimit       decimal.Decimal `json:"combined_limit"`

	CurrentYearTotal  decimal.Decimal `json:"current_year_total"`
	NextFullYearTotal decimal.Decimal `json:"next_full_year_total"`

	// Overages are zero, with an empty period, when funding fits the limit.
	AnnualOverage         decimal.Decimal `json:"annual_overage"`
	AnnualOveragePeriod   LimitPeriod     `json:"annual_overage_period,omitempty"`
	CombinedOverage       decimal.Decimal `json:"combined_overage"`
	CombinedOveragePeriod LimitPeriod     `json:"combined_overage_period,omitempty"`
}

// ExceedsAnnual reports whether planned funding goes over the base limit.
func (c ContributionLimitCheck) ExceedsAnnual() bool {
	return c.AnnualOverage.IsPositive()
}

// ExceedsCombined reports whether planned funding goes over the base limit
// plus any ABLE to Work allowance.
func (c ContributionLimitCheck) ExceedsCombined() bool {
	return c.CombinedOverage.IsPositive()
}
