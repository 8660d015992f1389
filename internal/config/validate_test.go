package config

import (
	"errors"
	"testing"

	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/ablecalc/able-calculator/internal/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func dp(v float64) *decimal.Decimal {
	x := d(v)
	return &x
}

func intp(v int) *int { return &v }

func isInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

func validInput() domain.CalculationInput {
	return domain.CalculationInput{
		StartingBalance:                  d(1000),
		BeneficiaryRecurringContribution: d(100),
		BeneficiaryRecurringCadence:      domain.CadenceMonthly,
		AnnualReturnPercent:              d(6),
		TimeHorizonYears:                 d(10),
		FilingStatus:                     domain.FilingSingle,
		AccountAGI:                       d(30000),
		StateCode:                        "NY",
	}
}

func TestValidateInput(t *testing.T) {
	tables := rates.MustDefault()

	tests := []struct {
		name   string
		mutate func(*domain.CalculationInput)
		want   string
	}{
		{"valid", func(*domain.CalculationInput) {}, ""},
		{"no state", func(in *domain.CalculationInput) { in.StateCode = "" }, ""},
		{"negative balance", func(in *domain.CalculationInput) { in.StartingBalance = d(-1) }, "starting balance cannot be negative"},
		{"negative withdrawal", func(in *domain.CalculationInput) { in.AnnualWithdrawalAmount = d(-5) }, "annual withdrawal amount"},
		{"zero plan max", func(in *domain.CalculationInput) { in.PlanMaxBalance = dp(0) }, "plan max balance"},
		{"bad cadence", func(in *domain.CalculationInput) { in.BeneficiaryRecurringCadence = "weekly" }, "recurring cadence"},
		{"cadence ignored without recurring", func(in *domain.CalculationInput) {
			in.BeneficiaryRecurringContribution = decimal.Zero
			in.BeneficiaryRecurringCadence = "weekly"
		}, ""},
		{"zero horizon", func(in *domain.CalculationInput) { in.TimeHorizonYears = decimal.Zero }, "time horizon must be positive"},
		{"huge horizon", func(in *domain.CalculationInput) { in.TimeHorizonYears = d(101) }, "cannot exceed"},
		{"total loss", func(in *domain.CalculationInput) { in.AnnualReturnPercent = d(-100) }, "annual return percent"},
		{"year out of range", func(in *domain.CalculationInput) { in.CurrentYear = 1200 }, "current year"},
		{"withdrawal month", func(in *domain.CalculationInput) { in.MonthlyWithdrawalStartMonth = 13 }, "monthly withdrawal start month"},
		{"cutoff month only", func(in *domain.CalculationInput) { in.ContributionEndMonth = intp(5) }, "given together"},
		{"cutoff month range", func(in *domain.CalculationInput) {
			in.ContributionEndMonth = intp(0)
			in.ContributionEndYear = intp(2030)
		}, "contribution end month"},
		{"filing status", func(in *domain.CalculationInput) { in.FilingStatus = "widow" }, "unknown filing status"},
		{"fsc filing status", func(in *domain.CalculationInput) { in.FSCFilingStatus = "widow" }, "saver's credit filing status"},
		{"unknown state", func(in *domain.CalculationInput) { in.StateCode = "ZZ" }, "unknown state"},
		{"unknown plan state", func(in *domain.CalculationInput) { in.PlanStateCode = "QQ" }, "unknown plan state"},
		{"negative earned income", func(in *domain.CalculationInput) { in.WorkToAbleEarnedIncome = d(-1) }, "ABLE to Work earned income"},
		{"guideline year", func(in *domain.CalculationInput) { in.WorkToAbleFPLYear = 3000 }, "guideline year"},
		{"work state code", func(in *domain.CalculationInput) { in.WorkToAbleStateCode = "Alaska" }, "two letter code"},
		{"work state outside tables", func(in *domain.CalculationInput) { in.WorkToAbleStateCode = "AK" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := ValidateInput(&in, tables)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestValidateInputWithoutTablesSkipsStates(t *testing.T) {
	in := validInput()
	in.StateCode = "ZZ"
	assert.NoError(t, ValidateInput(&in, nil))
}

func TestNormalizeInput(t *testing.T) {
	in := domain.CalculationInput{
		FilingStatus:  "hoh",
		StateCode:     " pa ",
		PlanStateCode: "ny",
	}
	NormalizeInput(&in)
	assert.Equal(t, domain.FilingHeadOfHousehold, in.FilingStatus)
	assert.Equal(t, domain.FilingHeadOfHousehold, in.FSCFilingStatus)
	assert.Equal(t, domain.CadenceMonthly, in.BeneficiaryRecurringCadence)
	assert.Equal(t, "PA", in.StateCode)
	assert.Equal(t, "NY", in.PlanStateCode)

	unknown := domain.CalculationInput{FilingStatus: "widow", FSCFilingStatus: "Joint"}
	NormalizeInput(&unknown)
	assert.Equal(t, domain.FilingStatus("widow"), unknown.FilingStatus)
	assert.Equal(t, domain.FilingMarriedJoint, unknown.FSCFilingStatus)
}
