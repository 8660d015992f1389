package config

import (
	"errors"
	"fmt"

	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/ablecalc/able-calculator/internal/rates"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput marks every error returned by ValidateInput.
var ErrInvalidInput = errors.New("invalid input")

var (
	minReturnPercent = decimal.NewFromInt(-100)
	maxReturnPercent = decimal.NewFromInt(100)
	maxHorizonYears  = decimal.NewFromInt(100)
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NormalizeInput canonicalizes enum spellings and state codes and fills
// defaults that depend on other fields. It never rejects input.
func NormalizeInput(input *domain.CalculationInput) {
	if fs, err := domain.ParseFilingStatus(string(input.FilingStatus)); err == nil {
		input.FilingStatus = fs
	}
	if input.FSCFilingStatus == "" {
		input.FSCFilingStatus = input.FilingStatus
	} else if fs, err := domain.ParseFilingStatus(string(input.FSCFilingStatus)); err == nil {
		input.FSCFilingStatus = fs
	}
	if input.BeneficiaryRecurringCadence == "" {
		input.BeneficiaryRecurringCadence = domain.CadenceMonthly
	}
	input.StateCode = rates.NormalizeStateCode(input.StateCode)
	input.PlanStateCode = rates.NormalizeStateCode(input.PlanStateCode)
	input.WorkToAbleStateCode = rates.NormalizeStateCode(input.WorkToAbleStateCode)
}

// ValidateInput checks input for values the projection cannot use. When
// tables is non-nil, state codes must be present in it. The first problem
// found is returned, wrapped in ErrInvalidInput.
func ValidateInput(input *domain.CalculationInput, tables *rates.Tables) error {
	money := []struct {
		name  string
		value decimal.Decimal
	}{
		{"starting balance", input.StartingBalance},
		{"upfront contribution", input.BeneficiaryUpfrontContribution},
		{"recurring contribution", input.BeneficiaryRecurringContribution},
		{"monthly withdrawal amount", input.MonthlyWithdrawalAmount},
		{"annual withdrawal amount", input.AnnualWithdrawalAmount},
		{"account AGI", input.AccountAGI},
		{"saver's credit AGI", input.FSCAGI},
		{"ABLE to Work earned income", input.WorkToAbleEarnedIncome},
	}
	for _, m := range money {
		if m.value.IsNegative() {
			return invalid("%s cannot be negative", m.name)
		}
	}
	if input.PlanMaxBalance != nil && !input.PlanMaxBalance.IsPositive() {
		return invalid("plan max balance must be positive")
	}

	if input.BeneficiaryRecurringContribution.IsPositive() && !input.BeneficiaryRecurringCadence.Valid() {
		return invalid("recurring cadence must be 'monthly' or 'annual', got %q", input.BeneficiaryRecurringCadence)
	}

	if !input.TimeHorizonYears.IsPositive() {
		return invalid("time horizon must be positive")
	}
	if input.TimeHorizonYears.GreaterThan(maxHorizonYears) {
		return invalid("time horizon cannot exceed %s years", maxHorizonYears)
	}
	if input.AnnualReturnPercent.LessThanOrEqual(minReturnPercent) || input.AnnualReturnPercent.GreaterThan(maxReturnPercent) {
		return invalid("annual return percent must be greater than -100 and at most 100")
	}
	if input.CurrentYear != 0 && (input.CurrentYear < 1900 || input.CurrentYear > 2200) {
		return invalid("current year %d is out of range", input.CurrentYear)
	}
	if input.WorkToAbleFPLYear != 0 && (input.WorkToAbleFPLYear < 1900 || input.WorkToAbleFPLYear > 2200) {
		return invalid("ABLE to Work guideline year %d is out of range", input.WorkToAbleFPLYear)
	}

	months := []struct {
		name  string
		value int
	}{
		{"monthly withdrawal start month", input.MonthlyWithdrawalStartMonth},
		{"annual withdrawal start month", input.AnnualWithdrawalStartMonth},
	}
	for _, m := range months {
		if m.value < 0 || m.value > 12 {
			return invalid("%s must be between 1 and 12", m.name)
		}
	}

	if (input.ContributionEndMonth == nil) != (input.ContributionEndYear == nil) {
		return invalid("contribution end month and year must be given together")
	}
	if input.ContributionEndMonth != nil && (*input.ContributionEndMonth < 1 || *input.ContributionEndMonth > 12) {
		return invalid("contribution end month must be between 1 and 12")
	}

	if !input.FilingStatus.Valid() {
		return invalid("unknown filing status %q", input.FilingStatus)
	}
	if input.FSCFilingStatus != "" && !input.FSCFilingStatus.Valid() {
		return invalid("unknown saver's credit filing status %q", input.FSCFilingStatus)
	}

	if input.WorkToAbleStateCode != "" && len(input.WorkToAbleStateCode) != 2 {
		return invalid("ABLE to Work state %q must be a two letter code", input.WorkToAbleStateCode)
	}

	if tables != nil {
		if input.StateCode != "" && tables.State(input.StateCode) == nil {
			return invalid("unknown state %q", input.StateCode)
		}
		if input.PlanStateCode != "" && tables.State(input.PlanStateCode) == nil {
			return invalid("unknown plan state %q", input.PlanStateCode)
		}
	}

	return nil
}
