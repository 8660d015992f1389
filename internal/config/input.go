package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/ablecalc/able-calculator/internal/rates"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Scenario is one projection request as stored in a YAML scenario file.
type Scenario struct {
	Label string `yaml:"label,omitempty"`
	// UsePlanMax fills PlanMaxBalance from the plan's published maximum
	// when the file leaves it unset.
	UsePlanMax bool `yaml:"use_state_plan_max,omitempty"`

	Input domain.CalculationInput `yaml:",inline"`
}

// InputParser handles parsing of scenario files
type InputParser struct {
	// Tables, when set, is used to check state codes and to resolve plan
	// maximums.
	Tables *rates.Tables
}

// NewInputParser creates a new input parser
func NewInputParser(tables *rates.Tables) *InputParser {
	return &InputParser{Tables: tables}
}

// LoadFromFile loads a scenario from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, normalizes and validates a scenario document.
func (ip *InputParser) Parse(data []byte) (*Scenario, error) {
	var scenario Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&scenario); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.Prepare(&scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Prepare normalizes a decoded scenario, fills its plan maximum when asked
// to and validates the result.
func (ip *InputParser) Prepare(scenario *Scenario) error {
	NormalizeInput(&scenario.Input)
	if scenario.UsePlanMax {
		ip.ResolvePlanMax(scenario)
	}
	if err := ValidateInput(&scenario.Input, ip.Tables); err != nil {
		return fmt.Errorf("scenario validation failed: %w", err)
	}
	return nil
}

// ResolvePlanMax copies the plan state's maximum account balance into the
// scenario when none is set. Without tables or a known plan it does nothing.
func (ip *InputParser) ResolvePlanMax(scenario *Scenario) {
	if ip.Tables == nil || scenario.Input.PlanMaxBalance != nil {
		return
	}
	code := scenario.Input.PlanStateCode
	if code == "" {
		code = scenario.Input.StateCode
	}
	if plan, ok := ip.Tables.Plan(code); ok && plan.MaxAccountBalance != nil {
		limit := *plan.MaxAccountBalance
		scenario.Input.PlanMaxBalance = &limit
	}
}

// WriteScenario encodes a scenario as YAML.
func WriteScenario(w io.Writer, scenario *Scenario) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(scenario); err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}
	return enc.Close()
}

// CreateExampleScenario creates an example scenario file
func (ip *InputParser) CreateExampleScenario() *Scenario {
	return &Scenario{
		Label:      "Monthly saver in Ohio",
		UsePlanMax: true,
		Input: domain.CalculationInput{
			StartingBalance:                  decimal.NewFromInt(5000),
			BeneficiaryUpfrontContribution:   decimal.NewFromInt(1000),
			BeneficiaryRecurringContribution: decimal.NewFromInt(250),
			BeneficiaryRecurringCadence:      domain.CadenceMonthly,
			WithdrawalPlanDecision:           true,
			MonthlyWithdrawalAmount:          decimal.NewFromInt(150),
			MonthlyWithdrawalStartMonth:      1,
			MonthlyWithdrawalStartYear:       ip.exampleYear() + 5,
			AnnualReturnPercent:              decimal.NewFromInt(6),
			TimeHorizonYears:                 decimal.NewFromInt(20),
			IsSSIBeneficiary:                 true,
			FilingStatus:                     domain.FilingSingle,
			AccountAGI:                       decimal.NewFromInt(22000),
			StateCode:                        "OH",
			FSCFilingStatus:                  domain.FilingSingle,
			FSCAGI:                           decimal.NewFromInt(22000),
			FSCEligibleCriteriaMet:           true,
		},
	}
}

func (ip *InputParser) exampleYear() int {
	if ip.Tables != nil && ip.Tables.TaxYear != 0 {
		return ip.Tables.TaxYear
	}
	return 2025
}
