package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxBracket is one band of a marginal rate schedule. A nil Max marks the
// open-ended top bracket.
type TaxBracket struct {
	FilingStatus FilingStatus     `yaml:"-" json:"filing_status,omitempty"`
	Rate         decimal.Decimal  `yaml:"rate" json:"rate"`
	Min          decimal.Decimal  `yaml:"min" json:"min"`
	Max          *decimal.Decimal `yaml:"max,omitempty" json:"max,omitempty"`
}

// Contains reports whether income falls inside [Min, Max].
func (b TaxBracket) Contains(income decimal.Decimal) bool {
	if income.LessThan(b.Min) {
		return false
	}
	return b.Max == nil || income.LessThanOrEqual(*b.Max)
}

// StateBenefit is a state's tax benefit for ABLE contributions under one
// filing status. Amount is the deduction cap or the credit cap.
type StateBenefit struct {
	Type          BenefitType     `yaml:"type" json:"type"`
	Amount        decimal.Decimal `yaml:"amount" json:"amount"`
	CreditPercent decimal.Decimal `yaml:"credit_percent,omitempty" json:"credit_percent,omitempty"`
}

// StateBenefitInfo is a StateBenefit resolved against the plan a beneficiary
// actually uses. Applies is false when the plan is out of state and the
// residence state does not offer parity.
type StateBenefitInfo struct {
	StateBenefit
	Applies bool `json:"applies"`
	Parity  bool `json:"parity"`
}

// PlanInfo describes a state's ABLE program.
type PlanInfo struct {
	Name              string           `yaml:"name" json:"name"`
	HasPlan           bool             `yaml:"has_plan" json:"has_plan"`
	ResidencyRequired bool             `yaml:"residency_required" json:"residency_required"`
	Parity            bool             `yaml:"parity" json:"parity"`
	MaxAccountBalance *decimal.Decimal `yaml:"max_account_balance,omitempty" json:"max_account_balance,omitempty"`
}

// SaversBracketKind selects how a Saver's Credit bracket matches an AGI.
type SaversBracketKind string

const (
	// BracketAtMost matches agi <= Value.
	BracketAtMost SaversBracketKind = "max"
	// BracketMoreThan matches agi > Value.
	BracketMoreThan SaversBracketKind = "min"
	// BracketRange matches Min <= agi <= Max.
	BracketRange SaversBracketKind = "range"
	// BracketExact matches agi == Value.
	BracketExact SaversBracketKind = "exact"
)

// SaversBracket is an AGI predicate for one Saver's Credit tier under one
// filing status.
type SaversBracket struct {
	Kind  SaversBracketKind `yaml:"type" json:"type"`
	Value decimal.Decimal   `yaml:"value,omitempty" json:"value,omitempty"`
	Min   decimal.Decimal   `yaml:"min,omitempty" json:"min,omitempty"`
	Max   decimal.Decimal   `yaml:"max,omitempty" json:"max,omitempty"`
	Label string            `yaml:"label,omitempty" json:"label,omitempty"`
}

// Validate checks that the bracket kind is known.
func (b SaversBracket) Validate() error {
	switch b.Kind {
	case BracketAtMost, BracketMoreThan, BracketExact:
		return nil
	case BracketRange:
		if b.Max.LessThan(b.Min) {
			return fmt.Errorf("range bracket %q has max below min", b.Label)
		}
		return nil
	}
	return fmt.Errorf("unknown bracket type %q", b.Kind)
}

// Matches evaluates the bracket against an AGI.
func (b SaversBracket) Matches(agi decimal.Decimal) bool {
	switch b.Kind {
	case BracketAtMost:
		return agi.LessThanOrEqual(b.Value)
	case BracketMoreThan:
		return agi.GreaterThan(b.Value)
	case BracketRange:
		return agi.GreaterThanOrEqual(b.Min) && agi.LessThanOrEqual(b.Max)
	case BracketExact:
		return agi.Equal(b.Value)
	}
	return false
}

// SaversTier is one row of the Saver's Credit table: a credit rate and the
// AGI bracket that qualifies for it under each filing status.
type SaversTier struct {
	CreditRate decimal.Decimal                `yaml:"credit_rate" json:"credit_rate"`
	Brackets   map[FilingStatus]SaversBracket `yaml:"brackets" json:"brackets"`
}

// SaversResult is the outcome of a Saver's Credit lookup.
type SaversResult struct {
	CreditRate   decimal.Decimal `json:"credit_rate"`
	BracketLabel string          `json:"bracket_label,omitempty"`
}
