package domain

import (
	"fmt"
	"strings"
)

// Cadence describes how often a recurring contribution is made.
type Cadence string

const (
	CadenceMonthly Cadence = "monthly"
	CadenceAnnual  Cadence = "annual"
)

// Valid reports whether c is a known cadence.
func (c Cadence) Valid() bool {
	return c == CadenceMonthly || c == CadenceAnnual
}

// IsDue reports whether a contribution with this cadence falls due in the
// given zero-based month of a projection. Annual contributions fall on
// indices 0, 12, 24... relative to the plan start, not on calendar January.
func (c Cadence) IsDue(monthIndex int) bool {
	switch c {
	case CadenceMonthly:
		return true
	case CadenceAnnual:
		return monthIndex%12 == 0
	default:
		return false
	}
}

// FilingStatus is a federal/state income tax filing status.
type FilingStatus string

const (
	FilingSingle          FilingStatus = "single"
	FilingMarriedJoint    FilingStatus = "married_joint"
	FilingMarriedSeparate FilingStatus = "married_separate"
	FilingHeadOfHousehold FilingStatus = "head_of_household"
)

// FilingStatuses lists every supported filing status in display order.
var FilingStatuses = []FilingStatus{
	FilingSingle,
	FilingMarriedJoint,
	FilingMarriedSeparate,
	FilingHeadOfHousehold,
}

// Valid reports whether s is a known filing status.
func (s FilingStatus) Valid() bool {
	for _, fs := range FilingStatuses {
		if s == fs {
			return true
		}
	}
	return false
}

// Label returns a human readable name for the filing status.
func (s FilingStatus) Label() string {
	switch s {
	case FilingSingle:
		return "Single"
	case FilingMarriedJoint:
		return "Married Filing Jointly"
	case FilingMarriedSeparate:
		return "Married Filing Separately"
	case FilingHeadOfHousehold:
		return "Head of Household"
	default:
		return string(s)
	}
}

// ParseFilingStatus accepts canonical identifiers as well as the long-form
// labels used in published tax tables ("Married Filing Jointly", "Joint").
func ParseFilingStatus(s string) (FilingStatus, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	switch n {
	case "single":
		return FilingSingle, nil
	case "married_joint", "married filing jointly", "joint", "mfj":
		return FilingMarriedJoint, nil
	case "married_separate", "married filing separately", "separate", "mfs":
		return FilingMarriedSeparate, nil
	case "head_of_household", "head of household", "head", "hoh":
		return FilingHeadOfHousehold, nil
	}
	return "", fmt.Errorf("unknown filing status %q", s)
}

// BenefitType classifies a state's tax treatment of ABLE contributions.
type BenefitType string

const (
	BenefitNone      BenefitType = "none"
	BenefitDeduction BenefitType = "deduction"
	BenefitCredit    BenefitType = "credit"
)

// ParseBenefitType normalizes a benefit type; anything unrecognized is none.
func ParseBenefitType(s string) BenefitType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deduction":
		return BenefitDeduction
	case "credit":
		return BenefitCredit
	default:
		return BenefitNone
	}
}
