package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestCadenceIsDue(t *testing.T) {
	for i := 0; i < 36; i++ {
		assert.True(t, CadenceMonthly.IsDue(i))
		assert.Equal(t, i%12 == 0, CadenceAnnual.IsDue(i), "annual at %d", i)
	}
	assert.False(t, Cadence("weekly").IsDue(0))
	assert.False(t, Cadence("weekly").Valid())
}

func TestParseFilingStatus(t *testing.T) {
	tests := []struct {
		in   string
		want FilingStatus
	}{
		{"single", FilingSingle},
		{"Married Filing Jointly", FilingMarriedJoint},
		{"Joint", FilingMarriedJoint},
		{"married_separate", FilingMarriedSeparate},
		{" Head of Household ", FilingHeadOfHousehold},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilingStatus(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}

	_, err := ParseFilingStatus("widowed")
	assert.Error(t, err)
}

func TestParseBenefitType(t *testing.T) {
	assert.Equal(t, BenefitDeduction, ParseBenefitType("Deduction"))
	assert.Equal(t, BenefitCredit, ParseBenefitType(" credit "))
	assert.Equal(t, BenefitNone, ParseBenefitType(""))
	assert.Equal(t, BenefitNone, ParseBenefitType("N/A"))
}

func TestTaxBracketContains(t *testing.T) {
	upper := d(11925)
	b := TaxBracket{Min: d(0), Max: &upper, Rate: d(0.10)}
	assert.True(t, b.Contains(d(0)))
	assert.True(t, b.Contains(d(11925)))
	assert.False(t, b.Contains(d(11925.5)))

	top := TaxBracket{Min: d(626351), Rate: d(0.37)}
	assert.True(t, top.Contains(d(10_000_000)))
	assert.False(t, top.Contains(d(626350)))
}

func TestSaversBracketMatches(t *testing.T) {
	tests := []struct {
		name    string
		bracket SaversBracket
		agi     float64
		want    bool
	}{
		{"at most inclusive", SaversBracket{Kind: BracketAtMost, Value: d(23750)}, 23750, true},
		{"at most above", SaversBracket{Kind: BracketAtMost, Value: d(23750)}, 23751, false},
		{"more than exclusive", SaversBracket{Kind: BracketMoreThan, Value: d(39500)}, 39500, false},
		{"more than above", SaversBracket{Kind: BracketMoreThan, Value: d(39500)}, 39501, true},
		{"range low edge", SaversBracket{Kind: BracketRange, Min: d(23751), Max: d(25750)}, 23751, true},
		{"range high edge", SaversBracket{Kind: BracketRange, Min: d(23751), Max: d(25750)}, 25750, true},
		{"range outside", SaversBracket{Kind: BracketRange, Min: d(23751), Max: d(25750)}, 25751, false},
		{"exact", SaversBracket{Kind: BracketExact, Value: d(100)}, 100, true},
		{"exact miss", SaversBracket{Kind: BracketExact, Value: d(100)}, 100.01, false},
		{"unknown kind", SaversBracket{Kind: "raw", Value: d(100)}, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bracket.Matches(d(tt.agi)))
		})
	}
}

func TestSaversBracketValidate(t *testing.T) {
	assert.NoError(t, SaversBracket{Kind: BracketAtMost}.Validate())
	assert.NoError(t, SaversBracket{Kind: BracketRange, Min: d(1), Max: d(2)}.Validate())
	assert.Error(t, SaversBracket{Kind: BracketRange, Min: d(2), Max: d(1)}.Validate())
	assert.Error(t, SaversBracket{Kind: "raw"}.Validate())
}

func TestMonthCount(t *testing.T) {
	tests := []struct {
		years float64
		want  int
	}{
		{1, 12},
		{0.5, 6},
		{1.0 / 12.0, 1},
		{0, 1},
		{0.01, 1},
		{50, 600},
		{2.04, 24},
		{2.05, 25},
	}
	for _, tt := range tests {
		cfg := SimulationConfig{HorizonYears: d(tt.years)}
		assert.Equal(t, tt.want, cfg.MonthCount(), "years=%v", tt.years)
	}
}

func TestResultTotals(t *testing.T) {
	r := CalculationResult{Schedule: []AmortizationRow{
		{Contributions: d(100), Earnings: d(1), Withdrawals: d(0), EndingBalance: d(101)},
		{Contributions: d(100), Earnings: d(2), Withdrawals: d(50), EndingBalance: d(153)},
	}}
	c, e, w := r.Totals()
	assert.True(t, c.Equal(d(200)))
	assert.True(t, e.Equal(d(3)))
	assert.True(t, w.Equal(d(50)))
	assert.True(t, r.FinalBalance().Equal(d(153)))

	var empty CalculationResult
	assert.True(t, empty.FinalBalance().IsZero())
}
