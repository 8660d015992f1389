package decimal

import (
	"testing"

	stddec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMonthlyRate(t *testing.T) {
	assert.True(t, MonthlyRate(stddec.Zero).IsZero())

	// Twelve months of compounding must reproduce the annual rate.
	annual := stddec.NewFromFloat(0.06)
	monthly := MonthlyRate(annual)
	compounded := stddec.NewFromInt(1)
	for i := 0; i < 12; i++ {
		compounded = compounded.Mul(stddec.NewFromInt(1).Add(monthly))
	}
	diff := compounded.Sub(stddec.NewFromInt(1)).Sub(annual).Abs()
	assert.True(t, diff.LessThan(stddec.NewFromFloat(1e-9)), "compounded diff %s", diff)

	// Roughly 0.4868% per month for 6% annual.
	assert.InDelta(t, 0.004868, monthly.InexactFloat64(), 1e-6)
}

func TestPercentConversions(t *testing.T) {
	assert.True(t, FromPercent(stddec.NewFromFloat(6.5)).Equal(stddec.NewFromFloat(0.065)))
	assert.True(t, ToPercent(stddec.NewFromFloat(0.0495)).Equal(stddec.NewFromFloat(4.95)))
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name        string
		part, whole float64
		want        float64
	}{
		{"half", 50, 100, 0.5},
		{"full", 100, 100, 1},
		{"zero whole", 10, 0, 0},
		{"negative whole", 10, -5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(stddec.NewFromFloat(tt.part), stddec.NewFromFloat(tt.whole))
			assert.True(t, got.Equal(stddec.NewFromFloat(tt.want)), "got %s", got)
		})
	}
}

func TestClampZeroAndCents(t *testing.T) {
	assert.True(t, ClampZero(stddec.NewFromInt(-3)).IsZero())
	assert.True(t, ClampZero(stddec.NewFromInt(3)).Equal(stddec.NewFromInt(3)))
	assert.Equal(t, "10.13", Cents(stddec.RequireFromString("10.125")).StringFixed(2))
	p := Ptr(stddec.NewFromInt(7))
	assert.True(t, p.Equal(stddec.NewFromInt(7)))
}
