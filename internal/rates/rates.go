// Package rates holds the federal and state tax tables used by the
// projection engine, together with pure lookups over them.
//
// A *Tables value is fully validated when it is built by the loader and is
// never mutated afterwards, so a single instance may be shared by any number
// of goroutines.
package rates

import (
	"sort"
	"strings"

	"github.com/ablecalc/able-calculator/internal/domain"
	dec "github.com/ablecalc/able-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// DefaultFederalRate applies when no federal schedule exists for a filing status.
var DefaultFederalRate = decimal.NewFromFloat(0.10)

// DefaultAnnualContributionLimit applies when the tables list no annual
// ABLE contribution limits.
var DefaultAnnualContributionLimit = decimal.NewFromInt(20000)

// StateTable groups everything known about one state.
type StateTable struct {
	Name     string                                      `yaml:"name"`
	Plan     domain.PlanInfo                             `yaml:"plan"`
	Brackets map[domain.FilingStatus][]domain.TaxBracket `yaml:"brackets,omitempty"`
	Benefits map[domain.FilingStatus]domain.StateBenefit `yaml:"benefits,omitempty"`
}

// SaversTable is the Federal Saver's Credit schedule.
type SaversTable struct {
	ContributionLimits map[domain.FilingStatus]decimal.Decimal `yaml:"contribution_limits"`
	Tiers              []domain.SaversTier                     `yaml:"tiers"`
}

// Tables is the complete, validated rate data set.
type Tables struct {
	TaxYear int                                         `yaml:"tax_year"`
	Federal map[domain.FilingStatus][]domain.TaxBracket `yaml:"federal"`
	Savers  SaversTable                                 `yaml:"savers_credit"`
	States  map[string]*StateTable                      `yaml:"states"`

	// Sorted by year, at most one entry per year.
	ContributionLimits []domain.AnnualContributionLimit `yaml:"annual_contribution_limits,omitempty"`
	FPLSchedules       []domain.FPLSchedule             `yaml:"fpl,omitempty"`
}

// NormalizeStateCode trims and upper-cases a two letter state code.
func NormalizeStateCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FederalRate returns the marginal federal rate for taxable income under a
// filing status. Unknown statuses use DefaultFederalRate; negative income is
// treated as zero.
func (t *Tables) FederalRate(status domain.FilingStatus, income decimal.Decimal) decimal.Decimal {
	brackets := t.Federal[status]
	if len(brackets) == 0 {
		return DefaultFederalRate
	}
	if rate, ok := bracketRate(brackets, dec.ClampZero(income)); ok {
		return rate
	}
	return brackets[len(brackets)-1].Rate
}

// StateRate returns the marginal state rate for taxable income. An empty or
// unknown state, or a state without brackets for the status, yields zero.
func (t *Tables) StateRate(code string, status domain.FilingStatus, income decimal.Decimal) decimal.Decimal {
	st := t.state(code)
	if st == nil {
		return decimal.Zero
	}
	if rate, ok := bracketRate(st.Brackets[status], dec.ClampZero(income)); ok {
		return rate
	}
	return decimal.Zero
}

// bracketRate finds the first bracket containing income. Published tables
// list whole-dollar bounds (0-11925, 11926-48475), so fractional income can
// land between two brackets; such income takes the rate of the highest
// bracket that starts at or below it.
func bracketRate(brackets []domain.TaxBracket, income decimal.Decimal) (decimal.Decimal, bool) {
	var (
		gapRate decimal.Decimal
		inGap   bool
	)
	for _, b := range brackets {
		if b.Contains(income) {
			return b.Rate, true
		}
		if b.Min.LessThanOrEqual(income) {
			gapRate, inGap = b.Rate, true
		}
	}
	return gapRate, inGap
}

// StateBenefit resolves the contribution benefit for a residence state and
// filing status. planCode is the state whose plan holds the account; the
// benefit applies when it is empty, equals the residence state, or the
// residence state grants parity to out-of-state plans.
func (t *Tables) StateBenefit(code string, status domain.FilingStatus, planCode string) domain.StateBenefitInfo {
	none := domain.StateBenefitInfo{StateBenefit: domain.StateBenefit{Type: domain.BenefitNone}}
	normalized := NormalizeStateCode(code)
	if normalized == "" {
		return none
	}
	info := none
	st := t.States[normalized]
	if st != nil {
		if b, ok := st.Benefits[status]; ok {
			info.StateBenefit = b
		}
		info.Parity = st.Plan.Parity
	}
	plan := NormalizeStateCode(planCode)
	info.Applies = plan == "" || plan == normalized || info.Parity
	return info
}

// SaversCredit returns the first tier whose bracket for the filing status
// matches agi. The boolean is false when no tier matches.
func (t *Tables) SaversCredit(status domain.FilingStatus, agi decimal.Decimal) (domain.SaversResult, bool) {
	for _, tier := range t.Savers.Tiers {
		b, ok := tier.Brackets[status]
		if !ok {
			continue
		}
		if b.Matches(agi) {
			return domain.SaversResult{CreditRate: tier.CreditRate, BracketLabel: b.Label}, true
		}
	}
	return domain.SaversResult{CreditRate: decimal.Zero}, false
}

// SaversContributionLimit returns the per-status cap on contributions that
// count toward the Saver's Credit, or zero for an unknown status.
func (t *Tables) SaversContributionLimit(status domain.FilingStatus) decimal.Decimal {
	if v, ok := t.Savers.ContributionLimits[status]; ok {
		return v
	}
	return decimal.Zero
}

// AnnualContributionLimit returns the ABLE contribution limit for a year.
// A year without an entry uses the latest earlier year, or the earliest
// listed year when the request predates them all.
func (t *Tables) AnnualContributionLimit(year int) decimal.Decimal {
	if len(t.ContributionLimits) == 0 {
		return DefaultAnnualContributionLimit
	}
	limit := t.ContributionLimits[0].Limit
	for _, l := range t.ContributionLimits {
		if l.Year > year {
			break
		}
		limit = l.Limit
	}
	return limit
}

// LatestFPLYear returns the most recent poverty guideline year, or zero.
func (t *Tables) LatestFPLYear() int {
	if len(t.FPLSchedules) == 0 {
		return 0
	}
	return t.FPLSchedules[len(t.FPLSchedules)-1].Year
}

// FPL returns the poverty guideline for a state in a year. Year zero means
// the latest year. The boolean is false for an empty state code, a year
// without a schedule or a state the schedule does not cover.
func (t *Tables) FPL(code string, year int) (decimal.Decimal, bool) {
	normalized := NormalizeStateCode(code)
	if normalized == "" {
		return decimal.Zero, false
	}
	if year == 0 {
		year = t.LatestFPLYear()
	}
	for _, s := range t.FPLSchedules {
		if s.Year != year {
			continue
		}
		if v, ok := s.States[normalized]; ok {
			return v, true
		}
		if s.Amount.IsPositive() {
			return s.Amount, true
		}
		return decimal.Zero, false
	}
	return decimal.Zero, false
}

// Plan returns the ABLE program details for a state.
func (t *Tables) Plan(code string) (domain.PlanInfo, bool) {
	st := t.state(code)
	if st == nil {
		return domain.PlanInfo{}, false
	}
	return st.Plan, true
}

// State returns the full table for a state, or nil.
func (t *Tables) State(code string) *StateTable {
	return t.state(code)
}

// StateCodes lists every state in the tables, sorted.
func (t *Tables) StateCodes() []string {
	codes := make([]string, 0, len(t.States))
	for code := range t.States {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (t *Tables) state(code string) *StateTable {
	normalized := NormalizeStateCode(code)
	if normalized == "" {
		return nil
	}
	return t.States[normalized]
}
