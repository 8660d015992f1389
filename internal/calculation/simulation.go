package calculation

import (
	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/ablecalc/able-calculator/pkg/dateutil"
	dec "github.com/ablecalc/able-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// MonthState is everything a simulation carries from one month into the
// next. Both flags are sticky: once set they stay set for the rest of the run.
type MonthState struct {
	Balance              decimal.Decimal
	ContributionsStopped bool
	UpfrontApplied       bool
}

// Simulator runs the month-by-month balance simulation for one
// configuration. It holds no mutable state; Step is a pure function of its
// arguments, so a Simulator may be shared between goroutines.
type Simulator struct {
	cfg         domain.SimulationConfig
	startMonth  int
	startYear   int
	months      int
	monthlyRate decimal.Decimal
	ssiEnforced bool

	annualStartMonth int
	annualStartYear  int
}

// NewSimulator resolves defaults in cfg and derives the fixed monthly rate.
func NewSimulator(cfg domain.SimulationConfig) *Simulator {
	s := &Simulator{
		cfg:         cfg,
		startMonth:  cfg.PlanStartMonth,
		startYear:   cfg.PlanStartYear,
		months:      cfg.MonthCount(),
		monthlyRate: dec.MonthlyRate(cfg.AnnualReturnRate),
		ssiEnforced: cfg.SSIEnforced(),
	}
	if s.startMonth == 0 {
		s.startMonth = 1
	}
	if s.startYear == 0 {
		s.startYear = currentYear()
	}
	s.annualStartMonth, s.annualStartYear = s.startMonth, s.startYear
	if wp := cfg.WithdrawalPlan; wp != nil {
		if wp.AnnualStartMonth != 0 {
			s.annualStartMonth = wp.AnnualStartMonth
		}
		if wp.AnnualStartYear != 0 {
			s.annualStartYear = wp.AnnualStartYear
		}
	}
	return s
}

// RunSimulation is shorthand for NewSimulator(cfg).Run().
func RunSimulation(cfg domain.SimulationConfig) []domain.AmortizationRow {
	return NewSimulator(cfg).Run()
}

// Months returns the number of rows Run produces.
func (s *Simulator) Months() int { return s.months }

// MonthlyRate returns the compounding rate applied each month.
func (s *Simulator) MonthlyRate() decimal.Decimal { return s.monthlyRate }

// InitialState is the state entering month zero.
func (s *Simulator) InitialState() MonthState {
	return MonthState{Balance: s.cfg.StartingBalance}
}

// Run folds Step over every month of the horizon.
func (s *Simulator) Run() []domain.AmortizationRow {
	rows := make([]domain.AmortizationRow, 0, s.months)
	state := s.InitialState()
	for i := 0; i < s.months; i++ {
		var row domain.AmortizationRow
		state, row = s.Step(state, i)
		rows = append(rows, row)
	}
	return rows
}

// Step advances the account by one month. It returns the state entering the
// following month and the row describing this one.
func (s *Simulator) Step(state MonthState, monthIndex int) (MonthState, domain.AmortizationRow) {
	cfg := s.cfg
	month, year := dateutil.MonthAt(s.startMonth, s.startYear, monthIndex)
	next := state
	balance := state.Balance
	planMaxStop := false

	// Admission against the balance entering the month.
	if cfg.HasContributionCutoff() &&
		dateutil.IsAfter(month, year, *cfg.ContributionEndMonth, *cfg.ContributionEndYear) {
		next.ContributionsStopped = true
	}
	if s.atPlanMax(balance) {
		next.ContributionsStopped = true
		planMaxStop = true
	}
	if s.atSSILimit(balance) {
		next.ContributionsStopped = true
	}

	canContribute := !next.ContributionsStopped &&
		(cfg.PlanMaxBalance == nil || balance.LessThan(*cfg.PlanMaxBalance))
	upfront := decimal.Zero
	if !state.UpfrontApplied && !cfg.UpfrontContribution.IsZero() {
		upfront = cfg.UpfrontContribution
	}
	contribution := decimal.Zero
	if canContribute {
		contribution = upfront.Add(s.recurringDue(monthIndex))
	}

	afterContribution := balance.Add(contribution)
	earnings := s.earnings(monthIndex, afterContribution)

	// Re-check the caps against the projected pre-withdrawal balance. A
	// month that would reach a cap contributes nothing at all.
	if canContribute {
		projected := afterContribution.Add(earnings)
		hitMax := s.atPlanMax(projected)
		if hitMax || s.atSSILimit(projected) {
			contribution = decimal.Zero
			next.ContributionsStopped = true
			planMaxStop = planMaxStop || hitMax
			afterContribution = balance
			earnings = s.earnings(monthIndex, afterContribution)
		}
	}

	if upfront.IsPositive() && contribution.IsPositive() {
		next.UpfrontApplied = true
	}

	balance = afterContribution.Add(earnings)

	monthlyPlanned, annualPlanned := s.plannedWithdrawals(month, year)
	planned := monthlyPlanned.Add(annualPlanned)
	ssiExcess := decimal.Zero
	if s.ssiEnforced {
		ssiExcess = dec.ClampZero(balance.Sub(planned).Sub(*cfg.SSILimit))
	}
	requested := planned.Add(ssiExcess)

	applied := decimal.Zero
	if balance.IsPositive() {
		applied = decimal.Min(requested, balance)
	}
	shares := rationShares(applied, requested, monthlyPlanned, annualPlanned, ssiExcess)

	balance = balance.Sub(applied)

	// Post-withdrawal checks only affect later months.
	if s.atPlanMax(balance) {
		next.ContributionsStopped = true
		planMaxStop = true
	}
	if s.atSSILimit(balance) {
		next.ContributionsStopped = true
	}
	next.Balance = balance

	row := domain.AmortizationRow{
		MonthIndex:           monthIndex,
		Month:                month,
		Year:                 year,
		Contributions:        contribution,
		Earnings:             earnings,
		Withdrawals:          applied,
		MonthlyWithdrawals:   shares[0].Add(shares[2]),
		AnnualWithdrawals:    shares[1],
		SSIWithdrawals:       shares[2],
		RequestedWithdrawals: requested,
		EndingBalance:        balance,
		MonthlyRate:          s.monthlyRate,
		PlanMaxStop:          planMaxStop,
	}
	return next, row
}

// rationShares splits applied across the planned components at the same
// ratio applied/requested. Shares are rounded to cents and the largest
// component takes the remainder, so the shares add up to applied exactly.
func rationShares(applied, requested decimal.Decimal, parts ...decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(parts))
	if applied.Equal(requested) {
		copy(shares, parts)
		return shares
	}
	ratio := dec.Ratio(applied, requested)
	largest := 0
	for i, p := range parts {
		if p.GreaterThan(parts[largest]) {
			largest = i
		}
	}
	rest := decimal.Zero
	for i, p := range parts {
		if i == largest {
			continue
		}
		shares[i] = dec.Cents(p.Mul(ratio))
		rest = rest.Add(shares[i])
	}
	shares[largest] = applied.Sub(rest)
	return shares
}

// earnings accrue on the post-contribution balance except in the first
// month of a run. They are rounded to cents so balances stay at cent
// precision over long horizons.
func (s *Simulator) earnings(monthIndex int, balance decimal.Decimal) decimal.Decimal {
	if monthIndex == 0 || !balance.IsPositive() {
		return decimal.Zero
	}
	return dec.Cents(balance.Mul(s.monthlyRate))
}

func (s *Simulator) atPlanMax(balance decimal.Decimal) bool {
	return s.cfg.PlanMaxBalance != nil && balance.GreaterThanOrEqual(*s.cfg.PlanMaxBalance)
}

func (s *Simulator) atSSILimit(balance decimal.Decimal) bool {
	return s.ssiEnforced && balance.GreaterThanOrEqual(*s.cfg.SSILimit)
}

func (s *Simulator) recurringDue(monthIndex int) decimal.Decimal {
	total := decimal.Zero
	for _, rc := range s.cfg.RecurringContributions {
		if rc.Cadence.IsDue(monthIndex) {
			total = total.Add(rc.Amount)
		}
	}
	return total
}

// plannedWithdrawals returns the monthly and annual withdrawals the plan
// asks for in the given calendar month.
func (s *Simulator) plannedWithdrawals(month, year int) (monthly, annual decimal.Decimal) {
	monthly, annual = decimal.Zero, decimal.Zero
	wp := s.cfg.WithdrawalPlan
	if wp == nil {
		return monthly, annual
	}
	if wp.MonthlyAmount.IsPositive() &&
		dateutil.IsOnOrAfter(month, year, wp.MonthlyStartMonth, wp.MonthlyStartYear) {
		monthly = wp.MonthlyAmount
	}
	if wp.AnnualAmount.IsPositive() && month == s.annualStartMonth &&
		dateutil.IsOnOrAfter(month, year, s.annualStartMonth, s.annualStartYear) {
		annual = wp.AnnualAmount
	}
	return monthly, annual
}
