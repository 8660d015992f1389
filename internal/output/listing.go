package output

import (
	"fmt"
	"strings"

	"github.com/ablecalc/able-calculator/internal/calculation"
	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/ablecalc/able-calculator/internal/rates"
	"github.com/ablecalc/able-calculator/internal/store"
)

// RenderStates renders the plan table of every state.
func RenderStates(tables *rates.Tables) string {
	t := table{
		Title:   fmt.Sprintf("ABLE Plans (%d tax year)", tables.TaxYear),
		Headers: []string{"Code", "State", "Plan", "Max Balance", "Parity", "Single Benefit"},
	}
	for _, code := range tables.StateCodes() {
		st := tables.State(code)
		plan := "none"
		if st.Plan.HasPlan {
			plan = st.Plan.Name
		}
		limit := "-"
		if st.Plan.MaxAccountBalance != nil {
			limit = FormatCurrency(*st.Plan.MaxAccountBalance)
		}
		t.Rows = append(t.Rows, []string{code, st.Name, plan, limit, boolToString(st.Plan.Parity), benefitLabel(st.Benefits[domain.FilingSingle])})
	}
	return renderTable(t)
}

func benefitLabel(b domain.StateBenefit) string {
	switch b.Type {
	case domain.BenefitDeduction:
		return "deduction up to " + FormatCurrency(b.Amount)
	case domain.BenefitCredit:
		return fmt.Sprintf("%s credit up to %s", FormatRate(b.CreditPercent), FormatCurrency(b.Amount))
	default:
		return "none"
	}
}

// RenderSweep renders one line per projected return rate.
func RenderSweep(label string, results []calculation.SweepResult) string {
	title := "Return Sweep"
	if label != "" {
		title += ": " + label
	}
	t := table{
		Title:   title,
		Headers: []string{"Return", "Contributions", "Earnings", "Withdrawals", "Final Balance", "Net Tax", "Plan Max Stop"},
	}
	for _, r := range results {
		s := Summarize(&r.Result)
		stop := "-"
		if row := r.Result.PlanMaxStopRow; row != nil {
			stop = monthLabel(row.Month, row.Year)
		}
		t.Rows = append(t.Rows, []string{
			FormatPercentage(r.AnnualReturnPercent),
			FormatCurrency(s.Contributions),
			FormatCurrency(s.Earnings),
			FormatCurrency(s.Withdrawals),
			FormatCurrency(s.FinalBalance),
			FormatCurrency(s.NetTaxCost),
			stop,
		})
	}
	return renderTable(t)
}

// RenderRuns renders a history listing.
func RenderRuns(runs []store.Run) string {
	if len(runs) == 0 {
		return "  " + mutedStyle.Render("No recorded runs") + "\n"
	}
	t := table{
		Title:   "Projection History",
		Headers: []string{"ID", "Created", "Label", "Final Balance", "Earnings", "Plan Max Stop"},
	}
	for _, r := range runs {
		stop := r.PlanMaxStop
		if stop == "" {
			stop = "-"
		}
		t.Rows = append(t.Rows, []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Label,
			FormatCurrency(r.FinalBalance),
			FormatCurrency(r.TotalEarnings),
			stop,
		})
	}
	return renderTable(t)
}

// RenderRun renders one recorded run.
func RenderRun(run *store.Run) string {
	in := run.Input
	var b strings.Builder
	b.WriteString(renderTitle("RUN " + run.ID))
	b.WriteString("\n")
	b.WriteString(renderKV([][2]string{
		{"Label", run.Label},
		{"Created", run.CreatedAt.Local().Format("2006-01-02 15:04:05")},
		{"Starting balance", FormatCurrency(in.StartingBalance)},
		{"Annual return", FormatPercentage(in.AnnualReturnPercent)},
		{"Horizon (years)", in.TimeHorizonYears.String()},
		{"State", in.StateCode},
		{"Total contributions", FormatCurrency(run.TotalContributions)},
		{"Total earnings", FormatCurrency(run.TotalEarnings)},
		{"Final balance", FormatCurrency(run.FinalBalance)},
		{"Plan max stop", run.PlanMaxStop},
	}))
	return b.String()
}
