package main

import (
	"fmt"
	"strings"

	"github.com/ablecalc/able-calculator/internal/calculation"
	"github.com/ablecalc/able-calculator/internal/config"
	"github.com/ablecalc/able-calculator/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [scenario-file]",
	Short: "Compare a scenario across several annual return rates",
	Long: `Run the same scenario once per annual return percentage, concurrently.

Example:
  ablecalc sweep scenario.yaml --returns 0,3,6,9 --workers 4`,
	Args: cobra.ExactArgs(1),
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	returnsFlag, _ := cmd.Flags().GetString("returns")
	returns, err := parseReturns(returnsFlag)
	if err != nil {
		return err
	}
	workers, _ := cmd.Flags().GetInt("workers")

	prefs, err := loadPrefs()
	if err != nil {
		return err
	}
	tables, err := loadTables(prefs)
	if err != nil {
		return err
	}
	scenario, err := config.NewInputParser(tables).LoadFromFile(args[0])
	if err != nil {
		return err
	}

	engine := newEngine(cmd, prefs, tables)
	results, err := engine.Sweep(cmd.Context(), scenario.Input, returns, workers)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), output.RenderSweep(scenario.Label, results))
	return nil
}

// parseReturns parses a comma separated list of percentages.
func parseReturns(s string) ([]decimal.Decimal, error) {
	var out []decimal.Decimal
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pct, err := decimal.NewFromString(part)
		if err != nil {
			return nil, fmt.Errorf("invalid return %q: %w", part, err)
		}
		if pct.LessThanOrEqual(decimal.NewFromInt(-100)) || pct.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("return %s%% out of range", part)
		}
		out = append(out, pct)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("--returns needs at least one percentage")
	}
	return out, nil
}

func init() {
	sweepCmd.Flags().String("returns", "0,3,6", "Comma separated annual return percentages")
	sweepCmd.Flags().Int("workers", calculation.DefaultSweepWorkers, "Maximum concurrent projections")
	sweepCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
}
