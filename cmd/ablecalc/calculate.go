package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ablecalc/able-calculator/internal/config"
	"github.com/ablecalc/able-calculator/internal/output"
	"github.com/ablecalc/able-calculator/internal/store"
	"github.com/spf13/cobra"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate [scenario-file]",
	Short: "Project an ABLE account from a scenario file",
	Long: `Run a tax-aware projection for a YAML scenario file and print it.

Examples:
  ablecalc calculate scenario.yaml
  ablecalc calculate scenario.yaml --format csv > schedule.csv
  ablecalc calculate scenario.yaml --format html --report-dir reports/ --save`,
	Args: cobra.ExactArgs(1),
	RunE: runCalculate,
}

var validateCmd = &cobra.Command{
	Use:   "validate [scenario-file]",
	Short: "Validate a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := loadPrefs()
		if err != nil {
			return err
		}
		tables, err := loadTables(prefs)
		if err != nil {
			return err
		}
		if _, err := config.NewInputParser(tables).LoadFromFile(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scenario file %s is valid\n", args[0])
		return nil
	},
}

func runCalculate(cmd *cobra.Command, args []string) error {
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
	result := engine.ComputeProjection(scenario.Input)
	report := output.NewReport(scenario.Label, scenario.Input, result, time.Now())

	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = prefs.Output.Format
	}
	reportDir, _ := cmd.Flags().GetString("report-dir")
	if reportDir != "" {
		path, err := output.GenerateReport(report, format, reportDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	} else {
		data, err := output.Render(report, format)
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		recorder, err := store.NewSQLiteRecorder(config.HistoryDBPath(prefs))
		if err != nil {
			return err
		}
		defer recorder.Close()
		run := store.NewRun(scenario.Label, scenario.Input, &report.Result, report.GeneratedAt)
		if err := recorder.Save(run); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %s\n", run.ID)
	}
	return nil
}

func init() {
	calculateCmd.Flags().StringP("format", "f", "", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+"; default from preferences)")
	calculateCmd.Flags().Bool("save", false, "Record the run in the history database")
	calculateCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	calculateCmd.Flags().String("report-dir", "", "Write the report to a timestamped file in this directory instead of stdout")
}
