package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ablecalc/able-calculator/internal/api"
	"github.com/ablecalc/able-calculator/internal/output"
	"github.com/ablecalc/able-calculator/internal/rates"
	"github.com/spf13/cobra"
)

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "List state ABLE plans and contribution benefits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := loadPrefs()
		if err != nil {
			return err
		}
		tables, err := loadTables(prefs)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(format) {
		case "table", "":
			fmt.Fprint(cmd.OutOrStdout(), output.RenderStates(tables))
			return nil
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(api.StateSummaries(tables))
		default:
			return fmt.Errorf("unknown output format: %s (valid: table, json)", format)
		}
	},
}

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Inspect or import rate tables",
}

var ratesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active rate tables as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := loadPrefs()
		if err != nil {
			return err
		}
		tables, err := loadTables(prefs)
		if err != nil {
			return err
		}
		return tables.WriteYAML(cmd.OutOrStdout())
	},
}

var ratesImportCmd = &cobra.Command{
	Use:   "import [csv-dir]",
	Short: "Build a rate table file from the published CSV exports",
	Long: `Read the plan, state tax, state deduction, Saver's Credit and federal tax
CSV exports from a directory and write the equivalent YAML rate file.
The result can be passed to --rates or set as rates.file in the preferences.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetInt("year")
		tables, err := rates.NewCSVImporter(args[0], year).Import()
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return tables.WriteYAML(cmd.OutOrStdout())
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		if err := tables.WriteYAML(f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d states to %s\n", len(tables.States), out)
		return nil
	},
}

func init() {
	statesCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")

	ratesImportCmd.Flags().String("out", "", "Output YAML file (default: stdout)")
	ratesImportCmd.Flags().Int("year", rates.MustDefault().TaxYear, "Tax year the exports describe")
	ratesCmd.AddCommand(ratesShowCmd)
	ratesCmd.AddCommand(ratesImportCmd)
}
