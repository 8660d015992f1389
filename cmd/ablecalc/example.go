package main

import (
	"fmt"
	"os"

	"github.com/ablecalc/able-calculator/internal/config"
	"github.com/spf13/cobra"
)

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an example scenario file",
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
		scenario := config.NewInputParser(tables).CreateExampleScenario()

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return config.WriteScenario(cmd.OutOrStdout(), scenario)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer f.Close()
		if err := config.WriteScenario(f, scenario); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Example scenario written to %s\n", out)
		return nil
	},
}

func init() {
	exampleCmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
}
