package main

import (
	"fmt"

	"github.com/ablecalc/able-calculator/internal/config"
	"github.com/ablecalc/able-calculator/internal/output"
	"github.com/ablecalc/able-calculator/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded projection runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		recorder, err := openHistory()
		if err != nil {
			return err
		}
		defer recorder.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := recorder.List(limit)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), output.RenderRuns(runs))
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recorder, err := openHistory()
		if err != nil {
			return err
		}
		defer recorder.Close()

		run, err := recorder.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), output.RenderRun(run))
		return nil
	},
}

// openHistory opens the history database whether or not recording is
// enabled in the preferences.
func openHistory() (*store.SQLiteRecorder, error) {
	prefs, err := loadPrefs()
	if err != nil {
		return nil, err
	}
	return store.NewSQLiteRecorder(config.HistoryDBPath(prefs))
}

func init() {
	historyListCmd.Flags().Int("limit", store.DefaultListLimit, "Maximum runs to list")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
}
