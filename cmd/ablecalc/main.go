package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/ablecalc/able-calculator/internal/calculation"
	"github.com/ablecalc/able-calculator/internal/config"
	"github.com/ablecalc/able-calculator/internal/rates"
	"github.com/ablecalc/able-calculator/internal/store"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagRates  string
)

var rootCmd = &cobra.Command{
	Use:   "ablecalc",
	Short: "ABLE account projection calculator",
	Long: `Project an ABLE account month by month and estimate the yearly tax effects
of its earnings, contributions and the federal Saver's Credit.`,
	SilenceUsage: true,
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ablecalc %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// loadPrefs reads --config when given, else the per-user preferences file.
func loadPrefs() (config.Prefs, error) {
	if flagConfig != "" {
		return config.LoadFrom(flagConfig)
	}
	return config.Load()
}

// loadTables resolves the rate tables: --rates, then the environment and
// preferences, then the embedded defaults.
func loadTables(prefs config.Prefs) (*rates.Tables, error) {
	path := flagRates
	if path == "" {
		path = config.RatesFile(prefs)
	}
	if path != "" {
		return rates.LoadFile(path)
	}
	return rates.Default()
}

func newEngine(cmd *cobra.Command, prefs config.Prefs, tables *rates.Tables) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngineWithTables(tables)
	debugMode, _ := cmd.Flags().GetBool("debug")
	if debugMode || prefs.Output.Debug {
		engine.SetLogger(calculation.NewStdLogger(log.New(cmd.ErrOrStderr(), "", log.LstdFlags), true))
		engine.Debug = true
	}
	return engine
}

// openRecorder opens the history database, or a no-op recorder when
// history is disabled.
func openRecorder(prefs config.Prefs) (store.Recorder, error) {
	if !prefs.History.Enabled {
		return store.NewNoopRecorder(), nil
	}
	return store.NewSQLiteRecorder(config.HistoryDBPath(prefs))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Preferences file (default: "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&flagRates, "rates", "", "Rate table YAML file used instead of the embedded tables (env "+config.RatesEnvVar+")")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(statesCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
