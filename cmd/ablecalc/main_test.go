package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ablecalc/able-calculator/internal/config"
)

// execute runs the root command with args against an isolated config
// directory and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.RatesEnvVar, "")
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// writeExample writes the example scenario into a temp dir.
func writeExample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if _, err := execute(t, "example", "--out", path); err != nil {
		t.Fatalf("example failed: %v", err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "ablecalc" {
		t.Errorf("Expected root command use to be 'ablecalc', got %s", rootCmd.Use)
	}
	if rootCmd.Short == "" || rootCmd.Long == "" {
		t.Error("Expected root command to have short and long descriptions")
	}
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{"calculate", "validate", "sweep", "states", "rates", "serve", "history", "example", "version"}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		if !registered[name] {
			t.Errorf("Expected command %q to be registered", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "ablecalc dev (commit none, built unknown)") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestExampleValidateCalculate(t *testing.T) {
	path := writeExample(t)

	out, err := execute(t, "validate", path)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("unexpected validate output: %q", out)
	}

	out, err = execute(t, "calculate", path, "--format", "json")
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	var report struct {
		Label  string `json:"label"`
		Result struct {
			Schedule []json.RawMessage `json:"schedule"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("calculate output is not JSON: %v", err)
	}
	if report.Label != "Monthly saver in Ohio" || len(report.Result.Schedule) != 240 {
		t.Errorf("unexpected report: label %q, %d rows", report.Label, len(report.Result.Schedule))
	}

	out, err = execute(t, "calculate", path)
	if err != nil {
		t.Fatalf("calculate console failed: %v", err)
	}
	if !strings.Contains(out, "ABLE ACCOUNT PROJECTION") {
		t.Errorf("console output missing title")
	}
}

func TestCalculateReportDirAndSave(t *testing.T) {
	path := writeExample(t)
	dir := t.TempDir()
	prefsPath := filepath.Join(dir, "prefs.toml")
	prefs := config.DefaultPrefs()
	prefs.History.DBPath = filepath.Join(dir, "history.db")
	if err := config.SaveTo(prefsPath, prefs); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", prefsPath, "calculate", path, "--format", "csv", "--report-dir", dir, "--save")
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if !strings.Contains(out, "Report written to ") {
		t.Fatalf("unexpected output: %q", out)
	}
	written := strings.TrimSpace(strings.TrimPrefix(out, "Report written to "))
	if filepath.Ext(written) != ".csv" {
		t.Errorf("expected csv report, got %s", written)
	}
	if _, err := os.Stat(written); err != nil {
		t.Errorf("report not written: %v", err)
	}

	out, err = execute(t, "--config", prefsPath, "history", "list")
	if err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	if !strings.Contains(out, "Monthly saver in Ohio") {
		t.Errorf("history missing saved run:\n%s", out)
	}
}

func TestCalculateErrors(t *testing.T) {
	if _, err := execute(t, "calculate", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing scenario file")
	}
	path := writeExample(t)
	if _, err := execute(t, "calculate", path, "--format", "xlsx"); err == nil {
		t.Error("expected error for an unknown format")
	}
}

func TestSweepCommand(t *testing.T) {
	path := writeExample(t)
	out, err := execute(t, "sweep", path, "--returns", "0, 4", "--workers", "2")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if !strings.Contains(out, "0.00%") || !strings.Contains(out, "4.00%") {
		t.Errorf("sweep output missing rows:\n%s", out)
	}

	if _, err := execute(t, "sweep", path, "--returns", "abc"); err == nil {
		t.Error("expected error for a bad return")
	}
}

func TestParseReturns(t *testing.T) {
	got, err := parseReturns(" 1.5,,3 ")
	if err != nil || len(got) != 2 || got[0].String() != "1.5" {
		t.Fatalf("parseReturns = %v, %v", got, err)
	}
	for _, bad := range []string{"", ",", "-100", "101"} {
		if _, err := parseReturns(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestStatesAndRates(t *testing.T) {
	out, err := execute(t, "states", "--format", "json")
	if err != nil {
		t.Fatalf("states failed: %v", err)
	}
	var states []struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal([]byte(out), &states); err != nil || len(states) == 0 {
		t.Fatalf("states json = %v, %v", states, err)
	}

	if _, err := execute(t, "states", "--format", "xml"); err == nil {
		t.Error("expected error for an unknown states format")
	}

	out, err = execute(t, "rates", "show")
	if err != nil {
		t.Fatalf("rates show failed: %v", err)
	}
	ratesPath := filepath.Join(t.TempDir(), "rates.yaml")
	if err := os.WriteFile(ratesPath, []byte(out), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--rates", ratesPath, "states"); err != nil {
		t.Errorf("rate file written by rates show does not load: %v", err)
	}
}

func TestHistoryShowMissing(t *testing.T) {
	if _, err := execute(t, "history", "show", "missing"); err == nil {
		t.Error("expected error for an unknown run")
	}
}
