package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ablecalc/able-calculator/internal/calculation"
	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

func buildTestReport(t *testing.T) *domain.ProjectionReport {
	t.Helper()
	input := domain.CalculationInput{
		StartingBalance:                  decimal.NewFromInt(95000),
		BeneficiaryRecurringContribution: decimal.NewFromInt(1000),
		BeneficiaryRecurringCadence:      domain.CadenceMonthly,
		AnnualReturnPercent:              decimal.NewFromInt(5),
		TimeHorizonYears:                 decimal.NewFromInt(2),
		CurrentYear:                      2026,
		IsSSIBeneficiary:                 true,
		FilingStatus:                     domain.FilingSingle,
		AccountAGI:                       decimal.NewFromInt(21000),
		StateCode:                        "IL",
		FSCFilingStatus:                  domain.FilingSingle,
		FSCAGI:                           decimal.NewFromInt(21000),
		FSCEligibleCriteriaMet:           true,
	}
	result := calculation.NewCalculationEngine().ComputeProjection(input)
	return NewReport("Test saver", input, result, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"ABLE ACCOUNT PROJECTION: Test saver", "Annual Summary", "2027", "Final balance:", "Advisories", "SSI resource limit"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in console output, got: %s", want, content)
		}
	}
}

func TestScheduleFormatterHasRowPerMonth(t *testing.T) {
	report := buildTestReport(t)
	out, err := ScheduleFormatter{}.Format(report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	if !strings.Contains(content, "Jan 2026") || !strings.Contains(content, "Dec 2027") {
		t.Fatalf("expected first and last month labels, got: %s", truncate(content, 400))
	}
	// title + 3 rules + header + one line per month
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if want := 5 + len(report.Result.Schedule); len(lines) != want {
		t.Fatalf("expected %d lines, got %d", want, len(lines))
	}
}

func TestCSVScheduleExporter(t *testing.T) {
	report := buildTestReport(t)
	out, err := CSVScheduleExporter{}.Format(report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("csv parse: %v", err)
	}
	if len(records) != 1+len(report.Result.TaxAwareSchedule) {
		t.Fatalf("expected header + %d rows, got %d", len(report.Result.TaxAwareSchedule), len(records))
	}
	dec := records[12] // December 2026
	if dec[1] != "12" || dec[2] != "2026" {
		t.Fatalf("unexpected December row: %v", dec)
	}
	if dec[12] == "0.00" {
		t.Fatalf("expected December row to carry federal tax: %v", dec)
	}
	if records[1][12] != "0.00" {
		t.Fatalf("expected January row to carry no federal tax: %v", records[1])
	}
}

func TestCSVAnnualExporter(t *testing.T) {
	out, err := CSVAnnualExporter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (header+2 years), got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "2026,12,") || !strings.HasPrefix(lines[2], "2027,12,") {
		t.Fatalf("rows not in year order: %v", lines)
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded struct {
		Label  string `json:"label"`
		Result struct {
			Years []struct {
				Year int `json:"year"`
			} `json:"years"`
			SSIExceedRow *struct {
				MonthIndex int `json:"month_index"`
			} `json:"ssi_exceed_row"`
		} `json:"result"`
		Advisories []string `json:"advisories"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if decoded.Label != "Test saver" || len(decoded.Result.Years) != 2 || decoded.Result.SSIExceedRow == nil {
		t.Fatalf("unexpected JSON: %s", truncate(string(out), 400))
	}
	if len(decoded.Advisories) == 0 {
		t.Fatalf("expected advisories in JSON output")
	}
}

func TestHTMLFormatterBasic(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("html format error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"Annual Summary", "Key Assumptions", "Test saver", "balanceSeries", "Jan 2026", "4.95%"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in HTML output", want)
		}
	}
}

// Golden snapshot tests (prefix-based) ensure key headers remain stable.
func TestGoldenSnapshots(t *testing.T) {
	cases := []struct {
		name      string
		golden    string
		formatter Formatter
	}{
		{"csv_schedule", "csv_schedule.golden", CSVScheduleExporter{}},
		{"csv_annual", "csv_annual.golden", CSVAnnualExporter{}},
		{"html", "html_prefix.golden", HTMLFormatter{}},
		{"json", "json_prefix.golden", JSONFormatter{}},
	}

	report := buildTestReport(t)
	update := os.Getenv("UPDATE_GOLDEN") == "1"
	for _, tc := range cases {
		out, err := tc.formatter.Format(report)
		if err != nil {
			t.Fatalf("%s: format error: %v", tc.name, err)
		}
		goldenPath := filepath.Join("testdata", tc.golden)
		if update {
			// only first line to keep golden small & stable
			line := firstLine(string(out)) + "\n"
			if err := os.WriteFile(goldenPath, []byte(line), 0644); err != nil {
				t.Fatalf("%s: update golden failed: %v", tc.name, err)
			}
		}
		data, err := os.ReadFile(goldenPath)
		if err != nil {
			t.Fatalf("%s: read golden: %v", tc.name, err)
		}
		if !strings.HasPrefix(string(out), strings.TrimSpace(string(data))) {
			t.Fatalf("%s: output does not match golden prefix %q", tc.name, strings.TrimSpace(string(data)))
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func TestFormatterAliasResolution(t *testing.T) {
	tests := map[string]string{
		"console":     "console",
		"TEXT":        "console",
		" monthly ":   "schedule",
		"csv-annual":  "annual-csv",
		"json-pretty": "json",
		"html":        "html",
	}
	for alias, want := range tests {
		f := GetFormatterByName(alias)
		if f == nil {
			t.Fatalf("alias %q did not resolve to a formatter", alias)
		}
		if f.Name() != want {
			t.Fatalf("alias %q resolved to %q, want %q", alias, f.Name(), want)
		}
	}
	if GetFormatterByName("pdf") != nil {
		t.Fatalf("expected no formatter for pdf")
	}
}

func TestAvailableFormatterNames(t *testing.T) {
	got := strings.Join(AvailableFormatterNames(), ",")
	if want := "annual-csv,console,csv,html,json,schedule"; got != want {
		t.Fatalf("AvailableFormatterNames = %q, want %q", got, want)
	}
}

func TestExtension(t *testing.T) {
	for format, want := range map[string]string{"console": "txt", "schedule": "txt", "csv-annual": "csv", "csv": "csv", "json": "json", "html": "html"} {
		if got := Extension(format); got != want {
			t.Errorf("Extension(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestUnknownFormatErrorIncludesSuggestions(t *testing.T) {
	_, err := Render(&domain.ProjectionReport{}, "definitely-not-a-format")
	if err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "unsupported report format") || !strings.Contains(msg, "Try one of:") {
		t.Fatalf("error message missing suggestions: %s", msg)
	}
}
