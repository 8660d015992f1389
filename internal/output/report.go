package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/ablecalc/able-calculator/internal/domain"
)

// NewReport bundles a projection for presentation and derives its advisories.
func NewReport(label string, input domain.CalculationInput, result domain.CalculationResult, generatedAt time.Time) *domain.ProjectionReport {
	report := &domain.ProjectionReport{
		Label:       label,
		GeneratedAt: generatedAt,
		Input:       input,
		Result:      result,
	}
	report.Advisories = Advisories(input, &report.Result)
	return report
}

// Render formats a report with the named formatter.
func Render(report *domain.ProjectionReport, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	return f.Format(report)
}

// GenerateReport writes a report in the named format into dir and returns
// the file path.
func GenerateReport(report *domain.ProjectionReport, format, dir string) (string, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return "", unsupported(format)
	}
	return WriteFormatted(f, report, dir)
}

// unsupported enriches the error with available formatters and aliases.
func unsupported(format string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}
