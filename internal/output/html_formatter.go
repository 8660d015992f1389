package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"

	"github.com/ablecalc/able-calculator/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":  FormatCurrency,
	"pct":   FormatPercentage,
	"rate":  FormatRate,
	"month": monthLabel,
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	var buf bytes.Buffer

	type point struct {
		Label   string  `json:"label"`
		Balance float64 `json:"balance"`
	}
	series := make([]point, 0, len(report.Result.Schedule))
	for _, r := range report.Result.Schedule {
		series = append(series, point{Label: monthLabel(r.Month, r.Year), Balance: r.EndingBalance.InexactFloat64()})
	}

	data := struct {
		*domain.ProjectionReport
		Summary     Summary
		Assumptions []string
		Series      []point
	}{report, Summarize(&report.Result), GenerateAssumptions(report), series}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
