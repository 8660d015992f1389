package calculation

import (
	"github.com/ablecalc/able-calculator/internal/rates"
)

// CalculationEngine produces tax-aware ABLE projections against a fixed set
// of rate tables. The tables are read-only, so one engine may serve
// concurrent callers.
type CalculationEngine struct {
	Tables *rates.Tables
	Debug  bool // Enable per-year debug output
	Logger Logger
}

// NewCalculationEngine creates an engine backed by the embedded rate tables
func NewCalculationEngine() *CalculationEngine {
	return NewCalculationEngineWithTables(rates.MustDefault())
}

// NewCalculationEngineWithTables creates an engine using the given tables
func NewCalculationEngineWithTables(tables *rates.Tables) *CalculationEngine {
	return &CalculationEngine{
		Tables: tables,
		Logger: NopLogger{},
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) logger() Logger {
	if ce.Logger == nil {
		return NopLogger{}
	}
	return ce.Logger
}
