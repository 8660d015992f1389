// Package store keeps a history of projection runs.
package store

import (
	"errors"
	"time"

	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/ablecalc/able-calculator/pkg/dateutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by Get when no run has the requested ID.
var ErrNotFound = errors.New("run not found")

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Run is one recorded projection.
type Run struct {
	ID                 string                  `json:"id"`
	Label              string                  `json:"label,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	Input              domain.CalculationInput `json:"input"`
	FinalBalance       decimal.Decimal         `json:"final_balance"`
	TotalContributions decimal.Decimal         `json:"total_contributions"`
	TotalEarnings      decimal.Decimal         `json:"total_earnings"`
	// PlanMaxStop is the month contributions stopped at the plan maximum,
	// as "Jan 2026". Empty when the maximum was never reached.
	PlanMaxStop string `json:"plan_max_stop,omitempty"`
}

// NewRun summarizes a projection into a Run with a fresh ID.
func NewRun(label string, input domain.CalculationInput, result *domain.CalculationResult, createdAt time.Time) *Run {
	contributions, earnings, _ := result.Totals()
	run := &Run{
		ID:                 uuid.NewString(),
		Label:              label,
		CreatedAt:          createdAt.UTC(),
		Input:              input,
		FinalBalance:       result.FinalBalance(),
		TotalContributions: contributions,
		TotalEarnings:      earnings,
	}
	if row := result.PlanMaxStopRow; row != nil {
		run.PlanMaxStop = dateutil.Label(row.Month, row.Year)
	}
	return run
}

// Recorder persists projection runs.
type Recorder interface {
	Save(run *Run) error
	// List returns the most recent runs first.
	List(limit int) ([]Run, error)
	Get(id string) (*Run, error)
	Close() error
}
