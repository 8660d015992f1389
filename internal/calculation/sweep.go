package calculation

import (
	"context"
	"sync"

	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultSweepWorkers limits concurrent projections when the caller passes
// a non-positive worker count.
const DefaultSweepWorkers = 10

// SweepResult is one projection of a return-rate sweep.
type SweepResult struct {
	AnnualReturnPercent decimal.Decimal
	Result              domain.CalculationResult
}

// Sweep runs ComputeProjection once per return percentage, with everything
// else taken from input. Results keep the order of returnPercents. Jobs not
// yet started when ctx is cancelled are skipped and ctx.Err() is returned.
func (ce *CalculationEngine) Sweep(ctx context.Context, input domain.CalculationInput, returnPercents []decimal.Decimal, workers int) ([]SweepResult, error) {
	if workers <= 0 {
		workers = DefaultSweepWorkers
	}
	results := make([]SweepResult, len(returnPercents))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i, pct := range returnPercents {
		wg.Add(1)
		go func(idx int, pct decimal.Decimal) {
			defer wg.Done()
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-semaphore }()
			if ctx.Err() != nil {
				return
			}

			in := input
			in.AnnualReturnPercent = pct
			results[idx] = SweepResult{AnnualReturnPercent: pct, Result: ce.ComputeProjection(in)}
		}(i, pct)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ce.logger().Debugf("sweep finished: %d projections", len(results))
	return results, nil
}
