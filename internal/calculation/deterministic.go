package calculation

import "time"

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// currentYear is the year projections anchor to when the caller gives none.
func currentYear() int { return nowFunc().Year() }
