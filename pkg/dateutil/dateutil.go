package dateutil

import (
	"fmt"
	"time"
)

// MonthAt returns the calendar month (1-12) and year that fall offset months
// after the given start month and year.
func MonthAt(startMonth, startYear, offset int) (month, year int) {
	total := startMonth - 1 + offset
	return total%12 + 1, startYear + total/12
}

// IsAfter reports whether month/year falls strictly after refMonth/refYear.
func IsAfter(month, year, refMonth, refYear int) bool {
	return year > refYear || (year == refYear && month > refMonth)
}

// IsOnOrAfter reports whether month/year equals or follows refMonth/refYear.
func IsOnOrAfter(month, year, refMonth, refYear int) bool {
	return year > refYear || (year == refYear && month >= refMonth)
}

// ClampMonth forces a month number into the 1-12 range.
func ClampMonth(month int) int {
	if month < 1 {
		return 1
	}
	if month > 12 {
		return 12
	}
	return month
}

// MonthsBetween counts the months from start to end, inclusive of start and
// exclusive of end. The result is negative when end precedes start.
func MonthsBetween(startMonth, startYear, endMonth, endYear int) int {
	return (endYear-startYear)*12 + (endMonth - startMonth)
}

// MonthName returns the abbreviated English month name.
func MonthName(month int) string {
	return time.Month(ClampMonth(month)).String()[:3]
}

// Label renders a month and year as "Jan 2026".
func Label(month, year int) string {
	return fmt.Sprintf("%s %d", MonthName(month), year)
}
