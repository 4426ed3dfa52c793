package utils

import (
	"math"
	"time"
)

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year int, month time.Month) int {
	if month == time.February {
		// Check for leap year
		if (year%4 == 0 && year%100 != 0) || (year%400 == 0) {
			return 29
		}
		return 28
	}

	// Months with 30 days: April, June, September, November
	if month == time.April || month == time.June || month == time.September || month == time.November {
		return 30
	}

	// All other months have 31 days
	return 31
}

// AddMonths adds n calendar months to t. The day of month is kept and clamped to the
// last day of the target month, so Jan 31 + 1 month is Feb 28 (or 29).
// Time of day and location are preserved.
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()

	total := int(month) - 1 + n
	year += total / 12
	total %= 12
	if total < 0 {
		total += 12
		year--
	}
	targetMonth := time.Month(total + 1)

	if last := DaysInMonth(year, targetMonth); day > last {
		day = last
	}

	hour, min, sec := t.Clock()
	return time.Date(year, targetMonth, day, hour, min, sec, t.Nanosecond(), t.Location())
}

// AddYears adds n calendar years to t with the same clamping rule (Feb 29 + 1 year = Feb 28).
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}

// CeilDays returns the number of days from 'from' to 'to', rounded up.
// Negative spans round toward zero, so 10.5 days in the past is -10.
func CeilDays(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}
