// Package dates provides calendar-day arithmetic, date templates and
// duration tokens for the gantt syntax engine.
//
// All dates are represented as time.Time values at midnight UTC. Arithmetic
// goes through time.AddDate so month and year boundaries are handled by the
// calendar rather than by counting days by hand.
package dates

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

const hoursPerDay = 24

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// StartOfDay returns midnight UTC of t's calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the start of the current day as reported by now.
// A nil now uses time.Now.
func Today(now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}
	return StartOfDay(now())
}

// DiffDays returns the number of days from start to end, rounded up.
func DiffDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / hoursPerDay))
}

// durationPattern matches duration tokens like "5d", "2w", "36h" or "3".
var durationPattern = regexp.MustCompile(`^(\d+)(d|w|h)?$`)

// ParseDuration converts a duration token to a number of days.
// Weeks count as seven days and hours are rounded up to whole days.
// Anything that is not a duration token yields 1.
func ParseDuration(token string) int {
	matches := durationPattern.FindStringSubmatch(token)
	if matches == nil {
		return 1
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 1
	}

	switch matches[2] {
	case "w":
		return value * 7
	case "h":
		return int(math.Ceil(float64(value) / hoursPerDay))
	default:
		return value
	}
}

var (
	isoDatePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashedDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// IsDateLike reports whether text looks like a literal date for the given
// template: it must be exactly as long as the template and shaped like
// YYYY-MM-DD or DD/MM/YYYY.
func IsDateLike(text, template string) bool {
	if len(text) != len(template) {
		return false
	}
	return isoDatePattern.MatchString(text) || slashedDatePattern.MatchString(text)
}
