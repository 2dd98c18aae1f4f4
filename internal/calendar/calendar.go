// Package calendar provides day-granularity date arithmetic for the ledger.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is how often a recurring commitment falls due.
type Frequency string

const (
	Daily   Frequency = "Daily"
	Weekly  Frequency = "Weekly"
	Monthly Frequency = "Monthly"
	Annual  Frequency = "Annual"
)

// Frequencies lists every supported frequency.
var Frequencies = []Frequency{Daily, Weekly, Monthly, Annual}

// ParseFrequency returns the frequency matching s (case-insensitive).
func ParseFrequency(s string) (Frequency, error) {
	for _, f := range Frequencies {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Annual:
		return true
	}
	return false
}

// PeriodsPerYear returns how many occurrences of f make up a year.
// Unknown frequencies return 0.
func (f Frequency) PeriodsPerYear() int64 {
	switch f {
	case Daily:
		return 365
	case Weekly:
		return 52
	case Monthly:
		return 12
	case Annual:
		return 1
	}
	return 0
}

// DateLayout is the storage and display format for dates.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a UTC day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today returns the current local day as a UTC day.
func Today() time.Time {
	return Day(time.Now())
}

// Advance moves d forward by one period of f.
// Months are a fixed 30 days and years a fixed 365 days.
// An unknown frequency leaves d unchanged.
func Advance(d time.Time, f Frequency) time.Time {
	switch f {
	case Daily:
		return d.AddDate(0, 0, 1)
	case Weekly:
		return d.AddDate(0, 0, 7)
	case Monthly:
		return d.AddDate(0, 0, 30)
	case Annual:
		return d.AddDate(0, 0, 365)
	}
	return d
}

// DaysBetween returns the number of whole days from a to b. It is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// WeekStart returns the Sunday that starts d's week.
func WeekStart(d time.Time) time.Time {
	d = Day(d)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

var layouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
}

// Parse parses a date in any of the formats the store or the API may produce.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// Format renders d in DateLayout.
func Format(d time.Time) string {
	return d.Format(DateLayout)
}
