package domain

import (
	"fmt"
	"time"
)

// Date is a calendar day with no time component or zone.
// It is comparable and safe to use inside composite map keys, unlike
// time.Time, which carries wall clock, monotonic clock, and location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in UTC.
// Day boundaries throughout the engine are UTC boundaries; this must match
// the boundaries the nightly rollup job uses or merges miscount.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return DateOf(d.Time().AddDate(0, 0, 1))
}

// Before reports whether d is before o.
func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

// After reports whether d is after o.
func (d Date) After(o Date) bool {
	return d.Time().After(o.Time())
}

// DaysInRange returns the number of days in the inclusive range [start, end].
// Returns 0 when end precedes start.
func DaysInRange(start, end Date) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Time().Sub(start.Time())/(24*time.Hour)) + 1
}

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start Date
	End   Date
}

// Contains reports whether day falls within the range.
func (r DateRange) Contains(day Date) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}
