// Package week computes Monday-anchored week keys and their display ranges.
package week

import (
	"time"

	wkerrors "github.com/tgienger/weekly/internal/errors"
)

// Layout is the date-only format of a week key.
const Layout = "2006-01-02"

// DefaultCount is the number of weeks around the current one offered by
// Available when callers have no preference.
const DefaultCount = 8

// workdays is the offset from Monday to Friday.
const workdays = 4

// Range is the Monday-Friday span of a week.
type Range struct {
	Start time.Time
	End   time.Time
}

// String formats the range as dd/mm/yyyy - dd/mm/yyyy.
func (r Range) String() string {
	return r.Start.Format("02/01/2006") + " - " + r.End.Format("02/01/2006")
}

// Short formats the range compactly, e.g. "08 Jan - 12 Jan".
func (r Range) Short() string {
	return r.Start.Format("02 Jan") + " - " + r.End.Format("02 Jan")
}

// Parse reads a YYYY-MM-DD key as a UTC date.
func Parse(key string) (time.Time, error) {
	if key == "" {
		return time.Time{}, wkerrors.InvalidArgumentError{Field: "week", Reason: "required"}
	}
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, wkerrors.InvalidArgumentError{Field: "week", Reason: "expected YYYY-MM-DD, got " + key}
	}
	return t, nil
}

// Format renders the calendar date of t as a key.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// KeyFor returns the Monday of the week containing t. The calendar date is
// taken in t's own location, so the same wall-clock date always yields the
// same key.
func KeyFor(t time.Time) string {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	// Sunday belongs to the week that started six days earlier
	offset := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		offset = 6
	}
	return Format(day.AddDate(0, 0, -offset))
}

// CurrentKey returns the Monday of the current week.
func CurrentKey() string {
	return KeyFor(time.Now())
}

// IsMonday reports whether key parses to a Monday.
func IsMonday(key string) bool {
	t, err := Parse(key)
	return err == nil && t.Weekday() == time.Monday
}

// RangeOf returns the Monday-Friday range starting at key. The key is not
// required to be a Monday; End is always Start plus four days.
func RangeOf(key string) (Range, error) {
	start, err := Parse(key)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: start.AddDate(0, 0, workdays)}, nil
}

// Shift returns the Monday of the week n weeks away from key.
func Shift(key string, n int) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return KeyFor(t.AddDate(0, 0, 7*n)), nil
}

// Available returns count/2 weeks before current, current itself, and
// count/2 weeks after, oldest first.
func Available(current string, count int) ([]string, error) {
	if count < 0 {
		return nil, wkerrors.InvalidArgumentError{Field: "count", Reason: "must not be negative"}
	}
	date, err := Parse(current)
	if err != nil {
		return nil, err
	}

	half := count / 2
	weeks := make([]string, 0, 2*half+1)
	for i := half; i > 0; i-- {
		weeks = append(weeks, KeyFor(date.AddDate(0, 0, -7*i)))
	}
	weeks = append(weeks, current)
	for i := 1; i <= half; i++ {
		weeks = append(weeks, KeyFor(date.AddDate(0, 0, 7*i)))
	}
	return weeks, nil
}
