// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical

import (
	"slices"
	"time"

	"github.com/Actionb/MIZDB-sub002/pkg/slice"
)

// # Date Synthesis

/*
BuildDate derives one representative calendar date from the year and month
facts of a single issue.

Zero entries are treated as missing. The earliest year is used. The earliest
month is used unless the issue spans more than one month AND more than one
year: it then starts at the end of the earlier year and the latest month is
used, so that it sorts before the issues published after the turn of the year.
An issue spanning several months is dated on the last day of the chosen month;
otherwise day is used (values below 1 mean the first of the month).

Returns:
  - time.Time: The synthesized date (UTC midnight)
  - bool: False if either list holds no usable value
*/
func BuildDate(years, months []int, day int) (time.Time, bool) {
	years = compact(years)
	months = compact(months)
	if len(years) == 0 || len(months) == 0 {
		return time.Time{}, false
	}

	year := slices.Min(years)
	month := slices.Min(months)
	if day < 1 {
		day = 1
	}

	if len(distinct(months)) > 1 {
		if len(distinct(years)) > 1 {
			month = slices.Max(months)
		}
		day = LastDayOfMonth(year, time.Month(month))
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLeap reports whether year is a leap year in the Gregorian calendar.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

/*
LeapDays counts the leap days (29 February) lying between two dates.

The argument order does not matter. A leap day of the earlier date's year is
only counted if that date lies before it; a leap day of the later date's year
is counted if that date lies on or after it.
*/
func LeapDays(a, b time.Time) int {
	start, end := civilDate(a), civilDate(b)
	if start.After(end) {
		start, end = end, start
	}

	startLeap, hasStartLeap := leapDay(start.Year())
	endLeap, hasEndLeap := leapDay(end.Year())

	if start.Year() == end.Year() {
		if hasStartLeap && !startLeap.Before(start) && !startLeap.After(end) {
			return 1
		}
		return 0
	}

	// Leap years in [start.Year, end.Year).
	total := leapYearsBefore(end.Year()) - leapYearsBefore(start.Year())
	if hasStartLeap && !start.Before(startLeap) {
		total--
	}
	if hasEndLeap && !end.Before(endLeap) {
		total++
	}
	return total
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(civilDate(b).Sub(civilDate(a)).Hours() / 24)
}

func leapDay(year int) (time.Time, bool) {
	if !IsLeap(year) {
		return time.Time{}, false
	}
	return time.Date(year, time.February, 29, 0, 0, 0, 0, time.UTC), true
}

// leapYearsBefore counts the leap years in [1, year).
func leapYearsBefore(year int) int {
	y := year - 1
	return y/4 - y/100 + y/400
}

// compact drops the zero entries standing for missing values.
func compact(values []int) []int {
	return slice.Filter(values, func(value int) bool { return value != 0 })
}

func distinct(values []int) []int {
	return slice.Unique(values)
}
