// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Actionb/MIZDB-sub002/internal/core/periodical"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

/*
TestBuildDate covers the single and multi valued year/month combinations.
*/
func TestBuildDate(t *testing.T) {
	tests := []struct {
		name   string
		years  []int
		months []int
		day    int
		want   time.Time
		ok     bool
	}{
		{"explicit_day", []int{2000}, []int{1}, 31, date(2000, time.January, 31), true},
		{"default_day", []int{2000}, []int{1}, 1, date(2000, time.January, 1), true},
		{"day_below_one", []int{2000}, []int{1}, 0, date(2000, time.January, 1), true},
		{"earliest_year", []int{2001, 2000}, []int{12}, 1, date(2000, time.December, 1), true},
		{"several_months_leap_year", []int{0, 2000}, []int{12, 2}, 1, date(2000, time.February, 29), true},
		{"several_months_common_year", []int{1999}, []int{3, 2}, 1, date(1999, time.February, 28), true},
		{"turn_of_the_year", []int{2001, 2000}, []int{12, 1}, 1, date(2000, time.December, 31), true},
		{"duplicates_are_one_month", []int{2000}, []int{5, 5}, 10, date(2000, time.May, 10), true},
		{"no_years", nil, []int{1}, 1, time.Time{}, false},
		{"only_zero_years", []int{0}, []int{1}, 1, time.Time{}, false},
		{"no_months", []int{2000}, nil, 1, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := periodical.BuildDate(tt.years, tt.months, tt.day)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestLastDayOfMonth(t *testing.T) {
	assert.Equal(t, 29, periodical.LastDayOfMonth(2000, time.February))
	assert.Equal(t, 28, periodical.LastDayOfMonth(1900, time.February))
	assert.Equal(t, 31, periodical.LastDayOfMonth(2001, time.December))
	assert.Equal(t, 30, periodical.LastDayOfMonth(2001, time.April))
}

func TestIsLeap(t *testing.T) {
	assert.True(t, periodical.IsLeap(2000))
	assert.True(t, periodical.IsLeap(2004))
	assert.False(t, periodical.IsLeap(1900))
	assert.False(t, periodical.IsLeap(2001))
}

/*
TestLeapDays checks which 29 Februaries are counted at the edges of a range.
*/
func TestLeapDays(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same_year_spanning", date(2000, time.January, 1), date(2000, time.March, 1), 1},
		{"same_year_before", date(2000, time.January, 1), date(2000, time.February, 28), 0},
		{"same_year_after", date(2000, time.March, 1), date(2000, time.June, 1), 0},
		{"ends_on_leap_day", date(1999, time.June, 1), date(2000, time.February, 29), 1},
		{"starts_after_leap_day", date(2000, time.June, 1), date(2001, time.June, 1), 0},
		{"starts_before_leap_day", date(2000, time.January, 1), date(2001, time.June, 1), 1},
		{"one_year_back", date(1999, time.June, 1), date(2000, time.June, 1), 1},
		{"three_years_back", date(1997, time.June, 1), date(2000, time.June, 1), 1},
		{"two_leap_years", date(2000, time.January, 1), date(2004, time.March, 1), 2},
		{"century_is_common", date(1899, time.June, 1), date(1901, time.June, 1), 0},
		{"arguments_swapped", date(2000, time.June, 1), date(1999, time.June, 1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, periodical.LeapDays(tt.a, tt.b))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 366, periodical.DaysBetween(date(1999, time.June, 1), date(2000, time.June, 1)))
	assert.Equal(t, 365, periodical.DaysBetween(date(2000, time.June, 1), date(2001, time.June, 1)))
	assert.Equal(t, -31, periodical.DaysBetween(date(2000, time.June, 1), date(2000, time.May, 1)))

	// Time of day is ignored.
	late := time.Date(2000, time.June, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 1, periodical.DaysBetween(late, date(2000, time.June, 2)))
}
