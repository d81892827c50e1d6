// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Actionb/MIZDB-sub002/internal/core/periodical"
	"github.com/Actionb/MIZDB-sub002/internal/platform/apperr"
)

func assertVolumes(t *testing.T, assignment periodical.Assignment, want map[int64]int) {
	t.Helper()
	for id, volume := range want {
		got, ok := assignment.VolumeOf(id)
		if assert.True(t, ok, "issue %d has no volume", id) {
			assert.Equal(t, volume, got, "volume of issue %d", id)
		}
	}
	assert.Equal(t, len(want), assignment.Len())
}

/*
TestIncrement_Fixture propagates volume 10 from the 2000-06-01 issue across a
series dated around it.
*/
func TestIncrement_Fixture(t *testing.T) {
	store := fixtureReader()

	assignment, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForSeries(1), 3, 10)
	require.NoError(t, err)

	assertVolumes(t, assignment, map[int64]int{
		1: 9,  // 1999-06-01, one full year earlier
		2: 9,  // 2000-05-01, a partial year earlier counts as a full one
		3: 10, // reference
		4: 10, // 2000-12 to 2001-01, dated 2000-12-31
		5: 10, // 2001-05-01
		6: 11, // 2001-06-01
		7: 12, // 2002-06-01
		8: 8,  // 1998-06-01
		9: 7,  // 1997-06-01
	})
	_, ok := assignment.VolumeOf(10)
	assert.False(t, ok, "issue without sort facts stays unassigned")

	assert.Equal(t, 1, store.fetches, "a single aggregated read")
	require.Len(t, store.applied, 1)
	assert.Equal(t, assignment, store.applied[0])
	assert.Equal(t, []int{7, 8, 9, 10, 11, 12}, assignment.Volumes())
}

/*
TestIncrement_YearBoundaries checks the 365 day spans around leap days.
*/
func TestIncrement_YearBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		reference *fakeIssue
		other     *fakeIssue
		want      int
	}{
		{"365_days_earlier", dated(1, 2002, time.June, 1), dated(2, 2001, time.June, 1), 4},
		{"366_days_earlier_across_leap_day", dated(1, 2000, time.June, 1), dated(2, 1999, time.June, 1), 4},
		{"one_day_earlier", dated(1, 2002, time.June, 1), dated(2, 2002, time.May, 31), 4},
		{"a_year_and_a_day_earlier", dated(1, 2002, time.June, 1), dated(2, 2001, time.May, 31), 3},
		{"365_days_later_within_leap_year", dated(1, 2000, time.January, 1), dated(2, 2000, time.December, 31), 5},
		{"366_days_later_across_leap_day", dated(1, 2000, time.January, 1), dated(2, 2001, time.January, 1), 6},
		{"one_day_short_of_a_year", dated(1, 2001, time.June, 1), dated(2, 2002, time.May, 31), 5},
		{"same_day", dated(1, 2001, time.June, 1), dated(2, 2001, time.June, 1), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{issues: []*fakeIssue{tt.reference, tt.other}}

			assignment, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForSeries(1), 1, 5, periodical.DryRun())
			require.NoError(t, err)
			assertVolumes(t, assignment, map[int64]int{1: 5, 2: tt.want})
		})
	}
}

func numbered(id int64, year int, numbers ...int) *fakeIssue {
	return &fakeIssue{id: id, series: 1, seriesName: "Musikexpress", years: []int{year}, numbers: numbers}
}

/*
TestIncrement_NumberTier places issues without dates by year and issue number.
*/
func TestIncrement_NumberTier(t *testing.T) {
	store := &fakeStore{issues: []*fakeIssue{
		numbered(1, 2000, 5), // reference
		numbered(2, 2000, 7),
		numbered(3, 2001, 3),
		numbered(4, 2001, 7),
		numbered(5, 2002, 3),
		numbered(6, 1999, 7),
		numbered(7, 1999, 3),
		numbered(8, 2000, 3),
		{id: 9, series: 1, years: []int{2000, 2001}, numbers: []int{1, 12}},
		{id: 10, series: 1, years: []int{2003}},
	}}

	assignment, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForSeries(1), 1, 10)
	require.NoError(t, err)

	assertVolumes(t, assignment, map[int64]int{
		1:  10,
		2:  10, // higher number, same year
		3:  10, // lower number, following year
		4:  11,
		5:  11,
		6:  9,
		7:  8,
		8:  9,
		9:  10, // spans two years: highest number of the earliest year
		10: 13, // year only
	})
}

func TestIncrement_RunningNumberFallback(t *testing.T) {
	store := &fakeStore{issues: []*fakeIssue{
		{id: 1, series: 1, years: []int{2000}, running: []int{50}},
		{id: 2, series: 1, years: []int{2001}, running: []int{40}},
		{id: 3, series: 1, years: []int{2001}, running: []int{60}},
	}}

	assignment, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForSeries(1), 1, 2)
	require.NoError(t, err)
	assertVolumes(t, assignment, map[int64]int{1: 2, 2: 2, 3: 3})
}

func TestIncrement_YearTier(t *testing.T) {
	store := &fakeStore{issues: []*fakeIssue{
		{id: 1, series: 1, years: []int{2000}},
		{id: 2, series: 1, years: []int{2004, 2003}},
		{id: 3, series: 1, years: []int{1999}, numbers: []int{4}},
		{id: 4, series: 1, numbers: []int{4}},
	}}

	assignment, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForSeries(1), 1, 3)
	require.NoError(t, err)
	assertVolumes(t, assignment, map[int64]int{1: 3, 2: 6, 3: 2})
}

/*
TestIncrement_MixedTiers resolves each issue by the first tier applicable to it.
*/
func TestIncrement_MixedTiers(t *testing.T) {
	reference := dated(1, 2000, time.June, 1)
	reference.numbers = []int{6}
	store := &fakeStore{issues: []*fakeIssue{
		reference,
		{id: 2, series: 1, years: []int{2001}, months: []int{7}},
		numbered(3, 2001, 2),
		{id: 4, series: 1, years: []int{2003}},
	}}

	assignment, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForSeries(1), 1, 1)
	require.NoError(t, err)
	assertVolumes(t, assignment, map[int64]int{1: 1, 2: 2, 3: 1, 4: 4})
}

func TestIncrement_ReferenceOutsideBatch(t *testing.T) {
	store := fixtureReader()

	assignment, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForIssues(6, 7), 3, 10)
	require.NoError(t, err)
	assertVolumes(t, assignment, map[int64]int{3: 10, 6: 11, 7: 12})
}

/*
TestIncrement_FirstIssueAsReference starts at the chronologically first issue
when no reference is given.
*/
func TestIncrement_FirstIssueAsReference(t *testing.T) {
	store := fixtureReader()

	assignment, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForSeries(1), 0, 1)
	require.NoError(t, err)

	volume, ok := assignment.VolumeOf(9)
	require.True(t, ok)
	assert.Equal(t, 1, volume)
	volume, _ = assignment.VolumeOf(8)
	assert.Equal(t, 2, volume)
	volume, _ = assignment.VolumeOf(3)
	assert.Equal(t, 4, volume)
	assert.Equal(t, 1, store.fetches)
}

func TestIncrement_EmptyBatch(t *testing.T) {
	store := fixtureReader()

	assignment, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForSeries(2), 0, 1)
	require.NoError(t, err)
	assert.Empty(t, assignment)
	assert.Empty(t, store.applied)
}

func TestIncrement_DryRun(t *testing.T) {
	store := fixtureReader()

	assignment, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForSeries(1), 3, 10, periodical.DryRun())
	require.NoError(t, err)
	assert.Equal(t, 9, assignment.Len())
	assert.Empty(t, store.applied)
	assert.Nil(t, store.issues[0].volume)
}

func TestIncrement_InvalidVolume(t *testing.T) {
	store := fixtureReader()

	_, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForSeries(1), 3, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, periodical.ErrInvalidVolume)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
	assert.Empty(t, store.applied, "nothing is written")
}

func TestIncrement_ReferenceNotFound(t *testing.T) {
	store := fixtureReader()

	_, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForSeries(1), 99, 1)
	assert.ErrorIs(t, err, periodical.ErrReferenceNotFound)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

func TestIncrement_ReferenceFromOtherSeries(t *testing.T) {
	store := fixtureReader()
	store.issues = append(store.issues, &fakeIssue{id: 11, series: 2, seriesName: "Spex", years: []int{2000}})

	_, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForSeries(1), 11, 5)
	assert.ErrorIs(t, err, periodical.ErrReferenceNotFound)
	assert.Empty(t, store.applied)

	assignment, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForIssues(7), 11, 5)
	require.NoError(t, err, "a batch without a series restriction accepts any reference")
	assertVolumes(t, assignment, map[int64]int{11: 5, 7: 7})
}

func TestIncrement_ReadFailure(t *testing.T) {
	readErr := errors.New("connection reset")
	store := fixtureReader()
	store.err = readErr

	_, err := newIncrementer(t, store).Increment(t.Context(), periodical.ForSeries(1), 3, 1)
	assert.ErrorIs(t, err, readErr)
}

func TestPropagate_ReferenceWithoutFacts(t *testing.T) {
	values := periodical.ValuesDict{
		1: {},
		2: {periodical.FieldYear: {int64(2000)}},
	}

	assignment := periodical.Propagate(values, 1, 4)
	assert.Equal(t, periodical.Assignment{4: {1}}, assignment)
}
