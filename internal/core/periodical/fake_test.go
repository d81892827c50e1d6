// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical_test

import (
	"context"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/Actionb/MIZDB-sub002/internal/core/periodical"
)

// fakeIssue is the in-memory shape of an issue and its child facts.
type fakeIssue struct {
	id         int64
	series     int64
	seriesName string
	date       *time.Time
	volume     *int
	special    bool
	years      []int
	months     []int
	numbers    []int
	running    []int
}

// fakeStore implements periodical.AggregateReader and periodical.VolumeWriter.
type fakeStore struct {
	issues  []*fakeIssue
	fetches int
	applied []periodical.Assignment
	cleared []periodical.Batch
	err     error
}

func (store *fakeStore) matches(batch periodical.Batch, issue *fakeIssue) bool {
	if slices.Contains(batch.Include, issue.id) {
		return true
	}
	if batch.SeriesIDs != nil && !slices.Contains(batch.SeriesIDs, issue.series) {
		return false
	}
	if batch.IDs != nil && !slices.Contains(batch.IDs, issue.id) {
		return false
	}
	return true
}

func (store *fakeStore) Fetch(_ context.Context, batch periodical.Batch, fields []periodical.Field, opts ...periodical.FetchOption) (periodical.ValuesDict, error) {
	store.fetches++
	if store.err != nil {
		return nil, store.err
	}
	options := periodical.ResolveFetchOptions(opts...)

	result := make(periodical.ValuesDict)
	for _, issue := range store.issues {
		if !store.matches(batch, issue) {
			continue
		}
		values := make(periodical.Values)
		for _, field := range fields {
			var found []any
			switch field {
			case periodical.FieldSeries:
				found = []any{issue.series}
			case periodical.FieldSeriesName:
				found = []any{issue.seriesName}
			case periodical.FieldSpecial:
				found = []any{issue.special}
			case periodical.FieldDate:
				if issue.date != nil {
					found = []any{*issue.date}
				}
			case periodical.FieldVolume:
				if issue.volume != nil {
					found = []any{int64(*issue.volume)}
				}
			case periodical.FieldYear:
				found = ints(issue.years)
			case periodical.FieldMonth:
				found = ints(issue.months)
			case periodical.FieldNumber:
				found = ints(issue.numbers)
			case periodical.FieldRunningNumber:
				found = ints(issue.running)
			}
			if len(found) == 0 {
				if options.IncludeEmpty {
					values[field] = []any{nil}
				}
				continue
			}
			values[field] = found
		}
		result[issue.id] = values
	}
	return result, nil
}

func (store *fakeStore) ApplyVolumes(_ context.Context, assignment periodical.Assignment) error {
	if store.err != nil {
		return store.err
	}
	store.applied = append(store.applied, assignment)
	for volume, ids := range assignment {
		for _, issue := range store.issues {
			if slices.Contains(ids, issue.id) {
				issue.volume = &volume
			}
		}
	}
	return nil
}

func (store *fakeStore) ClearVolumes(_ context.Context, batch periodical.Batch) error {
	store.cleared = append(store.cleared, batch)
	for _, issue := range store.issues {
		if store.matches(batch, issue) {
			issue.volume = nil
		}
	}
	return nil
}

func ints(values []int) []any {
	var out []any
	for _, value := range values {
		out = append(out, int64(value))
	}
	return out
}

func ptr[T any](value T) *T { return &value }

func dated(id int64, year int, month time.Month, day int) *fakeIssue {
	return &fakeIssue{
		id:         id,
		series:     1,
		seriesName: "Musikexpress",
		date:       ptr(date(year, month, day)),
		years:      []int{year},
		months:     []int{int(month)},
	}
}

// fixtureReader returns a series of nine issues around the reference issue 3
// (2000-06-01) and one issue without any sort facts (10).
func fixtureReader() *fakeStore {
	spanning := &fakeIssue{
		id: 4, series: 1, seriesName: "Musikexpress",
		years: []int{2000, 2001}, months: []int{12, 1},
	}
	return &fakeStore{issues: []*fakeIssue{
		dated(1, 1999, time.June, 1),
		dated(2, 2000, time.May, 1),
		dated(3, 2000, time.June, 1),
		spanning,
		dated(5, 2001, time.May, 1),
		dated(6, 2001, time.June, 1),
		dated(7, 2002, time.June, 1),
		dated(8, 1998, time.June, 1),
		dated(9, 1997, time.June, 1),
		{id: 10, series: 1, seriesName: "Musikexpress"},
	}}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newComparator(t *testing.T, store *fakeStore) *periodical.Comparator {
	t.Helper()
	return periodical.NewComparator(store, periodical.DefaultPriorities, discardLogger())
}

func newIncrementer(t *testing.T, store *fakeStore) *periodical.Incrementer {
	t.Helper()
	return periodical.NewIncrementer(store, store, periodical.DefaultPriorities, discardLogger())
}
