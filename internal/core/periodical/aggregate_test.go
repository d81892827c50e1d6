// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Actionb/MIZDB-sub002/internal/core/periodical"
)

/*
TestCollect_FoldsJoinedRows feeds the cartesian product of two relations and
expects one de-duplicated value set per issue.
*/
func TestCollect_FoldsJoinedRows(t *testing.T) {
	fields := []periodical.Field{periodical.FieldYear, periodical.FieldMonth, periodical.FieldDate}
	rows := [][]any{
		// Issue 1: years 2000/2001 x months 12/1.
		{int64(1), int64(2000), int64(12), nil},
		{int64(1), int64(2000), int64(1), nil},
		{int64(1), int64(2001), int64(12), nil},
		{int64(1), int64(2001), int64(1), nil},
		// Issue 2: a single row with a date.
		{int32(2), int32(2000), nil, time.Date(2000, 6, 1, 13, 0, 0, 0, time.UTC)},
		// Issue 3: nothing but NULLs.
		{3, nil, nil, nil},
	}

	values, err := periodical.Collect(rows, fields, periodical.FetchOptions{})
	require.NoError(t, err)
	require.Len(t, values, 3)

	assert.Equal(t, []int{2000, 2001}, values[1].Ints(periodical.FieldYear))
	assert.Equal(t, []int{12, 1}, values[1].Ints(periodical.FieldMonth))
	assert.False(t, values[1].Has(periodical.FieldDate))

	dates := values[2].Dates(periodical.FieldDate)
	require.Len(t, dates, 1)
	assert.True(t, date(2000, time.June, 1).Equal(dates[0]), "dates are truncated to the day")

	assert.Empty(t, values[3])
	assert.Equal(t, []int64{1, 2, 3}, values.IDs())
}

func TestCollect_IncludeEmpty(t *testing.T) {
	fields := []periodical.Field{periodical.FieldVolume, periodical.FieldSeriesName}
	rows := [][]any{
		{int64(7), nil, ""},
		{int64(7), nil, []byte("Musikexpress")},
	}

	values, err := periodical.Collect(rows, fields, periodical.ResolveFetchOptions(periodical.WithEmpty()))
	require.NoError(t, err)

	assert.Equal(t, []any{nil}, values[7][periodical.FieldVolume])
	assert.Equal(t, []any{"", "Musikexpress"}, values[7][periodical.FieldSeriesName])
	assert.False(t, values[7].Has(periodical.FieldVolume))

	name, ok := values[7].String(periodical.FieldSeriesName)
	assert.True(t, ok)
	assert.Equal(t, "", name)
}

func TestCollect_RejectsMalformedRows(t *testing.T) {
	fields := []periodical.Field{periodical.FieldVolume}

	_, err := periodical.Collect([][]any{{int64(1)}}, fields, periodical.FetchOptions{})
	assert.Error(t, err)

	_, err = periodical.Collect([][]any{{"1", int64(3)}}, fields, periodical.FetchOptions{})
	assert.Error(t, err)
}

func TestValues_Bool(t *testing.T) {
	values := periodical.Values{periodical.FieldSpecial: {true}}
	assert.True(t, values.Bool(periodical.FieldSpecial))
	assert.False(t, periodical.Values{}.Bool(periodical.FieldSpecial))
}

func TestField_Valid(t *testing.T) {
	assert.True(t, periodical.FieldRunningNumber.Valid())
	assert.False(t, periodical.Field("title").Valid())
}
