// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Actionb/MIZDB-sub002/internal/core/periodical"
)

func TestBatch_Restrict(t *testing.T) {
	batch := periodical.ForSeries(1)

	narrowed := batch.Restrict(3, 4, 5)
	assert.Equal(t, []int64{3, 4, 5}, narrowed.IDs)
	assert.Nil(t, batch.IDs, "the receiver is not modified")

	narrowed = narrowed.Restrict(4, 9)
	assert.Equal(t, []int64{4}, narrowed.IDs)

	empty := narrowed.Restrict(9)
	assert.Empty(t, empty.IDs)
	assert.True(t, empty.MatchesNothing())
}

func TestBatch_MatchesNothing(t *testing.T) {
	assert.False(t, periodical.Batch{}.MatchesNothing())
	assert.False(t, periodical.ForSeries(1).MatchesNothing())
	assert.True(t, periodical.ForSeries().MatchesNothing())
	assert.True(t, periodical.ForIssues().MatchesNothing())
	assert.False(t, periodical.ForIssues().Including(3).MatchesNothing())
}

func TestBatch_Including(t *testing.T) {
	batch := periodical.ForIssues(1).Including(2, 2, 3).Including(3)
	assert.Equal(t, []int64{2, 3}, batch.Include)
}

func TestBatch_String(t *testing.T) {
	assert.Equal(t, "all", periodical.Batch{}.String())
	assert.Equal(t, "series=[1] ids=[2 3] include=[4]", periodical.ForSeries(1).Restrict(2, 3).Including(4).String())
}

/*
TestOrderedBatch_Flag checks that the chronological flag survives narrowing
but not an explicit re-ordering.
*/
func TestOrderedBatch_Flag(t *testing.T) {
	comparator := newComparator(t, fixtureReader())

	ordered, err := comparator.ChronologicalOrder(t.Context(), periodical.ForSeries(1).Ordered())
	assert.NoError(t, err)
	assert.True(t, ordered.IsChronological())

	narrowed := ordered.Narrow(1, 2)
	assert.True(t, narrowed.IsChronological())
	assert.Equal(t, ordered.Ordering(), narrowed.Ordering())
	assert.Equal(t, []int64{1, 2}, narrowed.Batch().IDs)

	reordered := ordered.OrderBy(periodical.Asc(periodical.KeyID))
	assert.False(t, reordered.IsChronological())
	assert.Equal(t, periodical.Ordering{periodical.Asc(periodical.KeyID)}, reordered.Ordering())

	assert.Equal(t, periodical.ForSeries(1), ordered.Unordered())
}
