// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical

import (
	"fmt"
	"slices"
	"strings"
)

// # Batches

// Batch describes a filtered set of issues in the backing store.
//
// SeriesIDs and IDs restrict the set (both must match when both are given);
// Include adds issues regardless of the restrictions. A nil restriction is
// inactive while an empty, non-nil one matches nothing. The zero Batch
// matches every issue.
type Batch struct {
	SeriesIDs []int64
	IDs       []int64
	Include   []int64
}

// ForSeries returns a batch of all issues of the given series.
func ForSeries(seriesIDs ...int64) Batch {
	return Batch{SeriesIDs: append([]int64{}, seriesIDs...)}
}

// ForIssues returns a batch of the given issues.
func ForIssues(ids ...int64) Batch {
	return Batch{IDs: append([]int64{}, ids...)}
}

// Restrict returns a copy of b further limited to ids.
func (b Batch) Restrict(ids ...int64) Batch {
	clone := b.clone()
	if clone.IDs == nil {
		clone.IDs = append([]int64{}, ids...)
		return clone
	}
	clone.IDs = slices.DeleteFunc(clone.IDs, func(id int64) bool {
		return !slices.Contains(ids, id)
	})
	return clone
}

// Including returns a copy of b that also matches ids.
func (b Batch) Including(ids ...int64) Batch {
	clone := b.clone()
	for _, id := range ids {
		if !slices.Contains(clone.Include, id) {
			clone.Include = append(clone.Include, id)
		}
	}
	return clone
}

// MatchesNothing reports whether an empty restriction rules out every issue.
func (b Batch) MatchesNothing() bool {
	restricted := (b.SeriesIDs != nil && len(b.SeriesIDs) == 0) || (b.IDs != nil && len(b.IDs) == 0)
	return restricted && len(b.Include) == 0
}

func (b Batch) clone() Batch {
	return Batch{
		SeriesIDs: slices.Clone(b.SeriesIDs),
		IDs:       slices.Clone(b.IDs),
		Include:   slices.Clone(b.Include),
	}
}

// String renders the filter for log output.
func (b Batch) String() string {
	var parts []string
	if b.SeriesIDs != nil {
		parts = append(parts, fmt.Sprintf("series=%v", b.SeriesIDs))
	}
	if b.IDs != nil {
		parts = append(parts, fmt.Sprintf("ids=%v", b.IDs))
	}
	if len(b.Include) > 0 {
		parts = append(parts, fmt.Sprintf("include=%v", b.Include))
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " ")
}

// # Ordered Batches

/*
OrderedBatch is a [Batch] together with the ordering it is listed in.

It is an immutable value: every derivation returns a new OrderedBatch and the
"chronologically ordered" flag travels with the value it describes, so no state
is shared between callers.
*/
type OrderedBatch struct {
	batch         Batch
	ordering      Ordering
	chronological bool
}

// Ordered returns b listed in the declared ordering keys.
func (b Batch) Ordered(keys ...OrderKey) OrderedBatch {
	return OrderedBatch{batch: b.clone(), ordering: slices.Clone(Ordering(keys))}
}

// Batch returns the filter of the ordered batch.
func (ob OrderedBatch) Batch() Batch {
	return ob.batch.clone()
}

// Ordering returns a copy of the ordering keys.
func (ob OrderedBatch) Ordering() Ordering {
	return slices.Clone(ob.ordering)
}

// IsChronological reports whether the ordering was built by [Comparator.ChronologicalOrder].
func (ob OrderedBatch) IsChronological() bool {
	return ob.chronological
}

// OrderBy returns a copy listed in keys. Any explicit re-ordering invalidates
// a chronological ordering.
func (ob OrderedBatch) OrderBy(keys ...OrderKey) OrderedBatch {
	return OrderedBatch{batch: ob.batch.clone(), ordering: slices.Clone(Ordering(keys))}
}

// Narrow returns a copy restricted to ids that keeps the ordering and its flag.
func (ob OrderedBatch) Narrow(ids ...int64) OrderedBatch {
	return OrderedBatch{
		batch:         ob.batch.Restrict(ids...),
		ordering:      slices.Clone(ob.ordering),
		chronological: ob.chronological,
	}
}

// Unordered strips the ordering. Bulk writes only accept a plain [Batch]
// since the derived ranking keys are not valid in an UPDATE.
func (ob OrderedBatch) Unordered() Batch {
	return ob.batch.clone()
}

func (ob OrderedBatch) withChronological(ordering Ordering) OrderedBatch {
	return OrderedBatch{batch: ob.batch.clone(), ordering: ordering, chronological: true}
}
