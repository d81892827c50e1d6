// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical

import (
	"context"
	"log/slog"
	"slices"
)

// # Sort Criteria

// Criterion couples an ordering key with the field its presence is counted on.
type Criterion struct {
	Key   KeyName
	Field Field
}

/*
Priorities configure how [Comparator] builds a chronological ordering.

Criteria are the secondary keys, ranked by how many issues of the batch carry
them; ties keep the order given here. Leading holds the two keys that follow the
series name. The second leading key moves to the front if strictly more issues
carry it than the first.
*/
type Priorities struct {
	Criteria []Criterion
	Leading  [2]Criterion
	Identity OrderKey
}

// DefaultPriorities rank exact dates first, then running numbers, months and
// issue numbers. Year leads volume.
var DefaultPriorities = Priorities{
	Criteria: []Criterion{
		{Key: KeyDate, Field: FieldDate},
		{Key: KeyRunningNumber, Field: FieldRunningNumber},
		{Key: KeyMonth, Field: FieldMonth},
		{Key: KeyNumber, Field: FieldNumber},
	},
	Leading: [2]Criterion{
		{Key: KeyYear, Field: FieldYear},
		{Key: KeyVolume, Field: FieldVolume},
	},
	Identity: Desc(KeyID),
}

// Fields returns every field the priorities need counted.
func (p Priorities) Fields() []Field {
	fields := []Field{FieldSeries, p.Leading[0].Field, p.Leading[1].Field}
	for _, criterion := range p.Criteria {
		if !slices.Contains(fields, criterion.Field) {
			fields = append(fields, criterion.Field)
		}
	}
	return fields
}

// RankCriteria sorts the criteria by the number of issues carrying them,
// most common first.
func (p Priorities) RankCriteria(values ValuesDict) []Criterion {
	ranked := slices.Clone(p.Criteria)
	counts := make(map[Field]int, len(ranked))
	for _, criterion := range ranked {
		counts[criterion.Field] = CountIssues(values, criterion.Field)
	}
	slices.SortStableFunc(ranked, func(a, b Criterion) int {
		return counts[b.Field] - counts[a.Field]
	})
	return ranked
}

// LeadingKeys returns the two leading keys in the order they apply to values.
func (p Priorities) LeadingKeys(values ValuesDict) (Criterion, Criterion) {
	first, second := p.Leading[0], p.Leading[1]
	if CountIssues(values, second.Field) > CountIssues(values, first.Field) {
		return second, first
	}
	return first, second
}

// CountIssues counts the issues with at least one value for field.
func CountIssues(values ValuesDict, field Field) int {
	count := 0
	for _, issue := range values {
		if issue.Has(field) {
			count++
		}
	}
	return count
}

// CountSeries counts the distinct series among values.
func CountSeries(values ValuesDict) int {
	var seen []int64
	for _, issue := range values {
		for _, id := range issue.Ints(FieldSeries) {
			if !slices.Contains(seen, int64(id)) {
				seen = append(seen, int64(id))
			}
		}
	}
	return len(seen)
}

// # Chronological Comparator

// Comparator derives a chronological ordering for a batch of issues of one
// series.
type Comparator struct {
	reader     AggregateReader
	priorities Priorities
	logger     *slog.Logger
}

// NewComparator creates a Comparator reading through reader.
func NewComparator(reader AggregateReader, priorities Priorities, logger *slog.Logger) *Comparator {
	return &Comparator{reader: reader, priorities: priorities, logger: logger}
}

/*
ChronologicalOrder returns ob ordered by the best available chronology.

An already chronological batch is returned unchanged without touching the
store. Otherwise the batch's sort facts are read once and, if the batch holds
issues of exactly one series, the ordering becomes:

	extra..., series, <leading keys>, special, <ranked criteria>, identity

Identity keys in extra are removed and the first of them is placed last in
place of the configured identity key. An empty batch or one spanning several
series falls back to extra, else the batch's own ordering, else
[DefaultOrdering]; the result is then not flagged chronological.

Parameters:
  - ctx: context.Context
  - ob: OrderedBatch
  - extra: ...OrderKey (caller-supplied keys taking precedence)

Returns:
  - OrderedBatch: A new batch; ob is not modified
  - error: Read failure
*/
func (comparator *Comparator) ChronologicalOrder(ctx context.Context, ob OrderedBatch, extra ...OrderKey) (OrderedBatch, error) {
	if ob.IsChronological() {
		return ob, nil
	}
	if ob.batch.MatchesNothing() {
		return comparator.fallback(ob, extra), nil
	}

	values, err := comparator.reader.Fetch(ctx, ob.batch, comparator.priorities.Fields())
	if err != nil {
		return OrderedBatch{}, err
	}

	return comparator.OrderFromValues(ob, values, extra...), nil
}

// OrderFromValues is [Comparator.ChronologicalOrder] on already fetched values.
// values must hold the fields named by [Priorities.Fields].
func (comparator *Comparator) OrderFromValues(ob OrderedBatch, values ValuesDict, extra ...OrderKey) OrderedBatch {
	if ob.IsChronological() {
		return ob
	}
	if len(values) == 0 || CountSeries(values) != 1 {
		comparator.logger.Debug("chronological_order_fallback",
			slog.String("batch", ob.batch.String()),
			slog.Int("issues", len(values)),
		)
		return comparator.fallback(ob, extra)
	}

	identity := comparator.priorities.Identity
	keys := make(Ordering, 0, len(extra)+len(comparator.priorities.Criteria)+5)
	identitySeen := false
	for _, key := range extra {
		if key.IsIdentity() {
			if !identitySeen {
				identity = key
				identitySeen = true
			}
			continue
		}
		keys = append(keys, key)
	}

	first, second := comparator.priorities.LeadingKeys(values)
	keys = append(keys, Asc(KeySeries), Asc(first.Key), Asc(second.Key), Asc(KeySpecial))
	for _, criterion := range comparator.priorities.RankCriteria(values) {
		keys = append(keys, Asc(criterion.Key))
	}
	keys = append(keys, identity)

	comparator.logger.Debug("chronological_order_built",
		slog.String("batch", ob.batch.String()),
		slog.Any("ordering", keys.Strings()),
	)

	return ob.withChronological(keys)
}

func (comparator *Comparator) fallback(ob OrderedBatch, extra []OrderKey) OrderedBatch {
	switch {
	case len(extra) > 0:
		return ob.OrderBy(extra...)
	case len(ob.ordering) > 0:
		return ob.OrderBy(ob.ordering...)
	default:
		return ob.OrderBy(DefaultOrdering...)
	}
}
