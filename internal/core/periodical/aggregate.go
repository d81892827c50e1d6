// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// # Aggregated Reads

// Values maps a field path to the de-duplicated values found for one issue.
// The order of the values is the order in which they were first seen.
type Values map[Field][]any

// ValuesDict maps issue IDs to their aggregated [Values].
//
// Every issue matched by a read has an entry, even if none of the requested
// fields carry a value for it.
type ValuesDict map[int64]Values

// AggregateReader is the bulk read contract consumed by the ordering and
// volume components.
//
// Implementations must answer a Fetch with exactly one round trip to the
// backing store, regardless of how many fields are requested.
type AggregateReader interface {
	Fetch(ctx context.Context, batch Batch, fields []Field, opts ...FetchOption) (ValuesDict, error)
}

// FetchOptions tune an aggregated read.
type FetchOptions struct {
	// IncludeEmpty keeps fields whose only values are NULL/empty.
	IncludeEmpty bool
}

// FetchOption mutates [FetchOptions].
type FetchOption func(*FetchOptions)

// WithEmpty makes a Fetch keep NULL and empty values instead of dropping them.
func WithEmpty() FetchOption {
	return func(o *FetchOptions) { o.IncludeEmpty = true }
}

// ResolveFetchOptions applies opts on top of the defaults.
func ResolveFetchOptions(opts ...FetchOption) FetchOptions {
	var options FetchOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

/*
Collect groups joined result rows by issue ID and merges the field values of
every row into de-duplicated sets.

A read that joins several one-to-many relations returns the cartesian product
of the related rows; Collect folds that product back into one [Values] per
issue. Each row must hold the issue ID followed by one value per field.

Parameters:
  - rows: [][]any (ID first, then len(fields) values)
  - fields: []Field
  - opts: FetchOptions

Returns:
  - ValuesDict: Sparse per-issue value sets
  - error: Malformed row or unsupported ID type
*/
func Collect(rows [][]any, fields []Field, opts FetchOptions) (ValuesDict, error) {
	result := make(ValuesDict)

	for index, row := range rows {
		if len(row) != len(fields)+1 {
			return nil, fmt.Errorf("aggregate: row %d has %d columns, expected %d", index, len(row), len(fields)+1)
		}

		id, ok := toInt64(row[0])
		if !ok {
			return nil, fmt.Errorf("aggregate: row %d has unsupported id %T", index, row[0])
		}

		values, found := result[id]
		if !found {
			values = make(Values)
			result[id] = values
		}

		for position, field := range fields {
			value := normalize(row[position+1])
			if isEmpty(value) && !opts.IncludeEmpty {
				continue
			}
			if containsValue(values[field], value) {
				continue
			}
			values[field] = append(values[field], value)
		}
	}

	return result, nil
}

// # Typed Accessors

// Has reports whether the field carries at least one non-empty value.
func (v Values) Has(field Field) bool {
	for _, value := range v[field] {
		if !isEmpty(value) {
			return true
		}
	}
	return false
}

// Ints returns the integer values of field, skipping NULLs.
func (v Values) Ints(field Field) []int {
	var ints []int
	for _, value := range v[field] {
		if n, ok := toInt64(value); ok {
			ints = append(ints, int(n))
		}
	}
	return ints
}

// Dates returns the date values of field, skipping NULLs.
func (v Values) Dates(field Field) []time.Time {
	var dates []time.Time
	for _, value := range v[field] {
		if date, ok := value.(time.Time); ok {
			dates = append(dates, date)
		}
	}
	return dates
}

// String returns the first string value of field.
func (v Values) String(field Field) (string, bool) {
	for _, value := range v[field] {
		if s, ok := value.(string); ok {
			return s, true
		}
	}
	return "", false
}

// Bool returns the first boolean value of field.
func (v Values) Bool(field Field) bool {
	for _, value := range v[field] {
		if b, ok := value.(bool); ok {
			return b
		}
	}
	return false
}

// IDs returns the issue IDs of the dict in ascending order.
func (d ValuesDict) IDs() []int64 {
	ids := make([]int64, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// # Value Normalisation

// normalize maps driver values onto the small set of types the package
// works with: int64, string, bool, time.Time (UTC midnight) and nil.
func normalize(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case int:
		return int64(typed)
	case int16:
		return int64(typed)
	case int32:
		return int64(typed)
	case []byte:
		return string(typed)
	case time.Time:
		return civilDate(typed)
	case *time.Time:
		if typed == nil {
			return nil
		}
		return civilDate(*typed)
	default:
		return value
	}
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	}
	return false
}

func containsValue(values []any, candidate any) bool {
	for _, value := range values {
		if a, ok := value.(time.Time); ok {
			if b, ok := candidate.(time.Time); ok && a.Equal(b) {
				return true
			}
			continue
		}
		if value == candidate {
			return true
		}
	}
	return false
}

func toInt64(value any) (int64, bool) {
	switch typed := value.(type) {
	case int64:
		return typed, true
	case int:
		return int64(typed), true
	case int32:
		return int64(typed), true
	case int16:
		return int64(typed), true
	}
	return 0, false
}
