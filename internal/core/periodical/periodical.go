// Copyright (c) 2026 MIZDB. All rights reserved.

/*
Package periodical orders the issues of a periodical series chronologically and
propagates volume (Jahrgang) labels across a batch of issues.

The sort information of an issue is fragmentary: some issues carry an exact
publication date, others only one or more years, month facts, issue numbers or
running numbers. The package reconciles these multi-valued, optional facts into:

  - a total order ([Comparator.ChronologicalOrder]), and
  - a consistent set of volume numbers ([Incrementer.Increment]).

Every operation performs one aggregated read ([AggregateReader.Fetch]), computes
in memory and, for the incrementer only, writes back inside a single transaction.
*/
package periodical

import "time"

// # Domain Entities

// Series is a periodical publication (Magazin).
type Series struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Month is one of the twelve calendar months (global reference data).
type Month struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Ordinal      int    `json:"ordinal"`
}

// Issue is one release of a [Series] (Ausgabe) as rendered by an ordered listing.
//
// Year, Month, Number and RunningNumber are the sort annotations derived from
// the issue's child facts: the earliest year and the highest month ordinal,
// issue number and running number.
type Issue struct {
	ID            int64      `json:"id"`
	SeriesID      int64      `json:"series_id"`
	SeriesName    string     `json:"series_name"`
	Date          *time.Time `json:"date,omitempty"`
	Volume        *int       `json:"volume,omitempty"`
	Special       bool       `json:"special"`
	Description   string     `json:"description,omitempty"`
	Year          *int       `json:"year,omitempty"`
	Month         *int       `json:"month,omitempty"`
	Number        *int       `json:"number,omitempty"`
	RunningNumber *int       `json:"running_number,omitempty"`
}

// # Field Paths

// Field names an attribute of an issue, possibly reached through a relation
// (e.g. "years__year"). Multi-valued fields yield one value per related row.
type Field string

const (
	FieldSeries        Field = "series"
	FieldSeriesName    Field = "series__name"
	FieldDate          Field = "date"
	FieldVolume        Field = "volume"
	FieldSpecial       Field = "special"
	FieldYear          Field = "years__year"
	FieldMonth         Field = "months__month__ordinal"
	FieldNumber        Field = "numbers__number"
	FieldRunningNumber Field = "running_numbers__number"
)

// Fields lists every field path a repository must be able to aggregate.
var Fields = []Field{
	FieldSeries, FieldSeriesName, FieldDate, FieldVolume, FieldSpecial,
	FieldYear, FieldMonth, FieldNumber, FieldRunningNumber,
}

// Valid reports whether f is a known field path.
func (f Field) Valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}
