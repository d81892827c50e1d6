// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// # Ordering Keys

// KeyName identifies a sort key of an issue listing.
type KeyName string

const (
	KeySeries        KeyName = "series"
	KeyYear          KeyName = "year"
	KeyVolume        KeyName = "volume"
	KeySpecial       KeyName = "special"
	KeyDate          KeyName = "date"
	KeyRunningNumber KeyName = "running_number"
	KeyMonth         KeyName = "month"
	KeyNumber        KeyName = "number"
	KeyID            KeyName = "id"
)

var knownKeys = []KeyName{
	KeySeries, KeyYear, KeyVolume, KeySpecial, KeyDate,
	KeyRunningNumber, KeyMonth, KeyNumber, KeyID,
}

// OrderKey is one ascending or descending sort key.
type OrderKey struct {
	Name KeyName
	Desc bool
}

// Asc returns an ascending key.
func Asc(name KeyName) OrderKey { return OrderKey{Name: name} }

// Desc returns a descending key.
func Desc(name KeyName) OrderKey { return OrderKey{Name: name, Desc: true} }

// IsIdentity reports whether the key orders by primary key.
func (k OrderKey) IsIdentity() bool { return k.Name == KeyID }

// String renders the key in "-name" notation.
func (k OrderKey) String() string {
	if k.Desc {
		return "-" + string(k.Name)
	}
	return string(k.Name)
}

// MarshalText renders the key in "-name" notation.
func (k OrderKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a key rendered by [OrderKey.MarshalText].
func (k *OrderKey) UnmarshalText(text []byte) error {
	parsed, err := ParseOrderKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseOrderKey parses "name" or "-name". "pk" is accepted as an alias of "id".
func ParseOrderKey(raw string) (OrderKey, error) {
	raw = strings.TrimSpace(raw)
	key := OrderKey{}
	if strings.HasPrefix(raw, "-") {
		key.Desc = true
		raw = raw[1:]
	}
	if raw == "pk" {
		raw = string(KeyID)
	}
	key.Name = KeyName(raw)
	if !slices.Contains(knownKeys, key.Name) {
		return OrderKey{}, fmt.Errorf("unknown ordering key %q", raw)
	}
	return key, nil
}

// ParseOrdering parses a list of keys.
func ParseOrdering(raw []string) (Ordering, error) {
	ordering := make(Ordering, 0, len(raw))
	for _, item := range raw {
		key, err := ParseOrderKey(item)
		if err != nil {
			return nil, err
		}
		ordering = append(ordering, key)
	}
	return ordering, nil
}

// Ordering is a sequence of sort keys; earlier keys dominate.
type Ordering []OrderKey

// DefaultOrdering lists issues when no chronological order can be built.
var DefaultOrdering = Ordering{Asc(KeySeries), Asc(KeyID)}

// Strings renders the ordering in "-name" notation.
func (o Ordering) Strings() []string {
	out := make([]string, len(o))
	for i, key := range o {
		out[i] = key.String()
	}
	return out
}

// # In-Memory Comparison

// SortRecord holds the sort annotations of one issue.
type SortRecord struct {
	ID            int64
	SeriesName    string
	Date          *time.Time
	Volume        *int
	Special       bool
	Year          *int
	Month         *int
	Number        *int
	RunningNumber *int
}

// RecordFromValues builds the sort annotations out of aggregated values:
// the earliest year and the highest month ordinal, number and running number.
func RecordFromValues(id int64, values Values) SortRecord {
	record := SortRecord{ID: id, Special: values.Bool(FieldSpecial)}
	record.SeriesName, _ = values.String(FieldSeriesName)
	if dates := values.Dates(FieldDate); len(dates) > 0 {
		date := dates[len(dates)-1]
		record.Date = &date
	}
	record.Volume = first(values.Ints(FieldVolume))
	record.Year = extreme(values.Ints(FieldYear), slices.Min[[]int, int])
	record.Month = extreme(values.Ints(FieldMonth), slices.Max[[]int, int])
	record.Number = extreme(values.Ints(FieldNumber), slices.Max[[]int, int])
	record.RunningNumber = extreme(values.Ints(FieldRunningNumber), slices.Max[[]int, int])
	return record
}

// Records converts every entry of values into a [SortRecord].
func Records(values ValuesDict) []SortRecord {
	records := make([]SortRecord, 0, len(values))
	for _, id := range values.IDs() {
		records = append(records, RecordFromValues(id, values[id]))
	}
	return records
}

// SortRecord returns the sort annotations of an issue row.
func (issue *Issue) SortRecord() SortRecord {
	return SortRecord{
		ID:            issue.ID,
		SeriesName:    issue.SeriesName,
		Date:          issue.Date,
		Volume:        issue.Volume,
		Special:       issue.Special,
		Year:          issue.Year,
		Month:         issue.Month,
		Number:        issue.Number,
		RunningNumber: issue.RunningNumber,
	}
}

/*
CompareFunc returns a comparison function applying the ordering keys in turn.

Missing values sort after present ones regardless of direction, matching the
NULLS LAST rendering of the repositories. Series names are collated with German
rules. The returned function owns a collator and must not be shared between
goroutines.
*/
func (o Ordering) CompareFunc() func(a, b SortRecord) int {
	collator := collate.New(language.German)

	return func(a, b SortRecord) int {
		for _, key := range o {
			var result int
			switch key.Name {
			case KeySeries:
				result = collator.CompareString(a.SeriesName, b.SeriesName)
			case KeyID:
				result = cmp.Compare(a.ID, b.ID)
			case KeySpecial:
				result = compareBool(a.Special, b.Special)
			case KeyDate:
				if r, decided := compareNil(a.Date, b.Date); decided {
					return r
				} else if a.Date != nil {
					result = a.Date.Compare(*b.Date)
				}
			default:
				left, right := a.intKey(key.Name), b.intKey(key.Name)
				if r, decided := compareNil(left, right); decided {
					return r
				} else if left != nil {
					result = cmp.Compare(*left, *right)
				}
			}
			if key.Desc {
				result = -result
			}
			if result != 0 {
				return result
			}
		}
		return 0
	}
}

// Compare orders a and b; see [Ordering.CompareFunc].
func (o Ordering) Compare(a, b SortRecord) int {
	return o.CompareFunc()(a, b)
}

// Sort sorts records in place.
func (o Ordering) Sort(records []SortRecord) {
	slices.SortStableFunc(records, o.CompareFunc())
}

func (r SortRecord) intKey(name KeyName) *int {
	switch name {
	case KeyYear:
		return r.Year
	case KeyVolume:
		return r.Volume
	case KeyMonth:
		return r.Month
	case KeyNumber:
		return r.Number
	case KeyRunningNumber:
		return r.RunningNumber
	}
	return nil
}

// compareNil decides the comparison if at least one side is missing.
func compareNil[T any](a, b *T) (int, bool) {
	switch {
	case a == nil && b == nil:
		return 0, false
	case a == nil:
		return 1, true
	case b == nil:
		return -1, true
	}
	return 0, false
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func first(values []int) *int {
	if len(values) == 0 {
		return nil
	}
	return &values[0]
}

func extreme(values []int, pick func([]int) int) *int {
	if len(values) == 0 {
		return nil
	}
	v := pick(values)
	return &v
}
