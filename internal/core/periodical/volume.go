// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/Actionb/MIZDB-sub002/internal/platform/apperr"
)

// # Errors

var (
	// ErrReferenceNotFound is the cause of the error returned when the
	// reference issue is not part of the store.
	ErrReferenceNotFound = errors.New("reference issue not found")

	// ErrInvalidVolume is the cause of the error returned when propagation
	// would assign a volume below 1.
	ErrInvalidVolume = errors.New("invalid volume")
)

func referenceNotFound(id int64) error {
	err := apperr.NotFound(fmt.Sprintf("Reference issue %d", id))
	err.Cause = ErrReferenceNotFound
	return err
}

func invalidVolume(volume int, ids []int64) error {
	err := apperr.Unprocessable(fmt.Sprintf("Issues %v would be assigned volume %d; volumes start at 1", ids, volume))
	err.Cause = ErrInvalidVolume
	return err
}

// # Assignment

// Assignment maps a volume number to the IDs of the issues receiving it.
type Assignment map[int][]int64

// Volumes returns the assigned volume numbers in ascending order.
func (a Assignment) Volumes() []int {
	volumes := make([]int, 0, len(a))
	for volume := range a {
		volumes = append(volumes, volume)
	}
	slices.Sort(volumes)
	return volumes
}

// VolumeOf returns the volume assigned to id.
func (a Assignment) VolumeOf(id int64) (int, bool) {
	for volume, ids := range a {
		if slices.Contains(ids, id) {
			return volume, true
		}
	}
	return 0, false
}

// Len returns the number of assigned issues.
func (a Assignment) Len() int {
	total := 0
	for _, ids := range a {
		total += len(ids)
	}
	return total
}

func (a Assignment) add(volume int, id int64) {
	a[volume] = append(a[volume], id)
}

// # Volume Writer

// VolumeWriter persists volume assignments.
type VolumeWriter interface {
	// ApplyVolumes issues one bulk update per volume, all inside a single
	// transaction. Either every update is committed or none is.
	ApplyVolumes(ctx context.Context, assignment Assignment) error

	// ClearVolumes unsets the volume of every issue in batch.
	ClearVolumes(ctx context.Context, batch Batch) error
}

// # Incrementer

// IncrementOptions tune a volume propagation.
type IncrementOptions struct {
	// DryRun computes the assignment without writing it.
	DryRun bool
}

// IncrementOption mutates [IncrementOptions].
type IncrementOption func(*IncrementOptions)

// DryRun makes [Incrementer.Increment] skip the write.
func DryRun() IncrementOption {
	return func(o *IncrementOptions) { o.DryRun = true }
}

// IncrementFields are the facts volume propagation reads.
var IncrementFields = []Field{FieldDate, FieldYear, FieldMonth, FieldNumber, FieldRunningNumber}

// Incrementer propagates a volume number from a reference issue across a batch.
type Incrementer struct {
	reader     AggregateReader
	writer     VolumeWriter
	comparator *Comparator
	logger     *slog.Logger
}

// NewIncrementer creates an Incrementer. The priorities are used to pick the
// first issue when no reference is given.
func NewIncrementer(reader AggregateReader, writer VolumeWriter, priorities Priorities, logger *slog.Logger) *Incrementer {
	return &Incrementer{
		reader:     reader,
		writer:     writer,
		comparator: NewComparator(reader, priorities, logger),
		logger:     logger,
	}
}

/*
Increment assigns volumes to every issue of batch relative to the reference
issue, which receives start.

The reference is read along with the batch even if the batch filter excludes
it, but it must belong to a series the batch is restricted to. A referenceID of 0 selects the chronologically first issue of the batch.
The assignment is validated before anything is written: a computed volume below
1 aborts the operation. Unless [DryRun] is given, the assignment is written in a
single transaction.

Parameters:
  - ctx: context.Context
  - batch: Batch (issues to label)
  - referenceID: int64 (0 = first issue in chronological order)
  - start: int (volume of the reference issue)
  - opts: ...IncrementOption

Returns:
  - Assignment: volume to issue IDs; issues without usable facts are absent
  - error: [ErrReferenceNotFound], [ErrInvalidVolume] or a store error
*/
func (incrementer *Incrementer) Increment(ctx context.Context, batch Batch, referenceID int64, start int, opts ...IncrementOption) (Assignment, error) {
	var options IncrementOptions
	for _, opt := range opts {
		opt(&options)
	}

	fields := IncrementFields
	read := batch
	if referenceID == 0 {
		fields = append(slices.Clone(IncrementFields), FieldSeriesName, FieldSpecial)
		for _, field := range incrementer.comparator.priorities.Fields() {
			if !slices.Contains(fields, field) {
				fields = append(fields, field)
			}
		}
	} else {
		read = batch.Including(referenceID)
		if batch.SeriesIDs != nil {
			fields = append(slices.Clone(IncrementFields), FieldSeries)
		}
	}

	values, err := incrementer.reader.Fetch(ctx, read, fields)
	if err != nil {
		return nil, err
	}

	if referenceID == 0 {
		first, ok := incrementer.firstChronological(batch, values)
		if !ok {
			return Assignment{}, nil
		}
		referenceID = first
	}
	reference, ok := values[referenceID]
	if !ok || !inSeries(batch, reference) {
		return nil, referenceNotFound(referenceID)
	}

	assignment := Propagate(values, referenceID, start)
	for _, volume := range assignment.Volumes() {
		if volume < 1 {
			return nil, invalidVolume(volume, assignment[volume])
		}
	}

	if options.DryRun {
		incrementer.logger.Info("volume_increment_previewed",
			slog.Int64("reference_id", referenceID),
			slog.Int("start", start),
			slog.Int("assigned", assignment.Len()),
		)
		return assignment, nil
	}

	if err := incrementer.writer.ApplyVolumes(ctx, assignment); err != nil {
		return nil, err
	}

	incrementer.logger.Info("volume_increment_applied",
		slog.Int64("reference_id", referenceID),
		slog.Int("start", start),
		slog.Int("assigned", assignment.Len()),
		slog.Int("volumes", len(assignment)),
	)

	return assignment, nil
}

// inSeries reports whether values belong to one of the series batch is
// restricted to. A batch without a series restriction admits every issue.
func inSeries(batch Batch, values Values) bool {
	if batch.SeriesIDs == nil {
		return true
	}
	for _, id := range values.Ints(FieldSeries) {
		if slices.Contains(batch.SeriesIDs, int64(id)) {
			return true
		}
	}
	return false
}

func (incrementer *Incrementer) firstChronological(batch Batch, values ValuesDict) (int64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	ordered := incrementer.comparator.OrderFromValues(batch.Ordered(), values)
	records := Records(values)
	ordered.Ordering().Sort(records)
	return records[0].ID, true
}

// # Propagation

/*
Propagate computes the volume of every issue in values relative to the
reference issue, which receives start. Each issue is resolved by the first of
three tiers that applies to it:

 1. Date: if the reference has an exact or synthesized date, every issue with
    one is placed by whole 365-day spans from the reference date, leap days
    discounted. Earlier issues count a partial span as a full one.
 2. Number: if the reference has issue numbers (else running numbers) and a
    year, issues with both facts are compared by year and number: an issue
    numbered lower in the following year, or higher in the same year, shares
    the reference's volume.
 3. Year: issues with a year get start plus the year difference.

Issues without usable facts are left out. The reference itself is always
assigned start.
*/
func Propagate(values ValuesDict, referenceID int64, start int) Assignment {
	assignment := Assignment{start: {referenceID}}
	reference := values[referenceID]

	refYear, hasRefYear := 0, false
	refDate, hasRefDate := exactDate(reference)
	if hasRefDate {
		refYear, hasRefYear = refDate.Year(), true
	} else {
		if years := compact(reference.Ints(FieldYear)); len(years) > 0 {
			refYear, hasRefYear = slices.Min(years), true
		}
		refDate, hasRefDate = BuildDate(reference.Ints(FieldYear), reference.Ints(FieldMonth), 1)
	}

	pending := make([]int64, 0, len(values))
	for _, id := range values.IDs() {
		if id != referenceID {
			pending = append(pending, id)
		}
	}

	// Tier 1: dates.
	if hasRefDate {
		pending = slices.DeleteFunc(pending, func(id int64) bool {
			issue := values[id]
			date, ok := exactDate(issue)
			if !ok {
				date, ok = BuildDate(issue.Ints(FieldYear), issue.Ints(FieldMonth), 1)
			}
			if !ok {
				return false
			}
			assignment.add(volumeByDate(refDate, date, start), id)
			return true
		})
	}

	// Tier 2: issue numbers.
	numberField := FieldNumber
	refNumbers := compact(reference.Ints(FieldNumber))
	if len(refNumbers) == 0 {
		numberField = FieldRunningNumber
		refNumbers = compact(reference.Ints(FieldRunningNumber))
	}
	if len(refNumbers) > 0 && hasRefYear {
		refNumber := slices.Min(refNumbers)
		pending = slices.DeleteFunc(pending, func(id int64) bool {
			issue := values[id]
			numbers := compact(issue.Ints(numberField))
			years := compact(issue.Ints(FieldYear))
			if len(numbers) == 0 || len(years) == 0 {
				return false
			}
			year, number := slices.Min(years), slices.Min(numbers)
			if len(distinct(years)) > 1 {
				number = slices.Max(numbers)
			}
			assignment.add(volumeByNumber(refYear, refNumber, year, number, start), id)
			return true
		})
	}

	// Tier 3: years.
	if hasRefYear {
		for _, id := range pending {
			if years := compact(values[id].Ints(FieldYear)); len(years) > 0 {
				assignment.add(start+slices.Min(years)-refYear, id)
			}
		}
	}

	return assignment
}

func exactDate(values Values) (time.Time, bool) {
	dates := values.Dates(FieldDate)
	if len(dates) == 0 {
		return time.Time{}, false
	}
	return dates[len(dates)-1], true
}

func volumeByDate(reference, date time.Time, start int) int {
	if date.Before(reference) {
		days := DaysBetween(date, reference) - LeapDays(date, reference) - 1
		return start - 1 - days/365
	}
	days := DaysBetween(reference, date) - LeapDays(reference, date)
	return start + days/365
}

func volumeByNumber(refYear, refNumber, year, number, start int) int {
	switch {
	case number > refNumber && year == refYear,
		number < refNumber && year == refYear+1:
		return start
	case number < refNumber:
		return start + year - refYear - 1
	default:
		return start + year - refYear
	}
}
