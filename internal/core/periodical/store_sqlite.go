// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Actionb/MIZDB-sub002/internal/platform/apperr"
	"github.com/Actionb/MIZDB-sub002/internal/platform/dberr"
)

// # SQLite Repository

// dateLayout is the TEXT representation of issue dates in SQLite.
const dateLayout = "2006-01-02"

// sqliteRepository implements [IssueRepository] on an embedded SQLite file.
type sqliteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository constructs a SQLite backed issue store. db must be
// opened with the "sqlite" driver and migrated.
func NewSQLiteRepository(db *sql.DB) IssueRepository {
	return &sqliteRepository{db: db}
}

// Fetch answers an aggregated read with a single joined query.
func (repository *sqliteRepository) Fetch(context context.Context, batch Batch, fields []Field, opts ...FetchOption) (ValuesDict, error) {
	if batch.MatchesNothing() {
		return ValuesDict{}, nil
	}

	builder := newQueryBuilder(dialectSQLite)
	query, err := builder.fetchQuery(batch, fields)
	if err != nil {
		return nil, err
	}

	rows, err := repository.db.QueryContext(context, query, builder.args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to fetch issue values: %w", err)
	}
	defer rows.Close()

	var raw [][]any
	for rows.Next() {
		row := make([]any, len(fields)+1)
		targets := make([]any, len(row))
		for i := range row {
			targets[i] = &row[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("sqlite: failed to read issue values: %w", err)
		}
		for position, field := range fields {
			value, err := decodeSQLiteValue(field, row[position+1])
			if err != nil {
				return nil, err
			}
			row[position+1] = value
		}
		raw = append(raw, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: issue values iteration failed: %w", err)
	}

	return Collect(raw, fields, ResolveFetchOptions(opts...))
}

// decodeSQLiteValue restores the types SQLite does not keep: dates are
// stored as TEXT and booleans as INTEGER.
func decodeSQLiteValue(field Field, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch field {
	case FieldDate:
		text, ok := value.(string)
		if !ok {
			if b, isBytes := value.([]byte); isBytes {
				text, ok = string(b), true
			}
		}
		if !ok {
			return value, nil
		}
		date, err := parseSQLiteDate(text)
		if err != nil {
			return nil, err
		}
		return date, nil
	case FieldSpecial:
		if n, ok := toInt64(value); ok {
			return n != 0, nil
		}
	}
	return value, nil
}

func parseSQLiteDate(text string) (time.Time, error) {
	if len(text) > len(dateLayout) {
		text = text[:len(dateLayout)]
	}
	date, err := time.Parse(dateLayout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: invalid issue date %q: %w", text, err)
	}
	return date, nil
}

// List returns one page of issues in the order of ob.
func (repository *sqliteRepository) List(context context.Context, ob OrderedBatch, limit, offset int) ([]*Issue, int, error) {
	if ob.batch.MatchesNothing() {
		return []*Issue{}, 0, nil
	}

	builder := newQueryBuilder(dialectSQLite)
	query, err := builder.listQuery(ob, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	rows, err := repository.db.QueryContext(context, query, builder.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: failed to list issues: %w", err)
	}
	defer rows.Close()

	issues := []*Issue{}
	var totalCount int

	for rows.Next() {
		var issue Issue
		var date, description sql.NullString
		err := rows.Scan(
			&issue.ID,
			&issue.SeriesID,
			&issue.SeriesName,
			&date,
			&issue.Volume,
			&issue.Special,
			&description,
			&issue.Year,
			&issue.Month,
			&issue.Number,
			&issue.RunningNumber,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: failed to scan issue: %w", err)
		}
		if date.Valid {
			parsed, err := parseSQLiteDate(date.String)
			if err != nil {
				return nil, 0, err
			}
			issue.Date = &parsed
		}
		issue.Description = description.String
		issues = append(issues, &issue)
	}

	return issues, totalCount, rows.Err()
}

// ApplyVolumes writes an assignment with one UPDATE per volume inside a
// single transaction.
func (repository *sqliteRepository) ApplyVolumes(context context.Context, assignment Assignment) error {
	transaction, err := repository.db.BeginTx(context, nil)
	if err != nil {
		return fmt.Errorf("sqlite: failed to begin transaction: %w", err)
	}
	defer transaction.Rollback()

	for _, volume := range assignment.Volumes() {
		builder := newQueryBuilder(dialectSQLite)
		query := builder.setVolumeQuery(volume, assignment[volume])
		if _, err := transaction.ExecContext(context, query, builder.args...); err != nil {
			return fmt.Errorf("sqlite: failed to set volume %d: %w", volume, err)
		}
	}

	return transaction.Commit()
}

// ClearVolumes unsets the volume of every issue in batch.
func (repository *sqliteRepository) ClearVolumes(context context.Context, batch Batch) error {
	if batch.MatchesNothing() {
		return nil
	}

	builder := newQueryBuilder(dialectSQLite)
	if _, err := repository.db.ExecContext(context, builder.clearVolumeQuery(batch), builder.args...); err != nil {
		return fmt.Errorf("sqlite: failed to clear volumes: %w", err)
	}
	return nil
}

// FindSeries returns the series with the given ID.
func (repository *sqliteRepository) FindSeries(context context.Context, id int64) (*Series, error) {
	builder := newQueryBuilder(dialectSQLite)
	var series Series
	err := repository.db.QueryRowContext(context, seriesQuery(builder, id), builder.args...).Scan(&series.ID, &series.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Series")
		}
		return nil, dberr.Wrap(err, "find_series")
	}
	return &series, nil
}

// ListMonths returns the month reference data ordered by ordinal.
func (repository *sqliteRepository) ListMonths(context context.Context) ([]*Month, error) {
	rows, err := repository.db.QueryContext(context, monthsQuery())
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to list months: %w", err)
	}
	defer rows.Close()

	months := []*Month{}
	for rows.Next() {
		var month Month
		if err := rows.Scan(&month.ID, &month.Name, &month.Abbreviation, &month.Ordinal); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan month: %w", err)
		}
		months = append(months, &month)
	}
	return months, rows.Err()
}
