// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Actionb/MIZDB-sub002/internal/platform/apperr"
	"github.com/Actionb/MIZDB-sub002/internal/platform/dberr"
)

// # PostgreSQL Repository

// postgresRepository implements [IssueRepository] using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed issue store.
func NewPostgresRepository(pool *pgxpool.Pool) IssueRepository {
	return &postgresRepository{pool: pool}
}

/*
Fetch answers an aggregated read with a single joined query.

Parameters:
  - context: context.Context
  - batch: Batch
  - fields: []Field
  - opts: ...FetchOption

Returns:
  - ValuesDict: One entry per matched issue
  - error: Unknown field or query failure
*/
func (repository *postgresRepository) Fetch(context context.Context, batch Batch, fields []Field, opts ...FetchOption) (ValuesDict, error) {
	if batch.MatchesNothing() {
		return ValuesDict{}, nil
	}

	builder := newQueryBuilder(dialectPostgres)
	query, err := builder.fetchQuery(batch, fields)
	if err != nil {
		return nil, err
	}

	rows, err := repository.pool.Query(context, query, builder.args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to fetch issue values: %w", err)
	}
	defer rows.Close()

	var raw [][]any
	for rows.Next() {
		row, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to read issue values: %w", err)
		}
		raw = append(raw, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: issue values iteration failed: %w", err)
	}

	return Collect(raw, fields, ResolveFetchOptions(opts...))
}

// List returns one page of issues in the order of ob.
func (repository *postgresRepository) List(context context.Context, ob OrderedBatch, limit, offset int) ([]*Issue, int, error) {
	if ob.batch.MatchesNothing() {
		return []*Issue{}, 0, nil
	}

	builder := newQueryBuilder(dialectPostgres)
	query, err := builder.listQuery(ob, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	rows, err := repository.pool.Query(context, query, builder.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list issues: %w", err)
	}
	defer rows.Close()

	issues := []*Issue{}
	var totalCount int

	for rows.Next() {
		var issue Issue
		var description *string
		err := rows.Scan(
			&issue.ID,
			&issue.SeriesID,
			&issue.SeriesName,
			&issue.Date,
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
			return nil, 0, fmt.Errorf("postgres: failed to scan issue: %w", err)
		}
		if description != nil {
			issue.Description = *description
		}
		issues = append(issues, &issue)
	}

	return issues, totalCount, rows.Err()
}

/*
ApplyVolumes writes an assignment with one UPDATE per volume.

All updates run inside one transaction; the deferred rollback discards any
partial write when a statement fails.
*/
func (repository *postgresRepository) ApplyVolumes(context context.Context, assignment Assignment) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer transaction.Rollback(context)

	for _, volume := range assignment.Volumes() {
		builder := newQueryBuilder(dialectPostgres)
		query := builder.setVolumeQuery(volume, assignment[volume])
		if _, err := transaction.Exec(context, query, builder.args...); err != nil {
			return fmt.Errorf("postgres: failed to set volume %d: %w", volume, err)
		}
	}

	return transaction.Commit(context)
}

// ClearVolumes unsets the volume of every issue in batch.
func (repository *postgresRepository) ClearVolumes(context context.Context, batch Batch) error {
	if batch.MatchesNothing() {
		return nil
	}

	builder := newQueryBuilder(dialectPostgres)
	if _, err := repository.pool.Exec(context, builder.clearVolumeQuery(batch), builder.args...); err != nil {
		return fmt.Errorf("postgres: failed to clear volumes: %w", err)
	}
	return nil
}

// FindSeries returns the series with the given ID.
func (repository *postgresRepository) FindSeries(context context.Context, id int64) (*Series, error) {
	builder := newQueryBuilder(dialectPostgres)
	var series Series
	err := repository.pool.QueryRow(context, seriesQuery(builder, id), builder.args...).Scan(&series.ID, &series.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Series")
		}
		return nil, dberr.Wrap(err, "find_series")
	}
	return &series, nil
}

// ListMonths returns the month reference data ordered by ordinal.
func (repository *postgresRepository) ListMonths(context context.Context) ([]*Month, error) {
	rows, err := repository.pool.Query(context, monthsQuery())
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list months: %w", err)
	}
	defer rows.Close()

	months := []*Month{}
	for rows.Next() {
		var month Month
		if err := rows.Scan(&month.ID, &month.Name, &month.Abbreviation, &month.Ordinal); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan month: %w", err)
		}
		months = append(months, &month)
	}
	return months, rows.Err()
}
