// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical

import "context"

// # Issue Data Access

// IssueRepository is the data access contract of the archive subsystem.
//
// Create/update/delete of issues and their facts belong to the surrounding
// catalogue; the repository only reads sort facts and writes volumes.
type IssueRepository interface {
	AggregateReader
	VolumeWriter

	/*
		List returns one page of issues in the ordering of ob, annotated with
		their sort facts.

		Parameters:
		  - ctx: context.Context
		  - ob: OrderedBatch
		  - limit: int
		  - offset: int

		Returns:
		  - []*Issue: The page
		  - int: Total matching issues
		  - error: Storage failures
	*/
	List(ctx context.Context, ob OrderedBatch, limit, offset int) ([]*Issue, int, error)

	/*
		FindSeries returns the series with the given ID.

		Returns:
		  - *Series: The series
		  - error: apperr.NotFound if missing
	*/
	FindSeries(ctx context.Context, id int64) (*Series, error)

	// ListMonths returns the month reference data ordered by ordinal.
	ListMonths(ctx context.Context) ([]*Month, error)
}
