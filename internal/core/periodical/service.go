// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical

import (
	"context"
	"log/slog"

	"github.com/Actionb/MIZDB-sub002/internal/platform/validate"
)

const (
	FieldNameReferenceID = "reference_id"
	FieldNameVolume      = "volume"
	FieldNameIssueIDs    = "issue_ids"
	FieldNameOrder       = "order"
)

// # Service Layer

// IssueFilter narrows a series listing.
type IssueFilter struct {
	// IDs restricts the listing to these issues when non-nil.
	IDs []int64
	// Order holds keys taking precedence over the chronological ones.
	Order []OrderKey
}

// Listing is one page of a chronologically ordered series.
type Listing struct {
	Issues        []*Issue `json:"issues"`
	Total         int      `json:"total"`
	Ordering      Ordering `json:"ordering"`
	Chronological bool     `json:"chronological"`
}

// VolumeInput describes a volume propagation request.
type VolumeInput struct {
	ReferenceID int64
	Volume      int
	IssueIDs    []int64
	DryRun      bool
}

// Service orchestrates ordering and volume propagation for series.
type Service struct {
	issueRepo   IssueRepository
	comparator  *Comparator
	incrementer *Incrementer
	logger      *slog.Logger
}

// NewService constructs a new [Service] using the default priorities.
func NewService(issueRepo IssueRepository, logger *slog.Logger) *Service {
	return NewServiceWithPriorities(issueRepo, DefaultPriorities, logger)
}

// NewServiceWithPriorities constructs a [Service] with custom sort priorities.
func NewServiceWithPriorities(issueRepo IssueRepository, priorities Priorities, logger *slog.Logger) *Service {
	return &Service{
		issueRepo:   issueRepo,
		comparator:  NewComparator(issueRepo, priorities, logger),
		incrementer: NewIncrementer(issueRepo, issueRepo, priorities, logger),
		logger:      logger,
	}
}

// # Series Operations

// seriesBatch returns the batch of a series, narrowed to ids when given.
func seriesBatch(seriesID int64, ids []int64) Batch {
	batch := ForSeries(seriesID)
	if ids != nil {
		batch = batch.Restrict(ids...)
	}
	return batch
}

/*
ListChronological returns one page of a series in chronological order.

Parameters:
  - context: context.Context
  - seriesID: int64
  - filter: IssueFilter
  - limit: int
  - offset: int

Returns:
  - *Listing: The page with the ordering that produced it
  - error: apperr.NotFound for unknown series, storage failures
*/
func (service *Service) ListChronological(context context.Context, seriesID int64, filter IssueFilter, limit, offset int) (*Listing, error) {
	if _, err := service.issueRepo.FindSeries(context, seriesID); err != nil {
		return nil, err
	}

	ordered, err := service.comparator.ChronologicalOrder(context, seriesBatch(seriesID, filter.IDs).Ordered(), filter.Order...)
	if err != nil {
		return nil, err
	}

	issues, total, err := service.issueRepo.List(context, ordered, limit, offset)
	if err != nil {
		return nil, err
	}

	return &Listing{
		Issues:        issues,
		Total:         total,
		Ordering:      ordered.Ordering(),
		Chronological: ordered.IsChronological(),
	}, nil
}

// ChronologicalOrder exposes the comparator for callers holding their own batch.
func (service *Service) ChronologicalOrder(context context.Context, ob OrderedBatch, extra ...OrderKey) (OrderedBatch, error) {
	return service.comparator.ChronologicalOrder(context, ob, extra...)
}

/*
PropagateVolume labels the issues of a series with volumes relative to a
reference issue.

A volume of 0 clears the volumes of the selected issues instead.

Parameters:
  - context: context.Context
  - seriesID: int64
  - input: VolumeInput

Returns:
  - Assignment: The computed (and, unless DryRun, written) volumes
  - error: Validation, apperr.NotFound, [ErrInvalidVolume] or storage errors
*/
func (service *Service) PropagateVolume(context context.Context, seriesID int64, input VolumeInput) (Assignment, error) {
	validator := &validate.Validator{}
	validator.Min(FieldNameVolume, input.Volume, 0)
	validator.Min(FieldNameReferenceID, int(input.ReferenceID), 0)
	validator.Custom(FieldNameIssueIDs, input.IssueIDs != nil && len(input.IssueIDs) == 0, "Must not be empty when given")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.issueRepo.FindSeries(context, seriesID); err != nil {
		return nil, err
	}

	batch := seriesBatch(seriesID, input.IssueIDs)

	if input.Volume == 0 {
		if input.DryRun {
			return Assignment{}, nil
		}
		if err := service.issueRepo.ClearVolumes(context, batch); err != nil {
			return nil, err
		}
		service.logger.Info("volumes_cleared",
			slog.Int64("series_id", seriesID),
			slog.String("batch", batch.String()),
		)
		return Assignment{}, nil
	}

	var opts []IncrementOption
	if input.DryRun {
		opts = append(opts, DryRun())
	}
	return service.incrementer.Increment(context, batch, input.ReferenceID, input.Volume, opts...)
}

// Months returns the month reference data.
func (service *Service) Months(context context.Context) ([]*Month, error) {
	return service.issueRepo.ListMonths(context)
}
