// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical_test

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Actionb/MIZDB-sub002/internal/core/periodical"
	"github.com/Actionb/MIZDB-sub002/internal/platform/apperr"
)

func newSQLiteService(t *testing.T) (*periodical.Service, *sql.DB) {
	t.Helper()
	repository, db := openSQLite(t)
	return periodical.NewService(repository, discardLogger()), db
}

func listedIDs(listing *periodical.Listing) []int64 {
	ids := make([]int64, len(listing.Issues))
	for i, issue := range listing.Issues {
		ids[i] = issue.ID
	}
	return ids
}

func TestService_ListChronological(t *testing.T) {
	service, _ := newSQLiteService(t)

	listing, err := service.ListChronological(t.Context(), 1, periodical.IssueFilter{}, 0, 0)
	require.NoError(t, err)
	assert.True(t, listing.Chronological)
	assert.Equal(t, 10, listing.Total)
	assert.Equal(t, []int64{9, 8, 1, 2, 3, 4, 5, 6, 7, 10}, listedIDs(listing))

	listing, err = service.ListChronological(t.Context(), 1, periodical.IssueFilter{IDs: []int64{7, 9, 11}}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 7}, listedIDs(listing), "issues of other series are filtered out")
}

func TestService_ListChronologicalExtraKeys(t *testing.T) {
	service, _ := newSQLiteService(t)

	listing, err := service.ListChronological(t.Context(), 1, periodical.IssueFilter{
		Order: []periodical.OrderKey{periodical.Desc(periodical.KeyYear)},
	}, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, periodical.Desc(periodical.KeyYear), listing.Ordering[0])
	assert.Equal(t, []int64{7, 5, 6, 2, 3, 4, 1, 8, 9, 10}, listedIDs(listing))
}

func TestService_ListChronologicalUnknownSeries(t *testing.T) {
	service, _ := newSQLiteService(t)

	_, err := service.ListChronological(t.Context(), 99, periodical.IssueFilter{}, 0, 0)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

func TestService_PropagateVolumeValidation(t *testing.T) {
	service, _ := newSQLiteService(t)

	tests := []struct {
		name  string
		input periodical.VolumeInput
		field string
	}{
		{"negative_volume", periodical.VolumeInput{ReferenceID: 3, Volume: -1}, periodical.FieldNameVolume},
		{"negative_reference", periodical.VolumeInput{ReferenceID: -3, Volume: 1}, periodical.FieldNameReferenceID},
		{"empty_selection", periodical.VolumeInput{ReferenceID: 3, Volume: 1, IssueIDs: []int64{}}, periodical.FieldNameIssueIDs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.PropagateVolume(t.Context(), 1, tt.input)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			require.Len(t, appErr.Details, 1)
			assert.Equal(t, tt.field, appErr.Details[0].Field)
		})
	}
}

/*
TestService_PropagateVolume writes volumes for the series and then clears a
selection of them again with volume 0.
*/
func TestService_PropagateVolume(t *testing.T) {
	service, db := newSQLiteService(t)

	assignment, err := service.PropagateVolume(t.Context(), 1, periodical.VolumeInput{ReferenceID: 3, Volume: 10})
	require.NoError(t, err)
	assert.Equal(t, 9, assignment.Len())
	assert.Equal(t, 12, *volumeOf(t, db, 7))

	preview, err := service.PropagateVolume(t.Context(), 1, periodical.VolumeInput{Volume: 0, IssueIDs: []int64{7}, DryRun: true})
	require.NoError(t, err)
	assert.Empty(t, preview)
	assert.NotNil(t, volumeOf(t, db, 7), "dry run leaves volumes alone")

	cleared, err := service.PropagateVolume(t.Context(), 1, periodical.VolumeInput{Volume: 0, IssueIDs: []int64{6, 7}})
	require.NoError(t, err)
	assert.Empty(t, cleared)
	assert.Nil(t, volumeOf(t, db, 6))
	assert.Nil(t, volumeOf(t, db, 7))
	assert.Equal(t, 10, *volumeOf(t, db, 5))
}

func TestService_PropagateVolumeFirstIssue(t *testing.T) {
	service, db := newSQLiteService(t)

	assignment, err := service.PropagateVolume(t.Context(), 1, periodical.VolumeInput{Volume: 1, IssueIDs: []int64{1, 3, 6}})
	require.NoError(t, err)
	assert.Equal(t, periodical.Assignment{1: {1}, 2: {3}, 3: {6}}, assignment)
	assert.Nil(t, volumeOf(t, db, 2), "issues outside the selection are untouched")
}

func TestService_PropagateVolumeErrors(t *testing.T) {
	service, db := newSQLiteService(t)

	_, err := service.PropagateVolume(t.Context(), 99, periodical.VolumeInput{ReferenceID: 3, Volume: 1})
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	_, err = service.PropagateVolume(t.Context(), 1, periodical.VolumeInput{ReferenceID: 3, Volume: 2})
	assert.ErrorIs(t, err, periodical.ErrInvalidVolume)
	assert.Nil(t, volumeOf(t, db, 3), "nothing is written when a volume is invalid")
}

func TestService_Months(t *testing.T) {
	service, _ := newSQLiteService(t)

	months, err := service.Months(t.Context())
	require.NoError(t, err)
	assert.Len(t, months, 12)
}
