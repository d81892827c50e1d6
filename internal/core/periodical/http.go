// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/Actionb/MIZDB-sub002/internal/platform/request"
	"github.com/Actionb/MIZDB-sub002/internal/platform/respond"
	"github.com/Actionb/MIZDB-sub002/internal/platform/validate"
	"github.com/Actionb/MIZDB-sub002/pkg/pagination"
	"github.com/Actionb/MIZDB-sub002/pkg/query"
)

// # Handler Implementation

// Handler implements the HTTP layer of the periodicals archive.
type Handler struct {
	service *Service
}

// NewHandler constructs a new periodical [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the series endpoints to the API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/months", handler.ListMonths)
	api.Get("/series/{seriesID}/issues", handler.ListIssues)
	api.Post("/series/{seriesID}/volumes", handler.PropagateVolume)
}

// issueListMeta extends the pagination block with the applied ordering.
type issueListMeta struct {
	pagination.Meta
	Ordering      []string `json:"ordering"`
	Chronological bool     `json:"chronological"`
}

/*
GET /api/v1/series/{seriesID}/issues.

Description: Returns a page of the series' issues in chronological order.

Request:
  - seriesID: int64
  - ids: string (Comma separated issue IDs)
  - order: string (Comma separated keys taking precedence, e.g. "-volume,id")
  - limit: int
  - page: int

Response:
  - 200: []Issue: Paginated list with the applied ordering
  - 400: ErrValidation: Malformed ID or ordering key
  - 404: ErrNotFound: Series not found
*/
func (handler *Handler) ListIssues(writer http.ResponseWriter, request *http.Request) {
	seriesID, err := requestutil.Int64Param(request, "seriesID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := request.URL.Query()
	var filter IssueFilter

	if raw := params.Get("ids"); raw != "" {
		ids, ok := query.Int64Slice(query.StringSlice(raw))
		if !ok {
			respond.Error(writer, request, validate.RequiredError("ids", "Must be a comma separated list of integers"))
			return
		}
		filter.IDs = ids
	}

	if raw := params.Get(FieldNameOrder); raw != "" {
		ordering, err := ParseOrdering(query.StringSlice(raw))
		if err != nil {
			respond.Error(writer, request, validate.RequiredError(FieldNameOrder, err.Error()))
			return
		}
		filter.Order = ordering
	}

	paginationParams := pagination.FromRequest(request)

	listing, err := handler.service.ListChronological(request.Context(), seriesID, filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listing.Issues, issueListMeta{
		Meta:          pagination.NewMeta(paginationParams.Page, paginationParams.Limit, listing.Total),
		Ordering:      listing.Ordering.Strings(),
		Chronological: listing.Chronological,
	})
}

// propagateVolumeRequest defines the inbound JSON schema of a volume run.
type propagateVolumeRequest struct {
	ReferenceID int64   `json:"reference_id"`
	Volume      int     `json:"volume"`
	IssueIDs    []int64 `json:"issue_ids"`
	DryRun      bool    `json:"dry_run"`
}

// volumeResponse is the body of a volume run.
type volumeResponse struct {
	Volumes map[int][]int64 `json:"volumes"`
	Applied bool            `json:"applied"`
}

/*
POST /api/v1/series/{seriesID}/volumes.

Description: Propagates a volume from a reference issue across the series or
the given issues. A volume of 0 clears the volumes.

Request:
  - seriesID: int64
  - body: propagateVolumeRequest

Response:
  - 200: volumeResponse: Volume to issue IDs
  - 400: ErrInvalidJSON/Validation: Invalid payload
  - 404: ErrNotFound: Series or reference issue not found
  - 422: ErrUnprocessable: A volume below 1 would be assigned
*/
func (handler *Handler) PropagateVolume(writer http.ResponseWriter, request *http.Request) {
	seriesID, err := requestutil.Int64Param(request, "seriesID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input propagateVolumeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	assignment, err := handler.service.PropagateVolume(request.Context(), seriesID, VolumeInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, volumeResponse{
		Volumes: assignment,
		Applied: !input.DryRun,
	})
}

// ListMonths handles GET /api/v1/months.
func (handler *Handler) ListMonths(writer http.ResponseWriter, request *http.Request) {
	months, err := handler.service.Months(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, months)
}
