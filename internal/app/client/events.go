package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
)

// EventsAPI wraps /api/events
type EventsAPI struct {
	*Resource[models.Event]
}

// NewEventsAPI creates the events client
func NewEventsAPI(c *Client) *EventsAPI {
	return &EventsAPI{Resource: NewResource[models.Event](c, "/api/events", "event")}
}

type eventQuery dto.EventQuery

func (q eventQuery) values() url.Values {
	v := url.Values{}
	if q.Community != "" {
		v.Set("community", q.Community)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.TimeFilter != "" {
		v.Set("timeFilter", string(q.TimeFilter))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// Query lists events visible to the current user
func (a *EventsAPI) Query(ctx context.Context, q dto.EventQuery) (models.EventsResponse, error) {
	return a.listing(ctx, a.base, eventQuery(q).values())
}

// QueryAll lists every event (admin)
func (a *EventsAPI) QueryAll(ctx context.Context, q dto.EventQuery) (models.EventsResponse, error) {
	q.Community = ""
	return a.listing(ctx, a.Path("all"), eventQuery(q).values())
}

// listing decodes an events envelope. A body without an events array is a
// data-shape error carrying an empty, usable result.
func (a *EventsAPI) listing(ctx context.Context, path string, query url.Values) (models.EventsResponse, error) {
	op := http.MethodGet + " " + path
	resp, err := a.c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return models.EventsResponse{Events: []models.Event{}}, err
	}

	var envelope struct {
		Events     json.RawMessage        `json:"events"`
		Pagination models.EventPagination `json:"pagination"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return models.EventsResponse{Events: []models.Event{}}, apperrors.NewDataShapeError(op, "Invalid API response structure")
	}
	if len(envelope.Events) == 0 || bytes.Equal(bytes.TrimSpace(envelope.Events), []byte("null")) {
		return models.EventsResponse{Events: []models.Event{}}, apperrors.NewDataShapeError(op, "Invalid API response structure")
	}

	out := models.EventsResponse{Pagination: envelope.Pagination}
	if err := json.Unmarshal(envelope.Events, &out.Events); err != nil {
		return models.EventsResponse{Events: []models.Event{}}, apperrors.NewDataShapeError(op, "Invalid API response structure")
	}
	if out.Events == nil {
		out.Events = []models.Event{}
	}
	return out, nil
}

// CreateEvent posts a new event
func (a *EventsAPI) CreateEvent(ctx context.Context, payload dto.EventPayload) (models.Event, error) {
	return a.Create(ctx, payload)
}

// UpdateEvent puts changes to an event
func (a *EventsAPI) UpdateEvent(ctx context.Context, id string, payload dto.EventPayload) (models.Event, error) {
	return a.Update(ctx, id, payload)
}

// UploadImage stores an event cover and returns its URL
func (a *EventsAPI) UploadImage(ctx context.Context, image File) (dto.ImageUploadResponse, error) {
	var out dto.ImageUploadResponse
	err := a.c.Upload(ctx, http.MethodPost, a.Path("upload-image"), nil, image, &out)
	return out, err
}

// Stats returns event statistics (admin)
func (a *EventsAPI) Stats(ctx context.Context) (models.EventStats, error) {
	var out models.EventStats
	err := a.c.Get(ctx, a.Path("stats"), nil, &out)
	return out, err
}

// Enroll registers the current user for an event
func (a *EventsAPI) Enroll(ctx context.Context, id string) (dto.EnrollResponse, error) {
	var out dto.EnrollResponse
	err := a.c.Post(ctx, a.Path(id, "enroll"), nil, &out)
	return out, err
}

// Unenroll withdraws the current user from an event
func (a *EventsAPI) Unenroll(ctx context.Context, id string) (dto.EnrollResponse, error) {
	var out dto.EnrollResponse
	err := a.c.Delete(ctx, a.Path(id, "enroll"), &out)
	return out, err
}

// Mine lists the events the current user is enrolled in
func (a *EventsAPI) Mine(ctx context.Context, filter models.TimeStatus) ([]models.Event, error) {
	var query url.Values
	if filter != "" {
		query = url.Values{"timeFilter": {string(filter)}}
	}
	var out []models.Event
	if err := a.c.Get(ctx, a.Path("my", "enrolled"), query, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Event{}
	}
	return out, nil
}
